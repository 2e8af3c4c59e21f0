package bankledger

import (
	"encoding/json"
	"testing"
)

func TestMoneyArithmetic(t *testing.T) {
	if got, want := USD(1000).Add(USD(250.50)), USD(1250.50); !got.Equal(want) {
		t.Errorf("Add = %s, want %s", got, want)
	}
	if got, want := USD(1000).Sub(USD(300)), USD(700); !got.Equal(want) {
		t.Errorf("Sub = %s, want %s", got, want)
	}
	if got, want := USD(10).Mul(Q(2.5)), USD(25); !got.Equal(want) {
		t.Errorf("Mul = %s, want %s", got, want)
	}
	// The "" currency is weak and takes the other operand's.
	if got := M(0, "").Add(USD(5)); got.Currency() != "USD" {
		t.Errorf("weak currency Add carries %q, want USD", got.Currency())
	}
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("adding USD and EUR did not panic")
		}
	}()
	USD(1).Add(EUR(1))
}

func TestMoneyRound(t *testing.T) {
	testCases := []struct {
		name   string
		in     string
		places int32
		want   string
	}{
		{name: "half rounds up", in: "1.005", places: 2, want: "1.01"},
		{name: "down", in: "2.674", places: 2, want: "2.67"},
		{name: "negative half away from zero", in: "-1.005", places: 2, want: "-1.01"},
		{name: "whole", in: "10.5", places: 0, want: "11"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in, err := ParseMoney(tc.in, "USD")
			if err != nil {
				t.Fatalf("ParseMoney(%q) failed: %v", tc.in, err)
			}
			want, _ := ParseMoney(tc.want, "USD")
			if got := in.Round(tc.places); !got.Equal(want) {
				t.Errorf("Round(%q, %d) = %s, want %s", tc.in, tc.places, got, want)
			}
		})
	}
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(USD(1250.50))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if want := `{"currency":"USD","amount":1250.5}`; string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var got Money
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !got.Equal(USD(1250.50)) {
		t.Errorf("round trip = %s, want %s", got, USD(1250.50))
	}
}

func TestMoneyJSONRoundsToFraction(t *testing.T) {
	// Persistence trims to the currency's fraction digits: 2 for USD, 0 for
	// JPY. The in-memory value keeps full precision until marshaled.
	in, _ := ParseMoney("10.456", "USD")
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if want := `{"currency":"USD","amount":10.46}`; string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	yen, _ := ParseMoney("10.5", "JPY")
	data, err = json.Marshal(yen)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if want := `{"currency":"JPY","amount":11}`; string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}
