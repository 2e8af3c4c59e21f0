package bankledger

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRateTableConvert(t *testing.T) {
	table := NewRateTable()

	testCases := []struct {
		name string
		in   Money
		to   string
		want Money
	}{
		{name: "usd to php", in: USD(10), to: "PHP", want: PHP(565)},
		{name: "usd to usd", in: USD(10), to: "USD", want: USD(10)},
		{name: "php to usd", in: PHP(565), to: "USD", want: USD(10)},
		{name: "stablecoin parity", in: USD(42), to: "USDT", want: M(42, "USDT")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := table.Convert(tc.in, tc.to)
			if err != nil {
				t.Fatalf("Convert(%s, %s) failed: %v", tc.in, tc.to, err)
			}
			// Compare at display precision: an inverted rate carries the
			// division precision of the decimal library.
			if !got.Round(2).Equal(tc.want) {
				t.Errorf("Convert(%s, %s) = %s, want %s", tc.in, tc.to, got, tc.want)
			}
		})
	}
}

func TestRateTableUnknownCurrency(t *testing.T) {
	table := NewRateTable()
	if _, err := table.Rate("USD", "XYZ"); err == nil {
		t.Error("Rate() accepted an unknown currency")
	}
	if _, err := table.Convert(USD(10), "XYZ"); err == nil {
		t.Error("Convert() accepted an unknown currency")
	}
}

func TestRateTableSet(t *testing.T) {
	table := NewRateTable()
	table.Set("EUR", decimal.RequireFromString("0.5"))

	got, err := table.Convert(USD(10), "EUR")
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}
	if want := EUR(5); !got.Equal(want) {
		t.Errorf("Convert() after Set = %s, want %s", got, want)
	}
}

func TestRateTableDisplayFallback(t *testing.T) {
	table := NewRateTable()
	// An unknown target keeps the original currency instead of failing.
	if got := table.Display(USD(10), "XYZ"); got != USD(10).String() {
		t.Errorf("Display() = %q, want %q", got, USD(10).String())
	}
}
