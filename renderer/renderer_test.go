package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/property360-2/bankledger"
)

func usd(v float64) bankledger.Money { return bankledger.M(v, "USD") }

func TestStatement(t *testing.T) {
	st := &bankledger.Statement{
		Account:  bankledger.Account{Number: "ACC-42", Type: bankledger.Checking},
		From:     bankledger.NewDate(2026, time.March, 1),
		To:       bankledger.NewDate(2026, time.March, 31),
		Opening:  usd(1000),
		Closing:  usd(800),
		TotalIn:  usd(0),
		TotalOut: usd(200),
		Lines: []bankledger.StatementLine{
			{
				Time:        time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC),
				Type:        bankledger.TxWithdrawal,
				Description: "groceries",
				Amount:      usd(-200),
				Balance:     usd(800),
			},
		},
		GeneratedAt: time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC),
	}

	got := Statement(st)
	for _, want := range []string{
		"# Statement ACC-42",
		"Period 2026-03-01 to 2026-03-31",
		"Opening balance",
		"| 2026-03-03 10:00 | withdrawal | groceries |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Statement() misses %q in:\n%s", want, got)
		}
	}
}

func TestStatementNoMovements(t *testing.T) {
	st := &bankledger.Statement{
		Account: bankledger.Account{Number: "ACC-42"},
		Opening: usd(100),
		Closing: usd(100),
	}
	if got := Statement(st); !strings.Contains(got, "No movements") {
		t.Errorf("empty Statement() = %q, want a no-movements note", got)
	}
}

func TestTransaction(t *testing.T) {
	testCases := []struct {
		name string
		rec  bankledger.Transaction
		want string
	}{
		{
			name: "deposit",
			rec:  bankledger.Transaction{Type: bankledger.TxDeposit, To: "a-1", Amount: usd(10)},
			want: "Deposited $10.00 into a-1",
		},
		{
			name: "withdrawal",
			rec:  bankledger.Transaction{Type: bankledger.TxWithdrawal, From: "a-1", Amount: usd(10)},
			want: "Withdrew $10.00 from a-1",
		},
		{
			name: "transfer",
			rec:  bankledger.Transaction{Type: bankledger.TxTransfer, From: "a-1", To: "a-2", Amount: usd(10)},
			want: "Transferred $10.00 from a-1 to a-2",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Transaction(&tc.rec); got != tc.want {
				t.Errorf("Transaction() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAccounts(t *testing.T) {
	accounts := []*bankledger.Account{
		{Number: "ACC-1", Type: bankledger.Checking, Active: true, Balance: usd(100)},
		{Number: "ACC-2", Type: bankledger.Savings, Active: false, Balance: usd(0)},
	}
	got := Accounts(accounts)
	if !strings.Contains(got, "| ACC-1 | checking | X | $100.00 |") {
		t.Errorf("Accounts() misses the active row in:\n%s", got)
	}
	if !strings.Contains(got, "| ACC-2 | savings |   | $0.00 |") {
		t.Errorf("Accounts() misses the inactive row in:\n%s", got)
	}
}
