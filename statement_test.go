package bankledger

import (
	"context"
	"errors"
	"testing"
	"time"
)

// setupStatement builds an account with a known history:
//
//	Mar 1  deposit 1000
//	Mar 3  withdraw 200
//	Mar 4  transfer 300 out
//	Mar 6  deposit 50
func setupStatement(t *testing.T, l *Ledger) (owner, accountID, otherID string) {
	t.Helper()
	ctx := context.Background()
	owner, accountID = seedCustomer(t, l, USD(0))
	other, err := l.OpenAccount(ctx, owner, Savings, "USD")
	if err != nil {
		t.Fatalf("OpenAccount() failed: %v", err)
	}

	at := func(day int) {
		when := time.Date(2026, time.March, day, 10, 0, 0, 0, time.UTC)
		l.now = func() time.Time { return when }
	}
	at(1)
	if _, err := l.Deposit(ctx, owner, accountID, USD(1000), "payroll"); err != nil {
		t.Fatalf("Deposit() failed: %v", err)
	}
	at(3)
	if _, err := l.Withdraw(ctx, owner, accountID, USD(200), "groceries"); err != nil {
		t.Fatalf("Withdraw() failed: %v", err)
	}
	at(4)
	if _, err := l.Transfer(ctx, owner, accountID, other.ID, USD(300), "to savings"); err != nil {
		t.Fatalf("Transfer() failed: %v", err)
	}
	at(6)
	if _, err := l.Deposit(ctx, owner, accountID, USD(50), "refund"); err != nil {
		t.Fatalf("Deposit() failed: %v", err)
	}
	return owner, accountID, other.ID
}

func TestStatement(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()
	owner, accountID, otherID := setupStatement(t, l)

	st, err := l.Statement(ctx, owner, accountID, NewDate(2026, time.March, 2), NewDate(2026, time.March, 5))
	if err != nil {
		t.Fatalf("Statement() failed: %v", err)
	}
	// The Mar 1 deposit predates the period and lands in the opening balance;
	// the Mar 6 deposit is past the period and does not show at all.
	if !st.Opening.Equal(USD(1000)) {
		t.Errorf("opening = %s, want %s", st.Opening, USD(1000))
	}
	if !st.Closing.Equal(USD(500)) {
		t.Errorf("closing = %s, want %s", st.Closing, USD(500))
	}
	if !st.TotalIn.Equal(USD(0)) || !st.TotalOut.Equal(USD(500)) {
		t.Errorf("totals in=%s out=%s, want 0 and 500", st.TotalIn, st.TotalOut)
	}
	if len(st.Lines) != 2 {
		t.Fatalf("statement has %d lines, want 2", len(st.Lines))
	}
	withdrawal := st.Lines[0]
	if !withdrawal.Amount.Equal(USD(-200)) || !withdrawal.Balance.Equal(USD(800)) {
		t.Errorf("line 1 amount=%s balance=%s, want -200 and 800", withdrawal.Amount, withdrawal.Balance)
	}
	transfer := st.Lines[1]
	if transfer.Type != TxTransfer || transfer.Counterparty != otherID {
		t.Errorf("line 2 = %+v, want a transfer with counterparty %s", transfer, otherID)
	}
	if !transfer.Balance.Equal(USD(500)) {
		t.Errorf("line 2 balance = %s, want %s", transfer.Balance, USD(500))
	}
}

func TestStatementFullRange(t *testing.T) {
	l, store := newTestLedger()
	ctx := context.Background()
	owner, accountID, _ := setupStatement(t, l)

	st, err := l.Statement(ctx, owner, accountID, NewDate(2026, time.March, 1), NewDate(2026, time.March, 31))
	if err != nil {
		t.Fatalf("Statement() failed: %v", err)
	}
	if !st.Opening.IsZero() {
		t.Errorf("opening = %s, want 0", st.Opening)
	}
	if len(st.Lines) != 4 {
		t.Errorf("statement has %d lines, want 4", len(st.Lines))
	}
	if !st.TotalIn.Equal(USD(1050)) || !st.TotalOut.Equal(USD(500)) {
		t.Errorf("totals in=%s out=%s, want 1050 and 500", st.TotalIn, st.TotalOut)
	}
	// The replayed closing balance must agree with the account record.
	if got := accountBalance(t, store, accountID); !st.Closing.Equal(got) {
		t.Errorf("closing = %s, account balance = %s", st.Closing, got)
	}
}

func TestStatementValidation(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()
	owner, accountID, _ := setupStatement(t, l)
	stranger, err := l.NewUser(ctx, "Mallory", "mallory@example.com", "pw", RoleCustomer)
	if err != nil {
		t.Fatalf("NewUser() failed: %v", err)
	}

	if _, err := l.Statement(ctx, owner, accountID, NewDate(2026, time.March, 10), NewDate(2026, time.March, 5)); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("inverted range error = %v, want ErrInvalidAmount", err)
	}
	if _, err := l.Statement(ctx, stranger.ID, accountID, NewDate(2026, time.March, 1), NewDate(2026, time.March, 31)); !errors.Is(err, ErrInvalidAccount) {
		t.Errorf("foreign statement error = %v, want ErrInvalidAccount", err)
	}
}
