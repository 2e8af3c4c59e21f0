package bankledger

import (
	"context"
	"fmt"
	"testing"
	"time"
)

// USD is a helper for tests to create US dollar money from a const.
func USD(v float64) Money { return M(v, "USD") }

// EUR is a helper for tests to create euro money from a const.
func EUR(v float64) Money { return M(v, "EUR") }

// PHP is a helper for tests to create Philippine peso money from a const.
func PHP(v float64) Money { return M(v, "PHP") }

// newTestLedger returns a ledger over a fresh in-memory store with
// sequential ids and a clock that advances one minute per call.
func newTestLedger() (*Ledger, *MemStore) {
	store := NewMemStore()
	l := NewLedger(store)
	var seq int
	l.newID = func() string {
		seq++
		return fmt.Sprintf("id-%04d", seq)
	}
	clock := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return l, store
}

// seedCustomer creates a customer with one active USD checking account
// holding the given opening balance.
func seedCustomer(t *testing.T, l *Ledger, balance Money) (userID, accountID string) {
	t.Helper()
	ctx := context.Background()
	user, err := l.NewUser(ctx, "Alice", "alice@example.com", "hunter22", RoleCustomer)
	if err != nil {
		t.Fatalf("NewUser() failed: %v", err)
	}
	account, err := l.OpenAccount(ctx, user.ID, Checking, balance.Currency())
	if err != nil {
		t.Fatalf("OpenAccount() failed: %v", err)
	}
	if balance.IsPositive() {
		if _, err := l.Deposit(ctx, user.ID, account.ID, balance, "opening balance"); err != nil {
			t.Fatalf("Deposit() failed: %v", err)
		}
	}
	return user.ID, account.ID
}

// seedManager creates a staff user with the manager role.
func seedManager(t *testing.T, l *Ledger) string {
	t.Helper()
	user, err := l.NewUser(context.Background(), "Bob", "bob@example.com", "s3cret", RoleManager)
	if err != nil {
		t.Fatalf("NewUser() failed: %v", err)
	}
	return user.ID
}

// accountBalance reads the current balance of a cash account.
func accountBalance(t *testing.T, s Store, accountID string) Money {
	t.Helper()
	var balance Money
	err := s.View(context.Background(), func(tx Tx) error {
		account, err := tx.Account(accountID)
		if err != nil {
			return err
		}
		balance = account.Balance
		return nil
	})
	if err != nil {
		t.Fatalf("reading account %s failed: %v", accountID, err)
	}
	return balance
}

// journal reads all transactions touching a cash account.
func journal(t *testing.T, s Store, accountID string) []*Transaction {
	t.Helper()
	var records []*Transaction
	err := s.View(context.Background(), func(tx Tx) error {
		var err error
		records, err = tx.Transactions(accountID)
		return err
	})
	if err != nil {
		t.Fatalf("reading journal of %s failed: %v", accountID, err)
	}
	return records
}
