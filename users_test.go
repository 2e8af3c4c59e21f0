package bankledger

import (
	"context"
	"testing"
)

func TestNewUser(t *testing.T) {
	l, store := newTestLedger()
	ctx := context.Background()

	user, err := l.NewUser(ctx, "Alice", "alice@example.com", "hunter22", RoleCustomer)
	if err != nil {
		t.Fatalf("NewUser() failed: %v", err)
	}
	if !user.CheckPassword("hunter22") {
		t.Error("CheckPassword rejects the original password")
	}
	if user.CheckPassword("wrong") {
		t.Error("CheckPassword accepts a wrong password")
	}

	// A fresh user starts with default preferences.
	err = store.View(ctx, func(tx Tx) error {
		prefs, err := tx.Preferences(user.ID)
		if err != nil {
			return err
		}
		if prefs.Currency != "USD" || !prefs.ShowBalance {
			t.Errorf("preferences = %+v, want USD with visible balance", prefs)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("reading preferences failed: %v", err)
	}
}
