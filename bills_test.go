package bankledger

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBillIsOverdue(t *testing.T) {
	today := NewDate(2026, time.March, 15)

	testCases := []struct {
		name string
		bill Bill
		want bool
	}{
		{name: "pending before due", bill: Bill{Status: BillPending, DueDate: NewDate(2026, time.March, 20)}, want: false},
		{name: "pending on due date", bill: Bill{Status: BillPending, DueDate: today}, want: false},
		{name: "pending past due", bill: Bill{Status: BillPending, DueDate: NewDate(2026, time.March, 10)}, want: true},
		{name: "paid past due", bill: Bill{Status: BillPaid, DueDate: NewDate(2026, time.March, 10)}, want: false},
		{name: "cancelled past due", bill: Bill{Status: BillCancelled, DueDate: NewDate(2026, time.March, 10)}, want: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.bill.IsOverdue(today); got != tc.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tc.want)
			}
		})
	}
}

// setupBill creates a funded customer with a registered biller and one
// pending 120 USD bill.
func setupBill(t *testing.T, l *Ledger) (owner, accountID, billID string) {
	t.Helper()
	ctx := context.Background()
	owner, accountID = seedCustomer(t, l, USD(1000))
	biller, err := l.AddBiller(ctx, owner, "City Power", "utilities", 15)
	if err != nil {
		t.Fatalf("AddBiller() failed: %v", err)
	}
	bill, err := l.AddBill(ctx, owner, biller.ID, USD(120), NewDate(2026, time.March, 15), "March electricity")
	if err != nil {
		t.Fatalf("AddBill() failed: %v", err)
	}
	return owner, accountID, bill.ID
}

func TestPayBill(t *testing.T) {
	l, store := newTestLedger()
	ctx := context.Background()
	owner, accountID, billID := setupBill(t, l)

	rec, err := l.PayBill(ctx, owner, billID, accountID)
	if err != nil {
		t.Fatalf("PayBill() failed: %v", err)
	}
	if rec.Type != TxWithdrawal || !rec.Amount.Equal(USD(120)) {
		t.Errorf("record = %+v, want a 120 USD withdrawal", rec)
	}
	if got, want := accountBalance(t, store, accountID), USD(880); !got.Equal(want) {
		t.Errorf("balance = %s, want %s", got, want)
	}

	err = store.View(ctx, func(tx Tx) error {
		bill, err := tx.Bill(billID)
		if err != nil {
			return err
		}
		if bill.Status != BillPaid {
			t.Errorf("status = %s, want %s", bill.Status, BillPaid)
		}
		if bill.TransactionID != rec.ID {
			t.Errorf("transaction link = %s, want %s", bill.TransactionID, rec.ID)
		}
		if bill.PaidAt.IsZero() {
			t.Error("paid time not stamped")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("reading bill failed: %v", err)
	}

	// A paid bill cannot be paid again.
	if _, err := l.PayBill(ctx, owner, billID, accountID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second PayBill() error = %v, want ErrInvalidTransition", err)
	}
}

func TestPayBillInsufficientFunds(t *testing.T) {
	l, store := newTestLedger()
	ctx := context.Background()
	owner, accountID := seedCustomer(t, l, USD(50))
	biller, err := l.AddBiller(ctx, owner, "City Power", "utilities", 15)
	if err != nil {
		t.Fatalf("AddBiller() failed: %v", err)
	}
	bill, err := l.AddBill(ctx, owner, biller.ID, USD(120), NewDate(2026, time.March, 15), "")
	if err != nil {
		t.Fatalf("AddBill() failed: %v", err)
	}

	if _, err := l.PayBill(ctx, owner, bill.ID, accountID); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("PayBill() error = %v, want ErrInsufficientFunds", err)
	}
	// The failed payment leaves both the bill and the balance untouched.
	if got, want := accountBalance(t, store, accountID), USD(50); !got.Equal(want) {
		t.Errorf("balance = %s, want %s", got, want)
	}
	err = store.View(ctx, func(tx Tx) error {
		got, err := tx.Bill(bill.ID)
		if err != nil {
			return err
		}
		if got.Status != BillPending {
			t.Errorf("status = %s, want %s", got.Status, BillPending)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("reading bill failed: %v", err)
	}
}

func TestPayBillCurrencyMismatch(t *testing.T) {
	l, store := newTestLedger()
	ctx := context.Background()
	owner, accountID := seedCustomer(t, l, USD(1000))
	biller, err := l.AddBiller(ctx, owner, "Euro Telecom", "utilities", 15)
	if err != nil {
		t.Fatalf("AddBiller() failed: %v", err)
	}
	bill, err := l.AddBill(ctx, owner, biller.ID, EUR(120), NewDate(2026, time.March, 15), "")
	if err != nil {
		t.Fatalf("AddBill() failed: %v", err)
	}

	if _, err := l.PayBill(ctx, owner, bill.ID, accountID); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("PayBill() error = %v, want ErrInvalidAmount", err)
	}
	if got, want := accountBalance(t, store, accountID), USD(1000); !got.Equal(want) {
		t.Errorf("balance = %s, want %s", got, want)
	}
}

func TestAddBillerValidation(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()
	owner, _ := seedCustomer(t, l, USD(0))

	for _, dueDay := range []int{0, 32, -5} {
		if _, err := l.AddBiller(ctx, owner, "Bad", "misc", dueDay); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("AddBiller(dueDay=%d) error = %v, want ErrInvalidAmount", dueDay, err)
		}
	}
}
