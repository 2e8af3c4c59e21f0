package bankledger

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAddProductsRequireStaff(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()
	customer, _ := seedCustomer(t, l, USD(0))

	if _, err := l.AddSavingsProduct(ctx, customer, "Nope", decimal.RequireFromString("1"), CompoundDaily, USD(0), 0); !errors.Is(err, ErrForbidden) {
		t.Errorf("AddSavingsProduct() by customer error = %v, want ErrForbidden", err)
	}
	if _, err := l.AddLoanProduct(ctx, customer, "Nope", "personal", USD(1), USD(2), decimal.Zero, 1, 2); !errors.Is(err, ErrForbidden) {
		t.Errorf("AddLoanProduct() by customer error = %v, want ErrForbidden", err)
	}
	if _, err := l.AddInvestmentProduct(ctx, customer, "NOPE", "Nope", "low", USD(1), USD(1)); !errors.Is(err, ErrForbidden) {
		t.Errorf("AddInvestmentProduct() by customer error = %v, want ErrForbidden", err)
	}
}

func TestAddSavingsProduct(t *testing.T) {
	l, store := newTestLedger()
	ctx := context.Background()
	manager := seedManager(t, l)

	product, err := l.AddSavingsProduct(ctx, manager, "High Yield", decimal.RequireFromString("4.25"), CompoundDaily, USD(100), 3)
	if err != nil {
		t.Fatalf("AddSavingsProduct() failed: %v", err)
	}
	err = store.View(ctx, func(tx Tx) error {
		got, err := tx.SavingsProduct(product.ID)
		if err != nil {
			return err
		}
		if !got.Active || got.WithdrawalLimit != 3 {
			t.Errorf("product = %+v, want active with limit 3", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("reading product failed: %v", err)
	}
}
