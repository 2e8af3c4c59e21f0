package bankledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCalculateInterest(t *testing.T) {
	product := &SavingsProduct{AnnualRatePct: decimal.RequireFromString("4.25")}

	testCases := []struct {
		name    string
		account SavingsAccount
		want    Money
	}{
		{
			name:    "active balance",
			account: SavingsAccount{Status: SavingsActive, Balance: USD(10000)},
			want:    USD(1.16), // 10000 * 4.25/100/365
		},
		{
			name:    "small balance rounds",
			account: SavingsAccount{Status: SavingsActive, Balance: USD(500)},
			want:    USD(0.06),
		},
		{
			name:    "inactive account accrues nothing",
			account: SavingsAccount{Status: SavingsInactive, Balance: USD(10000)},
			want:    USD(0),
		},
		{
			name:    "zero balance accrues nothing",
			account: SavingsAccount{Status: SavingsActive, Balance: USD(0)},
			want:    USD(0),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateInterest(&tc.account, product)
			if !got.Equal(tc.want) {
				t.Errorf("CalculateInterest() = %s, want %s", got, tc.want)
			}
		})
	}
}

// setupSavings creates a manager, a funded customer, a 4.25% daily product
// and an open savings account holding the initial deposit.
func setupSavings(t *testing.T, l *Ledger, initial Money) (owner string, accountID string, savingsID string) {
	t.Helper()
	ctx := context.Background()
	manager := seedManager(t, l)
	owner, accountID = seedCustomer(t, l, initial.Add(USD(4000)))
	product, err := l.AddSavingsProduct(ctx, manager, "High Yield", decimal.RequireFromString("4.25"), CompoundDaily, USD(100), 3)
	if err != nil {
		t.Fatalf("AddSavingsProduct() failed: %v", err)
	}
	sa, err := l.OpenSavingsAccount(ctx, owner, product.ID, accountID, initial)
	if err != nil {
		t.Fatalf("OpenSavingsAccount() failed: %v", err)
	}
	return owner, accountID, sa.ID
}

func TestOpenSavingsAccount(t *testing.T) {
	l, store := newTestLedger()
	_, accountID, savingsID := setupSavings(t, l, USD(1000))

	// The initial deposit is debited from the funding account and leaves a
	// ledger record behind.
	if got, want := accountBalance(t, store, accountID), USD(4000); !got.Equal(want) {
		t.Errorf("funding balance = %s, want %s", got, want)
	}
	records := journal(t, store, accountID)
	last := records[len(records)-1]
	if last.Type != TxWithdrawal || !last.Amount.Equal(USD(1000)) {
		t.Errorf("funding record = %+v, want a 1000 USD withdrawal", last)
	}

	err := store.View(context.Background(), func(tx Tx) error {
		sa, err := tx.SavingsAccount(savingsID)
		if err != nil {
			return err
		}
		if !sa.Balance.Equal(USD(1000)) {
			t.Errorf("savings balance = %s, want %s", sa.Balance, USD(1000))
		}
		if sa.Status != SavingsActive {
			t.Errorf("status = %s, want %s", sa.Status, SavingsActive)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("reading savings account failed: %v", err)
	}
}

func TestOpenSavingsAccountBelowMinimum(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()
	manager := seedManager(t, l)
	owner, accountID := seedCustomer(t, l, USD(5000))
	product, err := l.AddSavingsProduct(ctx, manager, "High Yield", decimal.RequireFromString("4.25"), CompoundDaily, USD(100), 3)
	if err != nil {
		t.Fatalf("AddSavingsProduct() failed: %v", err)
	}

	if _, err := l.OpenSavingsAccount(ctx, owner, product.ID, accountID, USD(50)); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("OpenSavingsAccount() error = %v, want ErrInvalidAmount", err)
	}
}

func TestApplyInterest(t *testing.T) {
	l, store := newTestLedger()
	ctx := context.Background()
	_, _, savingsID := setupSavings(t, l, USD(10000))

	rec, err := l.ApplyInterest(ctx, savingsID)
	if err != nil {
		t.Fatalf("ApplyInterest() failed: %v", err)
	}
	if rec == nil {
		t.Fatal("ApplyInterest() returned no record")
	}
	if !rec.Amount.Equal(USD(1.16)) {
		t.Errorf("accrued = %s, want %s", rec.Amount, USD(1.16))
	}

	err = store.View(ctx, func(tx Tx) error {
		sa, err := tx.SavingsAccount(savingsID)
		if err != nil {
			return err
		}
		if want := USD(10001.16); !sa.Balance.Equal(want) {
			t.Errorf("balance = %s, want %s", sa.Balance, want)
		}
		if !sa.InterestEarned.Equal(USD(1.16)) {
			t.Errorf("interest earned = %s, want %s", sa.InterestEarned, USD(1.16))
		}
		if sa.LastInterestDate.IsZero() {
			t.Error("last interest date not stamped")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("reading savings account failed: %v", err)
	}

	// A second call accrues a second day; cadence is the scheduler's contract.
	rec2, err := l.ApplyInterest(ctx, savingsID)
	if err != nil {
		t.Fatalf("second ApplyInterest() failed: %v", err)
	}
	if rec2 == nil || !rec2.Amount.GreaterThan(USD(0)) {
		t.Errorf("second accrual = %v, want a positive record", rec2)
	}
}

func TestApplyInterestZeroAccrual(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()
	manager := seedManager(t, l)
	owner, accountID := seedCustomer(t, l, USD(5000))
	product, err := l.AddSavingsProduct(ctx, manager, "Basic", decimal.RequireFromString("2.0"), CompoundDaily, USD(0), 0)
	if err != nil {
		t.Fatalf("AddSavingsProduct() failed: %v", err)
	}
	sa, err := l.OpenSavingsAccount(ctx, owner, product.ID, accountID, USD(0))
	if err != nil {
		t.Fatalf("OpenSavingsAccount() failed: %v", err)
	}

	rec, err := l.ApplyInterest(ctx, sa.ID)
	if err != nil {
		t.Fatalf("ApplyInterest() failed: %v", err)
	}
	if rec != nil {
		t.Errorf("zero-balance accrual wrote record %+v, want none", rec)
	}
}

func TestSavingsDepositAndWithdraw(t *testing.T) {
	l, store := newTestLedger()
	ctx := context.Background()
	owner, accountID, savingsID := setupSavings(t, l, USD(1000))

	if err := l.SavingsDeposit(ctx, owner, savingsID, USD(500)); err != nil {
		t.Fatalf("SavingsDeposit() failed: %v", err)
	}
	if got, want := accountBalance(t, store, accountID), USD(3500); !got.Equal(want) {
		t.Errorf("funding balance = %s, want %s", got, want)
	}

	if err := l.SavingsWithdraw(ctx, owner, savingsID, USD(200)); err != nil {
		t.Fatalf("SavingsWithdraw() failed: %v", err)
	}
	if got, want := accountBalance(t, store, accountID), USD(3700); !got.Equal(want) {
		t.Errorf("funding balance = %s, want %s", got, want)
	}

	err := store.View(ctx, func(tx Tx) error {
		sa, err := tx.SavingsAccount(savingsID)
		if err != nil {
			return err
		}
		if want := USD(1300); !sa.Balance.Equal(want) {
			t.Errorf("savings balance = %s, want %s", sa.Balance, want)
		}
		if sa.WithdrawalsThisMonth != 1 {
			t.Errorf("withdrawals this month = %d, want 1", sa.WithdrawalsThisMonth)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("reading savings account failed: %v", err)
	}
}

func TestSavingsWithdrawalLimit(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()
	owner, _, savingsID := setupSavings(t, l, USD(1000)) // limit is 3 per month

	for i := 0; i < 3; i++ {
		if err := l.SavingsWithdraw(ctx, owner, savingsID, USD(10)); err != nil {
			t.Fatalf("withdrawal %d failed: %v", i+1, err)
		}
	}
	if err := l.SavingsWithdraw(ctx, owner, savingsID, USD(10)); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("fourth withdrawal error = %v, want ErrInvalidTransition", err)
	}
}

func TestSavingsWithdrawalLimitResetsMonthly(t *testing.T) {
	l, store := newTestLedger()
	ctx := context.Background()
	owner, _, savingsID := setupSavings(t, l, USD(1000)) // limit is 3 per month

	for i := 0; i < 3; i++ {
		if err := l.SavingsWithdraw(ctx, owner, savingsID, USD(10)); err != nil {
			t.Fatalf("withdrawal %d failed: %v", i+1, err)
		}
	}
	if err := l.SavingsWithdraw(ctx, owner, savingsID, USD(10)); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("fourth withdrawal error = %v, want ErrInvalidTransition", err)
	}

	// A new calendar month restarts the counter.
	l.now = func() time.Time { return time.Date(2026, time.April, 2, 9, 0, 0, 0, time.UTC) }
	if err := l.SavingsWithdraw(ctx, owner, savingsID, USD(10)); err != nil {
		t.Fatalf("withdrawal in the next month failed: %v", err)
	}

	err := store.View(ctx, func(tx Tx) error {
		sa, err := tx.SavingsAccount(savingsID)
		if err != nil {
			return err
		}
		if sa.WithdrawalsThisMonth != 1 {
			t.Errorf("withdrawals this month = %d, want 1", sa.WithdrawalsThisMonth)
		}
		if got, want := sa.LastWithdrawalDate, NewDate(2026, time.April, 2); got != want {
			t.Errorf("last withdrawal date = %s, want %s", got, want)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("reading savings account failed: %v", err)
	}
}

func TestSavingsCurrencyMismatch(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()
	owner, _, savingsID := setupSavings(t, l, USD(1000))

	if err := l.SavingsDeposit(ctx, owner, savingsID, EUR(10)); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("SavingsDeposit() error = %v, want ErrInvalidAmount", err)
	}
	if err := l.SavingsWithdraw(ctx, owner, savingsID, EUR(10)); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("SavingsWithdraw() error = %v, want ErrInvalidAmount", err)
	}
}
