package bankledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Compounding is the advertised compounding frequency of a savings product.
// Accrual itself uses a simple daily-rate model; the frequency is the cadence
// an external scheduler is expected to call ApplyInterest with.
type Compounding string

const (
	CompoundDaily     Compounding = "daily"
	CompoundMonthly   Compounding = "monthly"
	CompoundQuarterly Compounding = "quarterly"
	CompoundAnnually  Compounding = "annually"
)

// SavingsStatus is the lifecycle status of a savings account.
type SavingsStatus string

const (
	SavingsActive   SavingsStatus = "active"
	SavingsInactive SavingsStatus = "inactive"
	SavingsClosed   SavingsStatus = "closed"
)

// SavingsProduct describes a class of savings accounts: rate, compounding
// frequency, withdrawal limit.
type SavingsProduct struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	AnnualRatePct   decimal.Decimal `json:"annualRatePct"` // e.g. 4.25 for 4.25% APY
	Compounding     Compounding     `json:"compounding"`
	MinBalance      Money           `json:"minBalance"`
	WithdrawalLimit int             `json:"withdrawalLimit"` // withdrawals allowed per month
	PenaltyRatePct  decimal.Decimal `json:"penaltyRatePct"`
	Active          bool            `json:"active"`
}

// SavingsAccount is one user's instance of a SavingsProduct, funded from a
// regular cash account.
type SavingsAccount struct {
	ID                   string        `json:"id"`
	OwnerID              string        `json:"owner"`
	ProductID            string        `json:"product"`
	AccountID            string        `json:"account"` // funding cash account
	Number               string        `json:"number"`
	Balance              Money         `json:"balance"`
	InterestEarned       Money         `json:"interestEarned"`
	Status               SavingsStatus `json:"status"`
	WithdrawalsThisMonth int           `json:"withdrawalsThisMonth"`
	LastWithdrawalDate   Date          `json:"lastWithdrawalDate,omitzero"`
	LastInterestDate     Date          `json:"lastInterestDate,omitzero"`
	OpenedAt             time.Time     `json:"openedAt"`
}

// InterestTransaction is the immutable record of one interest accrual event.
type InterestTransaction struct {
	ID               string          `json:"id"`
	SavingsAccountID string          `json:"savingsAccount"`
	Amount           Money           `json:"amount"`
	RatePct          decimal.Decimal `json:"ratePct"`
	Time             time.Time       `json:"time"`
}

var daysPerYear = decimal.NewFromInt(365)
var hundred = decimal.NewFromInt(100)

// CalculateInterest returns one day of simple interest on the account's
// current balance: balance * rate/100/365, rounded half-up to 2 places.
// Inactive accounts and non-positive balances accrue nothing.
func CalculateInterest(sa *SavingsAccount, product *SavingsProduct) Money {
	if sa.Status != SavingsActive || !sa.Balance.IsPositive() {
		return M(0, sa.Balance.Currency())
	}
	dailyRate := product.AnnualRatePct.Div(hundred).Div(daysPerYear)
	interest := sa.Balance.Amount().Mul(dailyRate)
	return M(interest, sa.Balance.Currency()).Round(2)
}

// ApplyInterest accrues one period of interest on the savings account: it
// adds the computed interest to the balance and the cumulative earned
// counter, stamps the last-interest date, and appends one
// InterestTransaction, all in a single atomic update.
//
// There is no guard against being invoked twice in the same accrual period;
// calling cadence is the external scheduler's contract, and a second call
// accrues a second day of interest.
//
// A zero accrual (inactive account or non-positive balance) returns nil and
// writes nothing.
func (l *Ledger) ApplyInterest(ctx context.Context, savingsAccountID string) (*InterestTransaction, error) {
	var rec *InterestTransaction
	err := l.store.Update(ctx, func(tx Tx) error {
		sa, err := tx.SavingsAccount(savingsAccountID)
		if err != nil {
			return err
		}
		product, err := tx.SavingsProduct(sa.ProductID)
		if err != nil {
			return err
		}

		interest := CalculateInterest(sa, product)
		if !interest.IsPositive() {
			return nil
		}

		sa.Balance = sa.Balance.Add(interest)
		sa.InterestEarned = sa.InterestEarned.Add(interest)
		sa.LastInterestDate = DateOf(l.now())
		if err := tx.PutSavingsAccount(sa); err != nil {
			return err
		}

		rec = &InterestTransaction{
			ID:               l.newID(),
			SavingsAccountID: sa.ID,
			Amount:           interest,
			RatePct:          product.AnnualRatePct,
			Time:             l.now(),
		}
		return tx.AppendInterestTransaction(rec)
	})
	if err != nil {
		return nil, fmt.Errorf("apply interest on %s: %w", savingsAccountID, err)
	}
	return rec, nil
}

// OpenSavingsAccount opens a savings account on the given product, funding
// the initial deposit from the owner's cash account. The deposit must meet
// the product's minimum balance and the funding account must cover it; the
// debit and the account creation commit as one unit.
func (l *Ledger) OpenSavingsAccount(ctx context.Context, owner, productID, accountID string, initialDeposit Money) (*SavingsAccount, error) {
	if initialDeposit.IsNegative() {
		return nil, ErrInvalidAmount
	}
	var sa *SavingsAccount
	err := l.store.Update(ctx, func(tx Tx) error {
		product, err := tx.SavingsProduct(productID)
		if err != nil {
			return err
		}
		if !product.Active {
			return fmt.Errorf("savings product %s: %w", productID, ErrNotFound)
		}
		account, err := activeOwnedAccount(tx, owner, accountID)
		if err != nil {
			return err
		}
		if err := sameCurrency(initialDeposit, account.Balance); err != nil {
			return err
		}
		if initialDeposit.LessThan(product.MinBalance) {
			return fmt.Errorf("initial deposit %s below product minimum %s: %w",
				initialDeposit, product.MinBalance, ErrInvalidAmount)
		}
		sa = &SavingsAccount{
			ID:             l.newID(),
			OwnerID:        owner,
			ProductID:      product.ID,
			AccountID:      account.ID,
			Number:         savingsNumber(l.newID),
			Balance:        initialDeposit,
			InterestEarned: M(0, initialDeposit.Currency()),
			Status:         SavingsActive,
			OpenedAt:       l.now(),
		}
		if initialDeposit.IsPositive() {
			if account.Balance.LessThan(initialDeposit) {
				return ErrInsufficientFunds
			}
			account.Balance = account.Balance.Sub(initialDeposit)
			if err := tx.PutAccount(account); err != nil {
				return err
			}
			rec := &Transaction{
				ID:          l.newID(),
				Type:        TxWithdrawal,
				From:        account.ID,
				Amount:      initialDeposit,
				Description: "opening deposit to " + sa.Number,
				Time:        l.now(),
			}
			if err := tx.AppendTransaction(rec); err != nil {
				return err
			}
		}
		return tx.PutSavingsAccount(sa)
	})
	if err != nil {
		return nil, fmt.Errorf("open savings account: %w", err)
	}
	return sa, nil
}

// SavingsWithdraw moves money from the savings account back into its funding
// cash account, counting the withdrawal against the product's monthly limit.
func (l *Ledger) SavingsWithdraw(ctx context.Context, owner, savingsAccountID string, amount Money) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	err := l.store.Update(ctx, func(tx Tx) error {
		sa, err := tx.SavingsAccount(savingsAccountID)
		if err != nil {
			return err
		}
		if sa.OwnerID != owner || sa.Status != SavingsActive {
			return ErrInvalidAccount
		}
		if err := sameCurrency(amount, sa.Balance); err != nil {
			return err
		}
		product, err := tx.SavingsProduct(sa.ProductID)
		if err != nil {
			return err
		}
		// The withdrawal counter is scoped to a calendar month; the first
		// withdrawal of a new month restarts it.
		today := DateOf(l.now())
		if sa.LastWithdrawalDate.Year() != today.Year() || sa.LastWithdrawalDate.Month() != today.Month() {
			sa.WithdrawalsThisMonth = 0
		}
		if product.WithdrawalLimit > 0 && sa.WithdrawalsThisMonth >= product.WithdrawalLimit {
			return fmt.Errorf("withdrawal limit of %d per month reached: %w",
				product.WithdrawalLimit, ErrInvalidTransition)
		}
		if sa.Balance.LessThan(amount) {
			return ErrInsufficientFunds
		}
		account, err := tx.Account(sa.AccountID)
		if err != nil {
			return err
		}

		sa.Balance = sa.Balance.Sub(amount)
		sa.WithdrawalsThisMonth++
		sa.LastWithdrawalDate = today
		account.Balance = account.Balance.Add(amount)
		if err := tx.PutSavingsAccount(sa); err != nil {
			return err
		}
		if err := tx.PutAccount(account); err != nil {
			return err
		}
		return tx.AppendTransaction(&Transaction{
			ID:          l.newID(),
			Type:        TxDeposit,
			To:          account.ID,
			Amount:      amount,
			Description: fmt.Sprintf("Savings withdrawal from %s", sa.Number),
			Time:        l.now(),
		})
	})
	if err != nil {
		return fmt.Errorf("savings withdraw: %w", err)
	}
	return nil
}

// SavingsDeposit moves money from the funding cash account into the savings
// account.
func (l *Ledger) SavingsDeposit(ctx context.Context, owner, savingsAccountID string, amount Money) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	err := l.store.Update(ctx, func(tx Tx) error {
		sa, err := tx.SavingsAccount(savingsAccountID)
		if err != nil {
			return err
		}
		if sa.OwnerID != owner || sa.Status != SavingsActive {
			return ErrInvalidAccount
		}
		account, err := activeOwnedAccount(tx, owner, sa.AccountID)
		if err != nil {
			return err
		}
		if err := sameCurrency(amount, account.Balance); err != nil {
			return err
		}
		if account.Balance.LessThan(amount) {
			return ErrInsufficientFunds
		}

		account.Balance = account.Balance.Sub(amount)
		sa.Balance = sa.Balance.Add(amount)
		if err := tx.PutAccount(account); err != nil {
			return err
		}
		if err := tx.PutSavingsAccount(sa); err != nil {
			return err
		}
		return tx.AppendTransaction(&Transaction{
			ID:          l.newID(),
			Type:        TxWithdrawal,
			From:        account.ID,
			Amount:      amount,
			Description: fmt.Sprintf("Savings deposit to %s", sa.Number),
			Time:        l.now(),
		})
	})
	if err != nil {
		return fmt.Errorf("savings deposit: %w", err)
	}
	return nil
}

// savingsNumber derives a human-facing savings account number from a fresh id.
func savingsNumber(newID func() string) string {
	id := newID()
	if len(id) > 8 {
		id = id[:8]
	}
	return "SAV-" + id
}
