package bankledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Ledger is the entry point of every money-moving operation. It is stateless:
// all records live in the Store, and each operation is one atomic unit of
// work. The zero clock and id generator default to time.Now and uuid.
type Ledger struct {
	store Store
	now   func() time.Time
	newID func() string
}

// NewLedger creates a Ledger over the given store.
func NewLedger(store Store) *Ledger {
	return &Ledger{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Store exposes the underlying store for read-only queries by callers.
func (l *Ledger) Store() Store { return l.store }

// activeOwnedAccount fetches an account and checks that it is active and
// owned by the caller. Both failures surface as ErrInvalidAccount, so
// callers cannot probe for the existence of other users' accounts.
func activeOwnedAccount(tx Tx, owner, accountID string) (*Account, error) {
	account, err := tx.Account(accountID)
	if err != nil {
		return nil, ErrInvalidAccount
	}
	if !account.Active || account.OwnerID != owner {
		return nil, ErrInvalidAccount
	}
	return account, nil
}

// sameCurrency rejects arithmetic between a caller-supplied amount and a
// stored balance of a different currency. Money arithmetic panics on a
// currency mismatch; operations guard here and fail with ErrInvalidAmount
// instead.
func sameCurrency(amount, balance Money) error {
	if amount.Currency() != balance.Currency() {
		return fmt.Errorf("amount in %s against %s balance: %w",
			amount.Currency(), balance.Currency(), ErrInvalidAmount)
	}
	return nil
}

// Deposit credits amount to the account and appends one Transaction record,
// as a single atomic unit.
func (l *Ledger) Deposit(ctx context.Context, owner, accountID string, amount Money, description string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var rec *Transaction
	err := l.store.Update(ctx, func(tx Tx) error {
		account, err := activeOwnedAccount(tx, owner, accountID)
		if err != nil {
			return err
		}
		if err := sameCurrency(amount, account.Balance); err != nil {
			return err
		}
		account.Balance = account.Balance.Add(amount)
		if err := tx.PutAccount(account); err != nil {
			return err
		}
		rec = &Transaction{
			ID:          l.newID(),
			Type:        TxDeposit,
			To:          account.ID,
			Amount:      amount,
			Description: description,
			Time:        l.now(),
		}
		return tx.AppendTransaction(rec)
	})
	if err != nil {
		return nil, fmt.Errorf("deposit to %s: %w", accountID, err)
	}
	return rec, nil
}

// Withdraw debits amount from the account and appends one Transaction
// record, as a single atomic unit. The balance never goes negative: a short
// balance fails with ErrInsufficientFunds and leaves the account untouched.
func (l *Ledger) Withdraw(ctx context.Context, owner, accountID string, amount Money, description string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var rec *Transaction
	err := l.store.Update(ctx, func(tx Tx) error {
		account, err := activeOwnedAccount(tx, owner, accountID)
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
		if err := tx.PutAccount(account); err != nil {
			return err
		}
		rec = &Transaction{
			ID:          l.newID(),
			Type:        TxWithdrawal,
			From:        account.ID,
			Amount:      amount,
			Description: description,
			Time:        l.now(),
		}
		return tx.AppendTransaction(rec)
	})
	if err != nil {
		return nil, fmt.Errorf("withdraw from %s: %w", accountID, err)
	}
	return rec, nil
}

// Transfer moves amount from one account to another, appending exactly one
// Transaction record for the pair. Both balance mutations and the record
// commit together or not at all. The destination account only needs to be
// active; it may belong to another user.
func (l *Ledger) Transfer(ctx context.Context, owner, fromID, toID string, amount Money, description string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if fromID == toID {
		return nil, ErrSameAccountTransfer
	}
	var rec *Transaction
	err := l.store.Update(ctx, func(tx Tx) error {
		from, err := activeOwnedAccount(tx, owner, fromID)
		if err != nil {
			return err
		}
		to, err := tx.Account(toID)
		if err != nil || !to.Active {
			return ErrInvalidAccount
		}
		if err := sameCurrency(amount, from.Balance); err != nil {
			return err
		}
		if err := sameCurrency(amount, to.Balance); err != nil {
			return err
		}
		if from.Balance.LessThan(amount) {
			return ErrInsufficientFunds
		}
		from.Balance = from.Balance.Sub(amount)
		to.Balance = to.Balance.Add(amount)
		if err := tx.PutAccount(from); err != nil {
			return err
		}
		if err := tx.PutAccount(to); err != nil {
			return err
		}
		rec = &Transaction{
			ID:          l.newID(),
			Type:        TxTransfer,
			From:        from.ID,
			To:          to.ID,
			Amount:      amount,
			Description: description,
			Time:        l.now(),
		}
		return tx.AppendTransaction(rec)
	})
	if err != nil {
		return nil, fmt.Errorf("transfer %s -> %s: %w", fromID, toID, err)
	}
	return rec, nil
}

// OpenAccount creates a new active cash account for the owner with a zero
// balance in the given currency.
func (l *Ledger) OpenAccount(ctx context.Context, owner string, typ AccountType, currency string) (*Account, error) {
	var account *Account
	err := l.store.Update(ctx, func(tx Tx) error {
		if _, err := tx.User(owner); err != nil {
			return fmt.Errorf("owner %s: %w", owner, err)
		}
		account = &Account{
			ID:        l.newID(),
			OwnerID:   owner,
			Number:    accountNumber(l.newID),
			Type:      typ,
			Balance:   M(0, currency),
			Active:    true,
			CreatedAt: l.now(),
		}
		return tx.PutAccount(account)
	})
	if err != nil {
		return nil, fmt.Errorf("open account: %w", err)
	}
	return account, nil
}

// accountNumber derives a human-facing account number from a fresh id.
func accountNumber(newID func() string) string {
	id := newID()
	if len(id) > 10 {
		id = id[:10]
	}
	return "ACC-" + id
}
