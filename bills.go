package bankledger

import (
	"context"
	"fmt"
	"time"
)

// BillStatus is the lifecycle status of a bill.
type BillStatus string

const (
	BillPending   BillStatus = "pending"
	BillPaid      BillStatus = "paid"
	BillOverdue   BillStatus = "overdue"
	BillCancelled BillStatus = "cancelled"
)

// Biller is a payee a user pays bills to: a utility, an insurer, a telco.
type Biller struct {
	ID            string `json:"id"`
	OwnerID       string `json:"owner"`
	Name          string `json:"name"`
	Category      string `json:"category,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	DueDay        int    `json:"dueDay"` // day of month the bill is due
	Active        bool   `json:"active"`
}

// Bill is one payable amount against a biller. TransactionID links the cash
// Transaction created when it is paid.
type Bill struct {
	ID            string     `json:"id"`
	BillerID      string     `json:"biller"`
	Amount        Money      `json:"amount"`
	DueDate       Date       `json:"dueDate"`
	Status        BillStatus `json:"status"`
	Description   string     `json:"description,omitempty"`
	TransactionID string     `json:"transaction,omitempty"`
	PaidAt        time.Time  `json:"paidAt,omitzero"`
}

// IsOverdue reports whether the bill is unpaid past its due date.
func (b *Bill) IsOverdue(today Date) bool {
	return b.Status != BillPaid && b.Status != BillCancelled && b.DueDate.Before(today)
}

// AddBiller registers a payee for the owner.
func (l *Ledger) AddBiller(ctx context.Context, owner, name, category string, dueDay int) (*Biller, error) {
	if dueDay < 1 || dueDay > 31 {
		return nil, fmt.Errorf("due day %d: %w", dueDay, ErrInvalidAmount)
	}
	var biller *Biller
	err := l.store.Update(ctx, func(tx Tx) error {
		if _, err := tx.User(owner); err != nil {
			return err
		}
		biller = &Biller{
			ID:       l.newID(),
			OwnerID:  owner,
			Name:     name,
			Category: category,
			DueDay:   dueDay,
			Active:   true,
		}
		return tx.PutBiller(biller)
	})
	if err != nil {
		return nil, fmt.Errorf("add biller: %w", err)
	}
	return biller, nil
}

// AddBill records a payable bill against one of the owner's billers.
func (l *Ledger) AddBill(ctx context.Context, owner, billerID string, amount Money, due Date, description string) (*Bill, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var bill *Bill
	err := l.store.Update(ctx, func(tx Tx) error {
		biller, err := tx.Biller(billerID)
		if err != nil {
			return err
		}
		if biller.OwnerID != owner || !biller.Active {
			return ErrInvalidAccount
		}
		bill = &Bill{
			ID:          l.newID(),
			BillerID:    biller.ID,
			Amount:      amount,
			DueDate:     due,
			Status:      BillPending,
			Description: description,
		}
		return tx.PutBill(bill)
	})
	if err != nil {
		return nil, fmt.Errorf("add bill: %w", err)
	}
	return bill, nil
}

// PayBill debits the bill's amount from the given account, marks the bill
// paid, and appends one cash Transaction linking the two. A bill can only be
// paid while pending or overdue. One atomic unit.
func (l *Ledger) PayBill(ctx context.Context, owner, billID, accountID string) (*Transaction, error) {
	var rec *Transaction
	err := l.store.Update(ctx, func(tx Tx) error {
		bill, err := tx.Bill(billID)
		if err != nil {
			return err
		}
		if bill.Status != BillPending && bill.Status != BillOverdue {
			return fmt.Errorf("bill is %s: %w", bill.Status, ErrInvalidTransition)
		}
		biller, err := tx.Biller(bill.BillerID)
		if err != nil {
			return err
		}
		if biller.OwnerID != owner {
			return ErrInvalidAccount
		}
		account, err := activeOwnedAccount(tx, owner, accountID)
		if err != nil {
			return err
		}
		if err := sameCurrency(bill.Amount, account.Balance); err != nil {
			return err
		}
		if account.Balance.LessThan(bill.Amount) {
			return ErrInsufficientFunds
		}

		account.Balance = account.Balance.Sub(bill.Amount)
		if err := tx.PutAccount(account); err != nil {
			return err
		}

		rec = &Transaction{
			ID:          l.newID(),
			Type:        TxWithdrawal,
			From:        account.ID,
			Amount:      bill.Amount,
			Description: fmt.Sprintf("Bill payment: %s", biller.Name),
			Time:        l.now(),
		}
		if err := tx.AppendTransaction(rec); err != nil {
			return err
		}

		bill.Status = BillPaid
		bill.TransactionID = rec.ID
		bill.PaidAt = l.now()
		return tx.PutBill(bill)
	})
	if err != nil {
		return nil, fmt.Errorf("pay bill %s: %w", billID, err)
	}
	return rec, nil
}
