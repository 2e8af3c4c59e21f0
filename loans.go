package bankledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle status of a loan.
type LoanStatus string

const (
	LoanPending   LoanStatus = "pending"
	LoanApproved  LoanStatus = "approved"
	LoanActive    LoanStatus = "active"
	LoanCompleted LoanStatus = "completed"
	LoanRejected  LoanStatus = "rejected"
	LoanDefaulted LoanStatus = "defaulted"
)

// LoanProduct describes a class of loans: amount and term bounds, rate.
type LoanProduct struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Type          string          `json:"type"` // personal, auto, home, education, business
	MinAmount     Money           `json:"minAmount"`
	MaxAmount     Money           `json:"maxAmount"`
	AnnualRatePct decimal.Decimal `json:"annualRatePct"`
	MinTermMonths int             `json:"minTermMonths"`
	MaxTermMonths int             `json:"maxTermMonths"`
	Active        bool            `json:"active"`
}

// Loan is one user's loan. MonthlyPayment is derived from principal, rate and
// term at application time; RemainingBalance and TotalPaid move only through
// MakeLoanPayment.
type Loan struct {
	ID               string          `json:"id"`
	OwnerID          string          `json:"owner"`
	ProductID        string          `json:"product"`
	AccountID        string          `json:"account"` // disbursement/repayment cash account
	Principal        Money           `json:"principal"`
	AnnualRatePct    decimal.Decimal `json:"annualRatePct"`
	TermMonths       int             `json:"termMonths"`
	MonthlyPayment   Money           `json:"monthlyPayment"`
	RemainingBalance Money           `json:"remainingBalance"`
	TotalPaid        Money           `json:"totalPaid"`
	Status           LoanStatus      `json:"status"`
	ApplicationDate  time.Time       `json:"applicationDate"`
	ApprovalDate     time.Time       `json:"approvalDate,omitzero"`
	DisbursementDate time.Time       `json:"disbursementDate,omitzero"`
	MaturityDate     Date            `json:"maturityDate,omitzero"`
}

// LoanPayment is the immutable record of one repayment. TransactionID links
// the cash-side Transaction created in the same atomic unit.
type LoanPayment struct {
	ID            string    `json:"id"`
	LoanID        string    `json:"loan"`
	Amount        Money     `json:"amount"`
	TransactionID string    `json:"transaction,omitempty"`
	Time          time.Time `json:"time"`
}

var twelve = decimal.NewFromInt(12)

// MonthlyPayment computes the standard amortized monthly payment
//
//	M = P * r * (1+r)^n / ((1+r)^n - 1), r = annualRatePct/12/100
//
// degenerating to P/n when the rate is zero. The result is rounded half-up
// to 2 decimal places. Pure function, no side effects.
func MonthlyPayment(principal Money, annualRatePct decimal.Decimal, termMonths int) Money {
	n := decimal.NewFromInt(int64(termMonths))
	if annualRatePct.IsZero() {
		return M(principal.Amount().Div(n), principal.Currency()).Round(2)
	}
	r := annualRatePct.Div(twelve).Div(hundred)
	pow := decimal.NewFromInt(1).Add(r).Pow(n) // (1+r)^n
	payment := principal.Amount().Mul(r).Mul(pow).Div(pow.Sub(decimal.NewFromInt(1)))
	return M(payment, principal.Currency()).Round(2)
}

// ScheduleEntry is one month of an amortization schedule.
type ScheduleEntry struct {
	Month     int
	Payment   Money
	Interest  Money
	Principal Money
	Balance   Money // remaining after this payment
}

// AmortizationSchedule expands the loan terms month by month. The last
// payment absorbs rounding drift so the balance lands exactly on zero.
func AmortizationSchedule(principal Money, annualRatePct decimal.Decimal, termMonths int) []ScheduleEntry {
	payment := MonthlyPayment(principal, annualRatePct, termMonths)
	r := annualRatePct.Div(twelve).Div(hundred)
	balance := principal
	entries := make([]ScheduleEntry, 0, termMonths)
	for month := 1; month <= termMonths; month++ {
		interest := M(balance.Amount().Mul(r), balance.Currency()).Round(2)
		pay := payment
		principalPart := pay.Sub(interest)
		if month == termMonths || balance.LessThan(principalPart) {
			principalPart = balance
			pay = interest.Add(principalPart)
		}
		balance = balance.Sub(principalPart)
		entries = append(entries, ScheduleEntry{
			Month:     month,
			Payment:   pay,
			Interest:  interest,
			Principal: principalPart,
			Balance:   balance,
		})
	}
	return entries
}

// ApplyForLoan files a pending loan application against a product, validating
// the product's amount and term bounds and deriving the monthly payment.
// No money moves until DisburseLoan.
func (l *Ledger) ApplyForLoan(ctx context.Context, owner, productID, accountID string, principal Money, termMonths int) (*Loan, error) {
	if !principal.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var loan *Loan
	err := l.store.Update(ctx, func(tx Tx) error {
		product, err := tx.LoanProduct(productID)
		if err != nil {
			return err
		}
		if !product.Active {
			return fmt.Errorf("loan product %s: %w", productID, ErrNotFound)
		}
		if err := sameCurrency(principal, product.MinAmount); err != nil {
			return err
		}
		if principal.LessThan(product.MinAmount) || principal.GreaterThan(product.MaxAmount) {
			return fmt.Errorf("principal %s outside product range [%s, %s]: %w",
				principal, product.MinAmount, product.MaxAmount, ErrInvalidAmount)
		}
		if termMonths < product.MinTermMonths || termMonths > product.MaxTermMonths {
			return fmt.Errorf("term %d outside product range [%d, %d]: %w",
				termMonths, product.MinTermMonths, product.MaxTermMonths, ErrInvalidAmount)
		}
		account, err := activeOwnedAccount(tx, owner, accountID)
		if err != nil {
			return err
		}
		if err := sameCurrency(principal, account.Balance); err != nil {
			return err
		}

		loan = &Loan{
			ID:               l.newID(),
			OwnerID:          owner,
			ProductID:        product.ID,
			AccountID:        accountID,
			Principal:        principal,
			AnnualRatePct:    product.AnnualRatePct,
			TermMonths:       termMonths,
			MonthlyPayment:   MonthlyPayment(principal, product.AnnualRatePct, termMonths),
			RemainingBalance: principal,
			TotalPaid:        M(0, principal.Currency()),
			Status:           LoanPending,
			ApplicationDate:  l.now(),
		}
		return tx.PutLoan(loan)
	})
	if err != nil {
		return nil, fmt.Errorf("apply for loan: %w", err)
	}
	return loan, nil
}

// ApproveLoan moves a pending loan to approved. Requires a manager or admin.
func (l *Ledger) ApproveLoan(ctx context.Context, actor, loanID string) error {
	return l.decideLoan(ctx, actor, loanID, LoanApproved)
}

// RejectLoan moves a pending loan to rejected. Requires a manager or admin.
func (l *Ledger) RejectLoan(ctx context.Context, actor, loanID string) error {
	return l.decideLoan(ctx, actor, loanID, LoanRejected)
}

func (l *Ledger) decideLoan(ctx context.Context, actor, loanID string, decision LoanStatus) error {
	err := l.store.Update(ctx, func(tx Tx) error {
		if err := requireRole(tx, actor, RoleManager, RoleAdmin); err != nil {
			return err
		}
		loan, err := tx.Loan(loanID)
		if err != nil {
			return err
		}
		if loan.Status != LoanPending {
			return fmt.Errorf("loan is %s: %w", loan.Status, ErrInvalidTransition)
		}
		loan.Status = decision
		if decision == LoanApproved {
			loan.ApprovalDate = l.now()
		}
		return tx.PutLoan(loan)
	})
	if err != nil {
		return fmt.Errorf("decide loan %s: %w", loanID, err)
	}
	return nil
}

// DisburseLoan credits an approved loan's principal to its cash account,
// stamps the disbursement and maturity dates, activates the loan, and
// appends the cash Transaction. One atomic unit. Requires a manager or admin.
func (l *Ledger) DisburseLoan(ctx context.Context, actor, loanID string) (*Transaction, error) {
	var rec *Transaction
	err := l.store.Update(ctx, func(tx Tx) error {
		if err := requireRole(tx, actor, RoleManager, RoleAdmin); err != nil {
			return err
		}
		loan, err := tx.Loan(loanID)
		if err != nil {
			return err
		}
		if loan.Status != LoanApproved {
			return fmt.Errorf("loan is %s: %w", loan.Status, ErrInvalidTransition)
		}
		account, err := tx.Account(loan.AccountID)
		if err != nil {
			return err
		}

		account.Balance = account.Balance.Add(loan.Principal)
		if err := tx.PutAccount(account); err != nil {
			return err
		}

		loan.Status = LoanActive
		loan.DisbursementDate = l.now()
		loan.MaturityDate = DateOf(l.now()).AddMonth(loan.TermMonths)
		if err := tx.PutLoan(loan); err != nil {
			return err
		}

		rec = &Transaction{
			ID:          l.newID(),
			Type:        TxDeposit,
			To:          account.ID,
			Amount:      loan.Principal,
			Description: fmt.Sprintf("Loan disbursement %s", loan.ID),
			Time:        l.now(),
		}
		return tx.AppendTransaction(rec)
	})
	if err != nil {
		return nil, fmt.Errorf("disburse loan %s: %w", loanID, err)
	}
	return rec, nil
}

// MakeLoanPayment debits amount from the loan's cash account, decrements the
// remaining balance, increments the total paid, and appends one LoanPayment
// and one cash Transaction. The final payment is capped at the remaining
// balance and completes the loan. One atomic unit.
func (l *Ledger) MakeLoanPayment(ctx context.Context, owner, loanID string, amount Money) (*LoanPayment, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var payment *LoanPayment
	err := l.store.Update(ctx, func(tx Tx) error {
		loan, err := tx.Loan(loanID)
		if err != nil {
			return err
		}
		if loan.OwnerID != owner {
			return ErrInvalidAccount
		}
		if loan.Status != LoanActive {
			return fmt.Errorf("loan is %s: %w", loan.Status, ErrInvalidTransition)
		}
		if err := sameCurrency(amount, loan.RemainingBalance); err != nil {
			return err
		}
		account, err := activeOwnedAccount(tx, owner, loan.AccountID)
		if err != nil {
			return err
		}

		if amount.GreaterThan(loan.RemainingBalance) {
			amount = loan.RemainingBalance
		}
		if account.Balance.LessThan(amount) {
			return ErrInsufficientFunds
		}

		account.Balance = account.Balance.Sub(amount)
		if err := tx.PutAccount(account); err != nil {
			return err
		}

		loan.RemainingBalance = loan.RemainingBalance.Sub(amount)
		loan.TotalPaid = loan.TotalPaid.Add(amount)
		if loan.RemainingBalance.IsZero() {
			loan.Status = LoanCompleted
		}
		if err := tx.PutLoan(loan); err != nil {
			return err
		}

		cashTx := &Transaction{
			ID:          l.newID(),
			Type:        TxWithdrawal,
			From:        account.ID,
			Amount:      amount,
			Description: fmt.Sprintf("Loan payment %s", loan.ID),
			Time:        l.now(),
		}
		if err := tx.AppendTransaction(cashTx); err != nil {
			return err
		}

		payment = &LoanPayment{
			ID:            l.newID(),
			LoanID:        loan.ID,
			Amount:        amount,
			TransactionID: cashTx.ID,
			Time:          l.now(),
		}
		return tx.AppendLoanPayment(payment)
	})
	if err != nil {
		return nil, fmt.Errorf("loan payment on %s: %w", loanID, err)
	}
	return payment, nil
}
