package bankledger

import "context"

// Store is the persistence boundary of the ledger core. Every balance-mutating
// operation runs inside one Update call: all reads, balance writes and
// audit-record appends of an operation either commit together or not at all.
//
// Implementations must serialize concurrent updates touching the same records
// (a process-wide mutex for MemStore, row locks for the SQL store).
type Store interface {
	// View runs fn against a read-only transaction.
	View(ctx context.Context, fn func(Tx) error) error
	// Update runs fn against a writable transaction and commits its writes
	// atomically. If fn returns an error every write is discarded and the
	// error is returned.
	Update(ctx context.Context, fn func(Tx) error) error
}

// Tx is a unit of work over the persistent records. Getters return a private
// copy the caller may mutate freely; nothing is persisted until the
// corresponding Put or Append, and nothing at all unless the enclosing Update
// commits.
//
// Getters return ErrNotFound (possibly wrapped) for missing records.
type Tx interface {
	// Users and preferences.
	User(id string) (*User, error)
	PutUser(*User) error
	Preferences(userID string) (*Preferences, error)
	PutPreferences(*Preferences) error

	// Cash accounts and the transaction ledger.
	Account(id string) (*Account, error)
	PutAccount(*Account) error
	AccountsOwnedBy(owner string) ([]*Account, error)
	AppendTransaction(*Transaction) error
	Transactions(accountID string) ([]*Transaction, error)

	// Savings.
	SavingsProduct(id string) (*SavingsProduct, error)
	PutSavingsProduct(*SavingsProduct) error
	SavingsAccount(id string) (*SavingsAccount, error)
	PutSavingsAccount(*SavingsAccount) error
	AppendInterestTransaction(*InterestTransaction) error

	// Investments.
	InvestmentProduct(id string) (*InvestmentProduct, error)
	PutInvestmentProduct(*InvestmentProduct) error
	Portfolio(id string) (*Portfolio, error)
	PutPortfolio(*Portfolio) error
	Holding(id string) (*InvestmentHolding, error)
	PutHolding(*InvestmentHolding) error
	// ActiveHolding returns the active holding for (portfolio, product), or
	// ErrNotFound when none exists.
	ActiveHolding(portfolioID, productID string) (*InvestmentHolding, error)
	ActiveHoldings(portfolioID string) ([]*InvestmentHolding, error)
	HoldingsOfProduct(productID string) ([]*InvestmentHolding, error)
	AppendInvestmentTransaction(*InvestmentTransaction) error

	// Loans.
	LoanProduct(id string) (*LoanProduct, error)
	PutLoanProduct(*LoanProduct) error
	Loan(id string) (*Loan, error)
	PutLoan(*Loan) error
	AppendLoanPayment(*LoanPayment) error

	// Bills.
	Biller(id string) (*Biller, error)
	PutBiller(*Biller) error
	Bill(id string) (*Bill, error)
	PutBill(*Bill) error

	// Fraud review.
	FraudFlag(id string) (*FraudFlag, error)
	PutFraudFlag(*FraudFlag) error
	PendingFraudFlags() ([]*FraudFlag, error)
}
