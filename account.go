package bankledger

import "time"

// AccountType classifies a cash account.
type AccountType string

const (
	Savings  AccountType = "savings"
	Checking AccountType = "checking"
	Business AccountType = "business"
)

// TransactionType identifies the direction of a ledger entry.
type TransactionType string

const (
	TxDeposit    TransactionType = "deposit"
	TxWithdrawal TransactionType = "withdrawal"
	TxTransfer   TransactionType = "transfer"
)

// Account is a cash account owned by exactly one user. Its balance is only
// ever mutated by ledger operations running inside a store update; the struct
// itself is a plain record.
type Account struct {
	ID        string      `json:"id"`
	OwnerID   string      `json:"owner"`
	Number    string      `json:"number"`
	Type      AccountType `json:"type"`
	Balance   Money       `json:"balance"`
	Active    bool        `json:"active"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Transaction is one immutable ledger record. Created once, never mutated,
// never deleted. From and To are optional: a deposit has only To, a
// withdrawal only From, a transfer both.
type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	From        string          `json:"from,omitempty"`
	To          string          `json:"to,omitempty"`
	Amount      Money           `json:"amount"`
	Description string          `json:"description,omitempty"`
	Time        time.Time       `json:"time"`
}

// Touches reports whether the transaction credits or debits the given account.
func (t Transaction) Touches(accountID string) bool {
	return t.From == accountID || t.To == accountID
}

// signedAmount returns the transaction's effect on the given account's
// balance: positive for a credit, negative for a debit, zero when unrelated.
func (t Transaction) signedAmount(accountID string) Money {
	switch {
	case t.To == accountID:
		return t.Amount
	case t.From == accountID:
		return t.Amount.Neg()
	default:
		return M(0, t.Amount.Currency())
	}
}
