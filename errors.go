package bankledger

import "errors"

// Domain errors surfaced by ledger operations. Callers (views, CLI) translate
// them into user-facing messaging; the ledger itself never swallows one.
var (
	// ErrInvalidAmount is returned when an operation amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidAccount is returned when an account does not exist, is
	// inactive, or is not owned by the caller.
	ErrInvalidAccount = errors.New("invalid account")

	// ErrInsufficientFunds is returned when a withdrawal, transfer, or
	// investment buy would drive a balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSameAccountTransfer is returned when the source and destination of a
	// transfer are the same account.
	ErrSameAccountTransfer = errors.New("cannot transfer to the same account")

	// ErrOverSell is returned when a sell quantity exceeds the holding's quantity.
	ErrOverSell = errors.New("cannot sell more than held")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidTransition is returned when a state machine transition is not
	// allowed from the current state.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrForbidden is returned when the acting user's role does not permit the
	// operation.
	ErrForbidden = errors.New("operation not permitted for role")
)

// isNotFound reports whether err is, or wraps, ErrNotFound.
func isNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
