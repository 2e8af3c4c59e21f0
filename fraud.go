package bankledger

import (
	"context"
	"fmt"
	"time"
)

// FraudRisk is the severity assigned to a flag when it is raised.
type FraudRisk string

const (
	RiskLow      FraudRisk = "low"
	RiskMedium   FraudRisk = "medium"
	RiskHigh     FraudRisk = "high"
	RiskCritical FraudRisk = "critical"
)

// FraudStatus is the review state of a flag. The only transitions are
// pending -> reviewed, pending -> approved, pending -> rejected, each taken
// by an explicit reviewer action. There are no automatic transitions.
type FraudStatus string

const (
	FraudPending  FraudStatus = "pending"
	FraudReviewed FraudStatus = "reviewed"
	FraudApproved FraudStatus = "approved"
	FraudRejected FraudStatus = "rejected"
)

// FraudFlag marks a transaction for manual review. How flags come to exist is
// outside the ledger core (upstream monitoring seeds them); only the review
// workflow lives here.
type FraudFlag struct {
	ID            string      `json:"id"`
	TransactionID string      `json:"transaction,omitempty"`
	AccountID     string      `json:"account"`
	Risk          FraudRisk   `json:"risk"`
	Status        FraudStatus `json:"status"`
	Reason        string      `json:"reason,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	DetectedAt    time.Time   `json:"detectedAt"`
	ReviewedAt    time.Time   `json:"reviewedAt,omitzero"`
	ReviewedBy    string      `json:"reviewedBy,omitempty"`
}

// RaiseFraudFlag records a new pending flag against an account (and
// optionally a specific transaction).
func (l *Ledger) RaiseFraudFlag(ctx context.Context, accountID, transactionID string, risk FraudRisk, reason string) (*FraudFlag, error) {
	var flag *FraudFlag
	err := l.store.Update(ctx, func(tx Tx) error {
		if _, err := tx.Account(accountID); err != nil {
			return err
		}
		flag = &FraudFlag{
			ID:            l.newID(),
			TransactionID: transactionID,
			AccountID:     accountID,
			Risk:          risk,
			Status:        FraudPending,
			Reason:        reason,
			DetectedAt:    l.now(),
		}
		return tx.PutFraudFlag(flag)
	})
	if err != nil {
		return nil, fmt.Errorf("raise fraud flag: %w", err)
	}
	return flag, nil
}

// ReviewFraudFlag transitions a pending flag to reviewed, approved, or
// rejected, stamping the reviewer identity and time. Any other transition
// fails with ErrInvalidTransition. Requires a manager or admin.
func (l *Ledger) ReviewFraudFlag(ctx context.Context, reviewer, flagID string, decision FraudStatus, notes string) error {
	switch decision {
	case FraudReviewed, FraudApproved, FraudRejected:
	default:
		return fmt.Errorf("decision %q: %w", decision, ErrInvalidTransition)
	}
	err := l.store.Update(ctx, func(tx Tx) error {
		if err := requireRole(tx, reviewer, RoleManager, RoleAdmin); err != nil {
			return err
		}
		flag, err := tx.FraudFlag(flagID)
		if err != nil {
			return err
		}
		if flag.Status != FraudPending {
			return fmt.Errorf("flag is %s: %w", flag.Status, ErrInvalidTransition)
		}
		flag.Status = decision
		flag.Notes = notes
		flag.ReviewedBy = reviewer
		flag.ReviewedAt = l.now()
		return tx.PutFraudFlag(flag)
	})
	if err != nil {
		return fmt.Errorf("review fraud flag %s: %w", flagID, err)
	}
	return nil
}
