package bankledger

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// StatementLine is one movement on the account within the statement period,
// with the running balance after it was applied.
type StatementLine struct {
	Time         time.Time
	Type         TransactionType
	Description  string
	Counterparty string // the other account of a transfer, empty otherwise
	Amount       Money  // signed effect on the account
	Balance      Money  // running balance after this line
}

// Statement is an account statement over an inclusive date range. Since every
// balance change writes a ledger record, the opening and closing balances are
// replayed from the journal rather than read from the account.
type Statement struct {
	Account     Account
	From, To    Date
	Opening     Money
	Closing     Money
	TotalIn     Money
	TotalOut    Money
	Lines       []StatementLine
	GeneratedAt time.Time
}

// Statement builds the owner's account statement for the inclusive date range
// [from, to].
func (l *Ledger) Statement(ctx context.Context, owner, accountID string, from, to Date) (*Statement, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("statement range %s after %s: %w", from, to, ErrInvalidAmount)
	}
	var st *Statement
	err := l.store.View(ctx, func(tx Tx) error {
		account, err := tx.Account(accountID)
		if err != nil {
			if isNotFound(err) {
				return ErrInvalidAccount
			}
			return err
		}
		if account.OwnerID != owner {
			return ErrInvalidAccount
		}

		records, err := tx.Transactions(accountID)
		if err != nil {
			return err
		}
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Time.Before(records[j].Time)
		})

		zero := M(0, account.Balance.Currency())
		st = &Statement{
			Account:     *account,
			From:        from,
			To:          to,
			Opening:     zero,
			TotalIn:     zero,
			TotalOut:    zero,
			GeneratedAt: l.now(),
		}

		// end is the first instant after the statement period.
		end := to.Add(1).Time()
		balance := zero
		for _, rec := range records {
			if !rec.Time.Before(end) {
				break
			}
			amount := rec.signedAmount(accountID)
			balance = balance.Add(amount)
			if rec.Time.Before(from.Time()) {
				st.Opening = balance
				continue
			}
			line := StatementLine{
				Time:        rec.Time,
				Type:        rec.Type,
				Description: rec.Description,
				Amount:      amount,
				Balance:     balance,
			}
			if rec.Type == TxTransfer {
				if rec.From == accountID {
					line.Counterparty = rec.To
				} else {
					line.Counterparty = rec.From
				}
			}
			if amount.IsPositive() {
				st.TotalIn = st.TotalIn.Add(amount)
			} else {
				st.TotalOut = st.TotalOut.Add(amount.Neg())
			}
			st.Lines = append(st.Lines, line)
		}
		st.Closing = balance
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("statement for %s: %w", accountID, err)
	}
	return st, nil
}
