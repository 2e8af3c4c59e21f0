package bankledger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// This file persists a MemStore as a JSONL stream, one record per line, in a
// way that is still human-readable and git-friendly. Every line carries a
// "record" property naming its kind, followed by the record's own fields.

const attrRecord = "record"

const (
	recUser           = "user"
	recPreferences    = "preferences"
	recAccount        = "account"
	recTransaction    = "transaction"
	recSavingsProduct = "savings-product"
	recSavingsAccount = "savings-account"
	recInterest       = "interest"
	recInvestProduct  = "investment-product"
	recPortfolio      = "portfolio"
	recHolding        = "holding"
	recInvestTx       = "investment-transaction"
	recLoanProduct    = "loan-product"
	recLoan           = "loan"
	recLoanPayment    = "loan-payment"
	recBiller         = "biller"
	recBill           = "bill"
	recFraudFlag      = "fraud-flag"
)

// juser is the persisted form of a User. The API form hides the password
// hash from JSON; the snapshot must keep it.
type juser struct {
	User
	PasswordHash []byte `json:"passwordHash,omitempty"`
}

// encodeRecord writes a single record as one JSON line, with the "record"
// discriminator first so readers can identify the line without parsing it all.
func encodeRecord(w io.Writer, kind string, v any) error {
	var jw jsonObjectWriter
	jw.Append(attrRecord, kind)
	jw.EmbedFrom(v)
	data, err := jw.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", kind, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write %s record: %w", kind, err)
	}
	return nil
}

// sortedValues returns map values ordered by key, for a stable encoding.
func sortedValues[T any](m map[string]T) []T {
	out := make([]T, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, m[k])
	}
	return out
}

// EncodeSnapshot persists the full content of a MemStore to an io.Writer in
// JSONL format. Keyed records are sorted by id, journals keep their append
// order, so re-encoding an unchanged store yields byte-identical output.
func EncodeSnapshot(w io.Writer, s *MemStore) error {
	s.mu.RLock()
	st := s.state
	s.mu.RUnlock()

	for _, u := range sortedValues(st.users) {
		if err := encodeRecord(w, recUser, juser{User: u, PasswordHash: u.PasswordHash}); err != nil {
			return err
		}
	}
	for _, p := range sortedValues(st.prefs) {
		if err := encodeRecord(w, recPreferences, p); err != nil {
			return err
		}
	}
	for _, p := range sortedValues(st.savingsProducts) {
		if err := encodeRecord(w, recSavingsProduct, p); err != nil {
			return err
		}
	}
	for _, p := range sortedValues(st.investProducts) {
		if err := encodeRecord(w, recInvestProduct, p); err != nil {
			return err
		}
	}
	for _, p := range sortedValues(st.loanProducts) {
		if err := encodeRecord(w, recLoanProduct, p); err != nil {
			return err
		}
	}
	for _, b := range sortedValues(st.billers) {
		if err := encodeRecord(w, recBiller, b); err != nil {
			return err
		}
	}
	for _, a := range sortedValues(st.accounts) {
		if err := encodeRecord(w, recAccount, a); err != nil {
			return err
		}
	}
	for _, sa := range sortedValues(st.savingsAccounts) {
		if err := encodeRecord(w, recSavingsAccount, sa); err != nil {
			return err
		}
	}
	for _, p := range sortedValues(st.portfolios) {
		if err := encodeRecord(w, recPortfolio, p); err != nil {
			return err
		}
	}
	for _, id := range st.holdingOrder {
		if err := encodeRecord(w, recHolding, st.holdings[id]); err != nil {
			return err
		}
	}
	for _, l := range sortedValues(st.loans) {
		if err := encodeRecord(w, recLoan, l); err != nil {
			return err
		}
	}
	for _, b := range sortedValues(st.bills) {
		if err := encodeRecord(w, recBill, b); err != nil {
			return err
		}
	}
	for _, id := range st.flagOrder {
		if err := encodeRecord(w, recFraudFlag, st.flags[id]); err != nil {
			return err
		}
	}
	for _, rec := range st.transactions {
		if err := encodeRecord(w, recTransaction, rec); err != nil {
			return err
		}
	}
	for _, rec := range st.interest {
		if err := encodeRecord(w, recInterest, rec); err != nil {
			return err
		}
	}
	for _, rec := range st.investTx {
		if err := encodeRecord(w, recInvestTx, rec); err != nil {
			return err
		}
	}
	for _, rec := range st.loanPayments {
		if err := encodeRecord(w, recLoanPayment, rec); err != nil {
			return err
		}
	}
	return nil
}

// DecodeSnapshot reads a JSONL stream produced by EncodeSnapshot and returns
// a MemStore holding its records.
func DecodeSnapshot(r io.Reader) (*MemStore, error) {
	state := newMemState()
	tx := &memTx{state: state, writable: true}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Record string `json:"record"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify record in line %q: %w", string(lineBytes), err)
		}

		var err error
		switch identifier.Record {
		case recUser:
			var v juser
			if err = json.Unmarshal(lineBytes, &v); err == nil {
				v.User.PasswordHash = v.PasswordHash
				err = tx.PutUser(&v.User)
			}
		case recPreferences:
			var v Preferences
			if err = json.Unmarshal(lineBytes, &v); err == nil {
				err = tx.PutPreferences(&v)
			}
		case recAccount:
			var v Account
			if err = json.Unmarshal(lineBytes, &v); err == nil {
				err = tx.PutAccount(&v)
			}
		case recTransaction:
			var v Transaction
			if err = json.Unmarshal(lineBytes, &v); err == nil {
				err = tx.AppendTransaction(&v)
			}
		case recSavingsProduct:
			var v SavingsProduct
			if err = json.Unmarshal(lineBytes, &v); err == nil {
				err = tx.PutSavingsProduct(&v)
			}
		case recSavingsAccount:
			var v SavingsAccount
			if err = json.Unmarshal(lineBytes, &v); err == nil {
				err = tx.PutSavingsAccount(&v)
			}
		case recInterest:
			var v InterestTransaction
			if err = json.Unmarshal(lineBytes, &v); err == nil {
				err = tx.AppendInterestTransaction(&v)
			}
		case recInvestProduct:
			var v InvestmentProduct
			if err = json.Unmarshal(lineBytes, &v); err == nil {
				err = tx.PutInvestmentProduct(&v)
			}
		case recPortfolio:
			var v Portfolio
			if err = json.Unmarshal(lineBytes, &v); err == nil {
				err = tx.PutPortfolio(&v)
			}
		case recHolding:
			var v InvestmentHolding
			if err = json.Unmarshal(lineBytes, &v); err == nil {
				err = tx.PutHolding(&v)
			}
		case recInvestTx:
			var v InvestmentTransaction
			if err = json.Unmarshal(lineBytes, &v); err == nil {
				err = tx.AppendInvestmentTransaction(&v)
			}
		case recLoanProduct:
			var v LoanProduct
			if err = json.Unmarshal(lineBytes, &v); err == nil {
				err = tx.PutLoanProduct(&v)
			}
		case recLoan:
			var v Loan
			if err = json.Unmarshal(lineBytes, &v); err == nil {
				err = tx.PutLoan(&v)
			}
		case recLoanPayment:
			var v LoanPayment
			if err = json.Unmarshal(lineBytes, &v); err == nil {
				err = tx.AppendLoanPayment(&v)
			}
		case recBiller:
			var v Biller
			if err = json.Unmarshal(lineBytes, &v); err == nil {
				err = tx.PutBiller(&v)
			}
		case recBill:
			var v Bill
			if err = json.Unmarshal(lineBytes, &v); err == nil {
				err = tx.PutBill(&v)
			}
		case recFraudFlag:
			var v FraudFlag
			if err = json.Unmarshal(lineBytes, &v); err == nil {
				err = tx.PutFraudFlag(&v)
			}
		default:
			err = fmt.Errorf("unknown record kind: %q", identifier.Record)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	return &MemStore{state: state}, nil
}

// LoadStore reads the snapshot file at path. A missing file is not an error
// and yields an empty store, so a fresh workspace just works.
func LoadStore(path string) (*MemStore, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewMemStore(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open %q for reading: %w", path, err)
	}
	defer f.Close()
	s, err := DecodeSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("cannot load store from %q: %w", path, err)
	}
	return s, nil
}

// SaveStore writes the snapshot to a temporary file in the same directory and
// renames it into place, so a crash mid-write never truncates the previous
// snapshot.
func SaveStore(path string, s *MemStore) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("cannot create temporary file in %q: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if err := EncodeSnapshot(tmp, s); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot close %q: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("cannot replace %q: %w", path, err)
	}
	return nil
}
