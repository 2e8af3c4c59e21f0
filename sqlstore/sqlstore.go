// Package sqlstore persists ledger records in MySQL.
//
// Records are stored as JSON documents in two tables: "records" keyed by
// (kind, id) for mutable records, and "journal" for append-only audit
// records. Reusing the JSON form keeps one codec for the file snapshot and
// the database. Writable transactions lock the rows they read with
// SELECT ... FOR UPDATE, so two concurrent updates of the same account
// serialize instead of losing a write.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"github.com/property360-2/bankledger"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	seq  BIGINT      NOT NULL AUTO_INCREMENT,
	kind VARCHAR(32) NOT NULL,
	id   VARCHAR(64) NOT NULL,
	doc  JSON        NOT NULL,
	PRIMARY KEY (kind, id),
	UNIQUE KEY records_seq (seq)
) ENGINE=InnoDB;

CREATE TABLE IF NOT EXISTS journal (
	seq  BIGINT      NOT NULL AUTO_INCREMENT,
	kind VARCHAR(32) NOT NULL,
	doc  JSON        NOT NULL,
	PRIMARY KEY (seq),
	KEY journal_kind (kind)
) ENGINE=InnoDB;
`

// record kinds, shared by both tables.
const (
	kindUser           = "user"
	kindPreferences    = "preferences"
	kindAccount        = "account"
	kindTransaction    = "transaction"
	kindSavingsProduct = "savings-product"
	kindSavingsAccount = "savings-account"
	kindInterest       = "interest"
	kindInvestProduct  = "investment-product"
	kindPortfolio      = "portfolio"
	kindHolding        = "holding"
	kindInvestTx       = "investment-transaction"
	kindLoanProduct    = "loan-product"
	kindLoan           = "loan"
	kindLoanPayment    = "loan-payment"
	kindBiller         = "biller"
	kindBill           = "bill"
	kindFraudFlag      = "fraud-flag"
)

// Store implements bankledger.Store over a MySQL database.
type Store struct {
	db *sql.DB
}

var _ bankledger.Store = (*Store)(nil)

// Open connects to the MySQL database described by dsn, in the form
// "user:password@tcp(host:3306)/bank". The schema is created when missing.
func Open(ctx context.Context, dsn string) (*Store, error) {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	db, err := sql.Open("mysql", dsn+sep+"parseTime=true&multiStatements=true")
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot reach database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database connections.
func (s *Store) Close() error { return s.db.Close() }

// View implements bankledger.Store.
func (s *Store) View(ctx context.Context, fn func(bankledger.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return fmt.Errorf("cannot begin read transaction: %w", err)
	}
	defer tx.Rollback()
	return fn(&sqlTx{ctx: ctx, tx: tx})
}

// Update implements bankledger.Store. All writes of fn commit together, or
// roll back together when fn fails.
func (s *Store) Update(ctx context.Context, fn func(bankledger.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("cannot begin transaction: %w", err)
	}
	// Rolling back after a successful commit is a no-op; the deferred call
	// is there so a panic inside fn cannot leak an open transaction.
	defer tx.Rollback()
	if err := fn(&sqlTx{ctx: ctx, tx: tx, writable: true}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("cannot commit transaction: %w", err)
	}
	return nil
}

// sqlTx implements bankledger.Tx over one database transaction.
type sqlTx struct {
	ctx      context.Context
	tx       *sql.Tx
	writable bool
}

var _ bankledger.Tx = (*sqlTx)(nil)

var errReadOnly = errors.New("read-only transaction")

// getDoc reads one record by (kind, id), locking the row in a writable
// transaction.
func getDoc[T any](t *sqlTx, kind, id string) (*T, error) {
	query := "SELECT doc FROM records WHERE kind = ? AND id = ?"
	if t.writable {
		query += " FOR UPDATE"
	}
	var doc []byte
	err := t.tx.QueryRowContext(t.ctx, query, kind, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %q: %w", kind, id, bankledger.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %s %q: %w", kind, id, err)
	}
	v := new(T)
	if err := json.Unmarshal(doc, v); err != nil {
		return nil, fmt.Errorf("corrupt %s %q: %w", kind, id, err)
	}
	return v, nil
}

// putDoc upserts one record.
func putDoc(t *sqlTx, kind, id string, v any) error {
	if !t.writable {
		return errReadOnly
	}
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cannot marshal %s %q: %w", kind, id, err)
	}
	_, err = t.tx.ExecContext(t.ctx,
		"INSERT INTO records (kind, id, doc) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE doc = VALUES(doc)",
		kind, id, doc)
	if err != nil {
		return fmt.Errorf("cannot write %s %q: %w", kind, id, err)
	}
	return nil
}

// appendDoc inserts one audit record into the journal.
func appendDoc(t *sqlTx, kind string, v any) error {
	if !t.writable {
		return errReadOnly
	}
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cannot marshal %s: %w", kind, err)
	}
	if _, err := t.tx.ExecContext(t.ctx, "INSERT INTO journal (kind, doc) VALUES (?, ?)", kind, doc); err != nil {
		return fmt.Errorf("cannot append %s: %w", kind, err)
	}
	return nil
}

// selectDocs runs a query returning doc columns and unmarshals each row.
func selectDocs[T any](t *sqlTx, query string, args ...any) ([]*T, error) {
	if t.writable {
		query += " FOR UPDATE"
	}
	rows, err := t.tx.QueryContext(t.ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var out []*T
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		v := new(T)
		if err := json.Unmarshal(doc, v); err != nil {
			return nil, fmt.Errorf("corrupt record: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// juser is the persisted form of a User, keeping the password hash the API
// form hides from JSON.
type juser struct {
	bankledger.User
	PasswordHash []byte `json:"passwordHash,omitempty"`
}

func (t *sqlTx) User(id string) (*bankledger.User, error) {
	v, err := getDoc[juser](t, kindUser, id)
	if err != nil {
		return nil, err
	}
	u := v.User
	u.PasswordHash = v.PasswordHash
	return &u, nil
}

func (t *sqlTx) PutUser(u *bankledger.User) error {
	return putDoc(t, kindUser, u.ID, juser{User: *u, PasswordHash: u.PasswordHash})
}

func (t *sqlTx) Preferences(userID string) (*bankledger.Preferences, error) {
	return getDoc[bankledger.Preferences](t, kindPreferences, userID)
}

func (t *sqlTx) PutPreferences(p *bankledger.Preferences) error {
	return putDoc(t, kindPreferences, p.UserID, p)
}

func (t *sqlTx) Account(id string) (*bankledger.Account, error) {
	return getDoc[bankledger.Account](t, kindAccount, id)
}

func (t *sqlTx) PutAccount(a *bankledger.Account) error {
	return putDoc(t, kindAccount, a.ID, a)
}

func (t *sqlTx) AccountsOwnedBy(owner string) ([]*bankledger.Account, error) {
	return selectDocs[bankledger.Account](t,
		"SELECT doc FROM records WHERE kind = ? AND doc->>'$.owner' = ? ORDER BY id",
		kindAccount, owner)
}

func (t *sqlTx) AppendTransaction(rec *bankledger.Transaction) error {
	return appendDoc(t, kindTransaction, rec)
}

func (t *sqlTx) Transactions(accountID string) ([]*bankledger.Transaction, error) {
	return selectDocs[bankledger.Transaction](t,
		"SELECT doc FROM journal WHERE kind = ? AND (doc->>'$.from' = ? OR doc->>'$.to' = ?) ORDER BY seq",
		kindTransaction, accountID, accountID)
}

func (t *sqlTx) SavingsProduct(id string) (*bankledger.SavingsProduct, error) {
	return getDoc[bankledger.SavingsProduct](t, kindSavingsProduct, id)
}

func (t *sqlTx) PutSavingsProduct(p *bankledger.SavingsProduct) error {
	return putDoc(t, kindSavingsProduct, p.ID, p)
}

func (t *sqlTx) SavingsAccount(id string) (*bankledger.SavingsAccount, error) {
	return getDoc[bankledger.SavingsAccount](t, kindSavingsAccount, id)
}

func (t *sqlTx) PutSavingsAccount(sa *bankledger.SavingsAccount) error {
	return putDoc(t, kindSavingsAccount, sa.ID, sa)
}

func (t *sqlTx) AppendInterestTransaction(rec *bankledger.InterestTransaction) error {
	return appendDoc(t, kindInterest, rec)
}

func (t *sqlTx) InvestmentProduct(id string) (*bankledger.InvestmentProduct, error) {
	return getDoc[bankledger.InvestmentProduct](t, kindInvestProduct, id)
}

func (t *sqlTx) PutInvestmentProduct(p *bankledger.InvestmentProduct) error {
	return putDoc(t, kindInvestProduct, p.ID, p)
}

func (t *sqlTx) Portfolio(id string) (*bankledger.Portfolio, error) {
	return getDoc[bankledger.Portfolio](t, kindPortfolio, id)
}

func (t *sqlTx) PutPortfolio(p *bankledger.Portfolio) error {
	return putDoc(t, kindPortfolio, p.ID, p)
}

func (t *sqlTx) Holding(id string) (*bankledger.InvestmentHolding, error) {
	return getDoc[bankledger.InvestmentHolding](t, kindHolding, id)
}

func (t *sqlTx) PutHolding(h *bankledger.InvestmentHolding) error {
	return putDoc(t, kindHolding, h.ID, h)
}

func (t *sqlTx) ActiveHolding(portfolioID, productID string) (*bankledger.InvestmentHolding, error) {
	out, err := selectDocs[bankledger.InvestmentHolding](t,
		"SELECT doc FROM records WHERE kind = ? AND doc->>'$.portfolio' = ? AND doc->>'$.product' = ? AND doc->>'$.status' = 'active' ORDER BY seq",
		kindHolding, portfolioID, productID)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("active holding for %s/%s: %w", portfolioID, productID, bankledger.ErrNotFound)
	}
	return out[0], nil
}

func (t *sqlTx) ActiveHoldings(portfolioID string) ([]*bankledger.InvestmentHolding, error) {
	return selectDocs[bankledger.InvestmentHolding](t,
		"SELECT doc FROM records WHERE kind = ? AND doc->>'$.portfolio' = ? AND doc->>'$.status' = 'active' ORDER BY seq",
		kindHolding, portfolioID)
}

func (t *sqlTx) HoldingsOfProduct(productID string) ([]*bankledger.InvestmentHolding, error) {
	return selectDocs[bankledger.InvestmentHolding](t,
		"SELECT doc FROM records WHERE kind = ? AND doc->>'$.product' = ? ORDER BY seq",
		kindHolding, productID)
}

func (t *sqlTx) AppendInvestmentTransaction(rec *bankledger.InvestmentTransaction) error {
	return appendDoc(t, kindInvestTx, rec)
}

func (t *sqlTx) LoanProduct(id string) (*bankledger.LoanProduct, error) {
	return getDoc[bankledger.LoanProduct](t, kindLoanProduct, id)
}

func (t *sqlTx) PutLoanProduct(p *bankledger.LoanProduct) error {
	return putDoc(t, kindLoanProduct, p.ID, p)
}

func (t *sqlTx) Loan(id string) (*bankledger.Loan, error) {
	return getDoc[bankledger.Loan](t, kindLoan, id)
}

func (t *sqlTx) PutLoan(loan *bankledger.Loan) error {
	return putDoc(t, kindLoan, loan.ID, loan)
}

func (t *sqlTx) AppendLoanPayment(rec *bankledger.LoanPayment) error {
	return appendDoc(t, kindLoanPayment, rec)
}

func (t *sqlTx) Biller(id string) (*bankledger.Biller, error) {
	return getDoc[bankledger.Biller](t, kindBiller, id)
}

func (t *sqlTx) PutBiller(b *bankledger.Biller) error {
	return putDoc(t, kindBiller, b.ID, b)
}

func (t *sqlTx) Bill(id string) (*bankledger.Bill, error) {
	return getDoc[bankledger.Bill](t, kindBill, id)
}

func (t *sqlTx) PutBill(b *bankledger.Bill) error {
	return putDoc(t, kindBill, b.ID, b)
}

func (t *sqlTx) FraudFlag(id string) (*bankledger.FraudFlag, error) {
	return getDoc[bankledger.FraudFlag](t, kindFraudFlag, id)
}

func (t *sqlTx) PutFraudFlag(f *bankledger.FraudFlag) error {
	return putDoc(t, kindFraudFlag, f.ID, f)
}

func (t *sqlTx) PendingFraudFlags() ([]*bankledger.FraudFlag, error) {
	return selectDocs[bankledger.FraudFlag](t,
		"SELECT doc FROM records WHERE kind = ? AND doc->>'$.status' = 'pending' ORDER BY seq",
		kindFraudFlag)
}
