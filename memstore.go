package bankledger

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// MemStore is an in-memory Store. A single mutex serializes updates, and each
// update runs against a copy of the state that is swapped in only when the
// update function succeeds, so a failed operation leaves no partial writes.
//
// It doubles as the file backend of the CLI through EncodeSnapshot and
// DecodeSnapshot.
type MemStore struct {
	mu    sync.RWMutex
	state *memState
}

// memState holds every record by id. Map values are structs, not pointers:
// copying a map shallow-copies all records, which is a deep enough copy since
// records hold only value types.
type memState struct {
	users           map[string]User
	prefs           map[string]Preferences
	accounts        map[string]Account
	transactions    []Transaction
	savingsProducts map[string]SavingsProduct
	savingsAccounts map[string]SavingsAccount
	interest        []InterestTransaction
	investProducts  map[string]InvestmentProduct
	portfolios      map[string]Portfolio
	holdings        map[string]InvestmentHolding
	holdingOrder    []string // holding ids in creation order
	investTx        []InvestmentTransaction
	loanProducts    map[string]LoanProduct
	loans           map[string]Loan
	loanPayments    []LoanPayment
	billers         map[string]Biller
	bills           map[string]Bill
	flags           map[string]FraudFlag
	flagOrder       []string // flag ids in detection order
}

func newMemState() *memState {
	return &memState{
		users:           make(map[string]User),
		prefs:           make(map[string]Preferences),
		accounts:        make(map[string]Account),
		savingsProducts: make(map[string]SavingsProduct),
		savingsAccounts: make(map[string]SavingsAccount),
		investProducts:  make(map[string]InvestmentProduct),
		portfolios:      make(map[string]Portfolio),
		holdings:        make(map[string]InvestmentHolding),
		loanProducts:    make(map[string]LoanProduct),
		loans:           make(map[string]Loan),
		billers:         make(map[string]Biller),
		bills:           make(map[string]Bill),
		flags:           make(map[string]FraudFlag),
	}
}

func (s *memState) clone() *memState {
	return &memState{
		users:           maps.Clone(s.users),
		prefs:           maps.Clone(s.prefs),
		accounts:        maps.Clone(s.accounts),
		transactions:    slices.Clone(s.transactions),
		savingsProducts: maps.Clone(s.savingsProducts),
		savingsAccounts: maps.Clone(s.savingsAccounts),
		interest:        slices.Clone(s.interest),
		investProducts:  maps.Clone(s.investProducts),
		portfolios:      maps.Clone(s.portfolios),
		holdings:        maps.Clone(s.holdings),
		holdingOrder:    slices.Clone(s.holdingOrder),
		investTx:        slices.Clone(s.investTx),
		loanProducts:    maps.Clone(s.loanProducts),
		loans:           maps.Clone(s.loans),
		loanPayments:    slices.Clone(s.loanPayments),
		billers:         maps.Clone(s.billers),
		bills:           maps.Clone(s.bills),
		flags:           maps.Clone(s.flags),
		flagOrder:       slices.Clone(s.flagOrder),
	}
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{state: newMemState()}
}

var _ Store = (*MemStore)(nil)
var _ Tx = (*memTx)(nil)

// View implements Store.
func (s *MemStore) View(ctx context.Context, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&memTx{state: s.state})
}

// Update implements Store. The function runs against a clone; the clone
// replaces the live state only when fn returns nil.
func (s *MemStore) Update(ctx context.Context, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.clone()
	if err := fn(&memTx{state: next, writable: true}); err != nil {
		return err
	}
	s.state = next
	return nil
}

// memTx implements Tx over a memState.
type memTx struct {
	state    *memState
	writable bool
}

var errReadOnly = fmt.Errorf("read-only transaction")

func (t *memTx) write() error {
	if !t.writable {
		return errReadOnly
	}
	return nil
}

// get is the generic read of one record from an id-keyed map.
func get[T any](m map[string]T, id, kind string) (*T, error) {
	v, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
	}
	return &v, nil
}

func (t *memTx) User(id string) (*User, error) { return get(t.state.users, id, "user") }
func (t *memTx) PutUser(u *User) error {
	if err := t.write(); err != nil {
		return err
	}
	t.state.users[u.ID] = *u
	return nil
}

func (t *memTx) Preferences(userID string) (*Preferences, error) {
	return get(t.state.prefs, userID, "preferences")
}
func (t *memTx) PutPreferences(p *Preferences) error {
	if err := t.write(); err != nil {
		return err
	}
	t.state.prefs[p.UserID] = *p
	return nil
}

func (t *memTx) Account(id string) (*Account, error) { return get(t.state.accounts, id, "account") }
func (t *memTx) PutAccount(a *Account) error {
	if err := t.write(); err != nil {
		return err
	}
	t.state.accounts[a.ID] = *a
	return nil
}

func (t *memTx) AccountsOwnedBy(owner string) ([]*Account, error) {
	var out []*Account
	for _, id := range slices.Sorted(maps.Keys(t.state.accounts)) {
		a := t.state.accounts[id]
		if a.OwnerID == owner {
			out = append(out, &a)
		}
	}
	return out, nil
}

func (t *memTx) AppendTransaction(rec *Transaction) error {
	if err := t.write(); err != nil {
		return err
	}
	t.state.transactions = append(t.state.transactions, *rec)
	return nil
}

func (t *memTx) Transactions(accountID string) ([]*Transaction, error) {
	var out []*Transaction
	for i := range t.state.transactions {
		rec := t.state.transactions[i]
		if rec.Touches(accountID) {
			out = append(out, &rec)
		}
	}
	return out, nil
}

func (t *memTx) SavingsProduct(id string) (*SavingsProduct, error) {
	return get(t.state.savingsProducts, id, "savings product")
}
func (t *memTx) PutSavingsProduct(p *SavingsProduct) error {
	if err := t.write(); err != nil {
		return err
	}
	t.state.savingsProducts[p.ID] = *p
	return nil
}

func (t *memTx) SavingsAccount(id string) (*SavingsAccount, error) {
	return get(t.state.savingsAccounts, id, "savings account")
}
func (t *memTx) PutSavingsAccount(sa *SavingsAccount) error {
	if err := t.write(); err != nil {
		return err
	}
	t.state.savingsAccounts[sa.ID] = *sa
	return nil
}

func (t *memTx) AppendInterestTransaction(rec *InterestTransaction) error {
	if err := t.write(); err != nil {
		return err
	}
	t.state.interest = append(t.state.interest, *rec)
	return nil
}

func (t *memTx) InvestmentProduct(id string) (*InvestmentProduct, error) {
	return get(t.state.investProducts, id, "investment product")
}
func (t *memTx) PutInvestmentProduct(p *InvestmentProduct) error {
	if err := t.write(); err != nil {
		return err
	}
	t.state.investProducts[p.ID] = *p
	return nil
}

func (t *memTx) Portfolio(id string) (*Portfolio, error) {
	return get(t.state.portfolios, id, "portfolio")
}
func (t *memTx) PutPortfolio(p *Portfolio) error {
	if err := t.write(); err != nil {
		return err
	}
	t.state.portfolios[p.ID] = *p
	return nil
}

func (t *memTx) Holding(id string) (*InvestmentHolding, error) {
	return get(t.state.holdings, id, "holding")
}
func (t *memTx) PutHolding(h *InvestmentHolding) error {
	if err := t.write(); err != nil {
		return err
	}
	if _, exists := t.state.holdings[h.ID]; !exists {
		t.state.holdingOrder = append(t.state.holdingOrder, h.ID)
	}
	t.state.holdings[h.ID] = *h
	return nil
}

func (t *memTx) ActiveHolding(portfolioID, productID string) (*InvestmentHolding, error) {
	for _, id := range t.state.holdingOrder {
		h := t.state.holdings[id]
		if h.PortfolioID == portfolioID && h.ProductID == productID && h.Status == HoldingActive {
			return &h, nil
		}
	}
	return nil, fmt.Errorf("active holding for %s/%s: %w", portfolioID, productID, ErrNotFound)
}

func (t *memTx) ActiveHoldings(portfolioID string) ([]*InvestmentHolding, error) {
	var out []*InvestmentHolding
	for _, id := range t.state.holdingOrder {
		h := t.state.holdings[id]
		if h.PortfolioID == portfolioID && h.Status == HoldingActive {
			out = append(out, &h)
		}
	}
	return out, nil
}

func (t *memTx) HoldingsOfProduct(productID string) ([]*InvestmentHolding, error) {
	var out []*InvestmentHolding
	for _, id := range t.state.holdingOrder {
		h := t.state.holdings[id]
		if h.ProductID == productID {
			out = append(out, &h)
		}
	}
	return out, nil
}

func (t *memTx) AppendInvestmentTransaction(rec *InvestmentTransaction) error {
	if err := t.write(); err != nil {
		return err
	}
	t.state.investTx = append(t.state.investTx, *rec)
	return nil
}

func (t *memTx) LoanProduct(id string) (*LoanProduct, error) {
	return get(t.state.loanProducts, id, "loan product")
}
func (t *memTx) PutLoanProduct(p *LoanProduct) error {
	if err := t.write(); err != nil {
		return err
	}
	t.state.loanProducts[p.ID] = *p
	return nil
}

func (t *memTx) Loan(id string) (*Loan, error) { return get(t.state.loans, id, "loan") }
func (t *memTx) PutLoan(loan *Loan) error {
	if err := t.write(); err != nil {
		return err
	}
	t.state.loans[loan.ID] = *loan
	return nil
}

func (t *memTx) AppendLoanPayment(rec *LoanPayment) error {
	if err := t.write(); err != nil {
		return err
	}
	t.state.loanPayments = append(t.state.loanPayments, *rec)
	return nil
}

func (t *memTx) Biller(id string) (*Biller, error) { return get(t.state.billers, id, "biller") }
func (t *memTx) PutBiller(b *Biller) error {
	if err := t.write(); err != nil {
		return err
	}
	t.state.billers[b.ID] = *b
	return nil
}

func (t *memTx) Bill(id string) (*Bill, error) { return get(t.state.bills, id, "bill") }
func (t *memTx) PutBill(b *Bill) error {
	if err := t.write(); err != nil {
		return err
	}
	t.state.bills[b.ID] = *b
	return nil
}

func (t *memTx) FraudFlag(id string) (*FraudFlag, error) {
	return get(t.state.flags, id, "fraud flag")
}
func (t *memTx) PutFraudFlag(f *FraudFlag) error {
	if err := t.write(); err != nil {
		return err
	}
	if _, exists := t.state.flags[f.ID]; !exists {
		t.state.flagOrder = append(t.state.flagOrder, f.ID)
	}
	t.state.flags[f.ID] = *f
	return nil
}

func (t *memTx) PendingFraudFlags() ([]*FraudFlag, error) {
	var out []*FraudFlag
	for _, id := range t.state.flagOrder {
		f := t.state.flags[id]
		if f.Status == FraudPending {
			out = append(out, &f)
		}
	}
	return out, nil
}
