package bankledger

import (
	"context"
	"fmt"
	"time"
)

// PortfolioStatus is the lifecycle status of a portfolio.
type PortfolioStatus string

const (
	PortfolioActive   PortfolioStatus = "active"
	PortfolioInactive PortfolioStatus = "inactive"
	PortfolioClosed   PortfolioStatus = "closed"
)

// HoldingStatus tracks how much of a holding has been sold.
type HoldingStatus string

const (
	HoldingActive      HoldingStatus = "active"
	HoldingSold        HoldingStatus = "sold"
	HoldingPartialSold HoldingStatus = "partial_sold"
)

// InvestmentTxType identifies an investment audit record.
type InvestmentTxType string

const (
	InvestBuy      InvestmentTxType = "buy"
	InvestSell     InvestmentTxType = "sell"
	InvestDividend InvestmentTxType = "dividend"
)

// InvestmentProduct is a purchasable instrument with a quoted price.
type InvestmentProduct struct {
	ID            string `json:"id"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Risk          string `json:"risk,omitempty"`
	CurrentPrice  Money  `json:"currentPrice"`
	MinInvestment Money  `json:"minInvestment"`
	Active        bool   `json:"active"`
}

// Portfolio aggregates a user's holdings, funded from one cash account.
// TotalInvested, CurrentValue and TotalReturn are recomputed from holdings
// after every buy and sell, never edited independently.
type Portfolio struct {
	ID            string          `json:"id"`
	OwnerID       string          `json:"owner"`
	AccountID     string          `json:"account"` // funding cash account
	Name          string          `json:"name"`
	TotalInvested Money           `json:"totalInvested"`
	CurrentValue  Money           `json:"currentValue"`
	TotalReturn   Money           `json:"totalReturn"`
	Status        PortfolioStatus `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// InvestmentHolding is a position of one product within one portfolio.
// PurchasePrice is the weighted-average price across all buys.
type InvestmentHolding struct {
	ID            string        `json:"id"`
	PortfolioID   string        `json:"portfolio"`
	ProductID     string        `json:"product"`
	Quantity      Quantity      `json:"quantity"`
	PurchasePrice Money         `json:"purchasePrice"`
	CurrentPrice  Money         `json:"currentPrice"`
	Status        HoldingStatus `json:"status"`
	PurchasedAt   time.Time     `json:"purchasedAt"`
}

// CurrentValue is the holding's market value at its current price.
func (h *InvestmentHolding) CurrentValue() Money {
	return h.CurrentPrice.Mul(h.Quantity)
}

// PurchaseValue is the holding's cost at its weighted-average purchase price.
func (h *InvestmentHolding) PurchaseValue() Money {
	return h.PurchasePrice.Mul(h.Quantity)
}

// InvestmentTransaction is the immutable audit record of one buy, sell, or
// dividend. AccountTxID links the cash-side Transaction created in the same
// atomic unit.
type InvestmentTransaction struct {
	ID          string           `json:"id"`
	PortfolioID string           `json:"portfolio"`
	ProductID   string           `json:"product"`
	HoldingID   string           `json:"holding,omitempty"`
	Type        InvestmentTxType `json:"type"`
	Quantity    Quantity         `json:"quantity"`
	Price       Money            `json:"price"`
	TotalAmount Money            `json:"totalAmount"`
	AccountTxID string           `json:"accountTx,omitempty"`
	Time        time.Time        `json:"time"`
}

// CreatePortfolio creates an empty active portfolio funded from the given
// cash account.
func (l *Ledger) CreatePortfolio(ctx context.Context, owner, accountID, name string) (*Portfolio, error) {
	var p *Portfolio
	err := l.store.Update(ctx, func(tx Tx) error {
		account, err := activeOwnedAccount(tx, owner, accountID)
		if err != nil {
			return err
		}
		currency := account.Balance.Currency()
		p = &Portfolio{
			ID:            l.newID(),
			OwnerID:       owner,
			AccountID:     account.ID,
			Name:          name,
			TotalInvested: M(0, currency),
			CurrentValue:  M(0, currency),
			TotalReturn:   M(0, currency),
			Status:        PortfolioActive,
			CreatedAt:     l.now(),
		}
		return tx.PutPortfolio(p)
	})
	if err != nil {
		return nil, fmt.Errorf("create portfolio: %w", err)
	}
	return p, nil
}

// Buy purchases quantity units of a product into the portfolio:
// the cost (quantity x current price) is debited from the funding account,
// the active holding for the product is created or recomputed with a
// weighted-average purchase price, one InvestmentTransaction(buy) and one
// account Transaction(withdrawal) are appended, and the portfolio aggregates
// are recomputed. All of it is one atomic unit.
func (l *Ledger) Buy(ctx context.Context, owner, portfolioID, productID string, quantity Quantity) (*InvestmentTransaction, error) {
	if !quantity.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var rec *InvestmentTransaction
	err := l.store.Update(ctx, func(tx Tx) error {
		portfolio, err := tx.Portfolio(portfolioID)
		if err != nil {
			return err
		}
		if portfolio.OwnerID != owner || portfolio.Status != PortfolioActive {
			return ErrInvalidAccount
		}
		product, err := tx.InvestmentProduct(productID)
		if err != nil {
			return err
		}
		if !product.Active {
			return fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}
		account, err := activeOwnedAccount(tx, owner, portfolio.AccountID)
		if err != nil {
			return err
		}

		cost := product.CurrentPrice.Mul(quantity)
		if err := sameCurrency(cost, account.Balance); err != nil {
			return err
		}
		if cost.LessThan(product.MinInvestment) {
			return fmt.Errorf("cost %s below product minimum %s: %w",
				cost, product.MinInvestment, ErrInvalidAmount)
		}
		if account.Balance.LessThan(cost) {
			return ErrInsufficientFunds
		}

		account.Balance = account.Balance.Sub(cost)
		if err := tx.PutAccount(account); err != nil {
			return err
		}

		holding, err := tx.ActiveHolding(portfolio.ID, product.ID)
		switch {
		case err == nil:
			// Weighted-average price across the old position and the new lot.
			oldValue := holding.PurchasePrice.Mul(holding.Quantity)
			newQty := holding.Quantity.Add(quantity)
			holding.PurchasePrice = oldValue.Add(cost).Div(newQty)
			holding.Quantity = newQty
			holding.CurrentPrice = product.CurrentPrice
		case isNotFound(err):
			holding = &InvestmentHolding{
				ID:            l.newID(),
				PortfolioID:   portfolio.ID,
				ProductID:     product.ID,
				Quantity:      quantity,
				PurchasePrice: product.CurrentPrice,
				CurrentPrice:  product.CurrentPrice,
				Status:        HoldingActive,
				PurchasedAt:   l.now(),
			}
		default:
			return err
		}
		if err := tx.PutHolding(holding); err != nil {
			return err
		}

		cashTx := &Transaction{
			ID:          l.newID(),
			Type:        TxWithdrawal,
			From:        account.ID,
			Amount:      cost,
			Description: fmt.Sprintf("Investment: %s x %s", quantity, product.Symbol),
			Time:        l.now(),
		}
		if err := tx.AppendTransaction(cashTx); err != nil {
			return err
		}

		rec = &InvestmentTransaction{
			ID:          l.newID(),
			PortfolioID: portfolio.ID,
			ProductID:   product.ID,
			HoldingID:   holding.ID,
			Type:        InvestBuy,
			Quantity:    quantity,
			Price:       product.CurrentPrice,
			TotalAmount: cost,
			AccountTxID: cashTx.ID,
			Time:        l.now(),
		}
		if err := tx.AppendInvestmentTransaction(rec); err != nil {
			return err
		}

		portfolio.TotalInvested = portfolio.TotalInvested.Add(cost)
		return updatePortfolioValue(tx, portfolio)
	})
	if err != nil {
		return nil, fmt.Errorf("buy %s: %w", productID, err)
	}
	return rec, nil
}

// Sell disposes of quantity units of a holding: the sale value (quantity x
// current price) is credited to the funding account, the holding's quantity
// and status are updated (sold when fully disposed, partial_sold otherwise),
// one InvestmentTransaction(sell) and one account Transaction(deposit) are
// appended, and the portfolio aggregates are recomputed. One atomic unit.
func (l *Ledger) Sell(ctx context.Context, owner, holdingID string, quantity Quantity) (*InvestmentTransaction, error) {
	if !quantity.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var rec *InvestmentTransaction
	err := l.store.Update(ctx, func(tx Tx) error {
		holding, err := tx.Holding(holdingID)
		if err != nil {
			return err
		}
		portfolio, err := tx.Portfolio(holding.PortfolioID)
		if err != nil {
			return err
		}
		if portfolio.OwnerID != owner {
			return ErrInvalidAccount
		}
		if quantity.GreaterThan(holding.Quantity) {
			return ErrOverSell
		}
		account, err := tx.Account(portfolio.AccountID)
		if err != nil {
			return err
		}

		saleValue := holding.CurrentPrice.Mul(quantity)
		if err := sameCurrency(saleValue, account.Balance); err != nil {
			return err
		}
		account.Balance = account.Balance.Add(saleValue)
		if err := tx.PutAccount(account); err != nil {
			return err
		}

		if quantity.Equal(holding.Quantity) {
			holding.Status = HoldingSold
			holding.Quantity = Q(0)
		} else {
			holding.Quantity = holding.Quantity.Sub(quantity)
			holding.Status = HoldingPartialSold
		}
		if err := tx.PutHolding(holding); err != nil {
			return err
		}

		cashTx := &Transaction{
			ID:          l.newID(),
			Type:        TxDeposit,
			To:          account.ID,
			Amount:      saleValue,
			Description: fmt.Sprintf("Investment sale: %s units", quantity),
			Time:        l.now(),
		}
		if err := tx.AppendTransaction(cashTx); err != nil {
			return err
		}

		rec = &InvestmentTransaction{
			ID:          l.newID(),
			PortfolioID: portfolio.ID,
			ProductID:   holding.ProductID,
			HoldingID:   holding.ID,
			Type:        InvestSell,
			Quantity:    quantity,
			Price:       holding.CurrentPrice,
			TotalAmount: saleValue,
			AccountTxID: cashTx.ID,
			Time:        l.now(),
		}
		if err := tx.AppendInvestmentTransaction(rec); err != nil {
			return err
		}

		return updatePortfolioValue(tx, portfolio)
	})
	if err != nil {
		return nil, fmt.Errorf("sell holding %s: %w", holdingID, err)
	}
	return rec, nil
}

// PayDividend credits a per-unit dividend on a holding to the portfolio's
// funding account and appends the matching audit records. A back-office
// (manager) operation.
func (l *Ledger) PayDividend(ctx context.Context, actor, holdingID string, perUnit Money) (*InvestmentTransaction, error) {
	if !perUnit.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var rec *InvestmentTransaction
	err := l.store.Update(ctx, func(tx Tx) error {
		if err := requireRole(tx, actor, RoleManager, RoleAdmin); err != nil {
			return err
		}
		holding, err := tx.Holding(holdingID)
		if err != nil {
			return err
		}
		if holding.Status == HoldingSold || !holding.Quantity.IsPositive() {
			return fmt.Errorf("holding %s has no position: %w", holdingID, ErrInvalidTransition)
		}
		portfolio, err := tx.Portfolio(holding.PortfolioID)
		if err != nil {
			return err
		}
		account, err := tx.Account(portfolio.AccountID)
		if err != nil {
			return err
		}

		amount := perUnit.Mul(holding.Quantity).Round(2)
		if err := sameCurrency(amount, account.Balance); err != nil {
			return err
		}
		account.Balance = account.Balance.Add(amount)
		if err := tx.PutAccount(account); err != nil {
			return err
		}

		cashTx := &Transaction{
			ID:          l.newID(),
			Type:        TxDeposit,
			To:          account.ID,
			Amount:      amount,
			Description: "Dividend",
			Time:        l.now(),
		}
		if err := tx.AppendTransaction(cashTx); err != nil {
			return err
		}

		rec = &InvestmentTransaction{
			ID:          l.newID(),
			PortfolioID: portfolio.ID,
			ProductID:   holding.ProductID,
			HoldingID:   holding.ID,
			Type:        InvestDividend,
			Quantity:    holding.Quantity,
			Price:       perUnit,
			TotalAmount: amount,
			AccountTxID: cashTx.ID,
			Time:        l.now(),
		}
		return tx.AppendInvestmentTransaction(rec)
	})
	if err != nil {
		return nil, fmt.Errorf("pay dividend on %s: %w", holdingID, err)
	}
	return rec, nil
}

// RepriceProduct sets a product's quoted price, refreshes the current price
// of every active holding of that product, and recomputes the affected
// portfolios. A back-office (manager) operation.
func (l *Ledger) RepriceProduct(ctx context.Context, actor, productID string, price Money) error {
	if !price.IsPositive() {
		return ErrInvalidAmount
	}
	err := l.store.Update(ctx, func(tx Tx) error {
		if err := requireRole(tx, actor, RoleManager, RoleAdmin); err != nil {
			return err
		}
		product, err := tx.InvestmentProduct(productID)
		if err != nil {
			return err
		}
		if err := sameCurrency(price, product.CurrentPrice); err != nil {
			return err
		}
		product.CurrentPrice = price
		if err := tx.PutInvestmentProduct(product); err != nil {
			return err
		}
		return repriceHoldings(tx, product)
	})
	if err != nil {
		return fmt.Errorf("reprice %s: %w", productID, err)
	}
	return nil
}

// repriceHoldings refreshes the current price of every undisposed holding of
// the product and recomputes each affected portfolio once.
func repriceHoldings(tx Tx, product *InvestmentProduct) error {
	holdings, err := tx.HoldingsOfProduct(product.ID)
	if err != nil {
		return err
	}
	touched := make(map[string]struct{})
	for _, h := range holdings {
		if h.Status == HoldingSold {
			continue
		}
		h.CurrentPrice = product.CurrentPrice
		if err := tx.PutHolding(h); err != nil {
			return err
		}
		touched[h.PortfolioID] = struct{}{}
	}
	for portfolioID := range touched {
		p, err := tx.Portfolio(portfolioID)
		if err != nil {
			return err
		}
		if err := updatePortfolioValue(tx, p); err != nil {
			return err
		}
	}
	return nil
}

// updatePortfolioValue recomputes a portfolio's aggregates from its active
// holdings: CurrentValue is the sum of holdings' market values, TotalReturn
// the difference with TotalInvested.
func updatePortfolioValue(tx Tx, p *Portfolio) error {
	value := M(0, p.CurrentValue.Currency())
	holdings, err := tx.ActiveHoldings(p.ID)
	if err != nil {
		return err
	}
	for _, h := range holdings {
		value = value.Add(h.CurrentValue())
	}
	p.CurrentValue = value
	p.TotalReturn = value.Sub(p.TotalInvested)
	return tx.PutPortfolio(p)
}
