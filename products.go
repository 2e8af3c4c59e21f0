package bankledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Product management. Only staff can create or reprice products; customers
// see them through the operations that consume them.

// AddSavingsProduct creates an active savings product.
func (l *Ledger) AddSavingsProduct(ctx context.Context, actor, name string, annualRatePct decimal.Decimal, compounding Compounding, minBalance Money, withdrawalLimit int) (*SavingsProduct, error) {
	if annualRatePct.IsNegative() {
		return nil, ErrInvalidAmount
	}
	var product *SavingsProduct
	err := l.store.Update(ctx, func(tx Tx) error {
		if err := requireRole(tx, actor, RoleManager, RoleAdmin); err != nil {
			return err
		}
		product = &SavingsProduct{
			ID:              l.newID(),
			Name:            name,
			AnnualRatePct:   annualRatePct,
			Compounding:     compounding,
			MinBalance:      minBalance,
			WithdrawalLimit: withdrawalLimit,
			Active:          true,
		}
		return tx.PutSavingsProduct(product)
	})
	if err != nil {
		return nil, fmt.Errorf("add savings product: %w", err)
	}
	return product, nil
}

// AddLoanProduct creates an active loan product with its amount and term
// bounds.
func (l *Ledger) AddLoanProduct(ctx context.Context, actor, name, typ string, minAmount, maxAmount Money, annualRatePct decimal.Decimal, minTerm, maxTerm int) (*LoanProduct, error) {
	if annualRatePct.IsNegative() || minTerm <= 0 || maxTerm < minTerm {
		return nil, ErrInvalidAmount
	}
	if maxAmount.LessThan(minAmount) {
		return nil, ErrInvalidAmount
	}
	var product *LoanProduct
	err := l.store.Update(ctx, func(tx Tx) error {
		if err := requireRole(tx, actor, RoleManager, RoleAdmin); err != nil {
			return err
		}
		product = &LoanProduct{
			ID:            l.newID(),
			Name:          name,
			Type:          typ,
			MinAmount:     minAmount,
			MaxAmount:     maxAmount,
			AnnualRatePct: annualRatePct,
			MinTermMonths: minTerm,
			MaxTermMonths: maxTerm,
			Active:        true,
		}
		return tx.PutLoanProduct(product)
	})
	if err != nil {
		return nil, fmt.Errorf("add loan product: %w", err)
	}
	return product, nil
}

// AddInvestmentProduct lists a purchasable instrument with its opening price.
func (l *Ledger) AddInvestmentProduct(ctx context.Context, actor, symbol, name, risk string, price, minInvestment Money) (*InvestmentProduct, error) {
	if !price.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var product *InvestmentProduct
	err := l.store.Update(ctx, func(tx Tx) error {
		if err := requireRole(tx, actor, RoleManager, RoleAdmin); err != nil {
			return err
		}
		product = &InvestmentProduct{
			ID:            l.newID(),
			Symbol:        symbol,
			Name:          name,
			Risk:          risk,
			CurrentPrice:  price,
			MinInvestment: minInvestment,
			Active:        true,
		}
		return tx.PutInvestmentProduct(product)
	})
	if err != nil {
		return nil, fmt.Errorf("add investment product: %w", err)
	}
	return product, nil
}
