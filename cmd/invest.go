package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/property360-2/bankledger"
	"github.com/property360-2/bankledger/renderer"
)

type newPortfolioCmd struct {
	account string
	name    string
}

func (*newPortfolioCmd) Name() string     { return "new-portfolio" }
func (*newPortfolioCmd) Synopsis() string { return "create a portfolio funded by a cash account" }
func (*newPortfolioCmd) Usage() string {
	return `new-portfolio -a <funding-account-id> -name <name>
`
}

func (p *newPortfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.account, "a", "", "Funding cash account id.")
	f.StringVar(&p.name, "name", "", "Portfolio name.")
}

func (p *newPortfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runLedger(ctx, func(l *bankledger.Ledger) error {
		portfolio, err := l.CreatePortfolio(ctx, *actingUser, p.account, p.name)
		if err != nil {
			return err
		}
		fmt.Printf("Created portfolio %s (%s)\n", portfolio.Name, portfolio.ID)
		return nil
	})
}

type buyCmd struct {
	portfolio string
	product   string
	quantity  string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buy an investment product into a portfolio" }
func (*buyCmd) Usage() string {
	return `buy -p <portfolio-id> -product <product-id> -q <quantity>

  Pays quantity times the product's current price from the portfolio's
  funding account. Repeat buys of the same product average the purchase
  price, weighted by quantity.
`
}

func (p *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.portfolio, "p", "", "Portfolio id.")
	f.StringVar(&p.product, "product", "", "Investment product id.")
	f.StringVar(&p.quantity, "q", "", "Quantity to buy.")
}

func (p *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	quantity, err := bankledger.ParseQuantity(p.quantity)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	return runLedger(ctx, func(l *bankledger.Ledger) error {
		rec, err := l.Buy(ctx, *actingUser, p.portfolio, p.product, quantity)
		if err != nil {
			return err
		}
		fmt.Printf("Bought %s at %s for %s\n", rec.Quantity, rec.Price, rec.TotalAmount)
		return nil
	})
}

type sellCmd struct {
	holding  string
	quantity string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell part or all of a holding" }
func (*sellCmd) Usage() string {
	return `sell -h <holding-id> -q <quantity>

  Credits quantity times the product's current price to the portfolio's
  funding account. Selling everything closes the holding.
`
}

func (p *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.holding, "h", "", "Holding id.")
	f.StringVar(&p.quantity, "q", "", "Quantity to sell.")
}

func (p *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	quantity, err := bankledger.ParseQuantity(p.quantity)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	return runLedger(ctx, func(l *bankledger.Ledger) error {
		rec, err := l.Sell(ctx, *actingUser, p.holding, quantity)
		if err != nil {
			return err
		}
		fmt.Printf("Sold %s at %s for %s\n", rec.Quantity, rec.Price, rec.TotalAmount)
		return nil
	})
}

type dividendCmd struct {
	holding  string
	perUnit  string
	currency string
}

func (*dividendCmd) Name() string     { return "dividend" }
func (*dividendCmd) Synopsis() string { return "pay a per-unit dividend on a holding" }
func (*dividendCmd) Usage() string {
	return `dividend -h <holding-id> -per-unit <value> [-c <currency>]

  Staff only. Credits per-unit times the held quantity to the portfolio's
  funding account.
`
}

func (p *dividendCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.holding, "h", "", "Holding id.")
	f.StringVar(&p.perUnit, "per-unit", "", "Dividend per held unit.")
	f.StringVar(&p.currency, "c", "USD", "Currency of the dividend.")
}

func (p *dividendCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	perUnit, err := parseAmount(p.perUnit, p.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	return runLedger(ctx, func(l *bankledger.Ledger) error {
		rec, err := l.PayDividend(ctx, *actingUser, p.holding, perUnit)
		if err != nil {
			return err
		}
		fmt.Printf("Paid dividend %s\n", rec.TotalAmount)
		return nil
	})
}

type repriceCmd struct {
	product  string
	price    string
	currency string
}

func (*repriceCmd) Name() string     { return "reprice" }
func (*repriceCmd) Synopsis() string { return "update an investment product's quoted price" }
func (*repriceCmd) Usage() string {
	return `reprice -product <product-id> -price <value> [-c <currency>]

  Staff only. Revalues every open holding of the product and the portfolios
  that hold it.
`
}

func (p *repriceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.product, "product", "", "Investment product id.")
	f.StringVar(&p.price, "price", "", "New unit price.")
	f.StringVar(&p.currency, "c", "USD", "Currency of the price.")
}

func (p *repriceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	price, err := parseAmount(p.price, p.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	return runLedger(ctx, func(l *bankledger.Ledger) error {
		if err := l.RepriceProduct(ctx, *actingUser, p.product, price); err != nil {
			return err
		}
		fmt.Printf("Repriced %s to %s\n", p.product, price)
		return nil
	})
}

type portfolioCmd struct {
	portfolio string
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "show a portfolio and its active holdings" }
func (*portfolioCmd) Usage() string {
	return `portfolio -p <portfolio-id>
`
}

func (p *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.portfolio, "p", "", "Portfolio id.")
}

func (p *portfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, _, err := OpenStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	var md string
	err = store.View(ctx, func(tx bankledger.Tx) error {
		portfolio, err := tx.Portfolio(p.portfolio)
		if err != nil {
			return err
		}
		holdings, err := tx.ActiveHoldings(portfolio.ID)
		if err != nil {
			return err
		}
		products := make(map[string]*bankledger.InvestmentProduct)
		for _, h := range holdings {
			if _, ok := products[h.ProductID]; ok {
				continue
			}
			product, err := tx.InvestmentProduct(h.ProductID)
			if err != nil {
				return err
			}
			products[h.ProductID] = product
		}
		md = renderer.Portfolio(portfolio, holdings, products)
		return nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
