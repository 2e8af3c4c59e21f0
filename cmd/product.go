package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/property360-2/bankledger"
)

// addProductCmd creates a product of any of the three kinds. Staff only.
type addProductCmd struct {
	kind     string
	name     string
	currency string

	// savings and loans
	rate string

	// savings
	minBalance      string
	withdrawalLimit int

	// loans
	loanType string
	min      string
	max      string
	minTerm  int
	maxTerm  int

	// investments
	symbol        string
	risk          string
	price         string
	minInvestment string
}

func (*addProductCmd) Name() string     { return "add-product" }
func (*addProductCmd) Synopsis() string { return "create a savings, loan or investment product" }
func (*addProductCmd) Usage() string {
	return `add-product -kind savings|loan|investment -name <name> [kind-specific flags]

Usage Examples:
$ teller -user <admin> add-product -kind savings -name "Premium Saver" -rate 4.25 -min-balance 500 -withdrawal-limit 6
$ teller -user <admin> add-product -kind loan -name "Personal" -loan-type personal -rate 12.5 -min 1000 -max 50000 -min-term 6 -max-term 60
$ teller -user <admin> add-product -kind investment -name "Index Fund" -symbol IDX -price 104.50 -min-investment 100
`
}

func (p *addProductCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.kind, "kind", "", "Product kind: savings, loan or investment.")
	f.StringVar(&p.name, "name", "", "Product name.")
	f.StringVar(&p.currency, "c", "USD", "Currency of the product's amounts.")
	f.StringVar(&p.rate, "rate", "0", "Annual rate in percent.")
	f.StringVar(&p.minBalance, "min-balance", "0", "Savings: minimum balance.")
	f.IntVar(&p.withdrawalLimit, "withdrawal-limit", 6, "Savings: withdrawals allowed per month.")
	f.StringVar(&p.loanType, "loan-type", "personal", "Loan: personal, auto, home, education or business.")
	f.StringVar(&p.min, "min", "0", "Loan: minimum principal.")
	f.StringVar(&p.max, "max", "0", "Loan: maximum principal.")
	f.IntVar(&p.minTerm, "min-term", 6, "Loan: minimum term in months.")
	f.IntVar(&p.maxTerm, "max-term", 60, "Loan: maximum term in months.")
	f.StringVar(&p.symbol, "symbol", "", "Investment: ticker symbol.")
	f.StringVar(&p.risk, "risk", "", "Investment: risk level.")
	f.StringVar(&p.price, "price", "0", "Investment: opening unit price.")
	f.StringVar(&p.minInvestment, "min-investment", "0", "Investment: minimum cost of a buy.")
}

func (p *addProductCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rate, err := decimal.NewFromString(p.rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing rate: %v\n", err)
		return subcommands.ExitUsageError
	}
	return runLedger(ctx, func(l *bankledger.Ledger) error {
		switch p.kind {
		case "savings":
			minBalance, err := bankledger.ParseMoney(p.minBalance, p.currency)
			if err != nil {
				return err
			}
			product, err := l.AddSavingsProduct(ctx, *actingUser, p.name, rate,
				bankledger.CompoundDaily, minBalance, p.withdrawalLimit)
			if err != nil {
				return err
			}
			fmt.Printf("Created savings product %s (%s)\n", product.Name, product.ID)
		case "loan":
			min, err := bankledger.ParseMoney(p.min, p.currency)
			if err != nil {
				return err
			}
			max, err := bankledger.ParseMoney(p.max, p.currency)
			if err != nil {
				return err
			}
			product, err := l.AddLoanProduct(ctx, *actingUser, p.name, p.loanType,
				min, max, rate, p.minTerm, p.maxTerm)
			if err != nil {
				return err
			}
			fmt.Printf("Created loan product %s (%s)\n", product.Name, product.ID)
		case "investment":
			price, err := bankledger.ParseMoney(p.price, p.currency)
			if err != nil {
				return err
			}
			minInvestment, err := bankledger.ParseMoney(p.minInvestment, p.currency)
			if err != nil {
				return err
			}
			product, err := l.AddInvestmentProduct(ctx, *actingUser, p.symbol, p.name,
				p.risk, price, minInvestment)
			if err != nil {
				return err
			}
			fmt.Printf("Created investment product %s (%s)\n", product.Symbol, product.ID)
		default:
			return fmt.Errorf("unknown product kind %q", p.kind)
		}
		return nil
	})
}
