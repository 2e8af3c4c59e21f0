package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/property360-2/bankledger"
)

type savingsOpenCmd struct {
	product  string
	account  string
	deposit  string
	currency string
}

func (*savingsOpenCmd) Name() string     { return "open-savings" }
func (*savingsOpenCmd) Synopsis() string { return "open a savings account on a product" }
func (*savingsOpenCmd) Usage() string {
	return `open-savings -p <product-id> -a <funding-account-id> -deposit <value> [-c <currency>]

  The initial deposit moves from the funding cash account and must meet the
  product's minimum balance.
`
}

func (p *savingsOpenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.product, "p", "", "Savings product id.")
	f.StringVar(&p.account, "a", "", "Funding cash account id.")
	f.StringVar(&p.deposit, "deposit", "0", "Initial deposit.")
	f.StringVar(&p.currency, "c", "USD", "Currency of the deposit.")
}

func (p *savingsOpenCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	deposit, err := bankledger.ParseMoney(p.deposit, p.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	return runLedger(ctx, func(l *bankledger.Ledger) error {
		sa, err := l.OpenSavingsAccount(ctx, *actingUser, p.product, p.account, deposit)
		if err != nil {
			return err
		}
		fmt.Printf("Opened savings account %s with balance %s\n", sa.Number, sa.Balance)
		return nil
	})
}

type savingsDepositCmd struct {
	savings  string
	amount   string
	currency string
}

func (*savingsDepositCmd) Name() string     { return "savings-deposit" }
func (*savingsDepositCmd) Synopsis() string { return "move cash into a savings account" }
func (*savingsDepositCmd) Usage() string {
	return `savings-deposit -s <savings-account-id> -amount <value> [-c <currency>]
`
}

func (p *savingsDepositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.savings, "s", "", "Savings account id.")
	f.StringVar(&p.amount, "amount", "", "Amount to move from the funding account.")
	f.StringVar(&p.currency, "c", "USD", "Currency of the amount.")
}

func (p *savingsDepositCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(p.amount, p.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	return runLedger(ctx, func(l *bankledger.Ledger) error {
		if err := l.SavingsDeposit(ctx, *actingUser, p.savings, amount); err != nil {
			return err
		}
		fmt.Printf("Deposited %s into savings %s\n", amount, p.savings)
		return nil
	})
}

type savingsWithdrawCmd struct {
	savings  string
	amount   string
	currency string
}

func (*savingsWithdrawCmd) Name() string     { return "savings-withdraw" }
func (*savingsWithdrawCmd) Synopsis() string { return "move cash out of a savings account" }
func (*savingsWithdrawCmd) Usage() string {
	return `savings-withdraw -s <savings-account-id> -amount <value> [-c <currency>]

  Counts against the product's monthly withdrawal limit.
`
}

func (p *savingsWithdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.savings, "s", "", "Savings account id.")
	f.StringVar(&p.amount, "amount", "", "Amount to move back to the funding account.")
	f.StringVar(&p.currency, "c", "USD", "Currency of the amount.")
}

func (p *savingsWithdrawCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(p.amount, p.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	return runLedger(ctx, func(l *bankledger.Ledger) error {
		if err := l.SavingsWithdraw(ctx, *actingUser, p.savings, amount); err != nil {
			return err
		}
		fmt.Printf("Withdrew %s from savings %s\n", amount, p.savings)
		return nil
	})
}

type applyInterestCmd struct {
	savings string
}

func (*applyInterestCmd) Name() string     { return "apply-interest" }
func (*applyInterestCmd) Synopsis() string { return "accrue one day of interest on a savings account" }
func (*applyInterestCmd) Usage() string {
	return `apply-interest -s <savings-account-id>

  Credits one day of interest at the product's daily rate. Meant to be run by
  a scheduler once per account per day; running it twice accrues twice.
`
}

func (p *applyInterestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.savings, "s", "", "Savings account id.")
}

func (p *applyInterestCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runLedger(ctx, func(l *bankledger.Ledger) error {
		rec, err := l.ApplyInterest(ctx, p.savings)
		if err != nil {
			return err
		}
		if rec == nil {
			fmt.Println("No interest accrued")
			return nil
		}
		fmt.Printf("Accrued %s at %s%%\n", rec.Amount, rec.RatePct)
		return nil
	})
}
