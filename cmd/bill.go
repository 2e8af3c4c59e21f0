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

type billerAddCmd struct {
	name     string
	category string
	dueDay   int
}

func (*billerAddCmd) Name() string     { return "add-biller" }
func (*billerAddCmd) Synopsis() string { return "register a payee for recurring bills" }
func (*billerAddCmd) Usage() string {
	return `add-biller -name <name> [-category <category>] [-due-day <1-31>]
`
}

func (p *billerAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.name, "name", "", "Biller name.")
	f.StringVar(&p.category, "category", "", "Category like utilities or rent.")
	f.IntVar(&p.dueDay, "due-day", 1, "Day of month the bill is usually due.")
}

func (p *billerAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runLedger(ctx, func(l *bankledger.Ledger) error {
		biller, err := l.AddBiller(ctx, *actingUser, p.name, p.category, p.dueDay)
		if err != nil {
			return err
		}
		fmt.Printf("Added biller %s (%s)\n", biller.Name, biller.ID)
		return nil
	})
}

type billAddCmd struct {
	biller   string
	amount   string
	currency string
	due      string
	memo     string
}

func (*billAddCmd) Name() string     { return "add-bill" }
func (*billAddCmd) Synopsis() string { return "record a bill awaiting payment" }
func (*billAddCmd) Usage() string {
	return `add-bill -b <biller-id> -amount <value> -due <date> [-c <currency>] [-memo <text>]
`
}

func (p *billAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.biller, "b", "", "Biller id.")
	f.StringVar(&p.amount, "amount", "", "Amount due.")
	f.StringVar(&p.currency, "c", "USD", "Currency of the amount.")
	f.StringVar(&p.due, "due", "", "Due date like 2026-9-15.")
	f.StringVar(&p.memo, "memo", "", "Description.")
}

func (p *billAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(p.amount, p.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	due, err := bankledger.ParseDate(p.due)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	return runLedger(ctx, func(l *bankledger.Ledger) error {
		bill, err := l.AddBill(ctx, *actingUser, p.biller, amount, due, p.memo)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded bill %s of %s due %s\n", bill.ID, bill.Amount, bill.DueDate)
		return nil
	})
}

type billPayCmd struct {
	bill    string
	account string
}

func (*billPayCmd) Name() string     { return "pay-bill" }
func (*billPayCmd) Synopsis() string { return "pay a pending or overdue bill" }
func (*billPayCmd) Usage() string {
	return `pay-bill -b <bill-id> -a <account-id>

  Debits the account and marks the bill paid, as one atomic unit.
`
}

func (p *billPayCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.bill, "b", "", "Bill id.")
	f.StringVar(&p.account, "a", "", "Account to pay from.")
}

func (p *billPayCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runLedger(ctx, func(l *bankledger.Ledger) error {
		rec, err := l.PayBill(ctx, *actingUser, p.bill, p.account)
		if err != nil {
			return err
		}
		fmt.Println(renderer.Transaction(rec))
		return nil
	})
}
