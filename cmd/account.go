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

// parseAmount parses a command line amount like "1250.50" with its currency.
func parseAmount(amount, currency string) (bankledger.Money, error) {
	if amount == "" {
		return bankledger.Money{}, fmt.Errorf("missing -amount")
	}
	return bankledger.ParseMoney(amount, currency)
}

type openAccountCmd struct {
	typ      string
	currency string
}

func (*openAccountCmd) Name() string     { return "open-account" }
func (*openAccountCmd) Synopsis() string { return "open a new cash account" }
func (*openAccountCmd) Usage() string {
	return `open-account [-type checking|savings|business] [-c <currency>]

  Opens an empty active account for the acting user.
`
}

func (p *openAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.typ, "type", string(bankledger.Checking), "Account type.")
	f.StringVar(&p.currency, "c", "USD", "Account currency.")
}

func (p *openAccountCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runLedger(ctx, func(l *bankledger.Ledger) error {
		account, err := l.OpenAccount(ctx, *actingUser, bankledger.AccountType(p.typ), p.currency)
		if err != nil {
			return err
		}
		fmt.Printf("Opened %s account %s (%s)\n", account.Type, account.Number, account.ID)
		return nil
	})
}

type accountsCmd struct{}

func (*accountsCmd) Name() string             { return "accounts" }
func (*accountsCmd) Synopsis() string         { return "list the acting user's accounts" }
func (*accountsCmd) Usage() string            { return "accounts\n" }
func (*accountsCmd) SetFlags(*flag.FlagSet)   {}

func (p *accountsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, _, err := OpenStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	var accounts []*bankledger.Account
	err = store.View(ctx, func(tx bankledger.Tx) error {
		accounts, err = tx.AccountsOwnedBy(*actingUser)
		return err
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Accounts(accounts))
	return subcommands.ExitSuccess
}

type depositCmd struct {
	account  string
	amount   string
	currency string
	memo     string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "credit cash into an account" }
func (*depositCmd) Usage() string {
	return `deposit -a <account-id> -amount <value> [-c <currency>] [-memo <text>]
`
}

func (p *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.account, "a", "", "Account id.")
	f.StringVar(&p.amount, "amount", "", "Amount to deposit.")
	f.StringVar(&p.currency, "c", "USD", "Currency of the amount.")
	f.StringVar(&p.memo, "memo", "", "Description on the ledger record.")
}

func (p *depositCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(p.amount, p.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	return runLedger(ctx, func(l *bankledger.Ledger) error {
		rec, err := l.Deposit(ctx, *actingUser, p.account, amount, p.memo)
		if err != nil {
			return err
		}
		fmt.Println(renderer.Transaction(rec))
		return nil
	})
}

type withdrawCmd struct {
	account  string
	amount   string
	currency string
	memo     string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "debit cash from an account" }
func (*withdrawCmd) Usage() string {
	return `withdraw -a <account-id> -amount <value> [-c <currency>] [-memo <text>]
`
}

func (p *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.account, "a", "", "Account id.")
	f.StringVar(&p.amount, "amount", "", "Amount to withdraw.")
	f.StringVar(&p.currency, "c", "USD", "Currency of the amount.")
	f.StringVar(&p.memo, "memo", "", "Description on the ledger record.")
}

func (p *withdrawCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(p.amount, p.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	return runLedger(ctx, func(l *bankledger.Ledger) error {
		rec, err := l.Withdraw(ctx, *actingUser, p.account, amount, p.memo)
		if err != nil {
			return err
		}
		fmt.Println(renderer.Transaction(rec))
		return nil
	})
}

type transferCmd struct {
	from     string
	to       string
	amount   string
	currency string
	memo     string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "move cash between two accounts" }
func (*transferCmd) Usage() string {
	return `transfer -from <account-id> -to <account-id> -amount <value> [-c <currency>] [-memo <text>]

  Debits the source and credits the destination as a single atomic unit.
`
}

func (p *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.from, "from", "", "Source account id, owned by the acting user.")
	f.StringVar(&p.to, "to", "", "Destination account id.")
	f.StringVar(&p.amount, "amount", "", "Amount to transfer.")
	f.StringVar(&p.currency, "c", "USD", "Currency of the amount.")
	f.StringVar(&p.memo, "memo", "", "Description on the ledger record.")
}

func (p *transferCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(p.amount, p.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	return runLedger(ctx, func(l *bankledger.Ledger) error {
		rec, err := l.Transfer(ctx, *actingUser, p.from, p.to, amount, p.memo)
		if err != nil {
			return err
		}
		fmt.Println(renderer.Transaction(rec))
		return nil
	})
}
