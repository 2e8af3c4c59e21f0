// Package cmd implements the CLI application to operate the bank ledger.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/property360-2/bankledger"
	"github.com/property360-2/bankledger/sqlstore"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&newUserCmd{}, "users")

	c.Register(&openAccountCmd{}, "accounts")
	c.Register(&accountsCmd{}, "accounts")
	c.Register(&depositCmd{}, "accounts")
	c.Register(&withdrawCmd{}, "accounts")
	c.Register(&transferCmd{}, "accounts")
	c.Register(&statementCmd{}, "accounts")

	c.Register(&savingsOpenCmd{}, "savings")
	c.Register(&savingsDepositCmd{}, "savings")
	c.Register(&savingsWithdrawCmd{}, "savings")
	c.Register(&applyInterestCmd{}, "savings")

	c.Register(&buyCmd{}, "investments")
	c.Register(&sellCmd{}, "investments")
	c.Register(&dividendCmd{}, "investments")
	c.Register(&repriceCmd{}, "investments")
	c.Register(&portfolioCmd{}, "investments")
	c.Register(&newPortfolioCmd{}, "investments")

	c.Register(&loanApplyCmd{}, "loans")
	c.Register(&loanDecideCmd{approve: true}, "loans")
	c.Register(&loanDecideCmd{}, "loans")
	c.Register(&loanDisburseCmd{}, "loans")
	c.Register(&loanPayCmd{}, "loans")
	c.Register(&loanScheduleCmd{}, "loans")

	c.Register(&billerAddCmd{}, "bills")
	c.Register(&billAddCmd{}, "bills")
	c.Register(&billPayCmd{}, "bills")

	c.Register(&fraudFlagCmd{}, "fraud")
	c.Register(&fraudReviewCmd{}, "fraud")
	c.Register(&fraudQueueCmd{}, "fraud")

	c.Register(&addProductCmd{}, "products")
	c.Register(&ratesCmd{}, "products")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var storeFile = flag.String("store-file", "bank.jsonl", "Path to the ledger snapshot file (JSONL format)")
var dbDSN = flag.String("db", "", "MySQL DSN like user:pass@tcp(host:3306)/bank. Overrides -store-file")
var actingUser = flag.String("user", "", "Id of the user performing the operation")

// OpenStore opens the configured store: MySQL when -db is set, otherwise the
// snapshot file. The returned close function persists the snapshot back to
// disk for the file store and must be called after a successful command.
func OpenStore(ctx context.Context) (bankledger.Store, func() error, error) {
	if *dbDSN != "" {
		store, err := sqlstore.Open(ctx, *dbDSN)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
	store, err := bankledger.LoadStore(*storeFile)
	if err != nil {
		return nil, nil, err
	}
	return store, func() error { return bankledger.SaveStore(*storeFile, store) }, nil
}

// runLedger opens the store, runs fn against a ledger on it, and saves.
// It funnels the boilerplate every mutating subcommand shares.
func runLedger(ctx context.Context, fn func(*bankledger.Ledger) error) subcommands.ExitStatus {
	store, save, err := OpenStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := fn(bankledger.NewLedger(store)); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if err := save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving store: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when the renderer cannot run.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}
