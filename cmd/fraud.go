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

type fraudFlagCmd struct {
	account     string
	transaction string
	risk        string
	reason      string
}

func (*fraudFlagCmd) Name() string     { return "fraud-flag" }
func (*fraudFlagCmd) Synopsis() string { return "raise a fraud flag on an account" }
func (*fraudFlagCmd) Usage() string {
	return `fraud-flag -a <account-id> [-t <transaction-id>] [-risk low|medium|high] [-reason <text>]

  The flag enters the pending review queue.
`
}

func (p *fraudFlagCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.account, "a", "", "Account the suspicion is about.")
	f.StringVar(&p.transaction, "t", "", "Transaction that triggered the suspicion, if any.")
	f.StringVar(&p.risk, "risk", string(bankledger.RiskMedium), "Risk level: low, medium or high.")
	f.StringVar(&p.reason, "reason", "", "Why the flag was raised.")
}

func (p *fraudFlagCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runLedger(ctx, func(l *bankledger.Ledger) error {
		raised, err := l.RaiseFraudFlag(ctx, p.account, p.transaction, bankledger.FraudRisk(p.risk), p.reason)
		if err != nil {
			return err
		}
		fmt.Printf("Raised %s risk flag %s\n", raised.Risk, raised.ID)
		return nil
	})
}

type fraudReviewCmd struct {
	flag     string
	decision string
	notes    string
}

func (*fraudReviewCmd) Name() string     { return "fraud-review" }
func (*fraudReviewCmd) Synopsis() string { return "decide a pending fraud flag" }
func (*fraudReviewCmd) Usage() string {
	return `fraud-review -f <flag-id> -decision reviewed|approved|rejected [-notes <text>]

  Staff only. Only pending flags can be decided, and a decided flag never
  returns to pending.
`
}

func (p *fraudReviewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.flag, "f", "", "Flag id.")
	f.StringVar(&p.decision, "decision", "", "Outcome of the review.")
	f.StringVar(&p.notes, "notes", "", "Review notes.")
}

func (p *fraudReviewCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runLedger(ctx, func(l *bankledger.Ledger) error {
		if err := l.ReviewFraudFlag(ctx, *actingUser, p.flag, bankledger.FraudStatus(p.decision), p.notes); err != nil {
			return err
		}
		fmt.Printf("Flag %s marked %s\n", p.flag, p.decision)
		return nil
	})
}

type fraudQueueCmd struct{}

func (*fraudQueueCmd) Name() string           { return "fraud-queue" }
func (*fraudQueueCmd) Synopsis() string       { return "list pending fraud flags, oldest first" }
func (*fraudQueueCmd) Usage() string          { return "fraud-queue\n" }
func (*fraudQueueCmd) SetFlags(*flag.FlagSet) {}

func (p *fraudQueueCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, _, err := OpenStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	var flags []*bankledger.FraudFlag
	err = store.View(ctx, func(tx bankledger.Tx) error {
		flags, err = tx.PendingFraudFlags()
		return err
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.FraudQueue(flags))
	return subcommands.ExitSuccess
}
