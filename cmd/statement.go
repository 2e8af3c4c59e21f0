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

type statementCmd struct {
	account string
	start   string
	end     string
	export  string
	output  string
}

func (*statementCmd) Name() string     { return "statement" }
func (*statementCmd) Synopsis() string { return "render an account statement for a date range" }
func (*statementCmd) Usage() string {
	return `statement -a <account-id> [-s <start_date>] [-e <end_date>] [-export pdf|xlsx [-o <file>]]

  Replays the ledger and renders the statement. Without -export the statement
  prints as markdown; with it the statement is written to a file.

Usage Examples:
# Statement of the current month so far.
$ teller statement -a 4f1c...

# Export last January as a PDF.
$ teller statement -a 4f1c... -s 2026-1-1 -e 2026-1-31 -export pdf -o january.pdf
`
}

func (p *statementCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.account, "a", "", "Account id.")
	f.StringVar(&p.start, "s", "", "Start date, defaults to the first of the current month.")
	f.StringVar(&p.end, "e", "", "End date, defaults to today.")
	f.StringVar(&p.export, "export", "", "Export format: pdf or xlsx.")
	f.StringVar(&p.output, "o", "", "Output file for -export, defaults to statement.<format>.")
}

func (p *statementCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	today := bankledger.Today()
	start := bankledger.NewDate(today.Year(), today.Month(), 1)
	end := today
	var err error
	if p.start != "" {
		if start, err = bankledger.ParseDate(p.start); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if p.end != "" {
		if end, err = bankledger.ParseDate(p.end); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	store, _, err := OpenStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	ledger := bankledger.NewLedger(store)
	st, err := ledger.Statement(ctx, *actingUser, p.account, start, end)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	switch p.export {
	case "":
		printMarkdown(renderer.Statement(st))
	case "pdf", "xlsx":
		name := p.output
		if name == "" {
			name = "statement." + p.export
		}
		out, err := os.Create(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", name, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
		if p.export == "pdf" {
			err = st.WritePDF(out)
		} else {
			err = st.WriteXLSX(out)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Wrote %s\n", name)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown export format %q\n", p.export)
		return subcommands.ExitUsageError
	}
	return subcommands.ExitSuccess
}
