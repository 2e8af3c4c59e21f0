package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/property360-2/bankledger"
)

type ratesCmd struct {
	refresh bool
	convert string
	to      string
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "show or refresh exchange rates, convert amounts" }
func (*ratesCmd) Usage() string {
	return `rates [-refresh] [-convert <amount:currency> -to <currency>]

  Lists the known exchange rates against USD. With -refresh, the latest
  published daily rates replace the built-in approximations (responses are
  cached on disk for the day).

Usage Examples:
$ teller rates -refresh
$ teller rates -convert 1250.50:USD -to PHP
`
}

func (p *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.refresh, "refresh", false, "Fetch the latest published rates.")
	f.StringVar(&p.convert, "convert", "", "Amount to convert, like 1250.50:USD.")
	f.StringVar(&p.to, "to", "USD", "Target currency for -convert.")
}

func (p *ratesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	table := bankledger.NewRateTable()
	if p.refresh {
		refreshed, err := bankledger.RefreshRates(table)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Refreshed %s\n", strings.Join(refreshed, ", "))
	}

	if p.convert != "" {
		amount, currency, ok := strings.Cut(p.convert, ":")
		if !ok {
			fmt.Fprintln(os.Stderr, "Error: -convert wants <amount:currency>")
			return subcommands.ExitUsageError
		}
		m, err := bankledger.ParseMoney(amount, currency)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitUsageError
		}
		fmt.Printf("%s = %s\n", m, table.Display(m, p.to))
		return subcommands.ExitSuccess
	}

	for _, cur := range table.Currencies() {
		rate, err := table.Rate("USD", cur)
		if err != nil {
			continue
		}
		fmt.Printf("1 USD = %s %s\n", rate, cur)
	}
	return subcommands.ExitSuccess
}
