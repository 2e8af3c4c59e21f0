package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/property360-2/bankledger"
)

type newUserCmd struct {
	name     string
	email    string
	password string
	role     string
}

func (*newUserCmd) Name() string     { return "new-user" }
func (*newUserCmd) Synopsis() string { return "create a user with default preferences" }
func (*newUserCmd) Usage() string {
	return `new-user -name <name> -email <email> -password <password> [-role customer|manager|admin]

  Creates a user. The password is stored as a bcrypt hash only.
`
}

func (p *newUserCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.name, "name", "", "Full name of the user.")
	f.StringVar(&p.email, "email", "", "Email address.")
	f.StringVar(&p.password, "password", "", "Initial password.")
	f.StringVar(&p.role, "role", string(bankledger.RoleCustomer), "Role: customer, manager or admin.")
}

func (p *newUserCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.name == "" || p.email == "" || p.password == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return runLedger(ctx, func(l *bankledger.Ledger) error {
		user, err := l.NewUser(ctx, p.name, p.email, p.password, bankledger.Role(p.role))
		if err != nil {
			return err
		}
		fmt.Printf("Created user %s (%s)\n", user.ID, user.Role)
		return nil
	})
}
