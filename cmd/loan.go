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

type loanApplyCmd struct {
	product  string
	account  string
	amount   string
	currency string
	term     int
}

func (*loanApplyCmd) Name() string     { return "loan-apply" }
func (*loanApplyCmd) Synopsis() string { return "file a loan application" }
func (*loanApplyCmd) Usage() string {
	return `loan-apply -p <product-id> -a <account-id> -amount <value> -term <months> [-c <currency>]

  Files a pending application. No money moves until a staff member approves
  and disburses it.
`
}

func (p *loanApplyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.product, "p", "", "Loan product id.")
	f.StringVar(&p.account, "a", "", "Disbursement and repayment account id.")
	f.StringVar(&p.amount, "amount", "", "Principal to borrow.")
	f.StringVar(&p.currency, "c", "USD", "Currency of the principal.")
	f.IntVar(&p.term, "term", 0, "Term in months.")
}

func (p *loanApplyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	principal, err := parseAmount(p.amount, p.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	return runLedger(ctx, func(l *bankledger.Ledger) error {
		loan, err := l.ApplyForLoan(ctx, *actingUser, p.product, p.account, principal, p.term)
		if err != nil {
			return err
		}
		fmt.Printf("Filed loan %s: %s over %d months, %s monthly\n",
			loan.ID, loan.Principal, loan.TermMonths, loan.MonthlyPayment)
		return nil
	})
}

// loanDecideCmd approves or rejects a pending application, depending on how
// it was registered.
type loanDecideCmd struct {
	approve bool
	loan    string
}

func (p *loanDecideCmd) Name() string {
	if p.approve {
		return "loan-approve"
	}
	return "loan-reject"
}

func (p *loanDecideCmd) Synopsis() string {
	if p.approve {
		return "approve a pending loan application"
	}
	return "reject a pending loan application"
}

func (p *loanDecideCmd) Usage() string {
	return p.Name() + ` -l <loan-id>

  Staff only. Only pending applications can be decided.
`
}

func (p *loanDecideCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.loan, "l", "", "Loan id.")
}

func (p *loanDecideCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runLedger(ctx, func(l *bankledger.Ledger) error {
		var err error
		if p.approve {
			err = l.ApproveLoan(ctx, *actingUser, p.loan)
		} else {
			err = l.RejectLoan(ctx, *actingUser, p.loan)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Loan %s %sd\n", p.loan, p.Name()[len("loan-"):])
		return nil
	})
}

type loanDisburseCmd struct {
	loan string
}

func (*loanDisburseCmd) Name() string     { return "loan-disburse" }
func (*loanDisburseCmd) Synopsis() string { return "pay out an approved loan" }
func (*loanDisburseCmd) Usage() string {
	return `loan-disburse -l <loan-id>

  Staff only. Credits the principal to the borrower's account and activates
  the repayment schedule.
`
}

func (p *loanDisburseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.loan, "l", "", "Loan id.")
}

func (p *loanDisburseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runLedger(ctx, func(l *bankledger.Ledger) error {
		rec, err := l.DisburseLoan(ctx, *actingUser, p.loan)
		if err != nil {
			return err
		}
		fmt.Println(renderer.Transaction(rec))
		return nil
	})
}

type loanPayCmd struct {
	loan     string
	amount   string
	currency string
}

func (*loanPayCmd) Name() string     { return "loan-pay" }
func (*loanPayCmd) Synopsis() string { return "make a payment on an active loan" }
func (*loanPayCmd) Usage() string {
	return `loan-pay -l <loan-id> -amount <value> [-c <currency>]

  Debits the repayment account. A payment above the remaining balance is
  capped at it; reaching zero completes the loan.
`
}

func (p *loanPayCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.loan, "l", "", "Loan id.")
	f.StringVar(&p.amount, "amount", "", "Payment amount.")
	f.StringVar(&p.currency, "c", "USD", "Currency of the payment.")
}

func (p *loanPayCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(p.amount, p.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	return runLedger(ctx, func(l *bankledger.Ledger) error {
		payment, err := l.MakeLoanPayment(ctx, *actingUser, p.loan, amount)
		if err != nil {
			return err
		}
		fmt.Printf("Paid %s on loan %s\n", payment.Amount, payment.LoanID)
		return nil
	})
}

type loanScheduleCmd struct {
	loan string
}

func (*loanScheduleCmd) Name() string     { return "loan-schedule" }
func (*loanScheduleCmd) Synopsis() string { return "show a loan's amortization schedule" }
func (*loanScheduleCmd) Usage() string {
	return `loan-schedule -l <loan-id>
`
}

func (p *loanScheduleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.loan, "l", "", "Loan id.")
}

func (p *loanScheduleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, _, err := OpenStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	var md string
	err = store.View(ctx, func(tx bankledger.Tx) error {
		loan, err := tx.Loan(p.loan)
		if err != nil {
			return err
		}
		entries := bankledger.AmortizationSchedule(loan.Principal, loan.AnnualRatePct, loan.TermMonths)
		md = renderer.Schedule(loan, entries)
		return nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
