// Package renderer turns ledger reports into markdown strings, ready to be
// printed raw or through a terminal markdown renderer.
package renderer

import (
	"fmt"
	"strings"

	"github.com/property360-2/bankledger"
)

// Statement renders an account statement as a markdown report.
func Statement(st *bankledger.Statement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Statement %s\n\n", st.Account.Number)
	fmt.Fprintf(&b, "Period %s to %s, generated on %s.\n\n", st.From, st.To, st.GeneratedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "- Opening balance: %s\n", st.Opening)
	fmt.Fprintf(&b, "- Total in: %s\n", st.TotalIn)
	fmt.Fprintf(&b, "- Total out: %s\n", st.TotalOut)
	fmt.Fprintf(&b, "- Closing balance: %s\n\n", st.Closing)

	if len(st.Lines) == 0 {
		fmt.Fprintln(&b, "No movements in this period.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Date | Type | Description | Amount | Balance |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|")
	for _, line := range st.Lines {
		desc := line.Description
		if line.Counterparty != "" {
			desc = strings.TrimSpace(desc + " (with " + line.Counterparty + ")")
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			line.Time.Format("2006-01-02 15:04"),
			line.Type,
			desc,
			line.Amount.SignedString(),
			line.Balance,
		)
	}
	return b.String()
}

// Accounts renders a user's cash accounts as a markdown table.
func Accounts(accounts []*bankledger.Account) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Accounts\n\n")
	fmt.Fprintln(&b, "| Number | Type | Active | Balance |")
	fmt.Fprintln(&b, "|:---|:---|:---:|---:|")
	for _, a := range accounts {
		active := " "
		if a.Active {
			active = "X"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", a.Number, a.Type, active, a.Balance)
	}
	return b.String()
}

// Transaction renders one ledger record as a single line.
func Transaction(rec *bankledger.Transaction) string {
	switch rec.Type {
	case bankledger.TxDeposit:
		return fmt.Sprintf("Deposited %s into %s", rec.Amount, rec.To)
	case bankledger.TxWithdrawal:
		return fmt.Sprintf("Withdrew %s from %s", rec.Amount, rec.From)
	case bankledger.TxTransfer:
		return fmt.Sprintf("Transferred %s from %s to %s", rec.Amount, rec.From, rec.To)
	default:
		return string(rec.Type)
	}
}

// Portfolio renders a portfolio and its active holdings. Product symbols
// come from the products map, keyed by product id; unknown ids render as
// the raw id.
func Portfolio(p *bankledger.Portfolio, holdings []*bankledger.InvestmentHolding, products map[string]*bankledger.InvestmentProduct) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio %s\n\n", p.Name)
	fmt.Fprintf(&b, "- Status: %s\n", p.Status)
	fmt.Fprintf(&b, "- Total invested: %s\n", p.TotalInvested)
	fmt.Fprintf(&b, "- Current value: %s\n", p.CurrentValue)
	fmt.Fprintf(&b, "- Total return: %s\n\n", p.TotalReturn.SignedString())

	if len(holdings) == 0 {
		fmt.Fprintln(&b, "No active holdings.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Symbol | Quantity | Avg Price | Current Price | Value | Gain |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|")
	for _, h := range holdings {
		symbol := h.ProductID
		if product, ok := products[h.ProductID]; ok {
			symbol = product.Symbol
		}
		gain := h.CurrentValue().Sub(h.PurchaseValue())
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			symbol, h.Quantity, h.PurchasePrice, h.CurrentPrice, h.CurrentValue(), gain.SignedString())
	}
	return b.String()
}

// Schedule renders a loan amortization schedule.
func Schedule(loan *bankledger.Loan, entries []bankledger.ScheduleEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Loan %s\n\n", loan.ID)
	fmt.Fprintf(&b, "Principal %s over %d months at %s%% yearly, %s monthly.\n\n",
		loan.Principal, loan.TermMonths, loan.AnnualRatePct, loan.MonthlyPayment)

	fmt.Fprintln(&b, "| Month | Payment | Interest | Principal | Balance |")
	fmt.Fprintln(&b, "|---:|---:|---:|---:|---:|")
	for _, e := range entries {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n", e.Month, e.Payment, e.Interest, e.Principal, e.Balance)
	}
	return b.String()
}

// FraudQueue renders the pending review queue, oldest first.
func FraudQueue(flags []*bankledger.FraudFlag) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Pending fraud flags\n\n")
	if len(flags) == 0 {
		fmt.Fprintln(&b, "Queue is empty.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Detected | Risk | Account | Reason |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|")
	for _, f := range flags {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", f.DetectedAt.Format("2006-01-02 15:04"), f.Risk, f.AccountID, f.Reason)
	}
	return b.String()
}
