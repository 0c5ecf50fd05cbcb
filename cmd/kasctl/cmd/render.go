package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/mmynk/kas/internal/ledger"
	"github.com/mmynk/kas/pkg/api"
)

var (
	deficitColor = color.New(color.FgRed, color.Bold)
	paidColor    = color.New(color.FgGreen)
	headerColor  = color.New(color.Bold)
)

// formatAmount renders an API decimal string in the ledger's currency format.
func formatAmount(s string) string {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return ledger.FormatAmount(d)
}

func dateLabel(e *api.Expense) string {
	if e.DateLabel != "" {
		return e.DateLabel
	}
	return e.Date
}

func renderSummary(w io.Writer, s *api.Summary) {
	headerColor.Fprintf(w, "=== %s ===\n", s.Period)

	fmt.Fprintf(w, "Paid:       %d/%d members\n", s.PaidCount, s.MemberCount)
	fmt.Fprintf(w, "Collected:  %s\n", formatAmount(s.Collected))
	fmt.Fprintf(w, "Spent:      %s\n", formatAmount(s.Spent))
	if s.Deficit {
		deficitColor.Fprintf(w, "Balance:    %s (deficit)\n", formatAmount(s.Balance))
	} else {
		fmt.Fprintf(w, "Balance:    %s\n", formatAmount(s.Balance))
	}
	fmt.Fprintln(w)

	if s.Empty {
		fmt.Fprintln(w, "No expenses recorded for this period yet.")
		renderWarnings(w, s.Warnings)
		return
	}

	headerColor.Fprintln(w, "Spending by category")
	if len(s.Distribution) == 0 {
		// Only internal transfers, or sums too small to show.
		fmt.Fprintln(w, "  No spending to break down.")
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range s.Distribution {
		fmt.Fprintf(tw, "  %s\t%s\n", c.Category, formatAmount(c.Amount))
	}
	tw.Flush()
	fmt.Fprintln(w)

	headerColor.Fprintln(w, "Waiting for reimbursement")
	if len(s.Unreimbursed) == 0 {
		fmt.Fprintln(w, "  Everything has been reimbursed.")
	} else {
		writeExpenseTable(w, s.Unreimbursed)
		for _, o := range s.Outstanding {
			fmt.Fprintf(w, "  %s is owed %s\n", o.Payer, formatAmount(o.Amount))
		}
	}

	renderWarnings(w, s.Warnings)
}

func renderStatuses(w io.Writer, period string, statuses []*api.MemberStatus) {
	headerColor.Fprintf(w, "=== Contributions %s ===\n", period)
	for _, st := range statuses {
		if st.Paid {
			paidColor.Fprintf(w, "  [x] %s\n", st.Member)
		} else {
			fmt.Fprintf(w, "  [ ] %s\n", st.Member)
		}
	}
}

func renderExpenses(w io.Writer, period string, expenses []*api.Expense) {
	headerColor.Fprintf(w, "=== Expenses %s ===\n", period)
	if len(expenses) == 0 {
		fmt.Fprintln(w, "No expenses recorded for this period yet.")
		return
	}
	writeExpenseTable(w, expenses)
}

func writeExpenseTable(w io.Writer, expenses []*api.Expense) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  ROW\tDATE\tCATEGORY\tAMOUNT\tPAYER\tREIMBURSED")
	for _, e := range expenses {
		reimbursed := ledger.EncodeReimbursed(e.Reimbursed)
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\t%s\n", e.Row, dateLabel(e), e.Category, formatAmount(e.Amount), e.Payer, reimbursed)
	}
	tw.Flush()
}

func renderPeriods(w io.Writer, msg *api.ListPeriodsResponse) {
	ids := make([]string, len(msg.Periods))
	for i, p := range msg.Periods {
		ids[i] = p.ID
		if p.ID == msg.DefaultPeriod {
			ids[i] += "*"
		}
	}
	fmt.Fprintf(w, "Periods:      %s\n", strings.Join(ids, ", "))
	fmt.Fprintf(w, "Contribution: %s\n", formatAmount(msg.Contribution))
	fmt.Fprintf(w, "Members:      %s\n", strings.Join(msg.Members, ", "))
	fmt.Fprintf(w, "Payers:       %s\n", strings.Join(msg.Payers, ", "))
	fmt.Fprintf(w, "Categories:   %s\n", strings.Join(msg.Categories, ", "))
}

func renderWarnings(w io.Writer, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%d cell(s) could not be read and were counted as empty:\n", len(warnings))
	for _, warn := range warnings {
		fmt.Fprintf(w, "  %s\n", warn)
	}
}
