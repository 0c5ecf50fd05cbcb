package service

import (
	"github.com/mmynk/kas/internal/ledger"
	"github.com/mmynk/kas/internal/models"
	"github.com/mmynk/kas/internal/period"
	"github.com/mmynk/kas/pkg/api"
)

func expenseToAPI(e models.ExpenseRecord) *api.Expense {
	out := &api.Expense{
		Row:        int32(e.Row),
		Date:       e.RawDate,
		Category:   e.Category,
		Amount:     e.Amount.String(),
		Payer:      e.Payer,
		Reimbursed: e.Reimbursed,
	}
	if !e.Date.IsZero() {
		out.Date = e.Date.Format(ledger.DateLayout)
		out.DateLabel = period.FormatDate(e.Date)
	}
	return out
}

func expensesToAPI(records []models.ExpenseRecord) []*api.Expense {
	out := make([]*api.Expense, len(records))
	for i, e := range records {
		out[i] = expenseToAPI(e)
	}
	return out
}

// statusesToAPI lists statuses in member order.
func statusesToAPI(members []string, statuses map[string]models.Status) []*api.MemberStatus {
	out := make([]*api.MemberStatus, len(members))
	for i, m := range members {
		out[i] = &api.MemberStatus{Member: m, Paid: statuses[m] == models.StatusPaid}
	}
	return out
}

func warningsToAPI(warnings []ledger.Warning) []string {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = w.Error()
	}
	return out
}

func summaryToAPI(s *models.PeriodSummary, p period.Period, members []string, statuses map[string]models.Status) *api.Summary {
	dist := make([]*api.CategoryAmount, len(s.Distribution))
	for i, c := range s.Distribution {
		dist[i] = &api.CategoryAmount{Category: c.Category, Amount: c.Amount.String()}
	}
	owed := make([]*api.PayerAmount, len(s.Outstanding))
	for i, o := range s.Outstanding {
		owed[i] = &api.PayerAmount{Payer: o.Payer, Amount: o.Amount.String()}
	}

	return &api.Summary{
		Period:       s.Period,
		PeriodLabel:  p.Label(),
		PaidCount:    int32(s.PaidCount),
		MemberCount:  int32(s.MemberCount),
		Collected:    s.Collected.String(),
		Spent:        s.Spent.String(),
		Balance:      s.Balance.String(),
		Deficit:      s.Deficit(),
		Empty:        s.Empty,
		Unreimbursed: expensesToAPI(s.Unreimbursed),
		Distribution: dist,
		Outstanding:  owed,
		Statuses:     statusesToAPI(members, statuses),
	}
}
