package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/kas/internal/calculator"
	"github.com/mmynk/kas/internal/ledger"
	"github.com/mmynk/kas/internal/models"
	"github.com/mmynk/kas/internal/period"
)

// periodState is everything one request knows about a period. It is built
// fresh for every request and never shared.
type periodState struct {
	period   period.Period
	expenses []models.ExpenseRecord
	warnings []ledger.Warning
	statuses map[string]models.Status
}

// resolvePeriod parses id, defaulting to the current period when empty.
// Only periods inside the configured window are accepted.
func (s *LedgerService) resolvePeriod(id string) (period.Period, error) {
	if id == "" {
		return s.household.DefaultPeriod(s.now()), nil
	}
	p, err := period.Parse(id)
	if err != nil {
		return period.Period{}, fmt.Errorf("%w: %v", ErrUnknownPeriod, err)
	}
	if !s.household.Window().Contains(p) {
		return period.Period{}, fmt.Errorf("%w: %s is outside %s..%s", ErrUnknownPeriod, p.ID(), s.household.Start, s.household.End)
	}
	return p, nil
}

// loadExpenses reads the period's expense sheet.
func (s *LedgerService) loadExpenses(ctx context.Context, st *periodState) error {
	rows, err := s.sheets.ReadAllRows(ctx, st.period.ID())
	if err != nil {
		return fmt.Errorf("failed to read expenses of %s: %w", st.period.ID(), err)
	}
	st.expenses, st.warnings = ledger.ParseExpenseSheet(rows)
	for _, w := range st.warnings {
		slog.Warn("Unparsable cell defaulted",
			"period", st.period.ID(),
			"row", w.Row,
			"column", w.Column,
			"value", w.Value,
			"error", w.Err,
		)
	}
	return nil
}

// loadStatuses reads the contribution status of every member.
func (s *LedgerService) loadStatuses(ctx context.Context, st *periodState) error {
	statuses, err := s.statuses.Load(ctx, st.period.ID(), s.household.Members)
	if err != nil {
		return err
	}
	st.statuses = statuses
	return nil
}

func (st *periodState) summarize(s *LedgerService) *models.PeriodSummary {
	h := s.household
	return calculator.Summarize(
		st.period.ID(),
		st.expenses,
		st.statuses,
		h.Members,
		h.ContributionAmount(),
		calculator.WithCategories(h.Categories, h.OtherCategory),
		calculator.WithInternalTransfer(h.InternalTransfer),
		calculator.WithSharedPayers(h.SharedPayers...),
	)
}
