package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/kas/internal/config"
	"github.com/mmynk/kas/internal/ledger"
	"github.com/mmynk/kas/internal/membership"
	"github.com/mmynk/kas/internal/models"
	"github.com/mmynk/kas/internal/storage"
	"github.com/mmynk/kas/pkg/api"
	"github.com/mmynk/kas/pkg/api/apiconnect"
)

// LedgerService implements the Connect LedgerService
type LedgerService struct {
	apiconnect.UnimplementedLedgerServiceHandler
	sheets    storage.Sheets
	statuses  *membership.Store
	household *config.Household
	now       func() time.Time
}

// Option configures a LedgerService.
type Option func(*LedgerService)

// WithClock overrides the clock used to pick the default period and the
// date of expenses submitted without one.
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) {
		s.now = now
	}
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(sheets storage.Sheets, household *config.Household, opts ...Option) *LedgerService {
	s := &LedgerService{
		sheets:    sheets,
		statuses:  membership.NewStore(sheets, household.StatusSheet),
		household: household,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetSummary reconciles one period.
func (s *LedgerService) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	slog.Info("GetSummary request received", "period", req.Msg.Period)

	p, err := s.resolvePeriod(req.Msg.Period)
	if err != nil {
		return nil, toConnectError(err)
	}

	st := &periodState{period: p}
	if err := s.loadExpenses(ctx, st); err != nil {
		slog.Error("GetSummary failed", "period", p.ID(), "error", err)
		return nil, toConnectError(err)
	}
	if err := s.loadStatuses(ctx, st); err != nil {
		slog.Error("GetSummary failed", "period", p.ID(), "error", err)
		return nil, toConnectError(err)
	}

	summary := st.summarize(s)
	slog.Debug("Period summarized",
		"period", p.ID(),
		"paid", summary.PaidCount,
		"collected", summary.Collected.String(),
		"spent", summary.Spent.String(),
		"balance", summary.Balance.String(),
	)

	out := summaryToAPI(summary, p, s.household.Members, st.statuses)
	out.Warnings = warningsToAPI(st.warnings)
	return connect.NewResponse(&api.GetSummaryResponse{Summary: out}), nil
}

// SetMembershipStatus records whether a member paid for a period.
func (s *LedgerService) SetMembershipStatus(ctx context.Context, req *connect.Request[api.SetMembershipStatusRequest]) (*connect.Response[api.SetMembershipStatusResponse], error) {
	slog.Info("SetMembershipStatus request received",
		"period", req.Msg.Period,
		"member", req.Msg.Member,
		"paid", req.Msg.Paid,
	)

	p, err := s.resolvePeriod(req.Msg.Period)
	if err != nil {
		return nil, toConnectError(err)
	}
	if !s.household.IsMember(req.Msg.Member) {
		return nil, toConnectError(fmt.Errorf("%w: %q", ErrUnknownMember, req.Msg.Member))
	}

	status := models.StatusUnpaid
	if req.Msg.Paid {
		status = models.StatusPaid
	}
	if err := s.statuses.Set(ctx, p.ID(), req.Msg.Member, status); err != nil {
		slog.Error("SetMembershipStatus failed", "period", p.ID(), "member", req.Msg.Member, "error", err)
		return nil, toConnectError(err)
	}

	statuses, err := s.statuses.Load(ctx, p.ID(), s.household.Members)
	if err != nil {
		slog.Error("SetMembershipStatus reload failed", "period", p.ID(), "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Membership status set", "period", p.ID(), "member", req.Msg.Member, "status", status.String())
	return connect.NewResponse(&api.SetMembershipStatusResponse{
		Period:   p.ID(),
		Statuses: statusesToAPI(s.household.Members, statuses),
	}), nil
}

// GetMembershipStatus returns who has paid for a period.
func (s *LedgerService) GetMembershipStatus(ctx context.Context, req *connect.Request[api.GetMembershipStatusRequest]) (*connect.Response[api.GetMembershipStatusResponse], error) {
	slog.Info("GetMembershipStatus request received", "period", req.Msg.Period)

	p, err := s.resolvePeriod(req.Msg.Period)
	if err != nil {
		return nil, toConnectError(err)
	}

	st := &periodState{period: p}
	if err := s.loadStatuses(ctx, st); err != nil {
		slog.Error("GetMembershipStatus failed", "period", p.ID(), "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetMembershipStatusResponse{
		Period:   p.ID(),
		Statuses: statusesToAPI(s.household.Members, st.statuses),
	}), nil
}

// AddExpense appends an expense to the period's sheet.
func (s *LedgerService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	slog.Info("AddExpense request received",
		"period", req.Msg.Period,
		"category", req.Msg.Category,
		"amount", req.Msg.Amount,
		"payer", req.Msg.Payer,
	)

	p, err := s.resolvePeriod(req.Msg.Period)
	if err != nil {
		return nil, toConnectError(err)
	}
	rec, err := s.validateExpense(req.Msg)
	if err != nil {
		slog.Warn("AddExpense rejected", "error", err)
		return nil, toConnectError(err)
	}

	if err := s.sheets.AppendRow(ctx, p.ID(), ledger.EncodeExpense(rec)); err != nil {
		slog.Error("AddExpense failed", "period", p.ID(), "error", err)
		return nil, toConnectError(fmt.Errorf("failed to append expense: %w", err))
	}

	slog.Info("Expense added", "period", p.ID(), "category", rec.Category, "amount", rec.Amount.String())
	return connect.NewResponse(&api.AddExpenseResponse{Expense: expenseToAPI(rec)}), nil
}

// validateExpense turns a request into a record without touching the store.
func (s *LedgerService) validateExpense(msg *api.AddExpenseRequest) (models.ExpenseRecord, error) {
	if !s.household.IsCategory(msg.Category) {
		return models.ExpenseRecord{}, fmt.Errorf("%w: %q", ErrUnknownCategory, msg.Category)
	}
	if !s.household.IsPayer(msg.Payer) {
		return models.ExpenseRecord{}, fmt.Errorf("%w: %q", ErrUnknownPayer, msg.Payer)
	}

	amount, err := ledger.ParseAmount(msg.Amount)
	if err != nil {
		return models.ExpenseRecord{}, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return models.ExpenseRecord{}, fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}

	date := s.now()
	if d := strings.TrimSpace(msg.Date); d != "" {
		date, err = time.Parse(ledger.DateLayout, d)
		if err != nil {
			return models.ExpenseRecord{}, fmt.Errorf("%w: %q", ErrInvalidDate, msg.Date)
		}
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	return models.ExpenseRecord{
		Date:       date,
		RawDate:    date.Format(ledger.DateLayout),
		Category:   msg.Category,
		Amount:     amount,
		Payer:      msg.Payer,
		Reimbursed: msg.Reimbursed,
	}, nil
}

// MarkReimbursed flags one expense row as repaid from the fund.
func (s *LedgerService) MarkReimbursed(ctx context.Context, req *connect.Request[api.MarkReimbursedRequest]) (*connect.Response[api.MarkReimbursedResponse], error) {
	slog.Info("MarkReimbursed request received", "period", req.Msg.Period, "row", req.Msg.Row)

	p, err := s.resolvePeriod(req.Msg.Period)
	if err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.Row < 2 {
		return nil, toConnectError(fmt.Errorf("%w: row %d", ErrInvalidRow, req.Msg.Row))
	}

	rows, err := s.sheets.ReadAllRows(ctx, p.ID())
	if err != nil {
		slog.Error("MarkReimbursed failed", "period", p.ID(), "error", err)
		return nil, toConnectError(fmt.Errorf("failed to read expenses of %s: %w", p.ID(), err))
	}

	records, _ := ledger.ParseExpenseSheet(rows)
	var rec *models.ExpenseRecord
	for i := range records {
		if records[i].Row == int(req.Msg.Row) {
			rec = &records[i]
			break
		}
	}
	if rec == nil {
		return nil, toConnectError(fmt.Errorf("%w: row %d of %s holds no expense", ErrInvalidRow, req.Msg.Row, p.ID()))
	}

	col := ledger.ColumnsOf(rows[0], ledger.ExpenseHeader).Position(ledger.ColumnReimbursed, ledger.ExpenseHeader)
	if err := s.sheets.UpdateCell(ctx, p.ID(), rec.Row, col, ledger.EncodeReimbursed(true)); err != nil {
		slog.Error("MarkReimbursed failed", "period", p.ID(), "row", rec.Row, "error", err)
		return nil, toConnectError(fmt.Errorf("failed to mark row %d reimbursed: %w", rec.Row, err))
	}
	rec.Reimbursed = true

	slog.Info("Expense reimbursed", "period", p.ID(), "row", rec.Row, "payer", rec.Payer)
	return connect.NewResponse(&api.MarkReimbursedResponse{Expense: expenseToAPI(*rec)}), nil
}

// ListExpenses returns every expense row of a period in storage order.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "period", req.Msg.Period)

	p, err := s.resolvePeriod(req.Msg.Period)
	if err != nil {
		return nil, toConnectError(err)
	}

	st := &periodState{period: p}
	if err := s.loadExpenses(ctx, st); err != nil {
		slog.Error("ListExpenses failed", "period", p.ID(), "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ListExpensesResponse{
		Period:   p.ID(),
		Expenses: expensesToAPI(st.expenses),
		Warnings: warningsToAPI(st.warnings),
	}), nil
}

// ListPeriods returns the configured window and the choices the entry forms offer.
func (s *LedgerService) ListPeriods(ctx context.Context, req *connect.Request[api.ListPeriodsRequest]) (*connect.Response[api.ListPeriodsResponse], error) {
	h := s.household

	window := h.Window().Periods()
	periods := make([]*api.Period, len(window))
	for i, p := range window {
		periods[i] = &api.Period{ID: p.ID(), Label: p.Label()}
	}

	return connect.NewResponse(&api.ListPeriodsResponse{
		Periods:       periods,
		DefaultPeriod: h.DefaultPeriod(s.now()).ID(),
		Members:       h.Members,
		Categories:    h.Categories,
		Payers:        h.Payers(),
		Contribution:  h.ContributionAmount().String(),
	}), nil
}
