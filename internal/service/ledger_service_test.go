package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/kas/internal/config"
	"github.com/mmynk/kas/internal/ledger"
	"github.com/mmynk/kas/internal/storage/sqlstore"
	"github.com/mmynk/kas/pkg/api"
	"github.com/mmynk/kas/pkg/api/apiconnect"
)

var testToday = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

// setupTestServer creates a test server over a temporary SQLite database
// with every sheet of the default household provisioned.
func setupTestServer(t *testing.T) (apiconnect.LedgerServiceClient, *sqlstore.Store) {
	t.Helper()

	store, err := sqlstore.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	household := config.DefaultHousehold()
	ctx := context.Background()
	for _, p := range household.Window().Periods() {
		if err := store.EnsureSheet(ctx, p.ID(), ledger.ExpenseHeader); err != nil {
			t.Fatalf("failed to provision %s: %v", p.ID(), err)
		}
	}
	if err := store.EnsureSheet(ctx, household.StatusSheet, ledger.StatusHeader); err != nil {
		t.Fatalf("failed to provision status sheet: %v", err)
	}

	svc := NewLedgerService(store, household, WithClock(func() time.Time { return testToday }))
	path, handler := apiconnect.NewLedgerServiceHandler(svc)

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL), store
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect error with code %v, got %v", want, err)
	}
	if connectErr.Code() != want {
		t.Errorf("code = %v, want %v (%v)", connectErr.Code(), want, connectErr.Message())
	}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}

func addExpense(t *testing.T, client apiconnect.LedgerServiceClient, req *api.AddExpenseRequest) *api.Expense {
	t.Helper()
	resp, err := client.AddExpense(context.Background(), connect.NewRequest(req))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	return resp.Msg.Expense
}

func TestAddExpense_Validation(t *testing.T) {
	client, store := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		req      *api.AddExpenseRequest
		wantCode connect.Code
	}{
		{
			name:     "zero amount",
			req:      &api.AddExpenseRequest{Period: "Juni2025", Category: "Wifi", Amount: "0", Payer: "Dipta"},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name:     "negative amount",
			req:      &api.AddExpenseRequest{Period: "Juni2025", Category: "Wifi", Amount: "-5000", Payer: "Dipta"},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name:     "unparsable amount",
			req:      &api.AddExpenseRequest{Period: "Juni2025", Category: "Wifi", Amount: "abc", Payer: "Dipta"},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name:     "unknown category",
			req:      &api.AddExpenseRequest{Period: "Juni2025", Category: "Netflix", Amount: "1000", Payer: "Dipta"},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name:     "unknown payer",
			req:      &api.AddExpenseRequest{Period: "Juni2025", Category: "Wifi", Amount: "1000", Payer: "Tamu"},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name:     "period outside the window",
			req:      &api.AddExpenseRequest{Period: "Januari2025", Category: "Wifi", Amount: "1000", Payer: "Dipta"},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name:     "malformed date",
			req:      &api.AddExpenseRequest{Period: "Juni2025", Date: "15 Juni", Category: "Wifi", Amount: "1000", Payer: "Dipta"},
			wantCode: connect.CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.AddExpense(ctx, connect.NewRequest(tt.req))
			assertCode(t, err, tt.wantCode)
		})
	}

	rows, err := store.ReadAllRows(ctx, "Juni2025")
	if err != nil {
		t.Fatalf("ReadAllRows failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("rejected requests must not write, got %d rows", len(rows))
	}
}

func TestAddExpense_SmallestUnitAccepted(t *testing.T) {
	client, _ := setupTestServer(t)

	exp := addExpense(t, client, &api.AddExpenseRequest{
		Period: "Juni2025", Category: "Galon", Amount: "1", Payer: "Yopha",
	})
	if exp.Amount != "1" {
		t.Errorf("amount = %s, want 1", exp.Amount)
	}
	if exp.Date != "2025-06-15" {
		t.Errorf("date = %s, want today", exp.Date)
	}
}

func TestAddExpense_RoundTrip(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()

	addExpense(t, client, &api.AddExpenseRequest{
		Period:     "Juli2025",
		Date:       "2025-07-02",
		Category:   "Listrik",
		Amount:     "Rp 1.250,50",
		Payer:      "Kas Bersama",
		Reimbursed: true,
	})

	resp, err := client.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{Period: "Juli2025"}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(resp.Msg.Expenses) != 1 {
		t.Fatalf("expected 1 expense, got %d", len(resp.Msg.Expenses))
	}

	got := resp.Msg.Expenses[0]
	if got.Date != "2025-07-02" || got.Category != "Listrik" || got.Payer != "Kas Bersama" || !got.Reimbursed {
		t.Errorf("unexpected expense: %+v", got)
	}
	if !mustDecimal(t, got.Amount).Equal(mustDecimal(t, "1250.50")) {
		t.Errorf("amount = %s, want 1250.50", got.Amount)
	}
	if got.Row != 2 {
		t.Errorf("row = %d, want 2", got.Row)
	}
	if got.DateLabel != "Rabu, 02 Juli 2025" {
		t.Errorf("date label = %q", got.DateLabel)
	}
}

func TestGetSummary(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()

	t.Run("empty period", func(t *testing.T) {
		resp, err := client.GetSummary(ctx, connect.NewRequest(&api.GetSummaryRequest{}))
		if err != nil {
			t.Fatalf("GetSummary failed: %v", err)
		}
		s := resp.Msg.Summary
		if s.Period != "Juni2025" {
			t.Errorf("default period = %s, want Juni2025", s.Period)
		}
		if !s.Empty || s.Spent != "0" || len(s.Distribution) != 0 || len(s.Unreimbursed) != 0 {
			t.Errorf("expected empty summary, got %+v", s)
		}
		if len(s.Statuses) != 4 {
			t.Errorf("expected 4 member statuses, got %d", len(s.Statuses))
		}
	})

	t.Run("reconciles payments and expenses", func(t *testing.T) {
		for _, m := range []string{"Yopha", "Degus"} {
			_, err := client.SetMembershipStatus(ctx, connect.NewRequest(&api.SetMembershipStatusRequest{
				Period: "Juni2025", Member: m, Paid: true,
			}))
			if err != nil {
				t.Fatalf("SetMembershipStatus failed: %v", err)
			}
		}
		for _, req := range []*api.AddExpenseRequest{
			{Period: "Juni2025", Date: "2025-06-01", Category: "Wifi", Amount: "100000", Payer: "Dipta"},
			{Period: "Juni2025", Date: "2025-06-03", Category: "Wifi", Amount: "50000", Payer: "Kas Bersama", Reimbursed: true},
			{Period: "Juni2025", Date: "2025-06-04", Category: "Galon", Amount: "20000", Payer: "Delon"},
		} {
			addExpense(t, client, req)
		}

		resp, err := client.GetSummary(ctx, connect.NewRequest(&api.GetSummaryRequest{Period: "Juni2025"}))
		if err != nil {
			t.Fatalf("GetSummary failed: %v", err)
		}
		s := resp.Msg.Summary

		if s.PaidCount != 2 || s.MemberCount != 4 {
			t.Errorf("paid %d/%d, want 2/4", s.PaidCount, s.MemberCount)
		}
		if s.Collected != "700000" || s.Spent != "170000" || s.Balance != "530000" {
			t.Errorf("collected/spent/balance = %s/%s/%s", s.Collected, s.Spent, s.Balance)
		}
		if s.Deficit || s.Empty {
			t.Error("summary should be neither deficit nor empty")
		}
		if len(s.Unreimbursed) != 2 || s.Unreimbursed[0].Payer != "Dipta" || s.Unreimbursed[1].Payer != "Delon" {
			t.Errorf("unexpected unreimbursed: %+v", s.Unreimbursed)
		}
		if len(s.Distribution) != 2 || s.Distribution[0].Category != "Wifi" || s.Distribution[0].Amount != "150000" {
			t.Errorf("unexpected distribution: %+v", s.Distribution)
		}
		if len(s.Outstanding) != 2 {
			t.Errorf("expected Dipta and Delon owed, got %+v", s.Outstanding)
		}
	})
}

func TestGetSummary_Deficit(t *testing.T) {
	client, _ := setupTestServer(t)

	addExpense(t, client, &api.AddExpenseRequest{
		Period: "Agustus2025", Date: "2025-08-01", Category: "Listrik", Amount: "500000", Payer: "Yopha",
	})

	resp, err := client.GetSummary(context.Background(), connect.NewRequest(&api.GetSummaryRequest{Period: "Agustus2025"}))
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}
	if !resp.Msg.Summary.Deficit || resp.Msg.Summary.Balance != "-500000" {
		t.Errorf("expected deficit of -500000, got %s", resp.Msg.Summary.Balance)
	}
}

func TestGetSummary_MalformedRowsWarn(t *testing.T) {
	client, store := setupTestServer(t)
	ctx := context.Background()

	if err := store.AppendRow(ctx, "Juni2025", []string{"2025-06-01", "Gas", "abc", "Yopha", "BELUM"}); err != nil {
		t.Fatalf("AppendRow failed: %v", err)
	}
	if err := store.AppendRow(ctx, "Juni2025", []string{"2025-06-02", "Gas", "Rp 25.000", "Yopha", "BELUM"}); err != nil {
		t.Fatalf("AppendRow failed: %v", err)
	}

	resp, err := client.GetSummary(ctx, connect.NewRequest(&api.GetSummaryRequest{Period: "Juni2025"}))
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}
	if resp.Msg.Summary.Spent != "25000" {
		t.Errorf("Spent = %s, want 25000", resp.Msg.Summary.Spent)
	}
	if len(resp.Msg.Summary.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", resp.Msg.Summary.Warnings)
	}
}

func TestSetMembershipStatus(t *testing.T) {
	client, store := setupTestServer(t)
	ctx := context.Background()

	set := func(paid bool) *api.SetMembershipStatusResponse {
		t.Helper()
		resp, err := client.SetMembershipStatus(ctx, connect.NewRequest(&api.SetMembershipStatusRequest{
			Period: "Juni2025", Member: "Delon", Paid: paid,
		}))
		if err != nil {
			t.Fatalf("SetMembershipStatus failed: %v", err)
		}
		return resp.Msg
	}

	set(true)
	resp := set(true)

	rows, err := store.ReadAllRows(ctx, "StatusIuran2025")
	if err != nil {
		t.Fatalf("ReadAllRows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("repeated writes must leave one record, got %d", len(rows)-1)
	}
	for _, st := range resp.Statuses {
		if st.Paid != (st.Member == "Delon") {
			t.Errorf("%s paid = %v", st.Member, st.Paid)
		}
	}

	resp = set(false)
	for _, st := range resp.Statuses {
		if st.Member == "Delon" && st.Paid {
			t.Error("Delon should be unpaid after toggling off")
		}
	}

	status, err := client.GetMembershipStatus(ctx, connect.NewRequest(&api.GetMembershipStatusRequest{Period: "Juni2025"}))
	if err != nil {
		t.Fatalf("GetMembershipStatus failed: %v", err)
	}
	if len(status.Msg.Statuses) != 4 {
		t.Errorf("expected 4 statuses, got %d", len(status.Msg.Statuses))
	}

	t.Run("unknown member", func(t *testing.T) {
		_, err := client.SetMembershipStatus(ctx, connect.NewRequest(&api.SetMembershipStatusRequest{
			Period: "Juni2025", Member: "Kas Bersama", Paid: true,
		}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})
}

func TestMarkReimbursed(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()

	addExpense(t, client, &api.AddExpenseRequest{
		Period: "Juni2025", Date: "2025-06-01", Category: "PDAM", Amount: "75000", Payer: "Degus",
	})
	addExpense(t, client, &api.AddExpenseRequest{
		Period: "Juni2025", Date: "2025-06-02", Category: "Gas", Amount: "25000", Payer: "Dipta",
	})

	resp, err := client.MarkReimbursed(ctx, connect.NewRequest(&api.MarkReimbursedRequest{Period: "Juni2025", Row: 3}))
	if err != nil {
		t.Fatalf("MarkReimbursed failed: %v", err)
	}
	if !resp.Msg.Expense.Reimbursed || resp.Msg.Expense.Payer != "Dipta" {
		t.Errorf("unexpected expense: %+v", resp.Msg.Expense)
	}

	summary, err := client.GetSummary(ctx, connect.NewRequest(&api.GetSummaryRequest{Period: "Juni2025"}))
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}
	unreimbursed := summary.Msg.Summary.Unreimbursed
	if len(unreimbursed) != 1 || unreimbursed[0].Row != 2 {
		t.Errorf("expected only row 2 unreimbursed, got %+v", unreimbursed)
	}

	t.Run("invalid rows", func(t *testing.T) {
		for _, row := range []int32{0, 1, 42} {
			_, err := client.MarkReimbursed(ctx, connect.NewRequest(&api.MarkReimbursedRequest{Period: "Juni2025", Row: row}))
			assertCode(t, err, connect.CodeInvalidArgument)
		}
	})
}

func TestMissingSheetIsFailedPrecondition(t *testing.T) {
	store, err := sqlstore.New(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	svc := NewLedgerService(store, config.DefaultHousehold(), WithClock(func() time.Time { return testToday }))
	_, err = svc.GetSummary(context.Background(), connect.NewRequest(&api.GetSummaryRequest{}))
	assertCode(t, err, connect.CodeFailedPrecondition)
}

func TestListPeriods(t *testing.T) {
	client, _ := setupTestServer(t)

	resp, err := client.ListPeriods(context.Background(), connect.NewRequest(&api.ListPeriodsRequest{}))
	if err != nil {
		t.Fatalf("ListPeriods failed: %v", err)
	}
	msg := resp.Msg
	if len(msg.Periods) != 7 || msg.Periods[0].ID != "Juni2025" || msg.Periods[6].ID != "Desember2025" {
		t.Errorf("unexpected periods: %+v", msg.Periods)
	}
	if msg.DefaultPeriod != "Juni2025" {
		t.Errorf("default period = %s", msg.DefaultPeriod)
	}
	if len(msg.Payers) != 6 || msg.Contribution != "350000" {
		t.Errorf("unexpected payers/contribution: %v %s", msg.Payers, msg.Contribution)
	}
}
