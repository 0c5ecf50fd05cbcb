package cmd

import (
	"context"
	"fmt"
	"io"

	"connectrpc.com/connect"

	"github.com/mmynk/kas/internal/models"
	"github.com/mmynk/kas/pkg/api"
)

// runView renders one of the dashboard views.
func runView(ctx context.Context, w io.Writer, opts *options, view models.View) error {
	client := opts.client()

	switch view {
	case models.ViewOverview:
		resp, err := client.GetSummary(ctx, connect.NewRequest(&api.GetSummaryRequest{Period: opts.period}))
		if err != nil {
			return fmt.Errorf("failed to load summary: %w", err)
		}
		renderSummary(w, resp.Msg.Summary)

	case models.ViewRecordPayment:
		resp, err := client.GetMembershipStatus(ctx, connect.NewRequest(&api.GetMembershipStatusRequest{Period: opts.period}))
		if err != nil {
			return fmt.Errorf("failed to load statuses: %w", err)
		}
		renderStatuses(w, resp.Msg.Period, resp.Msg.Statuses)

	case models.ViewRecordExpense:
		resp, err := client.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{Period: opts.period}))
		if err != nil {
			return fmt.Errorf("failed to load expenses: %w", err)
		}
		renderExpenses(w, resp.Msg.Period, resp.Msg.Expenses)
		renderWarnings(w, resp.Msg.Warnings)

	default:
		return fmt.Errorf("unhandled view %v", view)
	}
	return nil
}
