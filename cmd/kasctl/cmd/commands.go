package cmd

import (
	"fmt"
	"strconv"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/kas/pkg/api"
)

func newPayCmd(opts *options) *cobra.Command {
	var unpaid bool

	cmd := &cobra.Command{
		Use:   "pay <member>",
		Short: "Record a member's contribution for the period",
		Long: `Mark a member as paid (or, with --unpaid, as not paid) for the period.
Repeating the command is harmless: the member's status row is updated in place.

Example:
  kasctl pay Yopha --period Juni2025
  kasctl pay Yopha --unpaid`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := opts.client().SetMembershipStatus(cmd.Context(), connect.NewRequest(&api.SetMembershipStatusRequest{
				Period: opts.period,
				Member: args[0],
				Paid:   !unpaid,
			}))
			if err != nil {
				return fmt.Errorf("failed to set status: %w", err)
			}
			renderStatuses(cmd.OutOrStdout(), resp.Msg.Period, resp.Msg.Statuses)
			return nil
		},
	}
	cmd.Flags().BoolVar(&unpaid, "unpaid", false, "mark the member as not paid")
	return cmd
}

func newExpenseCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Manage the period's expenses",
	}
	cmd.AddCommand(newExpenseAddCmd(opts))
	return cmd
}

func newExpenseAddCmd(opts *options) *cobra.Command {
	req := &api.AddExpenseRequest{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		Long: `Record an expense paid by a member or by one of the fund's accounts.
Amounts may be written plainly (350000) or localized ("Rp 1.250,50").

Example:
  kasctl expense add --category Listrik --amount "Rp 500.000" --payer Degus --date 2025-06-03`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Period = opts.period
			resp, err := opts.client().AddExpense(cmd.Context(), connect.NewRequest(req))
			if err != nil {
				return fmt.Errorf("failed to add expense: %w", err)
			}
			e := resp.Msg.Expense
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %s paid by %s on %s\n", e.Category, formatAmount(e.Amount), e.Payer, dateLabel(e))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Category, "category", "", "expense category")
	cmd.Flags().StringVar(&req.Amount, "amount", "", "amount, e.g. 350000 or \"Rp 1.250,50\"")
	cmd.Flags().StringVar(&req.Payer, "payer", "", "who paid")
	cmd.Flags().StringVar(&req.Date, "date", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&req.Reimbursed, "reimbursed", false, "the payer has already been repaid")
	cmd.MarkFlagRequired("category")
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("payer")
	return cmd
}

func newReimburseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reimburse <row>",
		Short: "Mark an expense as repaid from the fund",
		Long: `Mark the expense stored at <row> as reimbursed. Row numbers are shown
by "kasctl --view expense" and in the overview's open reimbursements.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid row %q: %w", args[0], err)
			}
			resp, err := opts.client().MarkReimbursed(cmd.Context(), connect.NewRequest(&api.MarkReimbursedRequest{
				Period: opts.period,
				Row:    int32(row),
			}))
			if err != nil {
				return fmt.Errorf("failed to mark reimbursed: %w", err)
			}
			e := resp.Msg.Expense
			fmt.Fprintf(cmd.OutOrStdout(), "Reimbursed %s %s to %s\n", e.Category, formatAmount(e.Amount), e.Payer)
			return nil
		},
	}
}

func newPeriodsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "periods",
		Short: "List the configured periods and form choices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := opts.client().ListPeriods(cmd.Context(), connect.NewRequest(&api.ListPeriodsRequest{}))
			if err != nil {
				return fmt.Errorf("failed to list periods: %w", err)
			}
			renderPeriods(cmd.OutOrStdout(), resp.Msg)
			return nil
		},
	}
}
