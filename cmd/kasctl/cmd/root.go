// Package cmd provides CLI commands for kasctl.
package cmd

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/kas/internal/models"
	"github.com/mmynk/kas/pkg/api/apiconnect"
	"github.com/mmynk/kas/pkg/logging"
)

// options are the global flags shared by every command.
type options struct {
	server string
	period string
	debug  bool

	httpClient *http.Client
}

func (o *options) client() apiconnect.LedgerServiceClient {
	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return apiconnect.NewLedgerServiceClient(httpClient, o.server)
}

// Execute runs the root command against os.Args.
// This is called by main.main().
func Execute() error {
	return newRootCmd(&options{}).Execute()
}

func newRootCmd(opts *options) *cobra.Command {
	var view string

	rootCmd := &cobra.Command{
		Use:   "kasctl",
		Short: "Track the household's shared fund",
		Long: `kasctl talks to the kas ledger server.

Without a subcommand it shows one of three views of a period:
- overview: contributions collected, spending, balance and open reimbursements
- payment:  who has paid this period's contribution
- expense:  every expense recorded this period

Example:
  kasctl --view overview --period Juni2025
  kasctl pay Yopha
  kasctl expense add --category Wifi --amount "Rp 350.000" --payer Dipta`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.debug {
				level = slog.LevelDebug
			}
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), level))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := models.ParseView(view)
			if err != nil {
				return err
			}
			return runView(cmd.Context(), cmd.OutOrStdout(), opts, v)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.server, "server", envOrDefault("KAS_SERVER", "http://localhost:8080"), "ledger server URL")
	rootCmd.PersistentFlags().StringVar(&opts.period, "period", "", "period id such as Juni2025 (default: current period)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	rootCmd.Flags().StringVar(&view, "view", models.ViewOverview.String(), "view to show: overview, payment or expense")

	rootCmd.AddCommand(newPayCmd(opts))
	rootCmd.AddCommand(newExpenseCmd(opts))
	rootCmd.AddCommand(newReimburseCmd(opts))
	rootCmd.AddCommand(newPeriodsCmd(opts))

	return rootCmd
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
