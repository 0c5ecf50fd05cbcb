package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/kas/internal/config"
	"github.com/mmynk/kas/internal/ledger"
	"github.com/mmynk/kas/internal/metrics"
	"github.com/mmynk/kas/internal/middleware"
	"github.com/mmynk/kas/internal/storage"
	"github.com/mmynk/kas/internal/storage/gsheets"
	"github.com/mmynk/kas/internal/storage/sqlstore"
	"github.com/mmynk/kas/pkg/api/apiconnect"
)

// backend is the opened tabular store plus whatever needs closing.
type backend struct {
	sheets storage.Sheets
	closer io.Closer
}

func (b *backend) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

// openBackend connects the store selected by LEDGER_BACKEND.
func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		store, err := sqlstore.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite storage: %w", err)
		}
		return &backend{sheets: store, closer: store}, nil

	case config.BackendPostgres:
		store, err := sqlstore.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres storage: %w", err)
		}
		return &backend{sheets: store, closer: store}, nil

	case config.BackendGSheets:
		store, err := gsheets.New(ctx, gsheets.Config{
			SpreadsheetID:   cfg.Sheets.SpreadsheetID,
			CredentialsPath: cfg.Sheets.CredentialsPath,
			APIEndpoint:     cfg.Sheets.Endpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets storage: %w", err)
		}
		return &backend{sheets: store}, nil

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// provision creates the status sheet and one expense sheet per period of
// the window when the backend supports it.
func provision(ctx context.Context, sheets storage.Sheets, h *config.Household) error {
	p, ok := sheets.(storage.Provisioner)
	if !ok {
		slog.Warn("Backend cannot create sheets, skipping provisioning")
		return nil
	}

	if err := p.EnsureSheet(ctx, h.StatusSheet, ledger.StatusHeader); err != nil {
		return fmt.Errorf("failed to provision %s: %w", h.StatusSheet, err)
	}
	for _, period := range h.Window().Periods() {
		if err := p.EnsureSheet(ctx, period.ID(), ledger.ExpenseHeader); err != nil {
			return fmt.Errorf("failed to provision %s: %w", period.ID(), err)
		}
	}
	slog.Info("Sheets provisioned", "status_sheet", h.StatusSheet, "periods", len(h.Window().Periods()))
	return nil
}

// newRouter mounts the Connect service, health check and metrics.
func newRouter(svc apiconnect.LedgerServiceHandler, gatherer prometheus.Gatherer, m *metrics.Metrics) http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.CORS)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	path, handler := apiconnect.NewLedgerServiceHandler(svc,
		connect.WithInterceptors(middleware.MetricsInterceptor(m), middleware.LoggingInterceptor()),
	)
	router.Mount(path, handler)

	return router
}
