// Package storage provides abstractions for the tabular system of record.
package storage

import (
	"context"
	"errors"
)

// Configuration errors. They mean the backing resource cannot be reached or
// a named sheet does not exist, and are fatal for the current page load.
var (
	ErrSheetNotFound      = errors.New("sheet not found")
	ErrBackendUnavailable = errors.New("ledger backend unavailable")
)

// Sheets defines the spreadsheet-shaped store the ledger is kept in.
// Rows and columns are 1-based, like a spreadsheet. This abstraction allows
// swapping backends (Google Sheets, SQLite, PostgreSQL) without changing
// the service layer.
type Sheets interface {
	// ReadAllRows returns every row of the sheet in storage order,
	// including the header row.
	ReadAllRows(ctx context.Context, sheet string) ([][]string, error)

	// AppendRow adds a row after the last row of the sheet.
	AppendRow(ctx context.Context, sheet string, values []string) error

	// UpdateCell overwrites a single cell. The row must exist.
	UpdateCell(ctx context.Context, sheet string, row, col int, value string) error

	// FindCells returns, in ascending order, the rows whose cell in col
	// equals value exactly.
	FindCells(ctx context.Context, sheet, value string, col int) ([]int, error)
}

// Provisioner is implemented by backends that can create missing sheets.
type Provisioner interface {
	// EnsureSheet creates the sheet with the given header row if it does not exist.
	EnsureSheet(ctx context.Context, sheet string, header []string) error
}

// Direct returns the store underneath any caching layer, so a caller that
// must see current data bypasses memoized reads. Layers expose the store
// they wrap through an Unwrap method.
func Direct(s Sheets) Sheets {
	for {
		u, ok := s.(interface{ Unwrap() Sheets })
		if !ok {
			return s
		}
		s = u.Unwrap()
	}
}

// IsConfigError reports whether err is a configuration error rather than a
// transient store failure.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrSheetNotFound) || errors.Is(err, ErrBackendUnavailable)
}

// ErrRowNotFound is returned by UpdateCell when the addressed row does not exist.
var ErrRowNotFound = errors.New("row not found")
