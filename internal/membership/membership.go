// Package membership tracks which members paid their contribution for a period.
package membership

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmynk/kas/internal/ledger"
	"github.com/mmynk/kas/internal/models"
	"github.com/mmynk/kas/internal/storage"
)

// StatusesFor returns the status of every configured member for period.
// When the sheet holds duplicate rows for a member, the first one in storage
// order wins. Members without a row are unpaid.
func StatusesFor(records []models.MembershipStatusRecord, period string, members []string) map[string]models.Status {
	statuses := make(map[string]models.Status, len(members))
	for _, m := range members {
		statuses[m] = models.StatusUnpaid
	}

	seen := make(map[string]bool, len(members))
	for _, r := range records {
		if r.Period != period || seen[r.Member] {
			continue
		}
		seen[r.Member] = true
		if _, ok := statuses[r.Member]; ok {
			statuses[r.Member] = r.Status
		}
	}
	return statuses
}

// Store reads and writes the status sheet.
type Store struct {
	sheets storage.Sheets
	sheet  string

	// mu serializes writes from this process. Writers in other processes
	// can still race and leave a duplicate row, which StatusesFor resolves.
	mu sync.Mutex
}

// NewStore creates a Store over the named status sheet.
func NewStore(sheets storage.Sheets, sheet string) *Store {
	return &Store{sheets: sheets, sheet: sheet}
}

// Sheet returns the name of the status sheet.
func (s *Store) Sheet() string {
	return s.sheet
}

// Records returns every status row in storage order.
func (s *Store) Records(ctx context.Context) ([]models.MembershipStatusRecord, error) {
	rows, err := s.sheets.ReadAllRows(ctx, s.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read status sheet: %w", err)
	}
	return ledger.ParseStatusSheet(rows), nil
}

// Load returns the statuses of members for period.
func (s *Store) Load(ctx context.Context, period string, members []string) (map[string]models.Status, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	return StatusesFor(records, period, members), nil
}

// Set records status for (period, member). The row that reads resolve to,
// the first one for the pair, is updated in place; a row is appended only
// when none exists, so repeated writes never create duplicates.
func (s *Store) Set(ctx context.Context, period, member string, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The scan must see current data, never a memoized read. Writes still
	// go through s.sheets so caching layers invalidate.
	rows, err := storage.Direct(s.sheets).ReadAllRows(ctx, s.sheet)
	if err != nil {
		return fmt.Errorf("failed to read status sheet: %w", err)
	}
	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}

	if row := find(ledger.ParseStatusSheet(rows), period, member); row > 0 {
		col := ledger.ColumnsOf(header, ledger.StatusHeader).Position(ledger.ColumnStatus, ledger.StatusHeader)
		if err := s.sheets.UpdateCell(ctx, s.sheet, row, col, status.String()); err != nil {
			return fmt.Errorf("failed to update status row %d: %w", row, err)
		}
		slog.Debug("status updated", "period", period, "member", member, "status", status.String(), "row", row)
		return nil
	}

	if err := s.sheets.AppendRow(ctx, s.sheet, ledger.EncodeStatus(header, period, member, status)); err != nil {
		return fmt.Errorf("failed to append status row: %w", err)
	}
	slog.Debug("status appended", "period", period, "member", member, "status", status.String())
	return nil
}

// find returns the row of the first record for (period, member), or 0. It
// matches records the same way StatusesFor does.
func find(records []models.MembershipStatusRecord, period, member string) int {
	for _, r := range records {
		if r.Period == period && r.Member == member {
			return r.Row
		}
	}
	return 0
}
