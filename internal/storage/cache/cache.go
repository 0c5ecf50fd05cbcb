// Package cache memoizes whole-sheet reads for a bounded time.
//
// Any write flushes the entire memo before returning, so a write is always
// followed by fresh reads, including reads that were already in flight when
// the write landed. FindCells is never cached: it backs the
// scan-then-update-or-append write path, which must see current data.
package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mmynk/kas/internal/metrics"
	"github.com/mmynk/kas/internal/storage"
)

// DefaultTTL matches how long a dashboard read stays fresh.
const DefaultTTL = time.Hour

var _ storage.Sheets = (*Store)(nil)

// Store wraps a storage.Sheets with a read-through cache.
type Store struct {
	next    storage.Sheets
	memo    *gocache.Cache
	metrics *metrics.Metrics

	// gen counts invalidations. A miss only memoizes its result when no
	// invalidation happened while it was reading.
	mu  sync.Mutex
	gen uint64
}

// New wraps next. A non-positive ttl uses DefaultTTL. m may be nil.
func New(next storage.Sheets, ttl time.Duration, m *metrics.Metrics) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		next:    next,
		memo:    gocache.New(ttl, 2*ttl),
		metrics: m,
	}
}

// ReadAllRows serves the sheet from the memo when fresh.
func (s *Store) ReadAllRows(ctx context.Context, sheet string) ([][]string, error) {
	if v, found := s.memo.Get(sheet); found {
		s.count("hit")
		return cloneRows(v.([][]string)), nil
	}
	s.count("miss")

	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	rows, err := s.next.ReadAllRows(ctx, sheet)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gen {
		s.memo.SetDefault(sheet, cloneRows(rows))
	}
	return rows, nil
}

// AppendRow writes through and invalidates the memo.
func (s *Store) AppendRow(ctx context.Context, sheet string, values []string) error {
	defer s.Invalidate()
	return s.next.AppendRow(ctx, sheet, values)
}

// UpdateCell writes through and invalidates the memo.
func (s *Store) UpdateCell(ctx context.Context, sheet string, row, col int, value string) error {
	defer s.Invalidate()
	return s.next.UpdateCell(ctx, sheet, row, col, value)
}

// FindCells always queries the backend.
func (s *Store) FindCells(ctx context.Context, sheet, value string, col int) ([]int, error) {
	return s.next.FindCells(ctx, sheet, value, col)
}

// Unwrap returns the backend behind the cache.
func (s *Store) Unwrap() storage.Sheets {
	return s.next
}

// Invalidate drops every memoized sheet.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.gen++
	s.memo.Flush()
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.CacheFlushes.Inc()
	}
	slog.Debug("Sheet cache flushed")
}

func (s *Store) count(result string) {
	if s.metrics != nil {
		s.metrics.CacheLookups.WithLabelValues(result).Inc()
	}
}

func cloneRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
