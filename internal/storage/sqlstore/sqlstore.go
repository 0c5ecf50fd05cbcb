// Package sqlstore provides a SQL-backed implementation of the storage.Sheets
// interface. Each sheet is a set of JSON-encoded rows keyed by row index, so
// the ledger keeps the exact spreadsheet semantics (header row, 1-based
// addressing, append-only row numbering) on top of SQLite or PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/kas/internal/storage"
)

// Ensure Store implements the storage interfaces
var (
	_ storage.Sheets      = (*Store)(nil)
	_ storage.Provisioner = (*Store)(nil)
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// Store implements storage.Sheets on a SQL database.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// New creates a SQLite-backed Store with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*Store, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", storage.ErrBackendUnavailable, err)
	}
	// SQLite allows a single writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return open(db, dialectSQLite)
}

// NewPostgres creates a PostgreSQL-backed Store from a connection string.
func NewPostgres(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", storage.ErrBackendUnavailable, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %v", storage.ErrBackendUnavailable, err)
	}

	return open(db, dialectPostgres)
}

func open(db *sql.DB, d dialect) (*Store, error) {
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &Store{db: db, dialect: d}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// rebind rewrites '?' placeholders into the dialect's syntax.
func (s *Store) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
