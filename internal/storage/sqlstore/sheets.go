package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/kas/internal/storage"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// EnsureSheet creates the sheet with its header row unless it already exists.
func (s *Store) EnsureSheet(ctx context.Context, sheet string, header []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	res, err := tx.ExecContext(ctx,
		s.rebind("INSERT INTO sheets (name, created_at) VALUES (?, ?) ON CONFLICT (name) DO NOTHING"),
		sheet, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}
	created, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check sheet creation: %w", err)
	}

	if created > 0 && len(header) > 0 {
		cells, err := json.Marshal(header)
		if err != nil {
			return fmt.Errorf("failed to encode header: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			s.rebind("INSERT INTO sheet_rows (sheet, row_index, cells, updated_at) VALUES (?, 1, ?, ?)"),
			sheet, string(cells), now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert header: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ReadAllRows returns every row of the sheet, header included.
func (s *Store) ReadAllRows(ctx context.Context, sheet string) ([][]string, error) {
	if err := s.checkSheet(ctx, s.db, sheet); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		s.rebind("SELECT row_index, cells FROM sheet_rows WHERE sheet = ? ORDER BY row_index"),
		sheet,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	var result [][]string
	for rows.Next() {
		var idx int
		var raw string
		if err := rows.Scan(&idx, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		cells, err := decodeCells(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode row %d of %q: %w", idx, sheet, err)
		}
		// Keep positions aligned with row numbers even if rows were removed by hand.
		for len(result) < idx-1 {
			result = append(result, []string{})
		}
		result = append(result, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return result, nil
}

// AppendRow adds a row after the last row of the sheet.
func (s *Store) AppendRow(ctx context.Context, sheet string, values []string) error {
	cells, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode row: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.checkSheet(ctx, tx, sheet); err != nil {
		return err
	}

	var last int
	err = tx.QueryRowContext(ctx,
		s.rebind("SELECT COALESCE(MAX(row_index), 0) FROM sheet_rows WHERE sheet = ?"),
		sheet,
	).Scan(&last)
	if err != nil {
		return fmt.Errorf("failed to find last row: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		s.rebind("INSERT INTO sheet_rows (sheet, row_index, cells, updated_at) VALUES (?, ?, ?, ?)"),
		sheet, last+1, string(cells), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateCell overwrites one cell, padding the row with empty cells if needed.
func (s *Store) UpdateCell(ctx context.Context, sheet string, row, col int, value string) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("invalid cell address R%dC%d", row, col)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.checkSheet(ctx, tx, sheet); err != nil {
		return err
	}

	var raw string
	err = tx.QueryRowContext(ctx,
		s.rebind("SELECT cells FROM sheet_rows WHERE sheet = ? AND row_index = ?"),
		sheet, row,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: row %d of sheet %q", storage.ErrRowNotFound, row, sheet)
	}
	if err != nil {
		return fmt.Errorf("failed to get row: %w", err)
	}

	cells, err := decodeCells(raw)
	if err != nil {
		return fmt.Errorf("failed to decode row %d of %q: %w", row, sheet, err)
	}
	for len(cells) < col {
		cells = append(cells, "")
	}
	cells[col-1] = value

	encoded, err := json.Marshal(cells)
	if err != nil {
		return fmt.Errorf("failed to encode row: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		s.rebind("UPDATE sheet_rows SET cells = ?, updated_at = ? WHERE sheet = ? AND row_index = ?"),
		string(encoded), time.Now().Unix(), sheet, row,
	)
	if err != nil {
		return fmt.Errorf("failed to update row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// FindCells returns the rows whose cell in col equals value.
func (s *Store) FindCells(ctx context.Context, sheet, value string, col int) ([]int, error) {
	if col < 1 {
		return nil, fmt.Errorf("invalid column %d", col)
	}

	rows, err := s.ReadAllRows(ctx, sheet)
	if err != nil {
		return nil, err
	}

	var found []int
	for i, row := range rows {
		if col <= len(row) && row[col-1] == value {
			found = append(found, i+1)
		}
	}
	return found, nil
}

func (s *Store) checkSheet(ctx context.Context, q queryer, sheet string) error {
	var exists int
	err := q.QueryRowContext(ctx, s.rebind("SELECT 1 FROM sheets WHERE name = ?"), sheet).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %q", storage.ErrSheetNotFound, sheet)
	}
	if err != nil {
		return fmt.Errorf("failed to check sheet existence: %w", err)
	}
	return nil
}

func decodeCells(raw string) ([]string, error) {
	var cells []string
	if err := json.Unmarshal([]byte(raw), &cells); err != nil {
		return nil, err
	}
	return cells, nil
}
