package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/kas/internal/models"
	"github.com/shopspring/decimal"
)

// DateLayout is how expense dates are stored.
const DateLayout = "2006-01-02"

var dateLayouts = []string{DateLayout, "02/01/2006", "2/1/2006", "02-01-2006"}

var ErrNegativeAmount = errors.New("negative amount")

// Warning describes a cell that could not be parsed. The affected field
// falls back to its default; warnings never abort a read.
type Warning struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (w Warning) Error() string {
	return fmt.Sprintf("row %d column %q value %q: %v", w.Row, w.Column, w.Value, w.Err)
}

func (w Warning) Unwrap() error {
	return w.Err
}

// AmountOrZero parses an amount, substituting zero on failure.
func AmountOrZero(s string) (decimal.Decimal, error) {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	return d, nil
}

// ParseExpenseSheet converts all rows of an expense sheet (header first)
// into records tagged with their storage row. A missing or header-only
// sheet yields an empty, non-nil slice.
func ParseExpenseSheet(rows [][]string) ([]models.ExpenseRecord, []Warning) {
	records := []models.ExpenseRecord{}
	if len(rows) < 2 {
		return records, nil
	}

	cols := ColumnsOf(rows[0], ExpenseHeader)
	var warnings []Warning
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rec, ws := parseExpense(cols, row, i+2)
		records = append(records, rec)
		warnings = append(warnings, ws...)
	}
	return records, warnings
}

func parseExpense(cols Columns, row []string, rowNum int) (models.ExpenseRecord, []Warning) {
	var warnings []Warning

	rec := models.ExpenseRecord{
		RawDate:    cols.cell(row, ColumnDate),
		Category:   cols.cell(row, ColumnCategory),
		Payer:      cols.cell(row, ColumnPayer),
		Reimbursed: ParseReimbursed(cols.cell(row, ColumnReimbursed)),
		Row:        rowNum,
	}

	if rec.RawDate != "" {
		date, err := ParseDate(rec.RawDate)
		if err != nil {
			warnings = append(warnings, Warning{Row: rowNum, Column: ColumnDate, Value: rec.RawDate, Err: err})
		}
		rec.Date = date
	}

	raw := cols.cell(row, ColumnAmount)
	amount, err := AmountOrZero(raw)
	if err != nil {
		warnings = append(warnings, Warning{Row: rowNum, Column: ColumnAmount, Value: raw, Err: err})
	}
	rec.Amount = amount

	return rec, warnings
}

// ParseDate accepts the stored layout plus common day-first layouts.
func ParseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, strings.TrimSpace(s))
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ParseReimbursed decodes the reimbursed flag. Only explicit yes values
// count as reimbursed.
func ParseReimbursed(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case ReimbursedYes, "YA", "YES", "Y", "TRUE":
		return true
	default:
		return false
	}
}

// EncodeReimbursed is the inverse of ParseReimbursed.
func EncodeReimbursed(b bool) string {
	if b {
		return ReimbursedYes
	}
	return ReimbursedNo
}

// EncodeExpense renders a record as a row in ExpenseHeader order.
func EncodeExpense(rec models.ExpenseRecord) []string {
	date := rec.RawDate
	if !rec.Date.IsZero() {
		date = rec.Date.Format(DateLayout)
	}
	return []string{
		date,
		rec.Category,
		FormatAmount(rec.Amount),
		rec.Payer,
		EncodeReimbursed(rec.Reimbursed),
	}
}

// ParseStatusSheet converts all rows of the status sheet (header first)
// into records in storage order.
func ParseStatusSheet(rows [][]string) []models.MembershipStatusRecord {
	records := []models.MembershipStatusRecord{}
	if len(rows) < 2 {
		return records
	}

	cols := ColumnsOf(rows[0], StatusHeader)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		records = append(records, models.MembershipStatusRecord{
			Period: cols.cell(row, ColumnPeriod),
			Member: cols.cell(row, ColumnMember),
			Status: models.ParseStatus(cols.cell(row, ColumnStatus)),
			Row:    i + 2,
		})
	}
	return records
}

// EncodeStatus renders a status row in the column order of header. Columns
// missing from header take their StatusHeader position; a nil header means
// StatusHeader order.
func EncodeStatus(header []string, period, member string, status models.Status) []string {
	cols := ColumnsOf(header, StatusHeader)
	values := map[string]string{
		ColumnPeriod: period,
		ColumnMember: member,
		ColumnStatus: status.String(),
	}

	width := len(StatusHeader)
	for name := range values {
		width = max(width, cols.Position(name, StatusHeader))
	}
	row := make([]string, width)
	for name, v := range values {
		row[cols.Position(name, StatusHeader)-1] = v
	}
	return row
}
