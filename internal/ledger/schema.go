package ledger

import (
	"strings"
)

// Expense sheet column names.
const (
	ColumnDate       = "Tanggal"
	ColumnCategory   = "Keperluan"
	ColumnAmount     = "Jumlah"
	ColumnPayer      = "Yang Bayar"
	ColumnReimbursed = "Sudah Diganti?"
)

// Status sheet column names.
const (
	ColumnPeriod = "Bulan"
	ColumnMember = "Nama"
	ColumnStatus = "Status"
)

// ExpenseHeader is the canonical header row of an expense sheet.
// New rows are always appended in this order.
var ExpenseHeader = []string{ColumnDate, ColumnCategory, ColumnAmount, ColumnPayer, ColumnReimbursed}

// StatusHeader is the canonical header row of the status sheet.
var StatusHeader = []string{ColumnPeriod, ColumnMember, ColumnStatus}

// Reimbursed flag encodings.
const (
	ReimbursedYes = "SUDAH"
	ReimbursedNo  = "BELUM"
)

// Columns maps header names to 0-based positions. Missing columns are -1.
type Columns map[string]int

// ColumnsOf locates the wanted columns in a header row. Names are matched
// ignoring case, surrounding spaces, repeated spaces and a trailing '?'.
func ColumnsOf(header []string, wanted []string) Columns {
	cols := make(Columns, len(wanted))
	for _, w := range wanted {
		cols[w] = -1
		for i, h := range header {
			if normalizeHeader(h) == normalizeHeader(w) {
				cols[w] = i
				break
			}
		}
	}
	return cols
}

// Position returns the 1-based position of name, falling back to its
// canonical position in layout when the header did not contain it.
func (c Columns) Position(name string, layout []string) int {
	if i, ok := c[name]; ok && i >= 0 {
		return i + 1
	}
	for i, n := range layout {
		if n == name {
			return i + 1
		}
	}
	return 0
}

// cell returns the value of column name in row, or "" when absent.
func (c Columns) cell(row []string, name string) string {
	i, ok := c[name]
	if !ok || i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func normalizeHeader(s string) string {
	s = strings.TrimSuffix(strings.TrimSpace(s), "?")
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
