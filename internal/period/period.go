// Package period names accounting periods and picks the default one.
package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthNames are the Indonesian month names used in period identifiers.
var MonthNames = [12]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// dayNames is indexed by time.Weekday (Sunday first).
var dayNames = [7]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

// Period is one calendar month.
type Period struct {
	Year  int
	Month time.Month
}

// Of returns the period containing t.
func Of(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ID is the period identifier, e.g. "Juni2025". It doubles as the name of
// the period's expense sheet.
func (p Period) ID() string {
	return p.Label() + strconv.Itoa(p.Year)
}

// Label is the month name without the year.
func (p Period) Label() string {
	if p.Month < time.January || p.Month > time.December {
		return fmt.Sprintf("Month(%d)", int(p.Month))
	}
	return MonthNames[p.Month-1]
}

func (p Period) String() string {
	return p.ID()
}

// index is the absolute month position used for window arithmetic.
func (p Period) index() int {
	return p.Year*12 + int(p.Month) - 1
}

// Add returns the period n months later.
func (p Period) Add(n int) Period {
	i := p.index() + n
	return Period{Year: i / 12, Month: time.Month(i%12 + 1)}
}

// Before reports whether p is earlier than q.
func (p Period) Before(q Period) bool {
	return p.index() < q.index()
}

// Parse reads a period identifier such as "Juni2025". Month names are
// matched case-insensitively.
func Parse(id string) (Period, error) {
	s := strings.TrimSpace(id)
	for i, name := range MonthNames {
		if len(s) <= len(name) || !strings.EqualFold(s[:len(name)], name) {
			continue
		}
		year, err := strconv.Atoi(s[len(name):])
		if err != nil {
			return Period{}, fmt.Errorf("invalid period %q: bad year: %w", id, err)
		}
		return Period{Year: year, Month: time.Month(i + 1)}, nil
	}
	return Period{}, fmt.Errorf("invalid period %q", id)
}

// FormatDate renders t as an Indonesian long date, e.g. "Senin, 02 Juni 2025".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%s, %02d %s %d", dayNames[t.Weekday()], t.Day(), MonthNames[t.Month()-1], t.Year())
}
