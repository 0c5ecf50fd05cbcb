// Package ledger converts raw sheet rows into records and back.
//
// Sheets are read as plain strings. Amounts are stored the way a person
// types them in Indonesia ("Rp 1.250,50"): a currency prefix, dots as
// thousands separators and a decimal comma.
package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyPrefix is stripped on read and prepended on write.
const CurrencyPrefix = "Rp"

var ErrEmptyAmount = errors.New("empty amount")

// ParseAmount parses a localized currency string such as "Rp 1.250,50".
func ParseAmount(s string) (decimal.Decimal, error) {
	v := strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))

	negative := strings.HasPrefix(v, "-")
	if negative {
		v = strings.TrimSpace(v[1:])
	}
	if len(v) >= len(CurrencyPrefix) && strings.EqualFold(v[:len(CurrencyPrefix)], CurrencyPrefix) {
		v = v[len(CurrencyPrefix):]
	}

	v = strings.ReplaceAll(v, ".", "")
	v = strings.Join(strings.Fields(v), "")
	v = strings.Replace(v, ",", ".", 1)
	if v == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// FormatAmount renders d the way ParseAmount reads it back, e.g.
// "Rp 1.250.000" or "Rp 1.250,50". Amounts are rounded to two decimals.
func FormatAmount(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if d.Round(2).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(CurrencyPrefix)
	b.WriteByte(' ')
	b.WriteString(groupThousands(intPart))
	if frac != "00" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return b.String()
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
