package models

import "strings"

// Status is a member's contribution status for one period.
type Status int

const (
	// StatusUnpaid is the zero value: members without a record have not paid.
	StatusUnpaid Status = iota
	StatusPaid
)

// Sheet encodings of Status.
const (
	StatusPaidLabel   = "LUNAS"
	StatusUnpaidLabel = "BELUM LUNAS"
)

// String returns the label stored in the status sheet.
func (s Status) String() string {
	if s == StatusPaid {
		return StatusPaidLabel
	}
	return StatusUnpaidLabel
}

// ParseStatus decodes a status cell. Anything that is not recognizably
// paid is treated as unpaid.
func ParseStatus(s string) Status {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case StatusPaidLabel, "PAID":
		return StatusPaid
	default:
		return StatusUnpaid
	}
}

// MembershipStatusRecord is one row of the status sheet.
// At most one record per (Period, Member) is authoritative: the first one
// in storage order.
type MembershipStatusRecord struct {
	Period string
	Member string
	Status Status

	// Row is the 1-based storage row.
	Row int
}
