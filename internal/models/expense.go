package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseRecord represents one expense row of a period sheet.
// Members front cash for shared expenses and get reimbursed from the fund later.
type ExpenseRecord struct {
	// Date is the parsed expense date. Zero when RawDate could not be parsed.
	Date time.Time

	// RawDate is the date cell exactly as stored.
	RawDate string

	// Category is what the money was spent on (e.g., "Listrik", "Wifi").
	// Unknown categories are preserved here and only folded into the
	// other bucket by distribution views.
	Category string

	// Amount is the non-negative amount in the fund currency.
	Amount decimal.Decimal

	// Payer is the member (or shared-fund account) that paid.
	Payer string

	// Reimbursed reports whether the payer has been repaid from the fund.
	Reimbursed bool

	// Row is the 1-based storage row of this record. Zero for records
	// that have not been persisted yet.
	Row int
}

// CategoryAmount is the total spent on one category.
type CategoryAmount struct {
	Category string
	Amount   decimal.Decimal
}

// PayerAmount is the unreimbursed total fronted by one payer.
type PayerAmount struct {
	Payer  string
	Amount decimal.Decimal
}
