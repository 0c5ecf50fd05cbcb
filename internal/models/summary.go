package models

import "github.com/shopspring/decimal"

// PeriodSummary is the financial summary of one period.
// It is derived data and never stored.
type PeriodSummary struct {
	Period string

	// PaidCount is how many configured members have paid this period.
	PaidCount int

	// MemberCount is the number of configured members.
	MemberCount int

	// Collected is PaidCount × the fixed contribution.
	Collected decimal.Decimal

	// Spent is the sum of all expense amounts in the period.
	Spent decimal.Decimal

	// Balance is Collected − Spent. Negative means the fund is in deficit.
	Balance decimal.Decimal

	// Unreimbursed lists expenses not yet repaid, in storage order.
	Unreimbursed []ExpenseRecord

	// Distribution is spend per category, in first-appearance order.
	Distribution []CategoryAmount

	// Outstanding is the unreimbursed total per payer, excluding the
	// shared-fund accounts.
	Outstanding []PayerAmount

	// Empty is true when the period has no expense rows at all.
	Empty bool
}

// Deficit reports whether the fund spent more than it collected.
func (s *PeriodSummary) Deficit() bool {
	return s.Balance.IsNegative()
}

// DistributionMap returns the distribution keyed by category.
func (s *PeriodSummary) DistributionMap() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(s.Distribution))
	for _, c := range s.Distribution {
		m[c.Category] = c.Amount
	}
	return m
}
