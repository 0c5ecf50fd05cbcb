// Package calculator reconciles a period's expenses against the
// contributions collected for it.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/kas/internal/models"
)

// CurrencyPlaces is the precision sums are compared at when deciding
// whether a distribution slice is empty.
const CurrencyPlaces = 2

// DefaultOtherCategory collects categories outside the configured set.
const DefaultOtherCategory = "Lainnya"

type options struct {
	categories       map[string]bool
	other            string
	internalTransfer string
	sharedPayers     map[string]bool
}

// Option configures Summarize.
type Option func(*options)

// WithCategories restricts the distribution to the given categories.
// Anything else is reported under other.
func WithCategories(categories []string, other string) Option {
	return func(o *options) {
		o.categories = make(map[string]bool, len(categories))
		for _, c := range categories {
			o.categories[c] = true
		}
		if other != "" {
			o.other = other
		}
	}
}

// WithInternalTransfer names the category used to log contributions
// themselves as expense rows. It is left out of the distribution.
func WithInternalTransfer(category string) Option {
	return func(o *options) {
		o.internalTransfer = category
	}
}

// WithSharedPayers names the fund's own accounts. Expenses they paid are
// never owed back to anyone, so they are left out of Outstanding.
func WithSharedPayers(payers ...string) Option {
	return func(o *options) {
		if o.sharedPayers == nil {
			o.sharedPayers = make(map[string]bool, len(payers))
		}
		for _, p := range payers {
			o.sharedPayers[p] = true
		}
	}
}

// Summarize computes the financial summary of one period.
//
// Algorithm:
//   - collected = (members marked paid) × contribution
//   - spent = sum of every expense amount
//   - balance = collected - spent, negative meaning a deficit
//   - unreimbursed keeps storage order
//   - distribution sums amounts per category in first-appearance order,
//     skipping the internal transfer category and sums that round to zero
func Summarize(
	period string,
	expenses []models.ExpenseRecord,
	statuses map[string]models.Status,
	members []string,
	contribution decimal.Decimal,
	opts ...Option,
) *models.PeriodSummary {
	o := options{other: DefaultOtherCategory}
	for _, opt := range opts {
		opt(&o)
	}

	paid := 0
	for _, m := range members {
		if statuses[m] == models.StatusPaid {
			paid++
		}
	}
	collected := contribution.Mul(decimal.NewFromInt(int64(paid)))

	spent := decimal.Zero
	unreimbursed := []models.ExpenseRecord{}
	for _, e := range expenses {
		spent = spent.Add(e.Amount)
		if !e.Reimbursed {
			unreimbursed = append(unreimbursed, e)
		}
	}

	return &models.PeriodSummary{
		Period:       period,
		PaidCount:    paid,
		MemberCount:  len(members),
		Collected:    collected,
		Spent:        spent,
		Balance:      collected.Sub(spent),
		Unreimbursed: unreimbursed,
		Distribution: distribution(expenses, &o),
		Outstanding:  outstanding(unreimbursed, &o),
		Empty:        len(expenses) == 0,
	}
}

func distribution(expenses []models.ExpenseRecord, o *options) []models.CategoryAmount {
	var order []string
	sums := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		category := e.Category
		if o.internalTransfer != "" && category == o.internalTransfer {
			continue
		}
		if o.categories != nil && !o.categories[category] {
			category = o.other
		}
		if _, ok := sums[category]; !ok {
			order = append(order, category)
		}
		sums[category] = sums[category].Add(e.Amount)
	}

	dist := []models.CategoryAmount{}
	for _, c := range order {
		if sums[c].Round(CurrencyPlaces).IsZero() {
			continue
		}
		dist = append(dist, models.CategoryAmount{Category: c, Amount: sums[c]})
	}
	return dist
}

func outstanding(unreimbursed []models.ExpenseRecord, o *options) []models.PayerAmount {
	var order []string
	sums := make(map[string]decimal.Decimal)
	for _, e := range unreimbursed {
		if o.sharedPayers[e.Payer] || e.Payer == "" {
			continue
		}
		if _, ok := sums[e.Payer]; !ok {
			order = append(order, e.Payer)
		}
		sums[e.Payer] = sums[e.Payer].Add(e.Amount)
	}

	owed := []models.PayerAmount{}
	for _, p := range order {
		if sums[p].Round(CurrencyPlaces).IsZero() {
			continue
		}
		owed = append(owed, models.PayerAmount{Payer: p, Amount: sums[p]})
	}
	return owed
}
