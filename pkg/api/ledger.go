// Package api defines the messages of the kas.v1.LedgerService RPCs.
//
// Amounts travel as decimal strings ("1250.5") so no precision is lost.
// Requests also accept the localized form ("Rp 1.250,50").
package api

// Expense is one row of a period's expense sheet.
type Expense struct {
	// Row is the 1-based storage row, used to address MarkReimbursed.
	Row        int32  `json:"row,omitempty"`
	Date       string `json:"date"`
	DateLabel  string `json:"date_label,omitempty"`
	Category   string `json:"category"`
	Amount     string `json:"amount"`
	Payer      string `json:"payer"`
	Reimbursed bool   `json:"reimbursed"`
}

type CategoryAmount struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

type PayerAmount struct {
	Payer  string `json:"payer"`
	Amount string `json:"amount"`
}

type MemberStatus struct {
	Member string `json:"member"`
	Paid   bool   `json:"paid"`
}

// Summary is the reconciliation of one period.
type Summary struct {
	Period       string            `json:"period"`
	PeriodLabel  string            `json:"period_label"`
	PaidCount    int32             `json:"paid_count"`
	MemberCount  int32             `json:"member_count"`
	Collected    string            `json:"collected"`
	Spent        string            `json:"spent"`
	Balance      string            `json:"balance"`
	Deficit      bool              `json:"deficit"`
	Empty        bool              `json:"empty"`
	Unreimbursed []*Expense        `json:"unreimbursed"`
	Distribution []*CategoryAmount `json:"distribution"`
	Outstanding  []*PayerAmount    `json:"outstanding"`
	Statuses     []*MemberStatus   `json:"statuses"`
	// Warnings describes cells that could not be parsed and were defaulted.
	Warnings []string `json:"warnings,omitempty"`
}

type Period struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type GetSummaryRequest struct {
	// Period defaults to the current period of the window when empty.
	Period string `json:"period,omitempty"`
}

type GetSummaryResponse struct {
	Summary *Summary `json:"summary"`
}

type SetMembershipStatusRequest struct {
	Period string `json:"period"`
	Member string `json:"member"`
	Paid   bool   `json:"paid"`
}

type SetMembershipStatusResponse struct {
	Period   string          `json:"period"`
	Statuses []*MemberStatus `json:"statuses"`
}

type GetMembershipStatusRequest struct {
	Period string `json:"period,omitempty"`
}

type GetMembershipStatusResponse struct {
	Period   string          `json:"period"`
	Statuses []*MemberStatus `json:"statuses"`
}

type AddExpenseRequest struct {
	Period string `json:"period"`
	// Date is YYYY-MM-DD. Empty means today.
	Date       string `json:"date,omitempty"`
	Category   string `json:"category"`
	Amount     string `json:"amount"`
	Payer      string `json:"payer"`
	Reimbursed bool   `json:"reimbursed"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type MarkReimbursedRequest struct {
	Period string `json:"period"`
	Row    int32  `json:"row"`
}

type MarkReimbursedResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	Period string `json:"period,omitempty"`
}

type ListExpensesResponse struct {
	Period   string     `json:"period"`
	Expenses []*Expense `json:"expenses"`
	Warnings []string   `json:"warnings,omitempty"`
}

type ListPeriodsRequest struct{}

// ListPeriodsResponse carries the static configuration the entry forms need.
type ListPeriodsResponse struct {
	Periods       []*Period `json:"periods"`
	DefaultPeriod string    `json:"default_period"`
	Members       []string  `json:"members"`
	Categories    []string  `json:"categories"`
	Payers        []string  `json:"payers"`
	Contribution  string    `json:"contribution"`
}
