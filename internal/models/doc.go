// Package models defines the core domain models for the household fund ledger.
//
// # Records
//
// Two kinds of records live in the tabular store:
//   - ExpenseRecord: one row of a period's expense sheet
//   - MembershipStatusRecord: one row of the yearly contribution status sheet
//
// Both are owned by the store. The reconciliation engine only reads them and
// produces transient PeriodSummary values that are recomputed on every query.
//
// # Row handles
//
// Records carry the 1-based storage row they were read from (the header is
// row 1). Targeted updates such as marking an expense reimbursed address the
// row directly instead of rewriting the sheet.
//
// # Periods
//
// A period is one calendar month inside the configured window. Periods are
// never closed: once a period is in the window it accepts new expenses and
// status toggles indefinitely.
package models
