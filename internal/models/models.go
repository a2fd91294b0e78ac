// Package models defines the typed records passed between the parsers, the
// reconciliation engine and the report renderer.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NoCase is the case/person reference used when no agency reference is known.
const NoCase = "NO CASE#"

// AttendanceEvent is one day a person was recorded present at the facility.
type AttendanceEvent struct {
	FirstName string
	LastName  string
	// FullName is upper-cased and whitespace-collapsed.
	FullName string
	PersonID string
	Date     time.Time
}

// PaymentEvent is one agency swipe/payment record, or a row synthesized by the
// engine from attendance. An amount is blank when its Valid flag is false.
type PaymentEvent struct {
	FullName    string
	CasePerson  string
	SwipeDate   time.Time
	CopayAP     decimal.NullDecimal
	AmountPaid  decimal.NullDecimal
	Note        Label
	CopayExtra  decimal.NullDecimal
	AmountExtra decimal.NullDecimal
}

// Copay returns the copay amount, treating a blank value as zero.
func (p PaymentEvent) Copay() decimal.Decimal {
	return ValueOrZero(p.CopayAP)
}

// Paid returns the paid amount, treating a blank value as zero.
func (p PaymentEvent) Paid() decimal.Decimal {
	return ValueOrZero(p.AmountPaid)
}

// AuthorizationRecord is one row of the authorization roster.
type AuthorizationRecord struct {
	ChildName    string
	CaseNumber   string
	PersonNumber string
}

// CasePerson renders the roster reference as "<case>/<person>".
func (a AuthorizationRecord) CasePerson() string {
	return a.CaseNumber + "/" + a.PersonNumber
}

// ReconciledTable is the engine output: one labeled row per identity and date,
// sorted by name then date.
type ReconciledTable struct {
	Rows []PaymentEvent
}

// Len returns the number of rows.
func (t ReconciledTable) Len() int {
	return len(t.Rows)
}

// LabelCounts counts the rows carrying each label.
func (t ReconciledTable) LabelCounts() map[Label]int {
	counts := make(map[Label]int)
	for _, row := range t.Rows {
		counts[row.Note]++
	}
	return counts
}
