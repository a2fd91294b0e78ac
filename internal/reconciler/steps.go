package reconciler

import (
	"strings"

	"github.com/shopspring/decimal"

	"honeybee/attendance-engine/internal/dateutils"
	"honeybee/attendance-engine/internal/models"
)

// Step is one cleanup transform of the merged table. Apply must not modify
// its input slice.
type Step interface {
	Apply(rows []models.PaymentEvent) []models.PaymentEvent
	// Name identifies the step in logs.
	Name() string
}

func clone(rows []models.PaymentEvent) []models.PaymentEvent {
	out := make([]models.PaymentEvent, len(rows))
	copy(out, rows)
	return out
}

// CollapseNames maps near-duplicate spellings onto the first canonical
// spelling seen, then re-collapses whitespace.
type CollapseNames struct {
	Matcher IdentityMatcher
}

func (CollapseNames) Name() string { return "collapse-names" }

func (s CollapseNames) Apply(rows []models.PaymentEvent) []models.PaymentEvent {
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.FullName)
	}
	canonical := s.Matcher.CanonicalMap(names)

	out := clone(rows)
	for i := range out {
		name := out[i].FullName
		if c, ok := canonical[name]; ok {
			name = c
		}
		out[i].FullName = strings.Join(strings.Fields(name), " ")
	}
	return out
}

// SortRows orders rows by name then date, keeping input order for ties.
type SortRows struct{}

func (SortRows) Name() string { return "sort" }

func (SortRows) Apply(rows []models.PaymentEvent) []models.PaymentEvent {
	out := clone(rows)
	sortRows(out)
	return out
}

// ResolveDuplicates drops zero-amount rows from groups sharing a name and
// date, so a group made only of zero-amount rows disappears. Blank amounts are
// not zero. Rows must already be sorted.
type ResolveDuplicates struct{}

func (ResolveDuplicates) Name() string { return "resolve-duplicates" }

func (ResolveDuplicates) Apply(rows []models.PaymentEvent) []models.PaymentEvent {
	out := make([]models.PaymentEvent, 0, len(rows))
	for start := 0; start < len(rows); {
		end := start + 1
		for end < len(rows) && sameSlot(rows[start], rows[end]) {
			end++
		}
		group := rows[start:end]
		if len(group) == 1 {
			out = append(out, group[0])
			start = end
			continue
		}

		for _, r := range group {
			if !isZeroPayment(r) {
				out = append(out, r)
			}
		}
		start = end
	}
	return out
}

func sameSlot(a, b models.PaymentEvent) bool {
	return a.FullName == b.FullName && dateutils.SameDay(a.SwipeDate, b.SwipeDate)
}

func isZeroPayment(r models.PaymentEvent) bool {
	return models.IsExactly(r.CopayAP, decimal.Zero) && models.IsExactly(r.AmountPaid, decimal.Zero)
}

// CorrectUnpaid relabels date-matched payments that carried no money.
type CorrectUnpaid struct{}

func (CorrectUnpaid) Name() string { return "correct-unpaid" }

func (CorrectUnpaid) Apply(rows []models.PaymentEvent) []models.PaymentEvent {
	out := clone(rows)
	for i := range out {
		if out[i].Note == models.LabelDHSPaid && out[i].Copay().IsZero() && out[i].Paid().IsZero() {
			out[i].Note = models.LabelNotPaid
		}
	}
	return out
}

// AuthorizationOverride turns self-paid rows for children on the roster into
// not-paid rows carrying the roster's case reference. No other label changes.
type AuthorizationOverride struct {
	matcher IdentityMatcher
	byKey   map[string]models.AuthorizationRecord
}

// NewAuthorizationOverride indexes the roster; the first record per identity
// wins.
func NewAuthorizationOverride(matcher IdentityMatcher, roster []models.AuthorizationRecord) AuthorizationOverride {
	byKey := make(map[string]models.AuthorizationRecord, len(roster))
	for _, rec := range roster {
		key := matcher.Key(rec.ChildName)
		if _, ok := byKey[key]; !ok {
			byKey[key] = rec
		}
	}
	return AuthorizationOverride{matcher: matcher, byKey: byKey}
}

func (AuthorizationOverride) Name() string { return "authorization-override" }

func (s AuthorizationOverride) Apply(rows []models.PaymentEvent) []models.PaymentEvent {
	out := clone(rows)
	for i := range out {
		if out[i].Note != models.LabelSelfPaid {
			continue
		}
		rec, ok := s.byKey[s.matcher.Key(out[i].FullName)]
		if !ok {
			continue
		}
		out[i].Note = models.LabelNotPaid
		out[i].CopayAP = models.Zero()
		out[i].AmountPaid = models.Zero()
		out[i].CasePerson = rec.CasePerson()
	}
	return out
}

// NonTraditionalOverride relabels every row paid exactly the non-traditional
// rate, whatever its earlier label.
type NonTraditionalOverride struct{}

func (NonTraditionalOverride) Name() string { return "non-traditional-override" }

func (NonTraditionalOverride) Apply(rows []models.PaymentEvent) []models.PaymentEvent {
	out := clone(rows)
	for i := range out {
		if models.IsExactly(out[i].AmountPaid, models.NonTraditionalRate) {
			out[i].Note = models.LabelNonTraditional
			out[i].CopayExtra = models.Zero()
			out[i].AmountExtra = models.Amount(models.NonTraditionalRate)
		}
	}
	return out
}
