// Package reconciler joins facility attendance with agency payments and labels
// every surviving row with its reconciliation outcome.
//
// The engine runs three passes. The first labels each payment against the
// attendance it covers, the second synthesizes rows for attendance no payment
// covers, and the third runs an ordered list of cleanup steps over the merged
// table. Every pass returns a new slice; inputs are never modified.
package reconciler

import (
	"sort"
	"time"

	"honeybee/attendance-engine/internal/dateutils"
	"honeybee/attendance-engine/internal/logging"
	"honeybee/attendance-engine/internal/models"
	"honeybee/attendance-engine/internal/parsererror"
)

// IdentityMatcher decides which names denote the same person. Matches(a, b)
// must hold exactly when Key(a) == Key(b).
type IdentityMatcher interface {
	Key(name string) string
	Matches(a, b string) bool
	CanonicalMap(names []string) map[string]string
}

// Input is everything one reconciliation run needs.
type Input struct {
	Attendance []models.AttendanceEvent
	Payments   []models.PaymentEvent
	Roster     []models.AuthorizationRecord
	// UseRoster enables the authorization override.
	UseRoster bool
}

// Result is the engine output.
type Result struct {
	Table models.ReconciledTable
	// AmbiguousMatches counts payment names whose matches span several
	// facility person ids.
	AmbiguousMatches int
}

// Engine runs the reconciliation passes.
type Engine struct {
	matcher IdentityMatcher
	logger  logging.Logger
}

// NewEngine creates an Engine. A nil logger falls back to a default text
// logger.
func NewEngine(matcher IdentityMatcher, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Engine{matcher: matcher, logger: logger}
}

// Reconcile runs all three passes.
func (e *Engine) Reconcile(in Input) Result {
	labeled, ambiguous := e.LabelPayments(in.Attendance, in.Payments)
	synthesized := e.SynthesizeUncovered(in.Attendance, labeled)

	merged := make([]models.PaymentEvent, 0, len(labeled)+len(synthesized))
	merged = append(merged, labeled...)
	merged = append(merged, synthesized...)

	rows := e.Cleanup(merged, e.Steps(in.Roster, in.UseRoster))
	return Result{
		Table:            models.ReconciledTable{Rows: rows},
		AmbiguousMatches: ambiguous,
	}
}

// attendancePool is every attendance event sharing one identity key.
type attendancePool struct {
	dates     map[time.Time]bool
	personIDs []string
	names     []string
}

func (e *Engine) poolAttendance(attendance []models.AttendanceEvent) map[string]*attendancePool {
	pools := make(map[string]*attendancePool)
	for _, a := range attendance {
		key := e.matcher.Key(a.FullName)
		pool, ok := pools[key]
		if !ok {
			pool = &attendancePool{dates: make(map[time.Time]bool)}
			pools[key] = pool
		}
		pool.dates[dateutils.Day(a.Date)] = true
		if !contains(pool.personIDs, a.PersonID) {
			pool.personIDs = append(pool.personIDs, a.PersonID)
			pool.names = append(pool.names, a.FullName)
		}
	}
	return pools
}

// LabelPayments is the first pass. Payments with no date match and no
// amounts are dropped. The second return value counts ambiguous names.
func (e *Engine) LabelPayments(attendance []models.AttendanceEvent, payments []models.PaymentEvent) ([]models.PaymentEvent, int) {
	pools := e.poolAttendance(attendance)
	warned := make(map[string]bool)
	out := make([]models.PaymentEvent, 0, len(payments))
	dropped := 0

	for _, p := range payments {
		key := e.matcher.Key(p.FullName)
		pool := pools[key]

		if pool != nil && len(pool.personIDs) > 1 && !warned[key] {
			warned[key] = true
			e.logger.WithError(&parsererror.AmbiguousMatchError{Name: p.FullName, Candidates: pool.candidates()}).
				Warn("Payment name matches several facility identities; pooling all of them",
					logging.Field{Key: logging.FieldPerson, Value: p.FullName})
		}

		if pool != nil && pool.dates[dateutils.Day(p.SwipeDate)] {
			p.Note = models.LabelDHSPaid
			out = append(out, p)
			continue
		}

		copay, amount := p.Copay(), p.Paid()
		if pool != nil && amount.Equal(models.NonTraditionalRate) {
			p.Note = models.LabelNonTraditional
			p.CopayExtra = models.Amount(copay)
			p.AmountExtra = models.Amount(amount)
			out = append(out, p)
			continue
		}

		if copay.IsZero() && amount.IsZero() {
			dropped++
			continue
		}

		p.Note = extraLabel(copay.IsPositive(), amount.IsPositive())
		p.CopayExtra = models.Amount(copay)
		p.AmountExtra = models.Amount(amount)
		out = append(out, p)
	}

	e.logger.Debug("Labeled payments",
		logging.Field{Key: logging.FieldPass, Value: 1},
		logging.Field{Key: logging.FieldCount, Value: len(out)},
		logging.Field{Key: logging.FieldDropped, Value: dropped})
	return out, len(warned)
}

func (p *attendancePool) candidates() []string {
	out := make([]string, len(p.personIDs))
	for i := range p.personIDs {
		out[i] = p.names[i] + " (" + p.personIDs[i] + ")"
	}
	return out
}

func extraLabel(copayPositive, amountPositive bool) models.Label {
	switch {
	case copayPositive && amountPositive:
		return models.LabelExtraCopayAndDHS
	case amountPositive:
		return models.LabelExtraDHS
	case copayPositive:
		return models.LabelExtraCopay
	default:
		return models.LabelExtra
	}
}

// paymentPool is every labeled payment sharing one identity key.
type paymentPool struct {
	dates     map[time.Time]bool
	firstCase string
}

// SynthesizeUncovered is the second pass. It returns only the new rows: a
// self-paid row per attendance event whose person the agency never reported,
// and a not-paid row per attendance day the agency skipped.
func (e *Engine) SynthesizeUncovered(attendance []models.AttendanceEvent, labeled []models.PaymentEvent) []models.PaymentEvent {
	pools := make(map[string]*paymentPool)
	for _, p := range labeled {
		key := e.matcher.Key(p.FullName)
		pool, ok := pools[key]
		if !ok {
			pool = &paymentPool{dates: make(map[time.Time]bool), firstCase: p.CasePerson}
			pools[key] = pool
		}
		pool.dates[dateutils.Day(p.SwipeDate)] = true
	}

	var out []models.PaymentEvent
	for _, a := range attendance {
		date := dateutils.Day(a.Date)
		pool := pools[e.matcher.Key(a.FullName)]
		switch {
		case pool == nil:
			out = append(out, models.PaymentEvent{
				FullName:   a.FullName,
				CasePerson: models.NoCase,
				SwipeDate:  date,
				Note:       models.LabelSelfPaid,
			})
		case !pool.dates[date]:
			casePerson := pool.firstCase
			if casePerson == "" {
				casePerson = models.NoCase
			}
			out = append(out, models.PaymentEvent{
				FullName:   a.FullName,
				CasePerson: casePerson,
				SwipeDate:  date,
				CopayAP:    models.Zero(),
				AmountPaid: models.Zero(),
				Note:       models.LabelNotPaid,
			})
		}
	}

	e.logger.Debug("Synthesized attendance rows",
		logging.Field{Key: logging.FieldPass, Value: 2},
		logging.Field{Key: logging.FieldCount, Value: len(out)})
	return out
}

// Cleanup is the third pass: each step runs in order on the previous step's
// output.
func (e *Engine) Cleanup(rows []models.PaymentEvent, steps []Step) []models.PaymentEvent {
	current := rows
	for _, step := range steps {
		before := len(current)
		current = step.Apply(current)
		e.logger.Debug("Applied cleanup step",
			logging.Field{Key: logging.FieldPass, Value: 3},
			logging.Field{Key: "step", Value: step.Name()},
			logging.Field{Key: logging.FieldCount, Value: len(current)},
			logging.Field{Key: logging.FieldDropped, Value: before - len(current)})
	}
	return current
}

// Steps returns the cleanup steps in the order they run. The roster step is
// included only when useRoster is set.
func (e *Engine) Steps(roster []models.AuthorizationRecord, useRoster bool) []Step {
	steps := []Step{
		CollapseNames{Matcher: e.matcher},
		SortRows{},
		ResolveDuplicates{},
		CorrectUnpaid{},
	}
	if useRoster {
		steps = append(steps, NewAuthorizationOverride(e.matcher, roster))
	}
	return append(steps, NonTraditionalOverride{})
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func sortRows(rows []models.PaymentEvent) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].FullName != rows[j].FullName {
			return rows[i].FullName < rows[j].FullName
		}
		return dateutils.CompareDates(rows[i].SwipeDate, rows[j].SwipeDate) < 0
	})
}
