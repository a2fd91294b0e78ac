// Package pipeline wires parsing, reconciliation and rendering into the daily
// and monthly runs.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"honeybee/attendance-engine/internal/logging"
	"honeybee/attendance-engine/internal/models"
	"honeybee/attendance-engine/internal/parser"
	"honeybee/attendance-engine/internal/reconciler"
	"honeybee/attendance-engine/internal/report"
)

// Source is one named input stream. Name selects the file format and is
// quoted in errors.
type Source struct {
	Name   string
	Reader io.Reader
}

// Deps are the collaborators of a Pipeline.
type Deps struct {
	Attendance parser.AttendanceParser
	// DailyPayments reads the tabular agency export.
	DailyPayments parser.PaymentParser
	// MonthlyPayments reads the agency statement.
	MonthlyPayments parser.PaymentParser
	Roster          parser.RosterParser
	Engine          *reconciler.Engine
	Report          *report.ReportGenerator
	Logger          logging.Logger
	// Format is the report format, xlsx or csv.
	Format string
	// Now stamps summaries; defaults to time.Now.
	Now func() time.Time
}

// Pipeline runs reconciliations. It holds no per-run state.
type Pipeline struct {
	deps Deps
}

// Result is what a run produced besides the rendered report.
type Result struct {
	Table   models.ReconciledTable
	Summary models.Summary
}

// New creates a Pipeline.
func New(deps Deps) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = logging.NewLogrusAdapter("info", "text")
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Format == "" {
		deps.Format = report.FormatXLSX
	}
	return &Pipeline{deps: deps}
}

// Daily reconciles the facility export with the tabular agency export and
// writes the report to dest. The roster override is not applied. dest is only
// written when the whole run succeeds.
func (p *Pipeline) Daily(ctx context.Context, facility, agency Source, dest string) (Result, error) {
	summary := models.NewSummary(models.ModeDaily, p.deps.Now())
	logger := p.runLogger(summary)

	attendance, payments, err := p.parseBoth(ctx, logger, facility, agency, p.deps.DailyPayments)
	if err != nil {
		return Result{}, err
	}

	result := p.reconcile(logger, &summary, reconciler.Input{Attendance: attendance, Payments: payments})
	if err := p.deps.Report.WriteReport(result.Table, p.deps.Format, dest); err != nil {
		return Result{}, err
	}
	return result, nil
}

// Monthly reconciles the facility export with the agency statement and the
// authorization roster, and returns the rendered report.
func (p *Pipeline) Monthly(ctx context.Context, facility, agency, roster Source) (*bytes.Buffer, Result, error) {
	summary := models.NewSummary(models.ModeMonthly, p.deps.Now())
	logger := p.runLogger(summary)

	attendance, payments, err := p.parseBoth(ctx, logger, facility, agency, p.deps.MonthlyPayments)
	if err != nil {
		return nil, Result{}, err
	}

	records, err := p.deps.Roster.ParseRoster(roster.Reader, roster.Name)
	if err != nil {
		logger.WithError(err).Error("Failed to parse roster",
			logging.Field{Key: logging.FieldFile, Value: roster.Name})
		return nil, Result{}, fmt.Errorf("roster: %w", err)
	}
	summary.AuthorizationRows = len(records)

	result := p.reconcile(logger, &summary, reconciler.Input{
		Attendance: attendance,
		Payments:   payments,
		Roster:     records,
		UseRoster:  true,
	})

	buf, err := p.deps.Report.GenerateReport(result.Table, p.deps.Format)
	if err != nil {
		return nil, Result{}, err
	}
	return buf, result, nil
}

func (p *Pipeline) runLogger(summary models.Summary) logging.Logger {
	return p.deps.Logger.WithFields(
		logging.Field{Key: logging.FieldRunID, Value: summary.RunID},
		logging.Field{Key: logging.FieldMode, Value: string(summary.Mode)})
}

// parseBoth reads attendance and payments concurrently and waits for both.
// Each task owns its reader and its result slot.
func (p *Pipeline) parseBoth(ctx context.Context, logger logging.Logger, facility, agency Source, payments parser.PaymentParser) ([]models.AttendanceEvent, []models.PaymentEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var (
		attendanceEvents []models.AttendanceEvent
		paymentEvents    []models.PaymentEvent
		g                errgroup.Group
	)
	start := time.Now()

	g.Go(func() error {
		events, err := p.deps.Attendance.ParseAttendance(facility.Reader, facility.Name)
		if err != nil {
			logger.WithError(err).Error("Failed to parse facility export",
				logging.Field{Key: logging.FieldFile, Value: facility.Name})
			return fmt.Errorf("facility: %w", err)
		}
		attendanceEvents = events
		return nil
	})
	g.Go(func() error {
		events, err := payments.ParsePayments(ctx, agency.Reader, agency.Name)
		if err != nil {
			logger.WithError(err).Error("Failed to parse agency export",
				logging.Field{Key: logging.FieldFile, Value: agency.Name})
			return fmt.Errorf("agency: %w", err)
		}
		paymentEvents = events
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	logger.Info("Parsed sources",
		logging.Field{Key: "attendance_events", Value: len(attendanceEvents)},
		logging.Field{Key: "payment_events", Value: len(paymentEvents)},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	return attendanceEvents, paymentEvents, nil
}

func (p *Pipeline) reconcile(logger logging.Logger, summary *models.Summary, in reconciler.Input) Result {
	out := p.deps.Engine.Reconcile(in)

	summary.AttendanceEvents = len(in.Attendance)
	summary.PaymentEvents = len(in.Payments)
	summary.AmbiguousMatches = out.AmbiguousMatches
	summary.Record(out.Table)

	fields := []logging.Field{{Key: logging.FieldCount, Value: out.Table.Len()}}
	for _, label := range models.Labels {
		if n := summary.Labels[label.String()]; n > 0 {
			fields = append(fields, logging.Field{Key: label.String(), Value: n})
		}
	}
	logger.Info("Reconciled", fields...)

	return Result{Table: out.Table, Summary: *summary}
}
