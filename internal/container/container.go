// Package container wires the application dependencies from a
// *config.Config, so that commands and the public facade share one assembly.
package container

import (
	"fmt"

	"honeybee/attendance-engine/internal/config"
	"honeybee/attendance-engine/internal/facilityparser"
	"honeybee/attendance-engine/internal/identity"
	"honeybee/attendance-engine/internal/logging"
	"honeybee/attendance-engine/internal/parser"
	"honeybee/attendance-engine/internal/paymentparser"
	"honeybee/attendance-engine/internal/pdfparser"
	"honeybee/attendance-engine/internal/pipeline"
	"honeybee/attendance-engine/internal/reconciler"
	"honeybee/attendance-engine/internal/report"
	"honeybee/attendance-engine/internal/rosterparser"
)

// Container holds the wired dependencies. It is immutable after creation.
type Container struct {
	logger  logging.Logger
	config  *config.Config
	matcher *identity.Matcher
	engine  *reconciler.Engine
	report  *report.ReportGenerator

	attendance      parser.AttendanceParser
	dailyPayments   parser.PaymentParser
	monthlyPayments parser.PaymentParser
	roster          parser.RosterParser

	pipeline *pipeline.Pipeline
}

// Option customizes container construction.
type Option func(*options)

type options struct {
	logger    logging.Logger
	extractor pdfparser.PDFExtractor
}

// WithLogger replaces the logger built from the Log section.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithPDFExtractor replaces the pdftotext extractor.
func WithPDFExtractor(extractor pdfparser.PDFExtractor) Option {
	return func(o *options) { o.extractor = extractor }
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
	}

	matcher, err := identity.NewMatcherFor(cfg.Matching.Algorithm, cfg.Matching.Threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity matcher: %w", err)
	}

	extractor := o.extractor
	if extractor == nil {
		extractor = pdfparser.NewRealPDFExtractor(cfg.Parsers.PDF.PdftotextPath, cfg.Parsers.PDF.Layout)
	}

	attendance := facilityparser.NewParser(facilityparser.Options{
		HeaderRow:     cfg.Facility.HeaderRow,
		SkipSubheader: cfg.Facility.SkipSubheader,
	}, logger)
	tabular := paymentparser.NewParser(logger)
	statement := pdfparser.NewParser(extractor, logger)
	monthlyPayments := paymentparser.NewRouter(tabular, statement)
	roster := rosterparser.NewParser(logger)

	engine := reconciler.NewEngine(matcher, logger)
	generator := report.NewReportGenerator(report.Options{
		SheetName:     cfg.Report.SheetName,
		ColumnPadding: cfg.Report.ColumnPadding,
	}, logger)

	p := pipeline.New(pipeline.Deps{
		Attendance:      attendance,
		DailyPayments:   tabular,
		MonthlyPayments: monthlyPayments,
		Roster:          roster,
		Engine:          engine,
		Report:          generator,
		Logger:          logger,
		Format:          cfg.Report.Format,
	})

	logger.Debug("Container initialized",
		logging.Field{Key: "matching_algorithm", Value: cfg.Matching.Algorithm},
		logging.Field{Key: "matching_threshold", Value: matcher.Threshold()},
		logging.Field{Key: "report_format", Value: cfg.Report.Format})

	return &Container{
		logger:          logger,
		config:          cfg,
		matcher:         matcher,
		engine:          engine,
		report:          generator,
		attendance:      attendance,
		dailyPayments:   tabular,
		monthlyPayments: monthlyPayments,
		roster:          roster,
		pipeline:        p,
	}, nil
}

// GetLogger returns the container's logger.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the configuration the container was built from.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetMatcher returns the identity matcher.
func (c *Container) GetMatcher() *identity.Matcher {
	return c.matcher
}

// GetEngine returns the reconciliation engine.
func (c *Container) GetEngine() *reconciler.Engine {
	return c.engine
}

// GetReportGenerator returns the report renderer.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.report
}

// GetAttendanceParser returns the facility export parser.
func (c *Container) GetAttendanceParser() parser.AttendanceParser {
	return c.attendance
}

// GetPaymentParser returns the agency parser for the given mode. Daily runs
// read the tabular export only; monthly runs route on the file extension.
func (c *Container) GetPaymentParser(daily bool) parser.PaymentParser {
	if daily {
		return c.dailyPayments
	}
	return c.monthlyPayments
}

// GetRosterParser returns the authorization roster parser.
func (c *Container) GetRosterParser() parser.RosterParser {
	return c.roster
}

// GetPipeline returns the run orchestrator.
func (c *Container) GetPipeline() *pipeline.Pipeline {
	return c.pipeline
}

// Close releases container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
