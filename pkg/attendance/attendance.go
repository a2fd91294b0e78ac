// Package attendance is the public entry point for running reconciliations
// from another program, such as an upload front-end. It accepts named
// streams instead of file paths.
package attendance

import (
	"bytes"
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"honeybee/attendance-engine/internal/config"
	"honeybee/attendance-engine/internal/container"
	"honeybee/attendance-engine/internal/logging"
	"honeybee/attendance-engine/internal/pipeline"
)

// File is one uploaded input. Name carries the original file name; its
// extension selects the reader (.xlsx, .xls or .pdf).
type File struct {
	Name   string
	Reader io.Reader
}

// DailyInput holds the sources of a daily run.
type DailyInput struct {
	Facility File
	Agency   File
}

// MonthlyInput holds the sources of a monthly run.
type MonthlyInput struct {
	Facility File
	Agency   File
	Roster   File
}

// Option adjusts a run.
type Option func(*settings)

type settings struct {
	logger    *logrus.Logger
	threshold float64
	algorithm string
	pdftotext string
	format    string
}

// WithLogger routes run logs to logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithMatchThreshold sets the name-similarity threshold in (0, 1].
func WithMatchThreshold(threshold float64) Option {
	return func(s *settings) { s.threshold = threshold }
}

// WithMatchAlgorithm selects "levenshtein" or "sequence" similarity.
func WithMatchAlgorithm(algorithm string) Option {
	return func(s *settings) { s.algorithm = algorithm }
}

// WithPdftotext sets the pdftotext binary used for agency statements.
func WithPdftotext(path string) Option {
	return func(s *settings) { s.pdftotext = path }
}

// WithCSV renders the report as CSV instead of a workbook.
func WithCSV() Option {
	return func(s *settings) { s.format = "csv" }
}

// Daily reconciles attendance with the agency's daily export and writes the
// report to dest. Nothing is written when the run fails.
func Daily(ctx context.Context, in DailyInput, dest string, opts ...Option) error {
	c, err := build(opts)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	_, err = c.GetPipeline().Daily(ctx, source(in.Facility), source(in.Agency), dest)
	return err
}

// Monthly reconciles a month of attendance with the agency statement and the
// authorization roster and returns the rendered report.
func Monthly(ctx context.Context, in MonthlyInput, opts ...Option) (*bytes.Buffer, error) {
	c, err := build(opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Close() }()

	buf, _, err := c.GetPipeline().Monthly(ctx, source(in.Facility), source(in.Agency), source(in.Roster))
	return buf, err
}

func source(f File) pipeline.Source {
	return pipeline.Source{Name: f.Name, Reader: f.Reader}
}

func build(opts []Option) (*container.Container, error) {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	cfg := config.Default()
	if s.threshold != 0 {
		cfg.Matching.Threshold = s.threshold
	}
	if s.algorithm != "" {
		cfg.Matching.Algorithm = s.algorithm
	}
	if s.pdftotext != "" {
		cfg.Parsers.PDF.PdftotextPath = s.pdftotext
	}
	if s.format != "" {
		cfg.Report.Format = s.format
	}

	var copts []container.Option
	if s.logger != nil {
		copts = append(copts, container.WithLogger(logging.NewLogrusAdapterFromLogger(s.logger)))
	}
	return container.NewContainer(cfg, copts...)
}
