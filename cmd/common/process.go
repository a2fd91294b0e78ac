// Package common contains shared functionality for command handlers
package common

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"honeybee/attendance-engine/internal/container"
	"honeybee/attendance-engine/internal/fileutils"
	"honeybee/attendance-engine/internal/logging"
	"honeybee/attendance-engine/internal/models"
	"honeybee/attendance-engine/internal/pipeline"
	"honeybee/attendance-engine/internal/validation"
)

// StdoutPath selects standard output as the report destination.
const StdoutPath = "-"

// DailyFlags are the inputs of the daily command.
type DailyFlags struct {
	Facility string
	Agency   string
	Output   string
	Summary  string
}

// MonthlyFlags are the inputs of the monthly command.
type MonthlyFlags struct {
	Facility string
	Agency   string
	Roster   string
	Output   string
	Summary  string
}

// OpenSource opens path as a pipeline source after checking its extension
// against allowed. The caller closes the file.
func OpenSource(path string, allowed ...string) (pipeline.Source, *os.File, error) {
	if path == "" {
		return pipeline.Source{}, nil, fmt.Errorf("input file path is required")
	}
	if err := validation.IsValidInputFile(path, allowed...); err != nil {
		return pipeline.Source{}, nil, err
	}
	f, err := fileutils.OpenFile(path)
	if err != nil {
		return pipeline.Source{}, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return pipeline.Source{Name: filepath.Base(path), Reader: f}, f, nil
}

// RunDaily runs the daily reconciliation and writes the report to
// flags.Output.
func RunDaily(ctx context.Context, c *container.Container, flags DailyFlags) error {
	if flags.Output == "" || flags.Output == StdoutPath {
		return fmt.Errorf("daily reports must be written to a file")
	}

	facility, facilityFile, err := OpenSource(flags.Facility, validation.SpreadsheetExtensions...)
	if err != nil {
		return err
	}
	defer closeQuietly(facilityFile)

	agency, agencyFile, err := OpenSource(flags.Agency, validation.SpreadsheetExtensions...)
	if err != nil {
		return err
	}
	defer closeQuietly(agencyFile)

	result, err := c.GetPipeline().Daily(ctx, facility, agency, flags.Output)
	if err != nil {
		return err
	}
	return WriteSummary(c, result.Summary, flags.Summary)
}

// RunMonthly runs the monthly reconciliation and writes the rendered report
// to flags.Output, or to out when the output is "-".
func RunMonthly(ctx context.Context, c *container.Container, flags MonthlyFlags, out io.Writer) error {
	facility, facilityFile, err := OpenSource(flags.Facility, validation.SpreadsheetExtensions...)
	if err != nil {
		return err
	}
	defer closeQuietly(facilityFile)

	agency, agencyFile, err := OpenSource(flags.Agency, validation.ExtPDF, validation.ExtXLSX, validation.ExtXLS)
	if err != nil {
		return err
	}
	defer closeQuietly(agencyFile)

	roster, rosterFile, err := OpenSource(flags.Roster, validation.SpreadsheetExtensions...)
	if err != nil {
		return err
	}
	defer closeQuietly(rosterFile)

	buf, result, err := c.GetPipeline().Monthly(ctx, facility, agency, roster)
	if err != nil {
		return err
	}

	if err := WriteBuffer(buf, flags.Output, out, c.GetLogger()); err != nil {
		return err
	}
	return WriteSummary(c, result.Summary, flags.Summary)
}

// WriteBuffer writes a rendered report to out when the path is "-" or empty,
// otherwise to the file at path.
func WriteBuffer(buf *bytes.Buffer, path string, out io.Writer, logger logging.Logger) error {
	if path == "" || path == StdoutPath {
		if out == nil {
			out = os.Stdout
		}
		_, err := buf.WriteTo(out)
		return err
	}
	if err := fileutils.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	logger.Info("Report written", logging.Field{Key: logging.FieldOutputFile, Value: path})
	return nil
}

// WriteSummary writes the run summary when a path is given.
func WriteSummary(c *container.Container, summary models.Summary, path string) error {
	if path == "" {
		return nil
	}
	return c.GetReportGenerator().WriteSummary(summary, path)
}

// Context returns ctx, or a background context when ctx is nil.
func Context(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func closeQuietly(f *os.File) {
	if f != nil {
		_ = f.Close()
	}
}
