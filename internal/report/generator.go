// Package report renders a reconciled table as a styled workbook, a CSV file
// or a YAML run summary.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"honeybee/attendance-engine/internal/dateutils"
	"honeybee/attendance-engine/internal/fileutils"
	"honeybee/attendance-engine/internal/logging"
	"honeybee/attendance-engine/internal/models"
)

// Output formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// Column headers, in output order.
const (
	HeaderFullName    = "FULL NAME"
	HeaderCasePerson  = "CASE/PERSON"
	HeaderSwipeDate   = "SWIPE DATE"
	HeaderCopayAP     = "COPAY AP"
	HeaderAmountPaid  = "AMOUNT PAID"
	HeaderNote        = "NOTE"
	HeaderCopayExtra  = "COPAY EXTRA"
	HeaderAmountExtra = "AMOUNT EXTRA"
)

// Headers lists the report columns in order.
var Headers = []string{
	HeaderFullName,
	HeaderCasePerson,
	HeaderSwipeDate,
	HeaderCopayAP,
	HeaderAmountPaid,
	HeaderNote,
	HeaderCopayExtra,
	HeaderAmountExtra,
}

// Options controls workbook layout.
type Options struct {
	SheetName     string
	ColumnPadding int
}

// DefaultOptions returns the standard layout.
func DefaultOptions() Options {
	return Options{SheetName: "Sheet1", ColumnPadding: 4}
}

// ReportGenerator writes reconciled tables.
type ReportGenerator struct {
	logger logging.Logger
	opts   Options
}

// NewReportGenerator creates a ReportGenerator. Empty options fall back to the
// defaults.
func NewReportGenerator(opts Options, logger logging.Logger) *ReportGenerator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if opts.SheetName == "" {
		opts.SheetName = DefaultOptions().SheetName
	}
	if opts.ColumnPadding < 0 {
		opts.ColumnPadding = DefaultOptions().ColumnPadding
	}
	return &ReportGenerator{
		logger: logger.WithField("component", "ReportGenerator"),
		opts:   opts,
	}
}

// GenerateReport renders the table in the given format (xlsx or csv).
func (g *ReportGenerator) GenerateReport(table models.ReconciledTable, format string) (*bytes.Buffer, error) {
	switch strings.ToLower(format) {
	case "", FormatXLSX:
		return g.generateWorkbook(table)
	case FormatCSV:
		return g.generateCSV(table)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// WriteReport renders the table and writes it to path. Nothing is written when
// rendering fails.
func (g *ReportGenerator) WriteReport(table models.ReconciledTable, format, path string) error {
	buf, err := g.GenerateReport(table, format)
	if err != nil {
		return err
	}
	if err := fileutils.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		g.logger.WithError(err).Error("Failed to write report",
			logging.Field{Key: logging.FieldOutputFile, Value: path})
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	g.logger.Info("Report written",
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: table.Len()})
	return nil
}

// GenerateSummary marshals a run summary as YAML.
func (g *ReportGenerator) GenerateSummary(summary models.Summary) ([]byte, error) {
	out, err := yaml.Marshal(summary)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal summary")
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}
	return out, nil
}

// WriteSummary writes the YAML summary to path.
func (g *ReportGenerator) WriteSummary(summary models.Summary, path string) error {
	out, err := g.GenerateSummary(summary)
	if err != nil {
		return err
	}
	if err := fileutils.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("failed to write summary %s: %w", path, err)
	}
	return nil
}

// cells renders one table row as display values in header order. Blank
// amounts are nil.
func cells(row models.PaymentEvent) []interface{} {
	return []interface{}{
		row.FullName,
		row.CasePerson,
		dateutils.FormatUS(row.SwipeDate),
		amountCell(row.CopayAP),
		amountCell(row.AmountPaid),
		row.Note.String(),
		amountCell(row.CopayExtra),
		amountCell(row.AmountExtra),
	}
}

func amountCell(n decimal.NullDecimal) interface{} {
	if !n.Valid {
		return nil
	}
	return n.Decimal.InexactFloat64()
}

// FillColor returns the NOTE fill for a label, or "" for no fill.
func FillColor(label models.Label) string {
	switch label {
	case models.LabelNotPaid:
		return ColorRed
	case models.LabelNonTraditional, models.LabelExtraDHS, models.LabelExtraCopay, models.LabelExtraCopayAndDHS:
		return ColorYellow
	case models.LabelSelfPaid:
		return ""
	default:
		return ColorGreen
	}
}

// Fill colors for the NOTE column.
const (
	ColorRed    = "FF9999"
	ColorYellow = "FFFF99"
	ColorGreen  = "CCFFCC"
)
