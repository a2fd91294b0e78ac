// Package paymentparser reads the agency's tabular payment export and routes
// agency files to the tabular or PDF reader by extension.
package paymentparser

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"honeybee/attendance-engine/internal/dateutils"
	"honeybee/attendance-engine/internal/logging"
	"honeybee/attendance-engine/internal/models"
	"honeybee/attendance-engine/internal/parser"
	"honeybee/attendance-engine/internal/spreadsheet"
)

const source = "agency-tabular"

// Column headers after trimming and upper-casing.
const (
	ColFullName   = "FULL NAME"
	ColCasePerson = "CASE/PERSON"
	ColSwipeDate  = "SWIPE DATE"
	ColCopayAP    = "COPAY AP"
	ColAmountPaid = "AMOUNT PAID"
)

// Parser reads the daily agency spreadsheet. The header is the first row.
type Parser struct {
	parser.BaseParser
}

// NewParser creates a tabular payment parser.
func NewParser(logger logging.Logger) *Parser {
	return &Parser{BaseParser: parser.NewBaseParser(source, logger)}
}

// ParsePayments implements parser.PaymentParser.
func (p *Parser) ParsePayments(_ context.Context, r io.Reader, filename string) ([]models.PaymentEvent, error) {
	sheet, err := spreadsheet.Read(r, filename)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		p.GetLogger().Warn("Payment sheet is empty",
			logging.Field{Key: logging.FieldFile, Value: filename})
		return nil, nil
	}

	header := spreadsheet.NewHeader(sheet.Rows[0], spreadsheet.UpperTrim)
	cols, err := header.Require(source, filename, ColFullName, ColSwipeDate, ColCopayAP, ColAmountPaid)
	if err != nil {
		return nil, err
	}
	caseCol := header.Index(ColCasePerson)

	var events []models.PaymentEvent
	dropped := 0
	for i, row := range sheet.Rows[1:] {
		rowNum := i + 2
		name := models.NormalizeName(spreadsheet.CellValue(row, cols[ColFullName]))
		if name == "" {
			if !spreadsheet.IsBlank(row) {
				dropped++
			}
			continue
		}

		rawDate := spreadsheet.CellValue(row, cols[ColSwipeDate])
		date, err := dateutils.ParseFlexible(rawDate)
		if err != nil {
			dropped++
			p.GetLogger().WithError(err).Warn("Skipping payment row with unreadable swipe date",
				logging.Field{Key: logging.FieldFile, Value: filename},
				logging.Field{Key: "row", Value: rowNum},
				logging.Field{Key: logging.FieldPerson, Value: name})
			continue
		}

		events = append(events, models.PaymentEvent{
			FullName:   name,
			CasePerson: spreadsheet.CellValue(row, caseCol),
			SwipeDate:  date,
			CopayAP:    p.amount(row, cols[ColCopayAP], ColCopayAP, filename, rowNum),
			AmountPaid: p.amount(row, cols[ColAmountPaid], ColAmountPaid, filename, rowNum),
		})
	}

	p.LogDropped(filename, len(events), dropped)
	return events, nil
}

// amount reads an amount cell. Unreadable values are kept blank.
func (p *Parser) amount(row []string, col int, column, filename string, rowNum int) decimal.NullDecimal {
	raw := spreadsheet.CellValue(row, col)
	amount, ok := models.ParseAmount(raw)
	if !ok {
		p.GetLogger().Warn("Unreadable amount treated as blank",
			logging.Field{Key: logging.FieldFile, Value: filename},
			logging.Field{Key: "row", Value: rowNum},
			logging.Field{Key: "column", Value: column},
			logging.Field{Key: "value", Value: raw})
	}
	return amount
}

// Router sends ".pdf" files to the statement reader and everything else to the
// spreadsheet reader.
type Router struct {
	Tabular parser.PaymentParser
	PDF     parser.PaymentParser
}

// NewRouter creates a Router over the two agency readers.
func NewRouter(tabular, pdf parser.PaymentParser) *Router {
	return &Router{Tabular: tabular, PDF: pdf}
}

// ParsePayments implements parser.PaymentParser.
func (r *Router) ParsePayments(ctx context.Context, in io.Reader, filename string) ([]models.PaymentEvent, error) {
	if IsPDF(filename) {
		return r.PDF.ParsePayments(ctx, in, filename)
	}
	return r.Tabular.ParsePayments(ctx, in, filename)
}

// IsPDF reports whether filename names a PDF document.
func IsPDF(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}
