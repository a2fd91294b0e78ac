// Package pdfparser reads the agency's multi-page payment statement. The
// statement is converted to text and scanned line by line for case headers,
// wrapped names and swipe date groups.
package pdfparser

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"honeybee/attendance-engine/internal/dateutils"
	"honeybee/attendance-engine/internal/logging"
	"honeybee/attendance-engine/internal/models"
	"honeybee/attendance-engine/internal/parser"
	"honeybee/attendance-engine/internal/parsererror"
)

const source = "agency-pdf"

// Parser reads agency PDF statements through a PDFExtractor.
type Parser struct {
	parser.BaseParser
	extractor PDFExtractor
}

// NewParser creates a PDF parser. A nil extractor runs pdftotext from PATH.
func NewParser(extractor PDFExtractor, logger logging.Logger) *Parser {
	if extractor == nil {
		extractor = NewRealPDFExtractor("", false)
	}
	return &Parser{
		BaseParser: parser.NewBaseParser(source, logger),
		extractor:  extractor,
	}
}

// ParsePayments implements parser.PaymentParser. It spools the document to a
// temporary file, extracts its text and scans it. The context bounds the
// extraction command.
func (p *Parser) ParsePayments(ctx context.Context, r io.Reader, filename string) ([]models.PaymentEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tempFile, err := os.CreateTemp("", "agency-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary PDF file: %w", err)
	}
	defer func() {
		if err := os.Remove(tempFile.Name()); err != nil {
			p.GetLogger().WithError(err).Warn("Failed to remove temporary file",
				logging.Field{Key: logging.FieldFile, Value: tempFile.Name()})
		}
	}()

	if _, err := io.Copy(tempFile, r); err != nil {
		_ = tempFile.Close()
		return nil, fmt.Errorf("failed to write temporary PDF file: %w", err)
	}
	// pdftotext must see the complete file.
	if err := tempFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temporary PDF file: %w", err)
	}

	text, err := p.extractor.ExtractText(ctx, tempFile.Name())
	if err != nil {
		return nil, err
	}
	return p.ParseText(text, filename)
}

// ParseText scans already extracted statement text.
func (p *Parser) ParseText(text, filename string) ([]models.PaymentEvent, error) {
	pages := strings.Split(text, "\f")
	s := &scanner{}
	for i, page := range pages {
		s.page = i + 1
		s.scanPage(splitLines(page))
	}

	events := make([]models.PaymentEvent, 0, len(s.groups))
	dropped := 0
	for _, g := range s.groups {
		event, err := g.event()
		if err != nil {
			dropped++
			p.GetLogger().WithError(err).Warn("Skipping swipe group with unreadable date",
				logging.Field{Key: logging.FieldFile, Value: filename},
				logging.Field{Key: logging.FieldPage, Value: g.page},
				logging.Field{Key: logging.FieldPerson, Value: g.name})
			continue
		}
		events = append(events, event)
	}

	if len(events) == 0 && dropped == 0 && strings.TrimSpace(text) == "" {
		p.GetLogger().Warn("Statement contains no text",
			logging.Field{Key: logging.FieldFile, Value: filename})
	}
	p.LogDropped(filename, len(events), dropped)
	return events, nil
}

func splitLines(page string) []string {
	page = strings.ReplaceAll(page, "\r\n", "\n")
	return strings.Split(page, "\n")
}

// swipeGroup is one date line and the numeric tokens collected from it and
// the lines after it. Numbers sharing the date line count: "03/05/2024 0.00
// 25.50" yields copay 0.00 and amount 25.50, the same as one number per line.
type swipeGroup struct {
	name    string
	casePer string
	date    string
	numbers []string
	page    int
}

func (g swipeGroup) event() (models.PaymentEvent, error) {
	date, err := dateutils.ParseUS(g.date)
	if err != nil {
		return models.PaymentEvent{}, &parsererror.ParseError{Parser: source, Field: "swipe date", Value: g.date, Err: err}
	}
	copay, amount := models.Zero(), models.Zero()
	if len(g.numbers) > 0 {
		copay = parseNumber(g.numbers[0])
	}
	if len(g.numbers) > 1 {
		amount = parseNumber(g.numbers[1])
	}
	return models.PaymentEvent{
		FullName:   models.NormalizeName(g.name),
		CasePerson: g.casePer,
		SwipeDate:  date,
		CopayAP:    copay,
		AmountPaid: amount,
	}, nil
}

func parseNumber(token string) decimal.NullDecimal {
	amount, ok := models.ParseAmount(token)
	if !ok || !amount.Valid {
		return models.Zero()
	}
	return amount
}

var (
	dateLine    = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`)
	numberToken = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

const (
	caseMarker = "CASE/PERSON:"
	nameMarker = "NAME:"
)

// scanner holds the running name and case context. The context carries over
// page breaks; a pending group does not.
type scanner struct {
	name    string
	casePer string
	page    int
	current *swipeGroup
	groups  []swipeGroup
}

func (s *scanner) scanPage(lines []string) {
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		switch {
		case strings.Contains(line, caseMarker):
			s.flush()
			i = s.readCase(lines, i, line)

		case dateLine.MatchString(line):
			s.flush()
			fields := strings.Fields(line)
			s.current = &swipeGroup{
				name:    s.name,
				casePer: s.casePer,
				date:    fields[0][:10],
				page:    s.page,
			}
			s.collect(fields[1:])

		case s.current != nil:
			fields := strings.Fields(line)
			if allNumeric(fields) {
				s.collect(fields)
			} else {
				s.flush()
			}
		}
	}
	s.flush()
}

// readCase updates the context from a CASE/PERSON line and returns the index
// of the last line consumed by a wrapped name.
func (s *scanner) readCase(lines []string, i int, line string) int {
	rest := strings.TrimSpace(line[strings.Index(line, caseMarker)+len(caseMarker):])
	if fields := strings.Fields(rest); len(fields) > 0 {
		s.casePer = fields[0]
	} else {
		s.casePer = ""
	}

	idx := strings.Index(line, nameMarker)
	if idx < 0 {
		return i
	}
	name := strings.TrimSpace(line[idx+len(nameMarker):])
	j := i + 1
	for ; j < len(lines); j++ {
		next := strings.TrimSpace(lines[j])
		if endsName(next) {
			break
		}
		name += " " + next
	}
	s.name = strings.TrimSpace(name)
	return j - 1
}

func endsName(line string) bool {
	if line == "" {
		return true
	}
	if line[0] >= '0' && line[0] <= '9' {
		return true
	}
	return strings.EqualFold(strings.Fields(line)[0], "SWIPE")
}

func (s *scanner) collect(fields []string) {
	for _, f := range fields {
		if numberToken.MatchString(f) {
			s.current.numbers = append(s.current.numbers, f)
		}
	}
}

func (s *scanner) flush() {
	if s.current == nil {
		return
	}
	s.groups = append(s.groups, *s.current)
	s.current = nil
}

func allNumeric(fields []string) bool {
	for _, f := range fields {
		if !numberToken.MatchString(f) {
			return false
		}
	}
	return true
}
