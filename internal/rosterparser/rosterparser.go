// Package rosterparser reads the authorization roster used to resolve case
// references for children the agency did not report.
package rosterparser

import (
	"io"

	"honeybee/attendance-engine/internal/logging"
	"honeybee/attendance-engine/internal/models"
	"honeybee/attendance-engine/internal/parser"
	"honeybee/attendance-engine/internal/spreadsheet"
)

const source = "roster"

// Roster column headers after trimming and upper-casing.
const (
	ColChildName = "CHILD NAME"
	ColCase      = "CASE #"
	ColPerson    = "PERSON"
)

// Parser reads roster workbooks with the header on the first row.
type Parser struct {
	parser.BaseParser
}

// NewParser creates a roster parser.
func NewParser(logger logging.Logger) *Parser {
	return &Parser{BaseParser: parser.NewBaseParser(source, logger)}
}

// ParseRoster implements parser.RosterParser. Every cell is read as text so
// case and person numbers keep their leading zeros.
func (p *Parser) ParseRoster(r io.Reader, filename string) ([]models.AuthorizationRecord, error) {
	sheet, err := spreadsheet.Read(r, filename)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		p.GetLogger().Warn("Roster is empty",
			logging.Field{Key: logging.FieldFile, Value: filename})
		return nil, nil
	}

	header := spreadsheet.NewHeader(sheet.Rows[0], spreadsheet.UpperTrim)
	cols, err := header.Require(source, filename, ColChildName, ColCase, ColPerson)
	if err != nil {
		return nil, err
	}

	var records []models.AuthorizationRecord
	dropped := 0
	for _, row := range sheet.Rows[1:] {
		name := spreadsheet.CellValue(row, cols[ColChildName])
		if name == "" {
			if !spreadsheet.IsBlank(row) {
				dropped++
			}
			continue
		}
		records = append(records, models.AuthorizationRecord{
			ChildName:    name,
			CaseNumber:   spreadsheet.CellValue(row, cols[ColCase]),
			PersonNumber: spreadsheet.CellValue(row, cols[ColPerson]),
		})
	}

	p.LogDropped(filename, len(records), dropped)
	return records, nil
}
