// Package facilityparser turns the facility's monthly sign-in workbook into one
// attendance event per person and day present.
package facilityparser

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"honeybee/attendance-engine/internal/dateutils"
	"honeybee/attendance-engine/internal/logging"
	"honeybee/attendance-engine/internal/models"
	"honeybee/attendance-engine/internal/parser"
	"honeybee/attendance-engine/internal/parsererror"
	"honeybee/attendance-engine/internal/spreadsheet"
)

const source = "facility"

// Required identity columns of the header row.
const (
	ColFirstName = "First Name"
	ColLastName  = "Last Name"
	ColStudentID = "External Student ID"
)

var (
	titleDate = regexp.MustCompile(`(\d{2})\s+([A-Za-z]+),\s+(\d{4})`)
	dayHeader = regexp.MustCompile(`^[A-Za-z]{3}\s+\d{2}$`)
)

// Options controls where the header row sits.
type Options struct {
	// HeaderRow is the 1-based row holding the column names.
	HeaderRow int
	// SkipSubheader drops the first row below the header.
	SkipSubheader bool
}

// DefaultOptions matches the layout of the facility export.
func DefaultOptions() Options {
	return Options{HeaderRow: 9, SkipSubheader: true}
}

// Parser reads facility attendance workbooks.
type Parser struct {
	parser.BaseParser
	opts Options
}

// NewParser creates a facility parser. A non-positive header row falls back to
// the default layout.
func NewParser(opts Options, logger logging.Logger) *Parser {
	if opts.HeaderRow < 1 {
		opts.HeaderRow = DefaultOptions().HeaderRow
	}
	return &Parser{
		BaseParser: parser.NewBaseParser(source, logger),
		opts:       opts,
	}
}

// dayColumn is one day's pair of sign-in and sign-out columns.
type dayColumn struct {
	label string
	day   int
	in    int
	out   int
}

// ParseAttendance implements parser.AttendanceParser.
func (p *Parser) ParseAttendance(r io.Reader, filename string) ([]models.AttendanceEvent, error) {
	sheet, err := spreadsheet.Read(r, filename)
	if err != nil {
		return nil, err
	}

	year, month, err := p.reportPeriod(sheet, filename)
	if err != nil {
		return nil, err
	}

	headerIdx := p.opts.HeaderRow - 1
	if headerIdx >= len(sheet.Rows) {
		return nil, &parsererror.FormatError{
			Source:   source,
			FilePath: filename,
			Msg:      fmt.Sprintf("header row %d is past the end of the sheet", p.opts.HeaderRow),
		}
	}

	// Trailing unnamed columns are trimmed by the reader; pad the header to
	// the widest data row so the last sign-out column is still addressed.
	headerCells := make([]string, sheetWidth(sheet.Rows[headerIdx:]))
	copy(headerCells, sheet.Rows[headerIdx])
	header := spreadsheet.NewHeader(headerCells, spreadsheet.Exact)
	cols, err := header.Require(source, filename, ColFirstName, ColLastName, ColStudentID)
	if err != nil {
		return nil, err
	}
	days := dayColumns(header.Cells)

	firstData := headerIdx + 1
	if p.opts.SkipSubheader {
		firstData++
	}

	type key struct {
		id   string
		date time.Time
	}
	seen := make(map[key]bool)
	var events []models.AttendanceEvent
	dropped := 0

	for i := firstData; i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		first := spreadsheet.CellValue(row, cols[ColFirstName])
		last := spreadsheet.CellValue(row, cols[ColLastName])
		if first == "" && last == "" {
			if !spreadsheet.IsBlank(row) {
				dropped++
			}
			continue
		}
		studentID := spreadsheet.CellValue(row, cols[ColStudentID])
		fullName := models.NormalizeName(first + " " + last)

		for _, d := range days {
			if spreadsheet.CellValue(row, d.in) == "" && spreadsheet.CellValue(row, d.out) == "" {
				continue
			}
			date, ok := calendarDate(year, month, d.day)
			if !ok {
				p.GetLogger().Warn("Skipping day column outside the report month",
					logging.Field{Key: logging.FieldFile, Value: filename},
					logging.Field{Key: "column", Value: d.label})
				continue
			}
			k := key{id: studentID, date: date}
			if seen[k] {
				continue
			}
			seen[k] = true
			events = append(events, models.AttendanceEvent{
				FirstName: first,
				LastName:  last,
				FullName:  fullName,
				PersonID:  studentID,
				Date:      date,
			})
		}
	}

	sort.SliceStable(events, func(a, b int) bool {
		if events[a].FullName != events[b].FullName {
			return events[a].FullName < events[b].FullName
		}
		return events[a].Date.Before(events[b].Date)
	})

	p.LogDropped(filename, len(events), dropped)
	return events, nil
}

// reportPeriod reads the year and month from the title in cell A1.
func (p *Parser) reportPeriod(sheet *spreadsheet.Sheet, filename string) (int, time.Month, error) {
	title := sheet.Cell(0, 0)
	match := titleDate.FindStringSubmatch(title)
	if match == nil {
		return 0, 0, &parsererror.FormatError{
			Source:   source,
			FilePath: filename,
			Msg:      fmt.Sprintf("no report date in title %q", title),
			Expected: "DD Month, YYYY",
		}
	}
	month, ok := dateutils.MonthFromName(match[2])
	if !ok {
		return 0, 0, &parsererror.FormatError{
			Source:   source,
			FilePath: filename,
			Msg:      fmt.Sprintf("unknown month %q in title", match[2]),
			Expected: "full English month name",
		}
	}
	year, err := strconv.Atoi(match[3])
	if err != nil {
		return 0, 0, &parsererror.FormatError{Source: source, FilePath: filename, Msg: "invalid year in title", Err: err}
	}
	return year, month, nil
}

// dayColumns pairs every "Mon DD" header with the unnamed column after it.
func dayColumns(headers []string) []dayColumn {
	var days []dayColumn
	current := -1
	for i, h := range headers {
		switch {
		case dayHeader.MatchString(h):
			fields := strings.Fields(h)
			day, err := strconv.Atoi(fields[1])
			if err != nil {
				current = -1
				continue
			}
			days = append(days, dayColumn{label: h, day: day, in: i, out: -1})
			current = len(days) - 1
		case h == "" && current >= 0:
			if days[current].out < 0 {
				days[current].out = i
			}
		}
	}
	return days
}

func sheetWidth(rows [][]string) int {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

func calendarDate(year int, month time.Month, day int) (time.Time, bool) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return t, t.Month() == month && t.Day() == day
}
