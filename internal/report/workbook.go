package report

import (
	"bytes"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"honeybee/attendance-engine/internal/logging"
	"honeybee/attendance-engine/internal/models"
)

// borderMedium is the excelize style code for a medium-weight line.
const borderMedium = 2

func mediumBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: borderMedium},
		{Type: "right", Color: "000000", Style: borderMedium},
		{Type: "top", Color: "000000", Style: borderMedium},
		{Type: "bottom", Color: "000000", Style: borderMedium},
	}
}

// styles holds the style ids registered on one workbook.
type styles struct {
	header int
	cell   int
	fills  map[string]int
}

func registerStyles(f *excelize.File) (*styles, error) {
	header, err := f.NewStyle(&excelize.Style{Border: mediumBorder(), Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	cell, err := f.NewStyle(&excelize.Style{Border: mediumBorder()})
	if err != nil {
		return nil, err
	}
	s := &styles{header: header, cell: cell, fills: make(map[string]int)}
	for _, color := range []string{ColorRed, ColorYellow, ColorGreen} {
		id, err := f.NewStyle(&excelize.Style{
			Border: mediumBorder(),
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return nil, err
		}
		s.fills[color] = id
	}
	return s, nil
}

func (g *ReportGenerator) generateWorkbook(table models.ReconciledTable) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			g.logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	sheet := g.opts.SheetName
	if def := f.GetSheetName(0); def != sheet {
		if err := f.SetSheetName(def, sheet); err != nil {
			return nil, fmt.Errorf("failed to name sheet %q: %w", sheet, err)
		}
	}

	rows := make([][]interface{}, 0, table.Len()+1)
	header := make([]interface{}, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	rows = append(rows, header)
	for _, row := range table.Rows {
		rows = append(rows, cells(row))
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := g.applyStyles(f, sheet, rows); err != nil {
		return nil, err
	}
	if err := g.fitColumns(f, sheet, rows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	g.logger.Debug("Rendered workbook",
		logging.Field{Key: logging.FieldCount, Value: table.Len()})
	return buf, nil
}

// applyStyles borders the used range, bolds the header and colors the NOTE
// column. The NOTE column is found by its header text.
func (g *ReportGenerator) applyStyles(f *excelize.File, sheet string, rows [][]interface{}) error {
	st, err := registerStyles(f)
	if err != nil {
		return fmt.Errorf("failed to register styles: %w", err)
	}

	lastCol := len(Headers)
	lastRow := len(rows)
	topLeft, _ := excelize.CoordinatesToCellName(1, 1)
	topRight, _ := excelize.CoordinatesToCellName(lastCol, 1)
	if err := f.SetCellStyle(sheet, topLeft, topRight, st.header); err != nil {
		return err
	}
	if lastRow > 1 {
		start, _ := excelize.CoordinatesToCellName(1, 2)
		end, _ := excelize.CoordinatesToCellName(lastCol, lastRow)
		if err := f.SetCellStyle(sheet, start, end, st.cell); err != nil {
			return err
		}
	}

	noteCol := -1
	for i, h := range rows[0] {
		if h == HeaderNote {
			noteCol = i + 1
			break
		}
	}
	if noteCol < 0 {
		return fmt.Errorf("report has no %s column", HeaderNote)
	}

	for r := 2; r <= lastRow; r++ {
		label, _ := rows[r-1][noteCol-1].(string)
		color := FillColor(models.Label(label))
		if color == "" {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(noteCol, r)
		if err := f.SetCellStyle(sheet, cell, cell, st.fills[color]); err != nil {
			return err
		}
	}
	return nil
}

// fitColumns sizes each column to its longest rendered value plus padding.
// Empty and zero cells do not count toward the width.
func (g *ReportGenerator) fitColumns(f *excelize.File, sheet string, rows [][]interface{}) error {
	for c := range Headers {
		width := 0
		for _, row := range rows {
			if isBlank(row[c]) {
				continue
			}
			if n := utf8.RuneCountInString(display(row[c])); n > width {
				width = n
			}
		}
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, float64(width+g.opts.ColumnPadding)); err != nil {
			return err
		}
	}
	return nil
}

func isBlank(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case float64:
		return x == 0
	case int:
		return x == 0
	default:
		return false
	}
}

// display is the text a cell value renders as.
func display(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
