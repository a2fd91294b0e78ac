// Package spreadsheet reads the first worksheet of an .xls or .xlsx workbook
// into a grid of trimmed strings and resolves named columns in a header row.
package spreadsheet

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"honeybee/attendance-engine/internal/parsererror"
)

// maxXLSRows caps the rows read from a legacy workbook.
const maxXLSRows = 100000

// Sheet is the cell grid of one worksheet. Rows may be ragged.
type Sheet struct {
	Name string
	Rows [][]string
}

// Read loads the first worksheet of the workbook. The format is chosen by the
// file extension: ".xls" uses the legacy reader, anything else is read as
// Office Open XML.
func Read(r io.Reader, filename string) (*Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		return readXLS(data, filename)
	default:
		return readXLSX(data, filename)
	}
}

func readXLS(data []byte, filename string) (*Sheet, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, &parsererror.ParseError{Parser: "xls", Field: "workbook", Value: filename, Err: err}
	}
	if workbook.NumSheets() == 0 {
		return nil, &parsererror.FormatError{Source: "xls", FilePath: filename, Msg: "no worksheet found"}
	}

	ws := workbook.GetSheet(0)
	if ws == nil {
		return nil, &parsererror.FormatError{Source: "xls", FilePath: filename, Msg: "no worksheet found"}
	}

	rows := make([][]string, 0, int(ws.MaxRow)+1)
	for i := 0; i <= int(ws.MaxRow) && i < maxXLSRows; i++ {
		row := ws.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for c := range cells {
			cells[c] = strings.TrimSpace(row.Col(c))
		}
		rows = append(rows, cells)
	}
	return &Sheet{Name: ws.Name, Rows: rows}, nil
}

func readXLSX(data []byte, filename string) (*Sheet, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &parsererror.ParseError{Parser: "xlsx", Field: "workbook", Value: filename, Err: err}
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, &parsererror.FormatError{Source: "xlsx", FilePath: filename, Msg: "no worksheet found"}
	}

	// Raw values keep date cells as serial numbers instead of locale formats.
	rows, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &parsererror.ParseError{Parser: "xlsx", Field: "sheet", Value: sheetName, Err: err}
	}
	for _, row := range rows {
		for c := range row {
			row[c] = strings.TrimSpace(row[c])
		}
	}
	return &Sheet{Name: sheetName, Rows: rows}, nil
}

// Cell returns the value at zero-based row and column, or "" when the cell is
// outside the grid.
func (s *Sheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) {
		return ""
	}
	return CellValue(s.Rows[row], col)
}

// CellValue returns the trimmed cell at idx, or "" past the end of a short row.
func CellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// IsBlank reports whether every cell in the row is empty.
func IsBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
