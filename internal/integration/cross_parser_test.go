package integration

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"honeybee/attendance-engine/internal/config"
	"honeybee/attendance-engine/internal/container"
	"honeybee/attendance-engine/internal/logging"
	"honeybee/attendance-engine/internal/models"
	"honeybee/attendance-engine/internal/pdfparser"
	"honeybee/attendance-engine/internal/pipeline"
	"honeybee/attendance-engine/internal/spreadsheet/spreadsheettest"
)

const statement = `PROVIDER PAYMENT DETAIL
CASE/PERSON: 100/01 NAME: JANE DOE
04/01/2024 2.00 30.00
04/02/2024 0.00 14.00
04/03/2024
0.00
0.00
CASE/PERSON: 200/01 NAME: TOM SMITH
04/02/2024 5.00 0.00
`

var tabularRows = [][]interface{}{
	{"FULL NAME", "CASE/PERSON", "SWIPE DATE", "COPAY AP", "AMOUNT PAID"},
	{"JANE DOE", "100/01", "04/01/2024", "2.00", "30.00"},
	{"JANE DOE", "100/01", "04/02/2024", "0.00", "14.00"},
	{"JANE DOE", "100/01", "04/03/2024", "0.00", "0.00"},
	{"TOM SMITH", "200/01", "04/02/2024", "5.00", "0.00"},
}

func facility(t *testing.T) pipeline.Source {
	t.Helper()
	rows := [][]interface{}{{"Sign In Report 30 April, 2024"}, nil, nil, nil, nil, nil, nil, nil,
		{"First Name", "Last Name", "External Student ID", "Apr 01", "", "Apr 02", "", "Apr 03", ""},
		{"", "", "", "In", "Out", "In", "Out", "In", "Out"},
		{"Jane", "Doe", "S1", "08:00", "17:00", "", "", "08:00", "17:00"},
		{"Tom", "Smith", "S2", "", "", "", "", "08:00", "12:00"},
		{"Amy", "Lee", "S3", "08:00", "", "", "", "", ""},
	}
	return pipeline.Source{Name: "facility.xlsx", Reader: spreadsheettest.Workbook(t, rows)}
}

func roster(t *testing.T) pipeline.Source {
	t.Helper()
	return pipeline.Source{Name: "roster.xlsx", Reader: spreadsheettest.Workbook(t, [][]interface{}{
		{"CHILD NAME", "CASE #", "PERSON"},
		{"Amy Lee", "300", "01"},
	})}
}

func newPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	c, err := container.NewContainer(config.Default(),
		container.WithLogger(logging.NewMockLogger()),
		container.WithPDFExtractor(pdfparser.NewMockPDFExtractor(statement, nil)))
	require.NoError(t, err)
	return c.GetPipeline()
}

// TestAgencySourcesAgree runs the monthly reconciliation once with the PDF
// statement and once with the equivalent tabular export. Both must yield the
// same table and the same rendered cells.
func TestAgencySourcesAgree(t *testing.T) {
	ctx := context.Background()

	pdfBuf, pdfResult, err := newPipeline(t).Monthly(ctx, facility(t),
		pipeline.Source{Name: "statement.pdf", Reader: strings.NewReader("%PDF-1.4")}, roster(t))
	require.NoError(t, err)

	tabBuf, tabResult, err := newPipeline(t).Monthly(ctx, facility(t),
		pipeline.Source{Name: "statement.xlsx", Reader: spreadsheettest.Workbook(t, tabularRows)}, roster(t))
	require.NoError(t, err)

	decimalEqual := cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
	if diff := cmp.Diff(pdfResult.Table.Rows, tabResult.Table.Rows, decimalEqual); diff != "" {
		t.Fatalf("tables differ (-pdf +tabular):\n%s", diff)
	}
	assert.Equal(t, readCells(t, pdfBuf), readCells(t, tabBuf))
	assert.Equal(t, pdfResult.Summary.Labels, tabResult.Summary.Labels)
}

func TestMonthlyLabels(t *testing.T) {
	_, result, err := newPipeline(t).Monthly(context.Background(), facility(t),
		pipeline.Source{Name: "statement.pdf", Reader: strings.NewReader("%PDF-1.4")}, roster(t))
	require.NoError(t, err)

	type key struct {
		name string
		day  int
	}
	got := map[key]models.Label{}
	for _, row := range result.Table.Rows {
		got[key{row.FullName, row.SwipeDate.Day()}] = row.Note
	}

	expected := map[key]models.Label{
		{"JANE DOE", 1}:  models.LabelDHSPaid,
		{"JANE DOE", 2}:  models.LabelNonTraditional,
		{"JANE DOE", 3}:  models.LabelNotPaid,
		{"TOM SMITH", 2}: models.LabelExtraCopay,
		{"TOM SMITH", 3}: models.LabelNotPaid,
		{"AMY LEE", 1}:   models.LabelNotPaid,
	}
	assert.Equal(t, expected, got)
}

func readCells(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	return rows
}
