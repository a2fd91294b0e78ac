package report

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/gocarina/gocsv"

	"honeybee/attendance-engine/internal/models"
)

// csvRow is one CSV line. Field tags are the report headers.
type csvRow struct {
	FullName    string `csv:"FULL NAME"`
	CasePerson  string `csv:"CASE/PERSON"`
	SwipeDate   string `csv:"SWIPE DATE"`
	CopayAP     string `csv:"COPAY AP"`
	AmountPaid  string `csv:"AMOUNT PAID"`
	Note        string `csv:"NOTE"`
	CopayExtra  string `csv:"COPAY EXTRA"`
	AmountExtra string `csv:"AMOUNT EXTRA"`
}

func (g *ReportGenerator) generateCSV(table models.ReconciledTable) (*bytes.Buffer, error) {
	rows := make([]csvRow, 0, table.Len())
	for _, row := range table.Rows {
		values := cells(row)
		rows = append(rows, csvRow{
			FullName:    display(values[0]),
			CasePerson:  display(values[1]),
			SwipeDate:   display(values[2]),
			CopayAP:     models.FormatAmount(row.CopayAP),
			AmountPaid:  models.FormatAmount(row.AmountPaid),
			Note:        display(values[5]),
			CopayExtra:  models.FormatAmount(row.CopayExtra),
			AmountExtra: models.FormatAmount(row.AmountExtra),
		})
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(writer)); err != nil {
		g.logger.WithError(err).Error("Failed to marshal CSV report")
		return nil, fmt.Errorf("failed to marshal CSV report: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV report: %w", err)
	}
	return &buf, nil
}
