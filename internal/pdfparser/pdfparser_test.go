package pdfparser

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honeybee/attendance-engine/internal/logging"
	"honeybee/attendance-engine/internal/models"
	"honeybee/attendance-engine/internal/parsererror"
)

const statement = `STATE CHILD CARE ASSISTANCE
PROVIDER PAYMENT DETAIL
CASE/PERSON: 1234567/01 NAME: DOE
JANE
SWIPE DATE COPAY AMOUNT
03/04/2024
2.00
14.00
03/05/2024 0.00 25.50
PAGE TOTAL
CASE/PERSON: 7654321/02 NAME: SMITH TOM
03/04/2024
5.00` + "\f" + `CONTINUED
03/06/2024
1.00

3.00
`

func march(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestParseText(t *testing.T) {
	p := NewParser(NewMockPDFExtractor("", nil), logging.NewMockLogger())

	events, err := p.ParseText(statement, "statement.pdf")
	require.NoError(t, err)

	expected := []models.PaymentEvent{
		{FullName: "DOE JANE", CasePerson: "1234567/01", SwipeDate: march(4), CopayAP: models.AmountFromFloat(2), AmountPaid: models.AmountFromFloat(14)},
		{FullName: "DOE JANE", CasePerson: "1234567/01", SwipeDate: march(5), CopayAP: models.AmountFromFloat(0), AmountPaid: models.AmountFromFloat(25.5)},
		{FullName: "SMITH TOM", CasePerson: "7654321/02", SwipeDate: march(4), CopayAP: models.AmountFromFloat(5), AmountPaid: models.Zero()},
		{FullName: "SMITH TOM", CasePerson: "7654321/02", SwipeDate: march(6), CopayAP: models.AmountFromFloat(1), AmountPaid: models.AmountFromFloat(3)},
	}
	require.Len(t, events, len(expected))
	for i := range expected {
		assertEvent(t, expected[i], events[i])
	}
}

func assertEvent(t *testing.T, expected, actual models.PaymentEvent) {
	t.Helper()
	assert.Equal(t, expected.FullName, actual.FullName)
	assert.Equal(t, expected.CasePerson, actual.CasePerson)
	assert.Equal(t, expected.SwipeDate, actual.SwipeDate)
	assert.True(t, expected.CopayAP.Decimal.Equal(actual.CopayAP.Decimal), "copay %s != %s", expected.CopayAP.Decimal, actual.CopayAP.Decimal)
	assert.True(t, expected.AmountPaid.Decimal.Equal(actual.AmountPaid.Decimal), "amount %s != %s", expected.AmountPaid.Decimal, actual.AmountPaid.Decimal)
	assert.True(t, actual.CopayAP.Valid)
	assert.True(t, actual.AmountPaid.Valid)
}

func TestParseText_NameStopsAtSwipeToken(t *testing.T) {
	text := "CASE/PERSON: 111/01 NAME: LEE\nANN MARIE\nswipe date\n03/01/2024 1 2\n"
	events, err := NewParser(nil, nil).ParseText(text, "s.pdf")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "LEE ANN MARIE", events[0].FullName)
}

func TestParseText_NameStopsAtDigitLine(t *testing.T) {
	text := "CASE/PERSON: 111/01 NAME: LEE ANN\n03/01/2024\n4\n"
	events, err := NewParser(nil, nil).ParseText(text, "s.pdf")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "LEE ANN", events[0].FullName)
	assert.Equal(t, "4", events[0].CopayAP.Decimal.String())
	assert.True(t, events[0].AmountPaid.Decimal.IsZero())
}

func TestParseText_CaseLineFlushesPendingGroup(t *testing.T) {
	text := "CASE/PERSON: 111/01 NAME: FIRST PERSON\n\n03/01/2024\n1\nCASE/PERSON: 222/01 NAME: SECOND PERSON\n\n2\n"
	events, err := NewParser(nil, nil).ParseText(text, "s.pdf")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "FIRST PERSON", events[0].FullName)
	assert.Equal(t, "111/01", events[0].CasePerson)
}

func TestParseText_CaseWithoutNameKeepsName(t *testing.T) {
	text := "CASE/PERSON: 111/01 NAME: JANE DOE\n\n03/01/2024 1 2\nCASE/PERSON: 111/02\n03/02/2024 3 4\n"
	events, err := NewParser(nil, nil).ParseText(text, "s.pdf")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "JANE DOE", events[1].FullName)
	assert.Equal(t, "111/02", events[1].CasePerson)
}

func TestParseText_UnreadableDateIsSkipped(t *testing.T) {
	logger := logging.NewMockLogger()
	text := "CASE/PERSON: 1/1 NAME: A B\n\n13/45/2024 1 2\n03/01/2024 1 2\n"
	events, err := NewParser(nil, logger).ParseText(text, "s.pdf")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, march(1), events[0].SwipeDate)
	assert.Len(t, logger.EntriesByLevel("WARN"), 1)
}

func TestParseText_Empty(t *testing.T) {
	logger := logging.NewMockLogger()
	events, err := NewParser(nil, logger).ParseText("\f\f", "empty.pdf")
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.True(t, logger.HasEntry("WARN", "Statement contains no text"))
}

func TestParsePayments_UsesExtractor(t *testing.T) {
	mock := NewMockPDFExtractor("CASE/PERSON: 9/1 NAME: X Y\n\n03/01/2024 1 2\n", nil)
	p := NewParser(mock, nil)

	events, err := p.ParsePayments(context.Background(), bytes.NewBufferString("%PDF-1.5"), "in.pdf")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Len(t, mock.Calls, 1)
	assert.True(t, strings.HasSuffix(mock.Calls[0], ".pdf"))

	_, statErr := os.Stat(mock.Calls[0])
	assert.True(t, os.IsNotExist(statErr), "temporary copy is removed")
}

func TestParsePayments_ExtractorError(t *testing.T) {
	boom := errors.New("boom")
	p := NewParser(NewMockPDFExtractor("", boom), nil)

	_, err := p.ParsePayments(context.Background(), bytes.NewBufferString("x"), "in.pdf")
	assert.ErrorIs(t, err, boom)
}

func TestParsePayments_CancelledContext(t *testing.T) {
	mock := NewMockPDFExtractor("CASE/PERSON: 9/1 NAME: X Y\n\n03/01/2024 1 2\n", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewParser(mock, nil).ParsePayments(ctx, bytes.NewBufferString("%PDF-1.5"), "in.pdf")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, mock.Calls, "extraction never starts")
}

func TestParseText_DateLineNumbers(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		copay  float64
		amount float64
	}{
		{name: "both on date line", body: "03/01/2024 2.00 14.00\n", copay: 2, amount: 14},
		{name: "one per line", body: "03/01/2024\n2.00\n14.00\n", copay: 2, amount: 14},
		{name: "split across date line", body: "03/01/2024 2.00\n14.00\n", copay: 2, amount: 14},
		{name: "extra numbers ignored", body: "03/01/2024 2.00 14.00 99\n", copay: 2, amount: 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "CASE/PERSON: 1/1 NAME: JANE DOE\n\n" + tt.body
			events, err := NewParser(nil, nil).ParseText(text, "s.pdf")
			require.NoError(t, err)
			require.Len(t, events, 1)
			assertEvent(t, models.PaymentEvent{
				FullName:   "JANE DOE",
				CasePerson: "1/1",
				SwipeDate:  march(1),
				CopayAP:    models.AmountFromFloat(tt.copay),
				AmountPaid: models.AmountFromFloat(tt.amount),
			}, events[0])
		})
	}
}

func TestRealPDFExtractor_MissingBinary(t *testing.T) {
	e := NewRealPDFExtractor("/nonexistent/pdftotext", false)
	_, err := e.ExtractText(context.Background(), "doc.pdf")

	var formatErr *parsererror.FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, "doc.pdf", formatErr.FilePath)
}

func TestNewRealPDFExtractor_Defaults(t *testing.T) {
	e := NewRealPDFExtractor("", true)
	assert.Equal(t, DefaultPdftotextPath, e.Path)
	assert.True(t, e.Layout)
}
