package parser

import (
	"context"
	"io"

	"honeybee/attendance-engine/internal/models"
)

// AttendanceParser reads the facility attendance export. The filename selects
// the workbook format and is quoted in errors.
type AttendanceParser interface {
	ParseAttendance(r io.Reader, filename string) ([]models.AttendanceEvent, error)
}

// PaymentParser reads an agency payment source. The context bounds any
// external conversion the reader runs.
type PaymentParser interface {
	ParsePayments(ctx context.Context, r io.Reader, filename string) ([]models.PaymentEvent, error)
}

// RosterParser reads the authorization roster.
type RosterParser interface {
	ParseRoster(r io.Reader, filename string) ([]models.AuthorizationRecord, error)
}
