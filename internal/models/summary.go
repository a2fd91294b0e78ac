package models

import (
	"time"

	"github.com/google/uuid"
)

// Mode names the pipeline variant that produced a table.
type Mode string

const (
	ModeDaily   Mode = "daily"
	ModeMonthly Mode = "monthly"
)

// Summary describes one reconciliation run.
type Summary struct {
	RunID             string         `yaml:"run_id"`
	Mode              Mode           `yaml:"mode"`
	GeneratedAt       time.Time      `yaml:"generated_at"`
	AttendanceEvents  int            `yaml:"attendance_events"`
	PaymentEvents     int            `yaml:"payment_events"`
	AuthorizationRows int            `yaml:"authorization_rows,omitempty"`
	Rows              int            `yaml:"rows"`
	AmbiguousMatches  int            `yaml:"ambiguous_matches"`
	Labels            map[string]int `yaml:"labels"`
}

// NewSummary starts a summary with a fresh run id.
func NewSummary(mode Mode, now time.Time) Summary {
	return Summary{
		RunID:       uuid.NewString(),
		Mode:        mode,
		GeneratedAt: now,
		Labels:      map[string]int{},
	}
}

// Record fills the row and label counts from the final table.
func (s *Summary) Record(table ReconciledTable) {
	s.Rows = table.Len()
	s.Labels = make(map[string]int)
	for label, n := range table.LabelCounts() {
		s.Labels[label.String()] = n
	}
}
