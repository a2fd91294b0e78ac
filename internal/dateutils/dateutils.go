// Package dateutils provides the date parsing and formatting shared by the
// attendance and payment parsers and the report writer.
package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Date layouts seen in facility and agency exports.
const (
	DateLayoutISO   = "2006-01-02"
	DateLayoutUS    = "01/02/2006"
	DateLayoutShort = "1/2/2006"
	DateLayoutFull  = "2006-01-02 15:04:05"
)

// CommonFormats is the ordered list of layouts tried by ParseFlexible.
var CommonFormats = []string{
	DateLayoutUS,
	DateLayoutShort,
	DateLayoutISO,
	DateLayoutFull,
	time.RFC3339,
	"01-02-2006",
	"01-02-06",
	"1/2/06",
	"01/02/2006 15:04",
	"January 2, 2006",
	"Jan 2, 2006",
}

var (
	whitespace  = regexp.MustCompile(`\s+`)
	serialValue = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

var monthNames = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

// CleanDateString trims and collapses internal whitespace.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseFlexible parses a date cell. Spreadsheet serial numbers are accepted
// alongside the layouts in CommonFormats. The result is truncated to the day.
func ParseFlexible(raw string) (time.Time, error) {
	cleaned := CleanDateString(raw)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if serialValue.MatchString(cleaned) {
		serial, err := strconv.ParseFloat(cleaned, 64)
		if err == nil && serial > 0 {
			t, err := excelize.ExcelDateToTime(serial, false)
			if err == nil {
				return Day(t), nil
			}
		}
	}

	for _, layout := range CommonFormats {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return Day(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", raw)
}

// ParseUS parses a strict MM/DD/YYYY date.
func ParseUS(raw string) (time.Time, error) {
	return time.Parse(DateLayoutUS, strings.TrimSpace(raw))
}

// FormatUS renders a date as MM/DD/YYYY; the zero time renders empty.
func FormatUS(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateLayoutUS)
}

// Day drops the clock part of t and pins it to UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// MonthFromName resolves a full English month name, ignoring case.
func MonthFromName(name string) (time.Month, bool) {
	m, ok := monthNames[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// CompareDates orders two dates by calendar day:
//
//	-1 if date1 is before date2
//	 0 if they fall on the same day
//	 1 if date1 is after date2
func CompareDates(date1, date2 time.Time) int {
	date1 = Day(date1)
	date2 = Day(date2)

	switch {
	case date1.Before(date2):
		return -1
	case date1.After(date2):
		return 1
	default:
		return 0
	}
}
