package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlexible(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expectErr bool
		expectedY int
		expectedM time.Month
		expectedD int
	}{
		{"US format", "03/04/2024", false, 2024, time.March, 4},
		{"US short format", "3/4/2024", false, 2024, time.March, 4},
		{"ISO format", "2024-03-04", false, 2024, time.March, 4},
		{"Timestamp", "2024-03-04 08:15:00", false, 2024, time.March, 4},
		{"RFC3339", "2024-03-04T00:00:00Z", false, 2024, time.March, 4},
		{"Excel serial", "45355", false, 2024, time.March, 4},
		{"Excel serial with fraction", "45355.5", false, 2024, time.March, 4},
		{"Padded", "  03/04/2024 ", false, 2024, time.March, 4},
		{"Empty", "", true, 0, 0, 0},
		{"Garbage", "not a date", true, 0, 0, 0},
		{"Impossible day", "02/30/2024", true, 0, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseFlexible(tc.input)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedY, got.Year())
			assert.Equal(t, tc.expectedM, got.Month())
			assert.Equal(t, tc.expectedD, got.Day())
			assert.Equal(t, 0, got.Hour())
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseUS(t *testing.T) {
	got, err := ParseUS("12/31/2023")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseUS("2023-12-31")
	assert.Error(t, err)
}

func TestFormatUS(t *testing.T) {
	assert.Equal(t, "03/04/2024", FormatUS(time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", FormatUS(time.Time{}))
}

func TestMonthFromName(t *testing.T) {
	m, ok := MonthFromName("March")
	assert.True(t, ok)
	assert.Equal(t, time.March, m)

	m, ok = MonthFromName(" SEPTEMBER ")
	assert.True(t, ok)
	assert.Equal(t, time.September, m)

	_, ok = MonthFromName("Mar")
	assert.False(t, ok)
}

func TestSameDayAndCompare(t *testing.T) {
	morning := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC)
	next := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(morning, evening))
	assert.False(t, SameDay(morning, next))
	assert.Equal(t, 0, CompareDates(morning, evening))
	assert.Equal(t, -1, CompareDates(evening, next))
	assert.Equal(t, 1, CompareDates(next, morning))
}

func TestCleanDateString(t *testing.T) {
	assert.Equal(t, "Mar 04, 2024", CleanDateString("  Mar   04,\t2024 "))
}
