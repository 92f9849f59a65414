package timeslot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     string
		want                           bool
	}{
		{"identical", "09:00", "10:00", "09:00", "10:00", true},
		{"partial", "09:00", "10:00", "09:30", "10:30", true},
		{"contained", "09:00", "12:00", "10:00", "11:00", true},
		{"touching end to start", "09:00", "10:00", "10:00", "11:00", false},
		{"touching start to end", "10:00", "11:00", "09:00", "10:00", false},
		{"disjoint", "09:00", "10:00", "11:00", "12:00", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
			// symmetry
			assert.Equal(t, tc.want, Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd))
		})
	}
}

func TestDateRange(t *testing.T) {
	dates, err := DateRange("2025-08-25", "2025-08-29")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-08-25", "2025-08-26", "2025-08-27", "2025-08-28", "2025-08-29"}, dates)
}

func TestDateRangeSingleDay(t *testing.T) {
	dates, err := DateRange("2025-08-25", "2025-08-25")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-08-25"}, dates)
}

func TestDateRangeInverted(t *testing.T) {
	dates, err := DateRange("2025-08-26", "2025-08-25")
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestDateRangeCrossesMonthBoundary(t *testing.T) {
	dates, err := DateRange("2025-08-30", "2025-09-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-08-30", "2025-08-31", "2025-09-01", "2025-09-02"}, dates)
}

func TestDateRangeInvalidInput(t *testing.T) {
	_, err := DateRange("2025-8-25", "2025-08-29")
	assert.Error(t, err)

	_, err = DateRange("2025-08-25", "not-a-date")
	assert.Error(t, err)
}

func TestDayOfWeek(t *testing.T) {
	// 2025-08-24 is a Sunday.
	for offset, want := range []int{0, 1, 2, 3, 4, 5, 6} {
		dates, err := DateRange("2025-08-24", "2025-08-30")
		require.NoError(t, err)
		got, err := DayOfWeek(dates[offset])
		require.NoError(t, err)
		assert.Equal(t, want, got, "date %s", dates[offset])
	}
}

func TestSteps(t *testing.T) {
	slots, err := Steps("09:00", "12:00", 30)
	require.NoError(t, err)
	require.Len(t, slots, 6)
	assert.Equal(t, Slot{Start: "09:00", End: "09:30"}, slots[0])
	assert.Equal(t, Slot{Start: "11:30", End: "12:00"}, slots[5])
}

func TestStepsDiscardsPartialSlot(t *testing.T) {
	slots, err := Steps("09:00", "10:45", 30)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, "10:30", slots[2].End)
}

func TestStepsWindowShorterThanInterval(t *testing.T) {
	slots, err := Steps("09:00", "09:20", 30)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestStepsNonPositiveInterval(t *testing.T) {
	_, err := Steps("09:00", "12:00", 0)
	assert.Error(t, err)

	_, err = Steps("09:00", "12:00", -15)
	assert.Error(t, err)
}

func TestStepsInvalidTimes(t *testing.T) {
	_, err := Steps("9am", "12:00", 30)
	assert.Error(t, err)

	_, err = Steps("09:00", "25:00", 30)
	assert.Error(t, err)
}
