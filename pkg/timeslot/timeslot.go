// Package timeslot provides the calendar and interval arithmetic behind
// doctor availability: date-range expansion, day-of-week derivation, and
// fixed-interval subdivision of working windows.
//
// Dates are ISO "YYYY-MM-DD" strings and times are zero-padded 24-hour
// "HH:mm" strings, so lexicographic order equals chronological order and
// intervals can be compared without constructing instants. All date
// arithmetic works on calendar components in UTC; the process timezone
// never shifts a date across midnight.
package timeslot

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Slot is one candidate interval within a working window.
type Slot struct {
	Start string
	End   string
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching intervals (aEnd == bStart) do not
// overlap; identical intervals do. Both intervals must belong to the same
// calendar date; this function compares times only.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && aEnd > bStart
}

// DateRange returns every calendar date from startDate to endDate
// inclusive, ascending. An inverted range yields an empty slice.
func DateRange(startDate, endDate string) ([]string, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return nil, err
	}

	dates := []string{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(dateLayout))
	}
	return dates, nil
}

// DayOfWeek returns the weekday of the given date, 0=Sunday through
// 6=Saturday.
func DayOfWeek(date string) (int, error) {
	d, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return int(d.Weekday()), nil
}

// Steps subdivides the window [startTime, endTime) into consecutive slots
// of intervalMinutes each. A trailing partial slot that would extend past
// endTime is discarded, not truncated.
func Steps(startTime, endTime string, intervalMinutes int) ([]Slot, error) {
	if intervalMinutes <= 0 {
		return nil, fmt.Errorf("interval minutes must be positive, got %d", intervalMinutes)
	}
	start, err := parseMinutes(startTime)
	if err != nil {
		return nil, err
	}
	end, err := parseMinutes(endTime)
	if err != nil {
		return nil, err
	}

	slots := []Slot{}
	for cur := start; cur < end; cur += intervalMinutes {
		next := cur + intervalMinutes
		if next > end {
			break
		}
		slots = append(slots, Slot{Start: formatMinutes(cur), End: formatMinutes(next)})
	}
	return slots, nil
}

// ParseDate parses an ISO calendar date in UTC.
func ParseDate(date string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return d, nil
}

func parseMinutes(t string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(t, "%02d:%02d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", t, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", t)
	}
	return h*60 + m, nil
}

func formatMinutes(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
