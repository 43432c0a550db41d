// Package calendar decides what counts as a working day. Expected-hours
// and leave-day computations both go through the same primitives so the
// two can never disagree.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// HoursPerDay is the fixed working-day length.
const HoursPerDay = 8.0

func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ParseHolidays parses a comma-separated list of ISO dates. Malformed
// tokens are ignored.
func ParseHolidays(csv string) map[time.Time]struct{} {
	holidays := make(map[time.Time]struct{})
	for _, tok := range strings.Split(csv, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		d, err := time.Parse("2006-01-02", tok)
		if err != nil {
			continue
		}
		holidays[d] = struct{}{}
	}
	return holidays
}

// ExpectedHours returns the expected working hours for a month: eight
// hours for every day that is neither a weekend nor a listed holiday.
func ExpectedHours(year, month int, holidaysCSV string) float64 {
	holidays := ParseHolidays(holidaysCSV)
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	hours := 0.0
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		if IsWeekend(d) {
			continue
		}
		if _, ok := holidays[d]; ok {
			continue
		}
		hours += HoursPerDay
	}
	return hours
}

// WorkingDaysBetween counts non-weekend days in [start, end] inclusive.
// Reversed bounds are swapped, never an error.
func WorkingDaysBetween(start, end time.Time) int {
	start = dateOnly(start)
	end = dateOnly(end)
	if end.Before(start) {
		start, end = end, start
	}
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !IsWeekend(d) {
			count++
		}
	}
	return count
}

// WorkingDaysOverlap counts non-weekend days in the intersection of
// [start, end] with the given month. Zero when the ranges do not overlap.
func WorkingDaysOverlap(start, end time.Time, year, month int) int {
	start = dateOnly(start)
	end = dateOnly(end)
	if end.Before(start) {
		start, end = end, start
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	if start.Before(monthStart) {
		start = monthStart
	}
	if end.After(monthEnd) {
		end = monthEnd
	}
	if end.Before(start) {
		return 0
	}
	return WorkingDaysBetween(start, end)
}

// MonthLabel renders a YYYY-MM month label.
func MonthLabel(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParseMonthLabel parses a YYYY-MM month label.
func ParseMonthLabel(label string) (int, int, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(label))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: %w", label, err)
	}
	return t.Year(), int(t.Month()), nil
}

// MonthRange returns the first and last day of a month.
func MonthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
