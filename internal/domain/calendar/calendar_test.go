package calendar

import (
	"testing"
	"time"
)

func TestExpectedHoursJanuary2025(t *testing.T) {
	// January 2025 has 23 business days.
	hours := ExpectedHours(2025, 1, "")
	if hours != 184 {
		t.Fatalf("expected 184 hours, got %v", hours)
	}
}

func TestExpectedHoursSubtractsHolidaysOnBusinessDays(t *testing.T) {
	// 2025-01-01 is a Wednesday, 2025-01-04 a Saturday. Only the
	// Wednesday reduces the total.
	hours := ExpectedHours(2025, 1, "2025-01-01,2025-01-04")
	if hours != 176 {
		t.Fatalf("expected 176 hours, got %v", hours)
	}
}

func TestExpectedHoursIgnoresMalformedHolidayTokens(t *testing.T) {
	hours := ExpectedHours(2025, 1, "garbage, ,2025-13-99,2025-01-01")
	if hours != 176 {
		t.Fatalf("expected 176 hours, got %v", hours)
	}
}

func TestIsWeekend(t *testing.T) {
	sat := time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC)
	sun := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	mon := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	if !IsWeekend(sat) || !IsWeekend(sun) {
		t.Fatal("expected saturday and sunday to be weekend")
	}
	if IsWeekend(mon) {
		t.Fatal("expected monday to be a working day")
	}
}

func TestWorkingDaysBetweenInclusive(t *testing.T) {
	// Mon 2025-01-06 through Fri 2025-01-10.
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	if got := WorkingDaysBetween(start, end); got != 5 {
		t.Fatalf("expected 5 working days, got %d", got)
	}
}

func TestWorkingDaysBetweenSwapsReversedBounds(t *testing.T) {
	start := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	if got := WorkingDaysBetween(start, end); got != 5 {
		t.Fatalf("expected 5 working days on reversed bounds, got %d", got)
	}
}

func TestWorkingDaysBetweenSingleWeekendDay(t *testing.T) {
	sat := time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC)
	if got := WorkingDaysBetween(sat, sat); got != 0 {
		t.Fatalf("expected 0 working days, got %d", got)
	}
}

func TestWorkingDaysOverlapClampsToMonth(t *testing.T) {
	// Leave spanning Jan 30 (Thu) to Feb 4 (Tue) 2025: Jan part is
	// Thu 30 + Fri 31 = 2 working days.
	start := time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 4, 0, 0, 0, 0, time.UTC)
	if got := WorkingDaysOverlap(start, end, 2025, 1); got != 2 {
		t.Fatalf("expected 2 working days in january, got %d", got)
	}
	// Feb part is Mon 3 + Tue 4 = 2 working days.
	if got := WorkingDaysOverlap(start, end, 2025, 2); got != 2 {
		t.Fatalf("expected 2 working days in february, got %d", got)
	}
}

func TestWorkingDaysOverlapDisjoint(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if got := WorkingDaysOverlap(start, end, 2025, 1); got != 0 {
		t.Fatalf("expected 0 for disjoint range, got %d", got)
	}
}
