package leave

import (
	"errors"
	"time"

	"timerecon/internal/domain/calendar"
)

var ErrInvalidRange = errors.New("end date before start date")

// RequestDays returns the working-day count of a request interval. The
// count is fixed at creation time and never recomputed on status changes.
func RequestDays(start, end time.Time) (float64, error) {
	if end.Before(start) {
		return 0, ErrInvalidRange
	}
	return float64(calendar.WorkingDaysBetween(start, end)), nil
}

// HoursInMonth returns the leave hours attributable to one month.
// Only Approved requests count; each contributes its working-day
// overlap with the month at eight hours per day. Multi-month requests
// prorate correctly because callers invoke this once per affected
// month.
func HoursInMonth(requests []Request, year, month int) float64 {
	hours := 0.0
	for _, req := range requests {
		if req.Status != StatusApproved {
			continue
		}
		days := calendar.WorkingDaysOverlap(req.StartDate, req.EndDate, year, month)
		hours += float64(days) * calendar.HoursPerDay
	}
	return hours
}

// EffectiveExpectedHours nets approved leave out of the raw calendar
// expectation, floored at zero. Everything downstream of the leave
// module sees only this figure.
func EffectiveExpectedHours(rawExpected, leaveHours float64) float64 {
	effective := rawExpected - leaveHours
	if effective < 0 {
		return 0
	}
	return effective
}
