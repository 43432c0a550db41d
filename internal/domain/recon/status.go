package recon

import "math"

// Epsilon is the tolerance below which two submitted-hour figures are
// considered equal.
const Epsilon = 0.01

// StatusFrom derives a per-source completion status from the hours a
// source was expected to carry and the hours actually submitted.
func StatusFrom(expected, submitted float64) Status {
	if submitted <= 0 {
		return StatusNotCompleted
	}
	if submitted < expected {
		return StatusPartial
	}
	return StatusCompleted
}

// Reconcile produces the overall verdict and the billable hour figure
// for one (email, month). It is a pure function of its four inputs:
// the two per-source statuses, the two submitted figures, and the
// effective expected hours already net of approved leave.
//
// Mismatch takes priority once both sources submitted non-trivial
// hours and the figures disagree beyond Epsilon.
func Reconcile(statusCG, statusCiti Status, submittedCG, submittedCiti, effectiveExpected float64) (float64, Status) {
	hours := math.Min(submittedCG, math.Min(submittedCiti, effectiveExpected))
	if hours < 0 {
		hours = 0
	}

	var overall Status
	switch {
	case submittedCG <= Epsilon && submittedCiti <= Epsilon:
		overall = StatusNotCompleted
	case math.Abs(submittedCG-submittedCiti) > Epsilon:
		overall = StatusMismatch
	case statusCG == StatusCompleted && statusCiti == StatusCompleted:
		overall = StatusCompleted
	default:
		overall = StatusPartial
	}
	return hours, overall
}

// sourceTarget picks the hour figure a source is measured against: its
// own reported total when positive, otherwise the effective expected
// hours for the month.
func sourceTarget(total, effectiveExpected float64) float64 {
	if total > 0 {
		return total
	}
	return effectiveExpected
}
