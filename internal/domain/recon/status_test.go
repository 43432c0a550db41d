package recon

import "testing"

func TestStatusFromBoundaries(t *testing.T) {
	cases := []struct {
		name      string
		expected  float64
		submitted float64
		want      Status
	}{
		{"exactly expected", 168, 168, StatusCompleted},
		{"just under expected", 168, 167.99, StatusPartial},
		{"over expected", 168, 170, StatusCompleted},
		{"zero submitted", 168, 0, StatusNotCompleted},
		{"negative submitted", 168, -4, StatusNotCompleted},
	}
	for _, tc := range cases {
		if got := StatusFrom(tc.expected, tc.submitted); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestReconcileMismatchTakesPriority(t *testing.T) {
	// 40 vs 30 differs well beyond tolerance; Mismatch wins regardless
	// of the individual statuses.
	hours, status := Reconcile(StatusCompleted, StatusPartial, 40, 30, 168)
	if status != StatusMismatch {
		t.Fatalf("expected Mismatch, got %s", status)
	}
	if hours != 30 {
		t.Fatalf("expected reconciled hours 30, got %v", hours)
	}
}

func TestReconcileBothEmpty(t *testing.T) {
	hours, status := Reconcile(StatusNotCompleted, StatusNotCompleted, 0, 0, 168)
	if status != StatusNotCompleted {
		t.Fatalf("expected Not Completed, got %s", status)
	}
	if hours != 0 {
		t.Fatalf("expected 0 hours, got %v", hours)
	}
}

func TestReconcileCompletedScenario(t *testing.T) {
	// Both sources attest 168h against an effective expectation of
	// 168h.
	statusCG := StatusFrom(168, 168)
	statusCiti := StatusFrom(168, 168)
	hours, status := Reconcile(statusCG, statusCiti, 168, 168, 168)
	if status != StatusCompleted {
		t.Fatalf("expected Completed, got %s", status)
	}
	if hours != 168 {
		t.Fatalf("expected 168 reconciled hours, got %v", hours)
	}
}

func TestReconcileLeaveAdjustedScenario(t *testing.T) {
	// Three approved leave days reduce a 168h month to 144h; matching
	// submissions at the reduced figure complete the month.
	effective := 168.0 - 24.0
	statusCG := StatusFrom(effective, 144)
	statusCiti := StatusFrom(effective, 144)
	hours, status := Reconcile(statusCG, statusCiti, 144, 144, effective)
	if status != StatusCompleted {
		t.Fatalf("expected Completed, got %s", status)
	}
	if hours != 144 {
		t.Fatalf("expected 144 reconciled hours, got %v", hours)
	}
}

func TestReconcileWithinToleranceIsNotMismatch(t *testing.T) {
	_, status := Reconcile(StatusCompleted, StatusCompleted, 160, 160.005, 160)
	if status != StatusCompleted {
		t.Fatalf("expected Completed within tolerance, got %s", status)
	}
}

func TestReconcileHoursNeverExceedAnyCap(t *testing.T) {
	cases := []struct {
		cg, citi, expected float64
		want               float64
	}{
		{160, 150, 168, 150},
		{160, 170, 140, 140},
		{120, 120, 168, 120},
	}
	for _, tc := range cases {
		hours, _ := Reconcile(StatusPartial, StatusPartial, tc.cg, tc.citi, tc.expected)
		if hours != tc.want {
			t.Fatalf("min(%v,%v,%v): expected %v, got %v", tc.cg, tc.citi, tc.expected, tc.want, hours)
		}
	}
}

func TestSourceTargetFallsBackToExpected(t *testing.T) {
	if got := sourceTarget(150, 168); got != 150 {
		t.Fatalf("expected reported total 150, got %v", got)
	}
	if got := sourceTarget(0, 168); got != 168 {
		t.Fatalf("expected fallback 168, got %v", got)
	}
}
