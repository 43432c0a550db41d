package chatquery

import (
	"errors"
	"testing"
)

func TestValidateAccepts(t *testing.T) {
	good := []string{
		"SELECT * FROM workers",
		"select citi_email, month from recon_records where month = '2025-01';",
		"SELECT w.name, r.reconciled_status FROM workers w JOIN recon_records r ON w.citi_email = r.citi_email",
	}
	for _, q := range good {
		if err := Validate(q); err != nil {
			t.Fatalf("Validate(%q): %v", q, err)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		query string
		want  error
	}{
		{"", ErrNotSelect},
		{"DELETE FROM workers", ErrNotSelect},
		{"explain SELECT * FROM workers", ErrNotSelect},
		{"WITH m AS (SELECT 1) SELECT * FROM m", ErrNotSelect},
		{"SELECT 1; SELECT 2", ErrMultiStatement},
		{"SELECT * FROM workers WHERE id = (DELETE FROM workers RETURNING id)", ErrForbiddenWord},
		{"SELECT pg_sleep(60) FROM workers", ErrForbiddenWord},
		{"SELECT * FROM pg_catalog.pg_tables", ErrTableNotAllowed},
		{"SELECT * FROM secrets", ErrTableNotAllowed},
	}
	for _, tc := range cases {
		err := Validate(tc.query)
		if !errors.Is(err, tc.want) {
			t.Fatalf("Validate(%q): got %v, want %v", tc.query, err, tc.want)
		}
	}
}
