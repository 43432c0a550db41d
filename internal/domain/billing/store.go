package billing

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store reads billing inputs off the reconciliation records. Billing
// has no tables of its own; reconciled hours and rates are the source
// of truth.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// row is one worker-month as billing sees it.
type row struct {
	CitiEmail   string
	Name        string
	ProjectCode string
	ProjectName string
	BillingRate float64
	Hours       float64
}

func (s *Store) MonthRows(ctx context.Context, month string) ([]row, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT citi_email, name, project_code, project_name, billing_rate, reconciled_hours
		FROM recon_records
		WHERE month = $1
		ORDER BY project_code, citi_email`, month)
	if err != nil {
		return nil, fmt.Errorf("query billing rows: %w", err)
	}
	defer rows.Close()

	var out []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.CitiEmail, &r.Name, &r.ProjectCode, &r.ProjectName, &r.BillingRate, &r.Hours); err != nil {
			return nil, fmt.Errorf("scan billing row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// MonthlyTotals returns the billed amount per month across all time,
// oldest first. An empty projectCode covers every project.
func (s *Store) MonthlyTotals(ctx context.Context, projectCode string) ([]MonthTotal, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT month, COALESCE(SUM(reconciled_hours * billing_rate), 0)
		FROM recon_records
		WHERE $1 = '' OR lower(project_code) = lower($1)
		GROUP BY month
		ORDER BY month`, projectCode)
	if err != nil {
		return nil, fmt.Errorf("query monthly totals: %w", err)
	}
	defer rows.Close()

	var out []MonthTotal
	for rows.Next() {
		var mt MonthTotal
		if err := rows.Scan(&mt.Month, &mt.Amount); err != nil {
			return nil, fmt.Errorf("scan monthly total: %w", err)
		}
		out = append(out, mt)
	}
	return out, rows.Err()
}
