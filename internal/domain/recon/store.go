package recon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"timerecon/internal/domain/calendar"
)

// Store persists reconciliation records and daily submissions.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const recordColumns = `id, employee_id, month, name, cg_email, citi_email,
	region_code, region_name, project_name, project_code, billing_rate,
	total_hours_cg, submitted_hours_cg, submitted_on_cg, status_cg,
	total_hours_citi, submitted_hours_citi, holidays, status_citi,
	expected_hours, reconciled_hours, reconciled_status, reminders,
	created_at, updated_at`

// lockMonth serializes all writers touching one month. Concurrent
// uploads for different months proceed in parallel.
func lockMonth(ctx context.Context, tx pgx.Tx, month string) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "recon:"+month)
	if err != nil {
		return fmt.Errorf("lock month %s: %w", month, err)
	}
	return nil
}

// ReplaceMonthRecords swaps out every reconciliation record for one
// month in a single transaction.
func (s *Store) ReplaceMonthRecords(ctx context.Context, month string, records []Record) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockMonth(ctx, tx, month); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM recon_records WHERE month = $1`, month); err != nil {
		return fmt.Errorf("clear month %s: %w", month, err)
	}

	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(`
			INSERT INTO recon_records (
				employee_id, month, name, cg_email, citi_email,
				region_code, region_name, project_name, project_code, billing_rate,
				total_hours_cg, submitted_hours_cg, submitted_on_cg, status_cg,
				total_hours_citi, submitted_hours_citi, holidays, status_citi,
				expected_hours, reconciled_hours, reconciled_status, reminders
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)`,
			r.EmployeeID, month, r.Name, r.CGEmail, r.CitiEmail,
			r.RegionCode, r.RegionName, r.ProjectName, r.ProjectCode, r.BillingRate,
			r.TotalHoursCG, r.SubmittedHoursCG, r.SubmittedOnCG, string(r.StatusCG),
			r.TotalHoursCiti, r.SubmittedHoursCiti, r.Holidays, string(r.StatusCiti),
			r.ExpectedHours, r.ReconciledHours, string(r.ReconciledStatus), r.Reminders)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert records for %s: %w", month, err)
	}

	return tx.Commit(ctx)
}

// ReplaceDailyMonth swaps out both sources' daily rows for one month.
func (s *Store) ReplaceDailyMonth(ctx context.Context, month string, cg, citi []DailyEntry) error {
	start, end, err := monthBounds(month)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockMonth(ctx, tx, month); err != nil {
		return err
	}
	for table, entries := range map[string][]DailyEntry{"cg_daily": cg, "citi_daily": citi} {
		if err := replaceDailyRange(ctx, tx, table, start, end, entries); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// ReplaceDailySource swaps out one source's daily rows for one month,
// leaving the other source untouched.
func (s *Store) ReplaceDailySource(ctx context.Context, source Source, month string, entries []DailyEntry) error {
	start, end, err := monthBounds(month)
	if err != nil {
		return err
	}
	table, err := dailyTable(source)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockMonth(ctx, tx, month); err != nil {
		return err
	}
	if err := replaceDailyRange(ctx, tx, table, start, end, entries); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func replaceDailyRange(ctx context.Context, tx pgx.Tx, table string, start, end time.Time, entries []DailyEntry) error {
	if _, err := tx.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE date >= $1 AND date <= $2`, table), start, end); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(
			fmt.Sprintf(`INSERT INTO %s (citi_email, date, hours, project_code) VALUES ($1,$2,$3,$4)`, table),
			e.CitiEmail, e.Date, e.Hours, e.ProjectCode)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

func dailyTable(source Source) (string, error) {
	switch source {
	case SourceCG:
		return "cg_daily", nil
	case SourceCiti:
		return "citi_daily", nil
	default:
		return "", fmt.Errorf("unknown source %q", source)
	}
}

func monthBounds(month string) (time.Time, time.Time, error) {
	year, m, err := calendar.ParseMonthLabel(month)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	first, last := calendar.MonthRange(year, m)
	return first, last, nil
}

// RecordsForMonth returns the month's records ordered for reporting.
func (s *Store) RecordsForMonth(ctx context.Context, month string) ([]Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+recordColumns+`
		FROM recon_records
		WHERE month = $1
		ORDER BY citi_email`, month)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// RecordFor looks up the single trusted record for a worker-month.
func (s *Store) RecordFor(ctx context.Context, citiEmail, month string) (*Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+recordColumns+`
		FROM recon_records
		WHERE citi_email = $1 AND month = $2`, citiEmail, month)
	if err != nil {
		return nil, fmt.Errorf("query record: %w", err)
	}
	defer rows.Close()
	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrRecordNotFound
	}
	return &records[0], nil
}

// ProjectsForMonth returns the distinct project codes seen in a month.
func (s *Store) ProjectsForMonth(ctx context.Context, month string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT project_code
		FROM recon_records
		WHERE month = $1
		ORDER BY project_code`, month)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

// Months returns every month with data, oldest first.
func (s *Store) Months(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT month FROM recon_records ORDER BY month`)
	if err != nil {
		return nil, fmt.Errorf("query months: %w", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

// DailyForWorker returns one worker's daily rows from one source over
// a month.
func (s *Store) DailyForWorker(ctx context.Context, source Source, citiEmail, month string) ([]DailyEntry, error) {
	start, end, err := monthBounds(month)
	if err != nil {
		return nil, err
	}
	table, err := dailyTable(source)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT citi_email, date, hours, project_code
		FROM %s
		WHERE citi_email = $1 AND date >= $2 AND date <= $3
		ORDER BY date`, table), citiEmail, start, end)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var entries []DailyEntry
	for rows.Next() {
		var e DailyEntry
		if err := rows.Scan(&e.CitiEmail, &e.Date, &e.Hours, &e.ProjectCode); err != nil {
			return nil, fmt.Errorf("scan daily: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// IncrementReminders bumps the reminder counter and returns who was
// nudged. Explicit targets match on employee id or citi email; with a
// status, every record in that status class for the month; otherwise
// every record that is not Completed. Repeated calls keep counting;
// the counter is a ledger, not a flag.
func (s *Store) IncrementReminders(ctx context.Context, month string, targets []string, status Status) ([]ReminderTarget, error) {
	var rows pgx.Rows
	var err error
	switch {
	case len(targets) > 0:
		rows, err = s.pool.Query(ctx, `
			UPDATE recon_records
			SET reminders = reminders + 1, updated_at = now()
			WHERE month = $1 AND (employee_id = ANY($2) OR citi_email = ANY($2))
			RETURNING citi_email, name, month, reminders`, month, targets)
	case status != "":
		rows, err = s.pool.Query(ctx, `
			UPDATE recon_records
			SET reminders = reminders + 1, updated_at = now()
			WHERE month = $1 AND reconciled_status = $2
			RETURNING citi_email, name, month, reminders`, month, string(status))
	default:
		rows, err = s.pool.Query(ctx, `
			UPDATE recon_records
			SET reminders = reminders + 1, updated_at = now()
			WHERE month = $1 AND reconciled_status <> $2
			RETURNING citi_email, name, month, reminders`, month, string(StatusCompleted))
	}
	if err != nil {
		return nil, fmt.Errorf("increment reminders: %w", err)
	}
	defer rows.Close()

	var nudged []ReminderTarget
	for rows.Next() {
		var t ReminderTarget
		if err := rows.Scan(&t.CitiEmail, &t.Name, &t.Month, &t.Reminders); err != nil {
			return nil, fmt.Errorf("scan reminder target: %w", err)
		}
		nudged = append(nudged, t)
	}
	return nudged, rows.Err()
}

func scanRecords(rows pgx.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var r Record
		var statusCG, statusCiti, overall string
		if err := rows.Scan(
			&r.ID, &r.EmployeeID, &r.Month, &r.Name, &r.CGEmail, &r.CitiEmail,
			&r.RegionCode, &r.RegionName, &r.ProjectName, &r.ProjectCode, &r.BillingRate,
			&r.TotalHoursCG, &r.SubmittedHoursCG, &r.SubmittedOnCG, &statusCG,
			&r.TotalHoursCiti, &r.SubmittedHoursCiti, &r.Holidays, &statusCiti,
			&r.ExpectedHours, &r.ReconciledHours, &overall, &r.Reminders,
			&r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.StatusCG = Status(statusCG)
		r.StatusCiti = Status(statusCiti)
		r.ReconciledStatus = Status(overall)
		records = append(records, r)
	}
	return records, rows.Err()
}

func scanStrings(rows pgx.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ErrRecordNotFound reports a worker-month with no reconciliation row.
var ErrRecordNotFound = errors.New("record not found")
