package leave

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, req Request) (string, error) {
	var workerID any
	if req.WorkerID != "" {
		workerID = req.WorkerID
	}
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (worker_id, citi_email, start_date, end_date, days, leave_type, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, workerID, req.CitiEmail, req.StartDate, req.EndDate, req.Days, req.LeaveType, req.Reason, req.Status).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id string) (Request, error) {
	var req Request
	var workerID *string
	err := s.DB.QueryRow(ctx, `
    SELECT id, worker_id, citi_email, start_date, end_date, days, leave_type, reason, status, created_at, updated_at
    FROM leave_requests
    WHERE id = $1
  `, id).Scan(&req.ID, &workerID, &req.CitiEmail, &req.StartDate, &req.EndDate, &req.Days, &req.LeaveType, &req.Reason, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return Request{}, err
	}
	if workerID != nil {
		req.WorkerID = *workerID
	}
	return req, nil
}

func (s *Store) ListByYear(ctx context.Context, year int, status string) ([]Request, error) {
	yearStart := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)

	query := `
    SELECT id, worker_id, citi_email, start_date, end_date, days, leave_type, reason, status, created_at, updated_at
    FROM leave_requests
    WHERE start_date <= $2 AND end_date >= $1
  `
	args := []any{yearStart, yearEnd}
	if status != "" {
		query += " AND status = $3"
		args = append(args, status)
	}
	query += " ORDER BY start_date, created_at"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

// ApprovedIntersecting returns the Approved requests for an email whose
// interval touches [monthStart, monthEnd].
func (s *Store) ApprovedIntersecting(ctx context.Context, citiEmail string, monthStart, monthEnd time.Time) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, worker_id, citi_email, start_date, end_date, days, leave_type, reason, status, created_at, updated_at
    FROM leave_requests
    WHERE citi_email = $1 AND status = $2 AND start_date <= $4 AND end_date >= $3
  `, citiEmail, StatusApproved, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

// UpdateStatus mutates only the status column; the day count computed
// at creation stands.
func (s *Store) UpdateStatus(ctx context.Context, id, status string) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET status = $2, updated_at = now()
    WHERE id = $1
  `, id, status)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanRequests(rows pgx.Rows) ([]Request, error) {
	var out []Request
	for rows.Next() {
		var req Request
		var workerID *string
		if err := rows.Scan(&req.ID, &workerID, &req.CitiEmail, &req.StartDate, &req.EndDate, &req.Days, &req.LeaveType, &req.Reason, &req.Status, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, err
		}
		if workerID != nil {
			req.WorkerID = *workerID
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
