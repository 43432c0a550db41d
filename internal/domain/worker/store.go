package worker

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const profileColumns = `
    id, employee_id, name, cg_email, citi_email, region_code, region_name,
    default_project_code, billing_rate, status, annual_leave_allowance,
    start_date, end_date, created_at, updated_at`

func (s *Store) List(ctx context.Context) ([]Profile, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+profileColumns+` FROM workers ORDER BY name, citi_email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Profile, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+profileColumns+` FROM workers WHERE id = $1`, id)
	return scanProfile(row)
}

func (s *Store) Create(ctx context.Context, p Profile) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO workers (employee_id, name, cg_email, citi_email, region_code, region_name,
                         default_project_code, billing_rate, status, annual_leave_allowance, start_date, end_date)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    RETURNING id
  `, p.EmployeeID, p.Name, p.CGEmail, p.CitiEmail, p.RegionCode, p.RegionName,
		p.DefaultProjectCode, p.BillingRate, p.Status, p.AnnualLeaveAllowance, p.StartDate, p.EndDate).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, p Profile) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE workers
    SET employee_id = $2, name = $3, cg_email = $4, citi_email = $5,
        region_code = $6, region_name = $7, default_project_code = $8,
        billing_rate = $9, annual_leave_allowance = $10,
        start_date = $11, end_date = $12, updated_at = now()
    WHERE id = $1
  `, p.ID, p.EmployeeID, p.Name, p.CGEmail, p.CitiEmail, p.RegionCode, p.RegionName,
		p.DefaultProjectCode, p.BillingRate, p.AnnualLeaveAllowance, p.StartDate, p.EndDate)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) SetStatus(ctx context.Context, id, status string, endDate any) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE workers
    SET status = $2, end_date = COALESCE($3, end_date), updated_at = now()
    WHERE id = $1
  `, id, status, endDate)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// UpsertFromIngest creates or refreshes a profile from a merged monthly
// row. Matching is by citi email, falling back to employee id; empty
// incoming fields never null out existing values.
func (s *Store) UpsertFromIngest(ctx context.Context, tx pgx.Tx, u Upsert) error {
	var id string
	var err error
	switch {
	case u.CitiEmail != "":
		err = tx.QueryRow(ctx, `SELECT id FROM workers WHERE citi_email = $1`, u.CitiEmail).Scan(&id)
	case u.EmployeeID != "":
		err = tx.QueryRow(ctx, `SELECT id FROM workers WHERE employee_id = $1 ORDER BY created_at LIMIT 1`, u.EmployeeID).Scan(&id)
	default:
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		_, err = tx.Exec(ctx, `
      INSERT INTO workers (employee_id, name, cg_email, citi_email, region_code, region_name, default_project_code, billing_rate)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    `, u.EmployeeID, u.Name, u.CGEmail, u.CitiEmail, u.RegionCode, u.RegionName, u.ProjectCode, u.BillingRate)
		return err
	}
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
    UPDATE workers
    SET employee_id = COALESCE(NULLIF($2, ''), employee_id),
        name = COALESCE(NULLIF($3, ''), name),
        cg_email = COALESCE(NULLIF($4, ''), cg_email),
        citi_email = COALESCE(NULLIF($5, ''), citi_email),
        region_code = COALESCE(NULLIF($6, ''), region_code),
        region_name = COALESCE(NULLIF($7, ''), region_name),
        default_project_code = COALESCE(NULLIF($8, ''), default_project_code),
        billing_rate = CASE WHEN $9 > 0 THEN $9 ELSE billing_rate END,
        updated_at = now()
    WHERE id = $1
  `, id, u.EmployeeID, u.Name, u.CGEmail, u.CitiEmail, u.RegionCode, u.RegionName, u.ProjectCode, u.BillingRate)
	return err
}

// Sync applies a batch of ingest upserts in one transaction.
func (s *Store) Sync(ctx context.Context, upserts []Upsert) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, u := range upserts {
		if err := s.UpsertFromIngest(ctx, tx, u); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.EmployeeID, &p.Name, &p.CGEmail, &p.CitiEmail, &p.RegionCode, &p.RegionName,
		&p.DefaultProjectCode, &p.BillingRate, &p.Status, &p.AnnualLeaveAllowance,
		&p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Profile{}, err
	}
	return p, nil
}
