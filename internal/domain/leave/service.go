package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"timerecon/internal/domain/calendar"
)

var (
	ErrNotFound      = errors.New("leave request not found")
	ErrInvalidStatus = errors.New("invalid leave status")
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

// Submit creates a request in Pending state with its working-day count
// precomputed.
func (s *Service) Submit(ctx context.Context, req Request) (Request, error) {
	days, err := RequestDays(req.StartDate, req.EndDate)
	if err != nil {
		return Request{}, err
	}
	req.Days = days
	req.Status = StatusPending

	id, err := s.Store.Create(ctx, req)
	if err != nil {
		return Request{}, fmt.Errorf("create leave request: %w", err)
	}
	return s.Store.Get(ctx, id)
}

func (s *Service) ListByYear(ctx context.Context, year int, status string) ([]Request, error) {
	if status != "" && !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.Store.ListByYear(ctx, year, status)
}

// SetStatus transitions a request to Pending, Approved or Rejected.
func (s *Service) SetStatus(ctx context.Context, id, status string) (Request, error) {
	if !ValidStatus(status) {
		return Request{}, ErrInvalidStatus
	}
	affected, err := s.Store.UpdateStatus(ctx, id, status)
	if err != nil {
		return Request{}, err
	}
	if affected == 0 {
		return Request{}, ErrNotFound
	}
	return s.Store.Get(ctx, id)
}

// ApprovedLeaveHours returns the approved leave hours attributable to
// one (email, month) pair. Callers working with multi-month requests
// must call once per affected month.
func (s *Service) ApprovedLeaveHours(ctx context.Context, citiEmail string, year, month int) (float64, error) {
	monthStart, monthEnd := calendar.MonthRange(year, month)
	requests, err := s.Store.ApprovedIntersecting(ctx, citiEmail, monthStart, monthEnd)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return HoursInMonth(requests, year, month), nil
}
