package worker

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("worker not found")

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) List(ctx context.Context) ([]Profile, error) {
	return s.Store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Profile, error) {
	p, err := s.Store.Get(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	return p, err
}

func (s *Service) Create(ctx context.Context, p Profile) (Profile, error) {
	if p.Status == "" {
		p.Status = StatusActive
	}
	if p.AnnualLeaveAllowance == 0 {
		p.AnnualLeaveAllowance = 15
	}
	id, err := s.Store.Create(ctx, p)
	if err != nil {
		return Profile{}, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, p Profile) (Profile, error) {
	affected, err := s.Store.Update(ctx, p)
	if err != nil {
		return Profile{}, err
	}
	if affected == 0 {
		return Profile{}, ErrNotFound
	}
	return s.Get(ctx, p.ID)
}

// Onboard reactivates a profile. Profiles are never deleted; Deboard is
// the end of the lifecycle.
func (s *Service) Onboard(ctx context.Context, id string) (Profile, error) {
	affected, err := s.Store.SetStatus(ctx, id, StatusActive, nil)
	if err != nil {
		return Profile{}, err
	}
	if affected == 0 {
		return Profile{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Deboard marks a profile Inactive and stamps the end date.
func (s *Service) Deboard(ctx context.Context, id string, endDate time.Time) (Profile, error) {
	var end any
	if !endDate.IsZero() {
		end = endDate
	}
	affected, err := s.Store.SetStatus(ctx, id, StatusInactive, end)
	if err != nil {
		return Profile{}, err
	}
	if affected == 0 {
		return Profile{}, ErrNotFound
	}
	return s.Get(ctx, id)
}
