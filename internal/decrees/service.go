package decrees

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CacheBumper invalidates derived caches after decree mutations. The auditor
// cache implements it; tests may pass nil.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// Service coordinates decree persistence and cache invalidation.
type Service struct {
	repo  Repository
	bump  CacheBumper
	clock func() time.Time
}

// NewService constructs a decree service.
func NewService(repo Repository, bump CacheBumper) *Service {
	return &Service{repo: repo, bump: bump, clock: func() time.Time { return time.Now().UTC() }}
}

// List returns a filtered page of decrees plus the total match count.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Decree, int, error) {
	return s.repo.List(ctx, filter)
}

// ListAll returns every decree; the consistency auditor consumes this.
func (s *Service) ListAll(ctx context.Context) ([]Decree, error) {
	return s.repo.ListAll(ctx)
}

// Get fetches one decree by ID.
func (s *Service) Get(ctx context.Context, id string) (*Decree, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new decree and invalidates the audit cache.
func (s *Service) Create(ctx context.Context, req CreateDecreeRequest) (*Decree, error) {
	now := s.clock()
	d := Decree{
		ID:           uuid.NewString(),
		ActNumber:    req.ActNumber,
		RUT:          req.RUT,
		Name:         req.Name,
		Kind:         req.Kind,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Days:         req.Days,
		DaysEntitled: req.DaysEntitled,
		FirstPeriod:  req.FirstPeriod,
		SecondPeriod: req.SecondPeriod,
		Notes:        req.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &d, nil
}

// Update replaces a decree's fields and invalidates the audit cache.
func (s *Service) Update(ctx context.Context, id string, req UpdateDecreeRequest) (*Decree, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	d := *existing
	d.ActNumber = req.ActNumber
	d.RUT = req.RUT
	d.Name = req.Name
	d.Kind = req.Kind
	d.StartDate = req.StartDate
	d.EndDate = req.EndDate
	d.Days = req.Days
	d.DaysEntitled = req.DaysEntitled
	d.FirstPeriod = req.FirstPeriod
	d.SecondPeriod = req.SecondPeriod
	d.Notes = req.Notes
	d.UpdatedAt = s.clock()
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("update decree %s: %w", id, err)
	}
	s.invalidate(ctx)
	return &d, nil
}

// Delete removes a decree and invalidates the audit cache.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.bump == nil {
		return
	}
	// Best effort; a stale audit cache expires on its own TTL.
	_ = s.bump.Bump(ctx)
}
