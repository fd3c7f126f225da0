package donor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
)

// ErrNotAuthenticated is returned when a write is attempted without an
// authenticated actor id.
var ErrNotAuthenticated = errors.New("not authenticated")

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

const (
	defaultLeaderboardSize = 20
	maxLeaderboardSize     = 100
)

type Service struct {
	repo  Repository
	cache *LeaderboardCache
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SetLeaderboardCache enables the redis-backed leaderboard cache. Without it
// every leaderboard read goes to the repository.
func (s *Service) SetLeaderboardCache(c *LeaderboardCache) { s.cache = c }

func (s *Service) validate(d *Donor) error {
	if d.UserID == "" {
		return invalid("user_id", "is required")
	}
	if d.Name == "" {
		return invalid("name", "is required")
	}
	if !d.BloodGroup.Valid() {
		return invalid("blood_group", "must be one of the eight ABO/Rh groups")
	}
	return nil
}

func (s *Service) Register(ctx context.Context, actorID string, d *Donor) error {
	if actorID == "" {
		return ErrNotAuthenticated
	}
	if d.UserID == "" {
		d.UserID = actorID
	}
	if err := s.validate(d); err != nil {
		return err
	}
	// Aggregate counters always start at zero regardless of the payload.
	d.Donations = 0
	d.LivesImpacted = 0
	d.Ranking = 0
	if err := s.repo.Create(ctx, d); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Donor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (*Donor, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *Service) Update(ctx context.Context, actorID string, d *Donor) error {
	if actorID == "" {
		return ErrNotAuthenticated
	}
	if err := s.validate(d); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, d); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) Delete(ctx context.Context, actorID string, id uuid.UUID) error {
	if actorID == "" {
		return ErrNotAuthenticated
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Donor, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByGroups(ctx context.Context, groups []blood.Group) ([]*Donor, error) {
	return s.repo.ListByGroups(ctx, groups)
}

// Leaderboard returns the top donors by donation count, serving from the
// cache when one is configured and warm. The cache always holds the full
// top maxLeaderboardSize snapshot so requests with different limits are all
// answered by slicing the same entry.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]*Donor, error) {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}
	if limit > maxLeaderboardSize {
		limit = maxLeaderboardSize
	}
	if s.cache != nil {
		if items, ok := s.cache.Get(ctx); ok {
			if len(items) > limit {
				items = items[:limit]
			}
			return items, nil
		}
	}
	items, err := s.repo.Leaderboard(ctx, maxLeaderboardSize)
	if err != nil {
		return nil, err
	}
	for i, d := range items {
		d.Ranking = i + 1
	}
	if s.cache != nil {
		s.cache.Set(ctx, items)
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// RecordDonation bumps the aggregate counters after a fulfilled request. Each
// donated unit is counted as up to three lives impacted.
func (s *Service) RecordDonation(ctx context.Context, userID string, units int) error {
	d, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	d.Donations++
	d.LivesImpacted += units * 3
	if err := s.repo.Update(ctx, d); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
