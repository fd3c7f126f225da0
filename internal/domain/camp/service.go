package camp

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

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

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validate(c *Camp) error {
	if c.Name == "" {
		return invalid("name", "is required")
	}
	if c.City == "" {
		return invalid("city", "is required")
	}
	if c.StartsAt.IsZero() {
		return invalid("starts_at", "is required")
	}
	if !c.EndsAt.IsZero() && c.EndsAt.Before(c.StartsAt) {
		return invalid("ends_at", "must not be before starts_at")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, actorID string, c *Camp) error {
	if actorID == "" {
		return ErrNotAuthenticated
	}
	c.OrganizerID = actorID
	if err := s.validate(c); err != nil {
		return err
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Camp, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, actorID string, c *Camp) error {
	if actorID == "" {
		return ErrNotAuthenticated
	}
	if err := s.validate(c); err != nil {
		return err
	}
	return s.repo.Update(ctx, c)
}

func (s *Service) Delete(ctx context.Context, actorID string, id uuid.UUID) error {
	if actorID == "" {
		return ErrNotAuthenticated
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, city string, limit, offset int) ([]*Camp, int, error) {
	return s.repo.List(ctx, city, limit, offset)
}

// RegisterDonor signs the acting donor up for a camp. Registering twice for
// the same camp returns ErrAlreadyRegistered.
func (s *Service) RegisterDonor(ctx context.Context, actorID string, campID uuid.UUID) (*Registration, error) {
	if actorID == "" {
		return nil, ErrNotAuthenticated
	}
	if _, err := s.repo.GetByID(ctx, campID); err != nil {
		return nil, err
	}
	r := &Registration{CampID: campID, DonorUserID: actorID}
	if err := s.repo.AddRegistration(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) Registrations(ctx context.Context, campID uuid.UUID) ([]*Registration, error) {
	if _, err := s.repo.GetByID(ctx, campID); err != nil {
		return nil, err
	}
	return s.repo.ListRegistrations(ctx, campID)
}
