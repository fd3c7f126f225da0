package hospital

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

func (s *Service) validate(h *Hospital) error {
	if h.UserID == "" {
		return invalid("user_id", "is required")
	}
	if h.Name == "" {
		return invalid("name", "is required")
	}
	if h.City == "" {
		return invalid("city", "is required")
	}
	return nil
}

func (s *Service) Register(ctx context.Context, actorID string, h *Hospital) error {
	if actorID == "" {
		return ErrNotAuthenticated
	}
	if h.UserID == "" {
		h.UserID = actorID
	}
	if err := s.validate(h); err != nil {
		return err
	}
	return s.repo.Create(ctx, h)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (*Hospital, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *Service) Update(ctx context.Context, actorID string, h *Hospital) error {
	if actorID == "" {
		return ErrNotAuthenticated
	}
	if err := s.validate(h); err != nil {
		return err
	}
	return s.repo.Update(ctx, h)
}

func (s *Service) Delete(ctx context.Context, actorID string, id uuid.UUID) error {
	if actorID == "" {
		return ErrNotAuthenticated
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, city string, limit, offset int) ([]*Hospital, int, error) {
	return s.repo.List(ctx, city, limit, offset)
}
