package bank

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
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

func (s *Service) validate(b *Bank) error {
	if b.UserID == "" {
		return invalid("user_id", "is required")
	}
	if b.Name == "" {
		return invalid("name", "is required")
	}
	if b.City == "" {
		return invalid("city", "is required")
	}
	return nil
}

func (s *Service) Register(ctx context.Context, actorID string, b *Bank) error {
	if actorID == "" {
		return ErrNotAuthenticated
	}
	if b.UserID == "" {
		b.UserID = actorID
	}
	if err := s.validate(b); err != nil {
		return err
	}
	return s.repo.Create(ctx, b)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Bank, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (*Bank, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *Service) Update(ctx context.Context, actorID string, b *Bank) error {
	if actorID == "" {
		return ErrNotAuthenticated
	}
	if err := s.validate(b); err != nil {
		return err
	}
	return s.repo.Update(ctx, b)
}

func (s *Service) Delete(ctx context.Context, actorID string, id uuid.UUID) error {
	if actorID == "" {
		return ErrNotAuthenticated
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, city string, limit, offset int) ([]*Bank, int, error) {
	return s.repo.List(ctx, city, limit, offset)
}

// SetStock replaces the unit count for one group.
func (s *Service) SetStock(ctx context.Context, actorID string, bankID uuid.UUID, group blood.Group, units int) (*StockEntry, error) {
	if actorID == "" {
		return nil, ErrNotAuthenticated
	}
	if !group.Valid() {
		return nil, invalid("blood_group", "must be one of the eight ABO/Rh groups")
	}
	if units < 0 {
		return nil, invalid("units", "must not be negative")
	}
	if _, err := s.repo.GetByID(ctx, bankID); err != nil {
		return nil, err
	}
	return s.repo.SetStock(ctx, bankID, group, units)
}

// AdjustStock applies a signed delta, typically +n after a camp intake and -n
// after an issue to a hospital.
func (s *Service) AdjustStock(ctx context.Context, actorID string, bankID uuid.UUID, group blood.Group, delta int) (*StockEntry, error) {
	if actorID == "" {
		return nil, ErrNotAuthenticated
	}
	if !group.Valid() {
		return nil, invalid("blood_group", "must be one of the eight ABO/Rh groups")
	}
	if delta == 0 {
		return nil, invalid("delta", "must be non-zero")
	}
	if _, err := s.repo.GetByID(ctx, bankID); err != nil {
		return nil, err
	}
	return s.repo.AdjustStock(ctx, bankID, group, delta)
}

func (s *Service) Stock(ctx context.Context, bankID uuid.UUID) ([]*StockEntry, error) {
	if _, err := s.repo.GetByID(ctx, bankID); err != nil {
		return nil, err
	}
	return s.repo.ListStock(ctx, bankID)
}
