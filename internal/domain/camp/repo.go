package camp

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("camp not found")
	ErrAlreadyRegistered = errors.New("donor already registered for camp")
)

type Repository interface {
	Create(ctx context.Context, c *Camp) error
	GetByID(ctx context.Context, id uuid.UUID) (*Camp, error)
	Update(ctx context.Context, c *Camp) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, city string, limit, offset int) ([]*Camp, int, error)

	AddRegistration(ctx context.Context, r *Registration) error
	ListRegistrations(ctx context.Context, campID uuid.UUID) ([]*Registration, error)
}
