package donor

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
)

// ErrNotFound is returned when no donor exists for the given id.
var ErrNotFound = errors.New("donor not found")

type Repository interface {
	Create(ctx context.Context, d *Donor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Donor, error)
	GetByUserID(ctx context.Context, userID string) (*Donor, error)
	Update(ctx context.Context, d *Donor) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Donor, int, error)
	// ListByGroups returns donors whose blood group is in groups.
	ListByGroups(ctx context.Context, groups []blood.Group) ([]*Donor, error)
	// Leaderboard returns the top donors ordered by donation count.
	Leaderboard(ctx context.Context, limit int) ([]*Donor, error)
}
