package bank

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
)

var (
	ErrNotFound          = errors.New("blood bank not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Repository interface {
	Create(ctx context.Context, b *Bank) error
	GetByID(ctx context.Context, id uuid.UUID) (*Bank, error)
	GetByUserID(ctx context.Context, userID string) (*Bank, error)
	Update(ctx context.Context, b *Bank) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, city string, limit, offset int) ([]*Bank, int, error)

	// SetStock upserts the unit count for one group.
	SetStock(ctx context.Context, bankID uuid.UUID, group blood.Group, units int) (*StockEntry, error)
	// AdjustStock applies a delta. A result below zero returns
	// ErrInsufficientStock and leaves the count unchanged.
	AdjustStock(ctx context.Context, bankID uuid.UUID, group blood.Group, delta int) (*StockEntry, error)
	ListStock(ctx context.Context, bankID uuid.UUID) ([]*StockEntry, error)
}
