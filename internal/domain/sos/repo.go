package sos

import (
	"context"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
)

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Status     Status
	HospitalID string
}

type Repository interface {
	Create(ctx context.Context, r *SosRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*SosRequest, error)
	Update(ctx context.Context, r *SosRequest) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*SosRequest, int, error)
	// ListPendingByGroups returns pending requests whose blood group is in
	// groups, newest first. An empty groups slice matches nothing.
	ListPendingByGroups(ctx context.Context, groups []blood.Group, limit, offset int) ([]*SosRequest, int, error)
}
