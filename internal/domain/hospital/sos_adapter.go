package hospital

import (
	"context"
	"errors"

	"github.com/bloodlink/bloodlink/internal/domain/sos"
)

// SosAdapter resolves hospital profiles for request stamping as a
// sos.HospitalDirectory.
type SosAdapter struct {
	svc *Service
}

func NewSosAdapter(svc *Service) *SosAdapter { return &SosAdapter{svc: svc} }

func (a *SosAdapter) Lookup(ctx context.Context, userID string) (*sos.HospitalInfo, error) {
	h, err := a.svc.GetByUserID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sos.HospitalInfo{Name: h.Name, City: h.City}, nil
}
