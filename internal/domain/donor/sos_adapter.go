package donor

import (
	"context"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
	"github.com/bloodlink/bloodlink/internal/domain/sos"
)

// SosAdapter exposes the donor registry to the request lifecycle as a
// sos.DonorFinder for alert fan-out and a sos.DonorLedger for crediting
// fulfilled donations.
type SosAdapter struct {
	svc *Service
}

func NewSosAdapter(svc *Service) *SosAdapter { return &SosAdapter{svc: svc} }

var (
	_ sos.DonorFinder = (*SosAdapter)(nil)
	_ sos.DonorLedger = (*SosAdapter)(nil)
)

func (a *SosAdapter) ListByGroups(ctx context.Context, groups []blood.Group) ([]sos.DonorContact, error) {
	donors, err := a.svc.ListByGroups(ctx, groups)
	if err != nil {
		return nil, err
	}
	contacts := make([]sos.DonorContact, 0, len(donors))
	for _, d := range donors {
		contacts = append(contacts, sos.DonorContact{
			Name:       d.Name,
			Phone:      d.Phone,
			Email:      d.Email,
			BloodGroup: d.BloodGroup,
		})
	}
	return contacts, nil
}

// RecordDonation credits a fulfilled request to the responding donor.
func (a *SosAdapter) RecordDonation(ctx context.Context, donorUserID string, units int) error {
	return a.svc.RecordDonation(ctx, donorUserID, units)
}
