package sos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
)

// HospitalInfo is the subset of a hospital profile stamped onto a request.
type HospitalInfo struct {
	Name string
	City string
}

// HospitalDirectory resolves the acting hospital's profile at creation time.
type HospitalDirectory interface {
	Lookup(ctx context.Context, userID string) (*HospitalInfo, error)
}

// Notifier receives lifecycle events after a successful write. Delivery is
// best effort; failures never roll back the write.
type Notifier interface {
	RequestCreated(ctx context.Context, r *SosRequest)
	RequestTransitioned(ctx context.Context, r *SosRequest)
}

// DonorLedger credits a completed donation to the responding donor's
// aggregate counters. Like the Notifier it runs after the write; a failed
// ledger update never undoes the fulfillment.
type DonorLedger interface {
	RecordDonation(ctx context.Context, donorUserID string, units int) error
}

type Service struct {
	repo      Repository
	hospitals HospitalDirectory
	notifier  Notifier
	ledger    DonorLedger
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SetHospitalDirectory attaches an optional hospital profile lookup used to
// stamp hospital_name and hospital_city at creation.
func (s *Service) SetHospitalDirectory(d HospitalDirectory) { s.hospitals = d }

// SetNotifier attaches an optional lifecycle event sink.
func (s *Service) SetNotifier(n Notifier) { s.notifier = n }

// SetDonorLedger attaches an optional donation counter sink.
func (s *Service) SetDonorLedger(l DonorLedger) { s.ledger = l }

// Create raises a new SOS request in state pending. The acting identity is
// passed explicitly; an empty actor is a precondition failure and the write
// is not attempted.
func (s *Service) Create(ctx context.Context, actorID string, r *SosRequest) error {
	if actorID == "" {
		return ErrNotAuthenticated
	}
	if strings.TrimSpace(r.PatientName) == "" {
		return invalid("patient_name", "is required")
	}
	if !r.BloodGroup.Valid() {
		return invalid("blood_group", "must be one of O-, O+, A-, A+, B-, B+, AB-, AB+")
	}
	if r.Units <= 0 {
		return invalid("units", "must be a positive integer")
	}
	if !r.Urgency.Valid() {
		return invalid("urgency", "must be high, medium or low")
	}

	r.Status = StatusPending
	r.HospitalID = actorID
	r.HospitalName = "Unknown"
	r.HospitalCity = "Unknown"
	if s.hospitals != nil {
		if info, err := s.hospitals.Lookup(ctx, actorID); err == nil && info != nil {
			if info.Name != "" {
				r.HospitalName = info.Name
			}
			if info.City != "" {
				r.HospitalCity = info.City
			}
		}
	}

	// No donor has responded yet.
	r.DonorAvailability = ""
	r.DonorDeliveryChoice = ""
	r.DonorAddress = ""
	r.DonorPhone = ""
	r.DonorEmail = ""
	r.DonorNote = ""
	r.RespondedBy = ""
	r.RespondedAt = nil

	if err := s.repo.Create(ctx, r); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.RequestCreated(ctx, r)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*SosRequest, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*SosRequest, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

// VisibleTo returns the pending requests a donor of the given blood group is
// eligible to answer: exactly the pending requests whose recipient group is
// in CompatibleRecipients(donorGroup). Hospital affiliation never constrains
// visibility.
func (s *Service) VisibleTo(ctx context.Context, donorGroup blood.Group, limit, offset int) ([]*SosRequest, int, error) {
	groups := blood.CompatibleRecipients(donorGroup)
	if len(groups) == 0 {
		return nil, 0, nil
	}
	return s.repo.ListPendingByGroups(ctx, groups, limit, offset)
}

// Respond applies a donor response transition. Every precondition is checked
// before any state is written; a violated precondition rejects the whole
// transition and names the failing field. A second response overwrites the
// first (last responder wins); responses against a fulfilled request are
// rejected by the transition table.
func (s *Service) Respond(ctx context.Context, actorID string, id uuid.UUID, resp *DonorResponse) (*SosRequest, error) {
	if actorID == "" {
		return nil, ErrNotAuthenticated
	}
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch resp.Availability {
	case "":
		return nil, invalid("availability", "is required")
	case "yes", "no":
	default:
		return nil, invalid("availability", `must be "yes" or "no"`)
	}
	if strings.TrimSpace(resp.Phone) == "" {
		return nil, invalid("phone", "is required")
	}
	if strings.TrimSpace(resp.Email) == "" {
		return nil, invalid("email", "is required")
	}
	if resp.Availability == "yes" {
		switch resp.Delivery {
		case "":
			return nil, invalid("delivery", "is required when available")
		case DeliverySelf, DeliveryPickup:
		default:
			return nil, invalid("delivery", `must be "donor_self" or "hospital_pickup"`)
		}
		if resp.Delivery == DeliveryPickup && strings.TrimSpace(resp.Address) == "" {
			return nil, invalid("address", "is required for hospital pickup")
		}
	}

	next, err := Transition(r.Status, resp.action())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	r.Status = next
	r.DonorAvailability = resp.Availability
	r.DonorPhone = resp.Phone
	r.DonorEmail = resp.Email
	r.DonorNote = resp.Note
	r.RespondedBy = actorID
	r.RespondedAt = &now
	if resp.Availability == "yes" {
		r.DonorDeliveryChoice = resp.Delivery
	} else {
		r.DonorDeliveryChoice = ""
	}
	// The address is only meaningful for a pickup choice.
	if resp.Delivery == DeliveryPickup && resp.Availability == "yes" {
		r.DonorAddress = resp.Address
	} else {
		r.DonorAddress = ""
	}

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.RequestTransitioned(ctx, r)
	}
	return r, nil
}

// MarkFulfilled closes a request. It has no precondition on the prior status
// and is idempotent: fulfilling an already-fulfilled request is a no-op, so
// the responding donor is credited at most once.
func (s *Service) MarkFulfilled(ctx context.Context, actorID string, id uuid.UUID) (*SosRequest, error) {
	if actorID == "" {
		return nil, ErrNotAuthenticated
	}
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status == StatusFulfilled {
		return r, nil
	}
	next, err := Transition(r.Status, ActionFulfill)
	if err != nil {
		return nil, err
	}
	r.Status = next
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	if s.ledger != nil && r.RespondedBy != "" && r.DonorAvailability == "yes" {
		// The fulfillment is already durable; a lost credit is recoverable
		// from the request history.
		_ = s.ledger.RecordDonation(ctx, r.RespondedBy, r.Units)
	}
	if s.notifier != nil {
		s.notifier.RequestTransitioned(ctx, r)
	}
	return r, nil
}
