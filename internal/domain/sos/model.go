package sos

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
)

// Urgency is the hospital-assigned severity tag. Display prioritization
// only; it never drives lifecycle logic.
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// Valid reports whether u is a known urgency level.
func (u Urgency) Valid() bool {
	return u == UrgencyHigh || u == UrgencyMedium || u == UrgencyLow
}

// Delivery is the donor's delivery preference on an available response.
type Delivery string

const (
	DeliverySelf   Delivery = "donor_self"
	DeliveryPickup Delivery = "hospital_pickup"
)

// SosRequest maps to the sos_request table. Hospital-origin fields are set
// once at creation and never change afterwards; donor-origin fields are
// written only by a donor response transition.
type SosRequest struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	PatientName  string      `db:"patient_name" json:"patient_name"`
	BloodGroup   blood.Group `db:"blood_group" json:"blood_group"`
	Units        int         `db:"units" json:"units"`
	Urgency      Urgency     `db:"urgency" json:"urgency"`
	Notes        string      `db:"notes" json:"notes,omitempty"`
	Status       Status      `db:"status" json:"status"`
	HospitalID   string      `db:"hospital_id" json:"hospital_id"`
	HospitalName string      `db:"hospital_name" json:"hospital_name"`
	HospitalCity string      `db:"hospital_city" json:"hospital_city"`

	DonorAvailability   string     `db:"donor_availability" json:"donor_availability,omitempty"`
	DonorDeliveryChoice Delivery   `db:"donor_delivery_choice" json:"donor_delivery_choice,omitempty"`
	DonorAddress        string     `db:"donor_address" json:"donor_address,omitempty"`
	DonorPhone          string     `db:"donor_phone" json:"donor_phone,omitempty"`
	DonorEmail          string     `db:"donor_email" json:"donor_email,omitempty"`
	DonorNote           string     `db:"donor_note" json:"donor_note,omitempty"`
	RespondedBy         string     `db:"responded_by" json:"responded_by,omitempty"`
	RespondedAt         *time.Time `db:"responded_at" json:"responded_at,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DonorResponse carries a donor's answer to an SOS request.
type DonorResponse struct {
	Availability string   `json:"availability"`
	Delivery     Delivery `json:"delivery"`
	Address      string   `json:"address"`
	Phone        string   `json:"phone"`
	Email        string   `json:"email"`
	Note         string   `json:"note"`
}

// action resolves the lifecycle action a validated response triggers.
func (r *DonorResponse) action() Action {
	if r.Availability == "no" {
		return ActionDecline
	}
	if r.Delivery == DeliveryPickup {
		return ActionRespondPickup
	}
	return ActionRespondSelf
}
