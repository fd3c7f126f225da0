package camp

import (
	"time"

	"github.com/google/uuid"
)

// Camp maps to the blood_camp table. OrganizerID is the auth subject of the
// account that created the camp.
type Camp struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	OrganizerID string    `db:"organizer_id" json:"organizer_id"`
	City        string    `db:"city" json:"city"`
	Address     string    `db:"address" json:"address,omitempty"`
	Description string    `db:"description" json:"description,omitempty"`
	StartsAt    time.Time `db:"starts_at" json:"starts_at"`
	EndsAt      time.Time `db:"ends_at" json:"ends_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Registration records a donor's intent to attend a camp. One row per donor
// and camp.
type Registration struct {
	ID          uuid.UUID `db:"id" json:"id"`
	CampID      uuid.UUID `db:"camp_id" json:"camp_id"`
	DonorUserID string    `db:"donor_user_id" json:"donor_user_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
