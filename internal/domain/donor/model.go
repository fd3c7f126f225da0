package donor

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
)

// Donor maps to the donor table. The aggregate counters (donations, lives
// impacted, ranking) are read-only display data maintained outside the
// request lifecycle.
type Donor struct {
	ID            uuid.UUID   `db:"id" json:"id"`
	UserID        string      `db:"user_id" json:"user_id"`
	Name          string      `db:"name" json:"name"`
	BloodGroup    blood.Group `db:"blood_group" json:"blood_group"`
	Phone         string      `db:"phone" json:"phone,omitempty"`
	Email         string      `db:"email" json:"email,omitempty"`
	City          string      `db:"city" json:"city,omitempty"`
	Donations     int         `db:"donations" json:"donations"`
	LivesImpacted int         `db:"lives_impacted" json:"lives_impacted"`
	Ranking       int         `db:"ranking" json:"ranking"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}
