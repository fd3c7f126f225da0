package bank

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
)

// Bank maps to the blood_bank table.
type Bank struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	City      string    `db:"city" json:"city"`
	Address   string    `db:"address" json:"address,omitempty"`
	Phone     string    `db:"phone" json:"phone,omitempty"`
	Email     string    `db:"email" json:"email,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StockEntry is the unit count a bank holds for one blood group.
type StockEntry struct {
	BankID    uuid.UUID   `db:"bank_id" json:"bank_id"`
	Group     blood.Group `db:"blood_group" json:"blood_group"`
	Units     int         `db:"units" json:"units"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}
