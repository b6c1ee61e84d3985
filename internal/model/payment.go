package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is one monetary movement. Exactly one row per movement; partial
// settlements of a reservation produce several rows.
// Status: "PENDING" | "PAID" | "FAILED"
// Method: "CASH" | "CARD" | "CHEQUE" | "BALANCE" | "CINETPAY"
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClientID      *uuid.UUID      `gorm:"type:uuid;index"`
	PlanID        *uuid.UUID      `gorm:"type:uuid"`
	SessionID     *uuid.UUID      `gorm:"type:uuid"`
	ReservationID *uuid.UUID      `gorm:"type:uuid;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status        string          `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Method        string          `gorm:"type:varchar(20);not null;default:'CASH'"`
	// TransactionID is the opaque gateway reference. A "recharge-" prefix marks
	// a balance top-up: on webhook success the amount is credited to the wallet.
	TransactionID *string `gorm:"uniqueIndex"`
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Client      *User        `gorm:"foreignKey:ClientID"`
	Plan        *Plan        `gorm:"foreignKey:PlanID"`
	Session     *Session     `gorm:"foreignKey:SessionID"`
	Reservation *Reservation `gorm:"foreignKey:ReservationID"`
}
