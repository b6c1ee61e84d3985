package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reservation is a client's request for a session or a plan, pending staff
// confirmation and payment.
// Kind:   "SESSION" | "PLAN"
// Status: "PENDING" | "CONFIRMED" | "CANCELLED" | "DONE"
type Reservation struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClientID   *uuid.UUID `gorm:"type:uuid;index"`
	ClientName string     `gorm:"not null;index"`
	Kind       string     `gorm:"type:varchar(10);not null"`
	// PlanID is the explicit reference for PLAN reservations. When nil the
	// legacy description/price heuristic resolves the reference plan.
	PlanID      *uuid.UUID `gorm:"type:uuid"`
	DesiredAt   *time.Time
	Hours       int             `gorm:"not null;default:1"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AmountPaid  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Description string          `gorm:"type:text"`
	Status      string          `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Client *User `gorm:"foreignKey:ClientID"`
	Plan   *Plan `gorm:"foreignKey:PlanID"`
}
