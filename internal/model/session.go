package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session is an ad-hoc training session sold at the front desk.
// The client is recorded by name — walk-ins are not required to have an account.
type Session struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClientFirstName string          `gorm:"not null"`
	ClientLastName  string          `gorm:"not null"`
	Date            time.Time       `gorm:"type:date;not null"`
	Hours           int             `gorm:"not null;default:1"`
	AmountPaid      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// CoachID is optional — not every session is coached
	CoachID   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Coach *StaffMember `gorm:"foreignKey:CoachID"`
}
