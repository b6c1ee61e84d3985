package model

import (
	"time"

	"github.com/google/uuid"
)

// Membership links a client to a plan for a date range. The nightly sweep
// flips rows to inactive once the end date passes.
type Membership struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClientID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	PlanID    uuid.UUID  `gorm:"type:uuid;not null"`
	StartDate time.Time  `gorm:"type:date;not null"`
	EndDate   time.Time  `gorm:"type:date;not null"`
	Active    bool       `gorm:"not null;default:true"`
	PaymentID *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Client  *User    `gorm:"foreignKey:ClientID"`
	Plan    *Plan    `gorm:"foreignKey:PlanID"`
	Payment *Payment `gorm:"foreignKey:PaymentID"`
}
