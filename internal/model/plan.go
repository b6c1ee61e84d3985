package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Plan is a subscription offer (price for a fixed number of days).
type Plan struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string          `gorm:"not null;index"`
	Description  string          `gorm:"type:text"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DurationDays int             `gorm:"not null"`
	Active       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
