package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Charge is an operating expense, independent of payments.
type Charge struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string          `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Date        time.Time       `gorm:"type:date;not null;index"`
	Description string          `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
