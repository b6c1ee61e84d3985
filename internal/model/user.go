package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User stores system accounts with role-based access.
// Role: "ADMIN" | "EMPLOYE" | "CLIENT"
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"uniqueIndex;not null"`
	FirstName    string    `gorm:"not null"`
	LastName     string    `gorm:"not null"`
	Phone        *string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"type:varchar(10);not null;default:'CLIENT'"`
	// Balance is the stored-value wallet, debited by balance payments and
	// credited by gateway recharges.
	Balance   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Active    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName is the display name used on reservations and invoices.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
