package model

import (
	"time"

	"github.com/google/uuid"
)

// StaffMember is a gym worker (not necessarily a system user).
// Category: "COACH" | "CLEANING" | "CARE_ASSISTANT" | "OTHER"
type StaffMember struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FirstName string    `gorm:"not null"`
	LastName  string    `gorm:"not null"`
	HireDate  time.Time `gorm:"type:date;not null"`
	Category  string    `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Attendance is a daily check-in record for a staff member.
// Status: "PRESENT" | "ABSENT"
type Attendance struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StaffID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_staff_day"`
	Day     time.Time `gorm:"type:date;not null;uniqueIndex:idx_attendance_staff_day"`
	Status  string    `gorm:"type:varchar(10);not null;default:'PRESENT'"`
	// ArrivalTime as "HH:MM"; nil when absent
	ArrivalTime *string `gorm:"type:varchar(5)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Staff *StaffMember `gorm:"foreignKey:StaffID"`
}
