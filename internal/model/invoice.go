package model

import (
	"time"

	"github.com/google/uuid"
)

// Invoice is the PDF proof tied 1:1 to a payment. The unique PaymentID column
// is what makes invoice generation idempotent: a second attempt finds the
// existing row instead of creating a duplicate.
// Kind: "SESSION" | "PLAN"
type Invoice struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PaymentID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	// Reference is the public identifier printed on the document
	Reference uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()"`
	Kind      string    `gorm:"type:varchar(10);not null"`
	// PDFPath is relative to PDF_STORAGE_PATH; empty until rendered
	PDFPath *string `gorm:"column:pdf_path"`
	// Retry fields — used by the invoice sweep to re-attempt failed renders
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at"`
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Payment *Payment `gorm:"foreignKey:PaymentID"`
}
