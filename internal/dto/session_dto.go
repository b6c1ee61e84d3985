package dto

import "github.com/shopspring/decimal"

type CreateSessionRequest struct {
	ClientFirstName string          `json:"client_first_name" validate:"required,min=1,max=100"`
	ClientLastName  string          `json:"client_last_name"  validate:"required,min=1,max=100"`
	Date            string          `json:"date"              validate:"required,datetime=2006-01-02"`
	Hours           int             `json:"hours"             validate:"required,gt=0"`
	AmountPaid      decimal.Decimal `json:"amount_paid"       validate:"omitempty,gte=0"`
	CoachID         *string         `json:"coach_id"          validate:"omitempty,uuid"`
}

type UpdateSessionRequest struct {
	ClientFirstName string           `json:"client_first_name" validate:"omitempty,min=1,max=100"`
	ClientLastName  string           `json:"client_last_name"  validate:"omitempty,min=1,max=100"`
	Date            string           `json:"date"              validate:"omitempty,datetime=2006-01-02"`
	Hours           *int             `json:"hours"             validate:"omitempty,gt=0"`
	AmountPaid      *decimal.Decimal `json:"amount_paid"       validate:"omitempty,gte=0"`
	// CoachID: uuid assigns a coach, empty string clears the assignment
	CoachID *string `json:"coach_id"`
}

// DirectSessionRequest records a walk-in session paid on the spot: one call
// creates the session, the PAID payment, and the ticket.
type DirectSessionRequest struct {
	ClientID        *string         `json:"client_id"         validate:"omitempty,uuid"`
	ClientFirstName string          `json:"client_first_name" validate:"required,min=1,max=100"`
	ClientLastName  string          `json:"client_last_name"  validate:"required,min=1,max=100"`
	Date            string          `json:"date"              validate:"required,datetime=2006-01-02"`
	Hours           int             `json:"hours"             validate:"required,gt=0"`
	AmountPaid      decimal.Decimal `json:"amount_paid"       validate:"required,gt=0"`
	Method          string          `json:"method"            validate:"omitempty,oneof=CASH CARD CHEQUE"`
	CoachID         *string         `json:"coach_id"          validate:"omitempty,uuid"`
}

type SessionResponse struct {
	ID              string          `json:"id"`
	ClientFirstName string          `json:"client_first_name"`
	ClientLastName  string          `json:"client_last_name"`
	Date            string          `json:"date"`
	Hours           int             `json:"hours"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	CoachID         *string         `json:"coach_id"`
	CoachName       string          `json:"coach_name,omitempty"`
}

type DirectSessionResponse struct {
	SessionResponse
	PaymentID  string  `json:"payment_id"`
	TicketID   *string `json:"ticket_id,omitempty"`
	TicketURL  *string `json:"ticket_pdf_url,omitempty"`
}
