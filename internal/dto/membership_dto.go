package dto

import "github.com/shopspring/decimal"

// DirectMembershipRequest is a staff-entered plan sale paid on the spot.
type DirectMembershipRequest struct {
	ClientID  string `json:"client_id"     validate:"required,uuid"`
	PlanID    string `json:"abonnement_id" validate:"required,uuid"`
	StartDate string `json:"date_debut"    validate:"omitempty,datetime=2006-01-02"`
	Method    string `json:"mode_paiement" validate:"omitempty,oneof=CASH CARD CHEQUE"`
}

type MembershipResponse struct {
	ID        string          `json:"id"`
	ClientID  string          `json:"client_id"`
	ClientName string         `json:"client_name,omitempty"`
	PlanID    string          `json:"plan_id"`
	PlanName  string          `json:"plan_name,omitempty"`
	PlanPrice decimal.Decimal `json:"plan_price"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Active    bool            `json:"active"`
	PaymentID *string         `json:"payment_id"`
}

type DirectMembershipResponse struct {
	MembershipResponse
	TicketID  *string `json:"ticket_id,omitempty"`
	TicketURL *string `json:"ticket_pdf_url,omitempty"`
}
