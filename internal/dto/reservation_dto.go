package dto

import "github.com/shopspring/decimal"

type CreateReservationRequest struct {
	Kind string `json:"kind" validate:"required,oneof=SESSION PLAN"`
	// PlanID is the explicit reference plan for PLAN reservations
	PlanID      *string         `json:"plan_id"    validate:"omitempty,uuid"`
	DesiredAt   *string         `json:"desired_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Hours       int             `json:"hours"      validate:"omitempty,gt=0"`
	Amount      decimal.Decimal `json:"amount"     validate:"omitempty,gte=0"`
	Description string          `json:"description"`
}

// ValidateReservationRequest is a staff-entered settlement. The amount
// accumulates against the reservation's reference price.
type ValidateReservationRequest struct {
	Amount decimal.Decimal `json:"montant" validate:"required"`
	Method string          `json:"mode_paiement" validate:"omitempty,oneof=CASH CARD CHEQUE"`
}

type ReservationResponse struct {
	ID          string          `json:"id"`
	ClientID    *string         `json:"client_id"`
	ClientName  string          `json:"client_name"`
	Kind        string          `json:"kind"`
	PlanID      *string         `json:"plan_id"`
	DesiredAt   *string         `json:"desired_at"`
	Hours       int             `json:"hours"`
	Amount      decimal.Decimal `json:"amount"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	CreatedAt   string          `json:"created_at"`
}

// ValidateReservationResponse reports the reconciliation outcome. Remaining is
// present only for partial PLAN settlements; InvoiceURL only once settled.
type ValidateReservationResponse struct {
	Message        string           `json:"message"`
	PaymentID      string           `json:"payment_id"`
	Amount         decimal.Decimal  `json:"amount"`
	TotalPaid      decimal.Decimal  `json:"total_paid"`
	ReferencePrice decimal.Decimal  `json:"reference_price"`
	Remaining      *decimal.Decimal `json:"remaining,omitempty"`
	Status         string           `json:"status"`
	InvoiceURL     *string          `json:"invoice_url,omitempty"`
}

type ReservationFilter struct {
	Status string `form:"status"`
	Kind   string `form:"kind"`
	Client string `form:"client"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type ReservationListResponse struct {
	Data  []ReservationResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
