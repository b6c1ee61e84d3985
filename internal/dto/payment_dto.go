package dto

import "github.com/shopspring/decimal"

// InitPaymentRequest starts a payment: either an external CinetPay checkout or
// an immediate balance debit when use_balance is set.
type InitPaymentRequest struct {
	Amount     decimal.Decimal `json:"montant"     validate:"required"`
	PlanID     *string         `json:"abonnement"  validate:"omitempty,uuid"`
	SessionID  *string         `json:"seance"      validate:"omitempty,uuid"`
	UseBalance bool            `json:"use_balance"`
}

type InitPaymentResponse struct {
	PaymentID     string          `json:"paiement_id"`
	TransactionID *string         `json:"transaction_id,omitempty"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"montant"`
	NewBalance    *decimal.Decimal `json:"solde,omitempty"`
	// PaymentURL is the hosted checkout page returned by CinetPay
	PaymentURL *string `json:"payment_url,omitempty"`
}

type RechargeRequest struct {
	Amount decimal.Decimal `json:"montant" validate:"required"`
}

// DirectPaymentRequest is a staff-entered cash/card payment recorded as PAID.
type DirectPaymentRequest struct {
	ClientID  string          `json:"client_id"  validate:"required,uuid"`
	Amount    decimal.Decimal `json:"montant"    validate:"required"`
	Method    string          `json:"mode_paiement" validate:"omitempty,oneof=CASH CARD CHEQUE"`
	PlanID    *string         `json:"abonnement_id" validate:"omitempty,uuid"`
	SessionID *string         `json:"seance_id"  validate:"omitempty,uuid"`
}

// CinetPayNotification is the webhook body delivered by the gateway.
type CinetPayNotification struct {
	TransactionID string `json:"cpm_trans_id" form:"cpm_trans_id" validate:"required"`
}

type PaymentResponse struct {
	ID            string          `json:"id"`
	ClientID      *string         `json:"client_id"`
	PlanID        *string         `json:"plan_id"`
	SessionID     *string         `json:"session_id"`
	ReservationID *string         `json:"reservation_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	Method        string          `json:"method"`
	TransactionID *string         `json:"transaction_id,omitempty"`
	PaidAt        *string         `json:"paid_at"`
	CreatedAt     string          `json:"created_at"`
}

type PaymentFilter struct {
	Status string `form:"status"`
	Client string `form:"client"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type PaymentListResponse struct {
	Data  []PaymentResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
