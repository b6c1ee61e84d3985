package dto

import "github.com/shopspring/decimal"

type CreateChargeRequest struct {
	Title       string          `json:"title"  validate:"required,min=2,max=100"`
	Amount      decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Date        string          `json:"date"   validate:"required,datetime=2006-01-02"`
	Description string          `json:"description"`
}

type UpdateChargeRequest struct {
	Title       string           `json:"title"  validate:"omitempty,min=2,max=100"`
	Amount      *decimal.Decimal `json:"amount" validate:"omitempty,gt=0"`
	Date        string           `json:"date"   validate:"omitempty,datetime=2006-01-02"`
	Description *string          `json:"description"`
}

type ChargeResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
}
