package dto

import "github.com/shopspring/decimal"

type CreatePlanRequest struct {
	Name         string          `json:"name"          validate:"required,min=2,max=100"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"         validate:"required,gt=0"`
	DurationDays int             `json:"duration_days" validate:"required,gt=0"`
}

type UpdatePlanRequest struct {
	Name         string           `json:"name"          validate:"omitempty,min=2,max=100"`
	Description  *string          `json:"description"`
	Price        *decimal.Decimal `json:"price"         validate:"omitempty,gt=0"`
	DurationDays *int             `json:"duration_days" validate:"omitempty,gt=0"`
	Active       *bool            `json:"active"`
}

type PlanResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	DurationDays int             `json:"duration_days"`
	Active       bool            `json:"active"`
}
