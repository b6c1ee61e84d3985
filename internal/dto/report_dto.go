package dto

import "github.com/shopspring/decimal"

// MonthlyStat is one month of revenue vs expenses, ISO "YYYY-MM".
type MonthlyStat struct {
	Month    string          `json:"month"`
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
}

// PlanStat is the subscription breakdown per plan.
type PlanStat struct {
	PlanID      string          `json:"plan_id"`
	PlanName    string          `json:"plan_name"`
	Subscribers int64           `json:"subscribers"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type FinancialReportResponse struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Profit        decimal.Decimal `json:"profit"`
	ActiveClients int64           `json:"active_clients"`
	MonthlyStats  []MonthlyStat   `json:"monthly_stats"`
	PlanStats     []PlanStat      `json:"subscription_stats"`
	SessionCount  int64           `json:"session_count"`
}
