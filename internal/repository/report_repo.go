package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportRepository runs the aggregate queries behind the financial report.
// Aggregation stays in SQL; the service only assembles the response.
type ReportRepository interface {
	TotalRevenue(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	TotalExpenses(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	RevenueByMonth(ctx context.Context, from, to time.Time) (map[string]decimal.Decimal, error)
	ExpensesByMonth(ctx context.Context, from, to time.Time) (map[string]decimal.Decimal, error)
	RevenueByPlan(ctx context.Context, from, to time.Time) ([]PlanRevenue, error)
}

type PlanRevenue struct {
	PlanID   string
	PlanName string
	Count    int64
	Revenue  decimal.Decimal
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

func (r *reportRepo) TotalRevenue(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var raw struct{ Total decimal.Decimal }
	err := r.db.WithContext(ctx).
		Table("payments").
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("status = 'PAID' AND paid_at >= ? AND paid_at < ?", from, to).
		Scan(&raw).Error
	return raw.Total, err
}

func (r *reportRepo) TotalExpenses(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var raw struct{ Total decimal.Decimal }
	err := r.db.WithContext(ctx).
		Table("charges").
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("date >= ? AND date < ?", from, to).
		Scan(&raw).Error
	return raw.Total, err
}

func (r *reportRepo) RevenueByMonth(ctx context.Context, from, to time.Time) (map[string]decimal.Decimal, error) {
	return r.sumByMonth(ctx, "payments", "paid_at", "status = 'PAID'", from, to)
}

func (r *reportRepo) ExpensesByMonth(ctx context.Context, from, to time.Time) (map[string]decimal.Decimal, error) {
	return r.sumByMonth(ctx, "charges", "date", "", from, to)
}

func (r *reportRepo) sumByMonth(ctx context.Context, table, dateCol, extra string, from, to time.Time) (map[string]decimal.Decimal, error) {
	var rows []struct {
		Month string
		Total decimal.Decimal
	}
	q := r.db.WithContext(ctx).
		Table(table).
		Select("TO_CHAR(" + dateCol + ", 'YYYY-MM') AS month, COALESCE(SUM(amount), 0) AS total").
		Where(dateCol+" >= ? AND "+dateCol+" < ?", from, to)
	if extra != "" {
		q = q.Where(extra)
	}
	if err := q.Group("month").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.Month] = row.Total
	}
	return out, nil
}

func (r *reportRepo) RevenueByPlan(ctx context.Context, from, to time.Time) ([]PlanRevenue, error) {
	var rows []PlanRevenue
	err := r.db.WithContext(ctx).
		Table("payments").
		Select("plans.id::text AS plan_id, plans.name AS plan_name, COUNT(payments.id) AS count, COALESCE(SUM(payments.amount), 0) AS revenue").
		Joins("JOIN plans ON plans.id = payments.plan_id").
		Where("payments.status = 'PAID' AND payments.paid_at >= ? AND payments.paid_at < ?", from, to).
		Group("plans.id, plans.name").
		Order("revenue DESC").
		Scan(&rows).Error
	return rows, err
}
