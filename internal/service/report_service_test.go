package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/sime65123/gym-project/internal/model"
	"github.com/sime65123/gym-project/internal/repository"
	"github.com/sime65123/gym-project/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubReportRepo returns canned aggregates.
type stubReportRepo struct {
	revenue     decimal.Decimal
	expenses    decimal.Decimal
	revByMonth  map[string]decimal.Decimal
	expByMonth  map[string]decimal.Decimal
	planRevenue []repository.PlanRevenue
}

func (r *stubReportRepo) TotalRevenue(_ context.Context, _, _ time.Time) (decimal.Decimal, error) {
	return r.revenue, nil
}

func (r *stubReportRepo) TotalExpenses(_ context.Context, _, _ time.Time) (decimal.Decimal, error) {
	return r.expenses, nil
}

func (r *stubReportRepo) RevenueByMonth(_ context.Context, _, _ time.Time) (map[string]decimal.Decimal, error) {
	return r.revByMonth, nil
}

func (r *stubReportRepo) ExpensesByMonth(_ context.Context, _, _ time.Time) (map[string]decimal.Decimal, error) {
	return r.expByMonth, nil
}

func (r *stubReportRepo) RevenueByPlan(_ context.Context, _, _ time.Time) ([]repository.PlanRevenue, error) {
	return r.planRevenue, nil
}

var _ repository.ReportRepository = (*stubReportRepo)(nil)

// stubSessionRepo only needs CountBetween for the report.
type stubSessionRepo struct {
	count int64
}

func (r *stubSessionRepo) Create(_ context.Context, _ *model.Session) error   { return nil }
func (r *stubSessionRepo) CreateTx(_ *gorm.DB, _ *model.Session) error        { return nil }
func (r *stubSessionRepo) Update(_ context.Context, _ *model.Session) error   { return nil }
func (r *stubSessionRepo) Delete(_ context.Context, _ uuid.UUID) error        { return nil }
func (r *stubSessionRepo) FindByID(_ context.Context, _ uuid.UUID) (*model.Session, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *stubSessionRepo) List(_ context.Context, _, _ *time.Time) ([]model.Session, error) {
	return nil, nil
}
func (r *stubSessionRepo) CountBetween(_ context.Context, _, _ time.Time) (int64, error) {
	return r.count, nil
}
func (r *stubSessionRepo) DB() *gorm.DB { return nil }

var _ repository.SessionRepository = (*stubSessionRepo)(nil)

func TestFinancialReportAggregates(t *testing.T) {
	users := newStubUserRepo()
	users.add(&model.User{Email: "c1@x.y", Role: "CLIENT", Active: true})
	users.add(&model.User{Email: "c2@x.y", Role: "CLIENT", Active: true})
	users.add(&model.User{Email: "staff@x.y", Role: "EMPLOYE", Active: true})

	reports := &stubReportRepo{
		revenue:  dec("90000"),
		expenses: dec("25000"),
		revByMonth: map[string]decimal.Decimal{
			"2026-01": dec("50000"),
			"2026-03": dec("40000"),
		},
		expByMonth: map[string]decimal.Decimal{
			"2026-02": dec("25000"),
		},
		planRevenue: []repository.PlanRevenue{
			{PlanID: uuid.NewString(), PlanName: "Gold", Count: 3, Revenue: dec("90000")},
		},
	}

	svc := service.NewReportService(reports, users, &stubSessionRepo{count: 12})

	resp, err := svc.Financial(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.True(t, resp.Profit.Equal(dec("65000")))
	// Staff accounts never count as clients.
	assert.Equal(t, int64(2), resp.ActiveClients)
	assert.Equal(t, int64(12), resp.SessionCount)

	// Months merge sorted, the missing side zero-filled.
	require.Len(t, resp.MonthlyStats, 3)
	assert.Equal(t, "2026-01", resp.MonthlyStats[0].Month)
	assert.True(t, resp.MonthlyStats[0].Expenses.IsZero())
	assert.Equal(t, "2026-02", resp.MonthlyStats[1].Month)
	assert.True(t, resp.MonthlyStats[1].Revenue.IsZero())
	assert.True(t, resp.MonthlyStats[1].Expenses.Equal(dec("25000")))
	assert.Equal(t, "2026-03", resp.MonthlyStats[2].Month)

	require.Len(t, resp.PlanStats, 1)
	assert.Equal(t, "Gold", resp.PlanStats[0].PlanName)
	assert.Equal(t, int64(3), resp.PlanStats[0].Subscribers)
}
