package service

import (
	"context"
	"sort"
	"time"

	"github.com/sime65123/gym-project/internal/dto"
	"github.com/sime65123/gym-project/internal/repository"

	"github.com/shopspring/decimal"
)

type ReportService interface {
	// Financial builds the dashboard report for [from, to). Zero times default
	// to the current calendar year.
	Financial(ctx context.Context, from, to time.Time) (*dto.FinancialReportResponse, error)
}

type reportService struct {
	repo        repository.ReportRepository
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
}

func NewReportService(
	repo repository.ReportRepository,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
) ReportService {
	return &reportService{repo: repo, userRepo: userRepo, sessionRepo: sessionRepo}
}

func (s *reportService) Financial(ctx context.Context, from, to time.Time) (*dto.FinancialReportResponse, error) {
	if from.IsZero() || to.IsZero() {
		now := time.Now()
		from = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(1, 0, 0)
	}

	revenue, err := s.repo.TotalRevenue(ctx, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := s.repo.TotalExpenses(ctx, from, to)
	if err != nil {
		return nil, err
	}
	revByMonth, err := s.repo.RevenueByMonth(ctx, from, to)
	if err != nil {
		return nil, err
	}
	expByMonth, err := s.repo.ExpensesByMonth(ctx, from, to)
	if err != nil {
		return nil, err
	}
	planRevenue, err := s.repo.RevenueByPlan(ctx, from, to)
	if err != nil {
		return nil, err
	}
	activeClients, err := s.userRepo.CountActiveClients(ctx)
	if err != nil {
		return nil, err
	}
	sessionCount, err := s.sessionRepo.CountBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	resp := &dto.FinancialReportResponse{
		TotalRevenue:  revenue,
		TotalExpenses: expenses,
		Profit:        revenue.Sub(expenses),
		ActiveClients: activeClients,
		MonthlyStats:  mergeMonthly(revByMonth, expByMonth),
		PlanStats:     make([]dto.PlanStat, len(planRevenue)),
		SessionCount:  sessionCount,
	}
	for i, pr := range planRevenue {
		resp.PlanStats[i] = dto.PlanStat{
			PlanID:      pr.PlanID,
			PlanName:    pr.PlanName,
			Subscribers: pr.Count,
			Revenue:     pr.Revenue,
		}
	}
	return resp, nil
}

// mergeMonthly joins the two month maps into one sorted series, filling the
// missing side with zero.
func mergeMonthly(revenue, expenses map[string]decimal.Decimal) []dto.MonthlyStat {
	months := make(map[string]struct{}, len(revenue)+len(expenses))
	for m := range revenue {
		months[m] = struct{}{}
	}
	for m := range expenses {
		months[m] = struct{}{}
	}

	keys := make([]string, 0, len(months))
	for m := range months {
		keys = append(keys, m)
	}
	sort.Strings(keys)

	stats := make([]dto.MonthlyStat, len(keys))
	for i, m := range keys {
		rev, ok := revenue[m]
		if !ok {
			rev = decimal.Zero
		}
		exp, ok := expenses[m]
		if !ok {
			exp = decimal.Zero
		}
		stats[i] = dto.MonthlyStat{Month: m, Revenue: rev, Expenses: exp}
	}
	return stats
}
