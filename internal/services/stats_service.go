package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rifaat-dev/propcore/internal/logger"
	"github.com/rifaat-dev/propcore/internal/repository"
	"github.com/rifaat-dev/propcore/internal/scope"
)

// ErrUnknownMetric is returned when a caller asks for a metric the
// projection engine does not compute.
var ErrUnknownMetric = errors.New("unknown metric")

// CompanyStats is the dashboard widget payload for a single company.
type CompanyStats struct {
	CompanyID    int64                  `json:"company_id"`
	Users        repository.UserCounts  `json:"users"`
	MonthlyRent  decimal.Decimal        `json:"monthly_rent"`
	TotalPaid    decimal.Decimal        `json:"total_paid"`
	ExpenseTotal decimal.Decimal        `json:"expense_total"`
}

// StatsService exposes the aggregate projections consumed by dashboards and
// list views.
type StatsService interface {
	LeaseCounts(ctx context.Context, sc scope.Scope, tenantIDs []int64) (map[int64]repository.LeaseCounts, error)
	CompanySum(ctx context.Context, sc scope.Scope, companyID int64, metric repository.Metric) (decimal.Decimal, error)
	CompanyStats(ctx context.Context, sc scope.Scope, companyID int64) (*CompanyStats, error)
}

type statsService struct {
	projections repository.ProjectionRepository
	log         *logger.Logger
}

// NewStatsService creates a new StatsService.
func NewStatsService(projections repository.ProjectionRepository, log *logger.Logger) StatsService {
	return &statsService{projections: projections, log: log}
}

func (s *statsService) LeaseCounts(ctx context.Context, sc scope.Scope, tenantIDs []int64) (map[int64]repository.LeaseCounts, error) {
	return s.projections.LeaseCounts(ctx, tenantIDs, sc)
}

func (s *statsService) CompanySum(ctx context.Context, sc scope.Scope, companyID int64, metric repository.Metric) (decimal.Decimal, error) {
	if !repository.ValidMetric(metric) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
	return s.projections.CompanySum(ctx, companyID, metric, sc)
}

// CompanyStats assembles the company dashboard widget: staff breakdown plus
// the three money sums. Each component is a single grouped query.
func (s *statsService) CompanyStats(ctx context.Context, sc scope.Scope, companyID int64) (*CompanyStats, error) {
	users, err := s.projections.CompanyUserCounts(ctx, companyID, sc)
	if err != nil {
		return nil, err
	}

	stats := &CompanyStats{CompanyID: companyID, Users: users}
	sums := []struct {
		metric repository.Metric
		dst    *decimal.Decimal
	}{
		{repository.MetricMonthlyRent, &stats.MonthlyRent},
		{repository.MetricTotalPaid, &stats.TotalPaid},
		{repository.MetricExpenseTotal, &stats.ExpenseTotal},
	}
	for _, s2 := range sums {
		v, err := s.projections.CompanySum(ctx, companyID, s2.metric, sc)
		if err != nil {
			return nil, fmt.Errorf("failed to compute %s for company %d: %w", s2.metric, companyID, err)
		}
		*s2.dst = v
	}

	s.log.Debug("Company stats computed", map[string]interface{}{
		"company_id": companyID,
	})
	return stats, nil
}
