package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rifaat-dev/propcore/internal/logger"
	"github.com/rifaat-dev/propcore/internal/repository"
	"github.com/rifaat-dev/propcore/internal/scope"
)

// MockProjectionRepository is a mock implementation of ProjectionRepository for testing
type MockProjectionRepository struct {
	mock.Mock
}

func (m *MockProjectionRepository) LeaseCounts(ctx context.Context, tenantIDs []int64, sc scope.Scope) (map[int64]repository.LeaseCounts, error) {
	args := m.Called(ctx, tenantIDs, sc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	counts, _ := args.Get(0).(map[int64]repository.LeaseCounts)
	return counts, args.Error(1)
}

func (m *MockProjectionRepository) CompanySum(ctx context.Context, companyID int64, metric repository.Metric, sc scope.Scope) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID, metric, sc)
	sum, _ := args.Get(0).(decimal.Decimal)
	return sum, args.Error(1)
}

func (m *MockProjectionRepository) CompanyUserCounts(ctx context.Context, companyID int64, sc scope.Scope) (repository.UserCounts, error) {
	args := m.Called(ctx, companyID, sc)
	counts, _ := args.Get(0).(repository.UserCounts)
	return counts, args.Error(1)
}

func TestCompanySum_UnknownMetric(t *testing.T) {
	mockRepo := new(MockProjectionRepository)
	service := NewStatsService(mockRepo, logger.New("test"))

	_, err := service.CompanySum(context.Background(), scope.Unrestricted(), 7, "lease_velocity")

	assert.ErrorIs(t, err, ErrUnknownMetric)
	mockRepo.AssertNotCalled(t, "CompanySum")
}

func TestCompanySum_KnownMetric(t *testing.T) {
	mockRepo := new(MockProjectionRepository)
	service := NewStatsService(mockRepo, logger.New("test"))

	ctx := context.Background()
	sc := scope.Unrestricted()
	want := decimal.RequireFromString("12500.50")
	mockRepo.On("CompanySum", ctx, int64(7), repository.MetricTotalPaid, sc).Return(want, nil)

	got, err := service.CompanySum(ctx, sc, 7, repository.MetricTotalPaid)

	require.NoError(t, err)
	assert.True(t, want.Equal(got))
	mockRepo.AssertExpectations(t)
}

func TestCompanyStats_AssemblesWidget(t *testing.T) {
	// Arrange
	mockRepo := new(MockProjectionRepository)
	service := NewStatsService(mockRepo, logger.New("test"))

	ctx := context.Background()
	sc := scope.Unrestricted()
	mockRepo.On("CompanyUserCounts", ctx, int64(7), sc).Return(repository.UserCounts{
		Users: 12, ActiveStaff: 3, Tenants: 9,
	}, nil)
	mockRepo.On("CompanySum", ctx, int64(7), repository.MetricMonthlyRent, sc).
		Return(decimal.RequireFromString("45000"), nil)
	mockRepo.On("CompanySum", ctx, int64(7), repository.MetricTotalPaid, sc).
		Return(decimal.RequireFromString("120000"), nil)
	mockRepo.On("CompanySum", ctx, int64(7), repository.MetricExpenseTotal, sc).
		Return(decimal.RequireFromString("18000.25"), nil)

	// Act
	stats, err := service.CompanyStats(ctx, sc, 7)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.CompanyID)
	assert.Equal(t, int64(3), stats.Users.ActiveStaff)
	assert.True(t, stats.MonthlyRent.Equal(decimal.RequireFromString("45000")))
	assert.True(t, stats.TotalPaid.Equal(decimal.RequireFromString("120000")))
	assert.True(t, stats.ExpenseTotal.Equal(decimal.RequireFromString("18000.25")))
	mockRepo.AssertExpectations(t)
}

func TestCompanyStats_OutOfScope(t *testing.T) {
	mockRepo := new(MockProjectionRepository)
	service := NewStatsService(mockRepo, logger.New("test"))

	ctx := context.Background()
	sc := scope.Unrestricted()
	mockRepo.On("CompanyUserCounts", ctx, int64(7), sc).
		Return(repository.UserCounts{}, repository.ErrNotFound)

	stats, err := service.CompanyStats(ctx, sc, 7)

	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Nil(t, stats)
}

func TestLeaseCounts_Delegates(t *testing.T) {
	mockRepo := new(MockProjectionRepository)
	service := NewStatsService(mockRepo, logger.New("test"))

	ctx := context.Background()
	sc := scope.Unrestricted()
	ids := []int64{1, 2}
	mockRepo.On("LeaseCounts", ctx, ids, sc).Return(map[int64]repository.LeaseCounts{
		1: {LeaseCount: 2, ActiveLeaseCount: 1},
		2: {},
	}, nil)

	counts, err := service.LeaseCounts(ctx, sc, ids)

	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[1].ActiveLeaseCount)
	assert.Equal(t, int64(0), counts[2].LeaseCount)
	mockRepo.AssertExpectations(t)
}
