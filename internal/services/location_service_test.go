package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rifaat-dev/propcore/internal/logger"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/repository"
)

// MockLocationRepository is a mock implementation of LocationRepository for testing
type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) Create(ctx context.Context, l *models.Location) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLocationRepository) Find(ctx context.Context, id int64) (*models.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	loc, ok := args.Get(0).(*models.Location)
	if !ok {
		return nil, args.Error(1)
	}
	return loc, args.Error(1)
}

func (m *MockLocationRepository) Update(ctx context.Context, l *models.Location) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLocationRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLocationRepository) List(ctx context.Context, f repository.LocationFilter, page repository.Page) (repository.Paginated[models.Location], error) {
	args := m.Called(ctx, f, page)
	result, _ := args.Get(0).(repository.Paginated[models.Location])
	return result, args.Error(1)
}

func (m *MockLocationRepository) Children(ctx context.Context, parentID int64) ([]models.Location, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	locs, _ := args.Get(0).([]models.Location)
	return locs, args.Error(1)
}

func ptrInt64(v int64) *int64 { return &v }

func TestFullPath_RootOnly(t *testing.T) {
	// Arrange
	mockRepo := new(MockLocationRepository)
	log := logger.New("test")
	service := NewLocationService(mockRepo, log)

	ctx := context.Background()
	mockRepo.On("Find", ctx, int64(1)).Return(&models.Location{
		ID:   1,
		Name: "Egypt",
		Type: models.LocationCountry,
	}, nil)

	// Act
	path, err := service.FullPath(ctx, 1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"Egypt"}, path)
	mockRepo.AssertExpectations(t)
}

func TestFullPath_OrderedRootToLeaf(t *testing.T) {
	// Arrange
	mockRepo := new(MockLocationRepository)
	log := logger.New("test")
	service := NewLocationService(mockRepo, log)

	ctx := context.Background()
	mockRepo.On("Find", ctx, int64(4)).Return(&models.Location{
		ID: 4, Name: "Abu El Feda", Type: models.LocationNeighborhood, ParentID: ptrInt64(3),
	}, nil)
	mockRepo.On("Find", ctx, int64(3)).Return(&models.Location{
		ID: 3, Name: "Zamalek", Type: models.LocationDistrict, ParentID: ptrInt64(2),
	}, nil)
	mockRepo.On("Find", ctx, int64(2)).Return(&models.Location{
		ID: 2, Name: "Cairo", Type: models.LocationCity, ParentID: ptrInt64(1),
	}, nil)
	mockRepo.On("Find", ctx, int64(1)).Return(&models.Location{
		ID: 1, Name: "Egypt", Type: models.LocationCountry,
	}, nil)

	// Act
	path, err := service.FullPath(ctx, 4)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"Egypt", "Cairo", "Zamalek", "Abu El Feda"}, path)
	mockRepo.AssertExpectations(t)
}

func TestFullPath_CycleDetected(t *testing.T) {
	// Arrange
	mockRepo := new(MockLocationRepository)
	log := logger.New("test")
	service := NewLocationService(mockRepo, log)

	ctx := context.Background()
	// 10 -> 11 -> 10: malformed ancestry that must not loop forever.
	mockRepo.On("Find", ctx, int64(10)).Return(&models.Location{
		ID: 10, Name: "A", Type: models.LocationDistrict, ParentID: ptrInt64(11),
	}, nil)
	mockRepo.On("Find", ctx, int64(11)).Return(&models.Location{
		ID: 11, Name: "B", Type: models.LocationCity, ParentID: ptrInt64(10),
	}, nil)

	// Act
	path, err := service.FullPath(ctx, 10)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, path)
	assert.ErrorIs(t, err, repository.ErrCycleDetected)
}

func TestFullPath_SelfParent(t *testing.T) {
	// Arrange
	mockRepo := new(MockLocationRepository)
	log := logger.New("test")
	service := NewLocationService(mockRepo, log)

	ctx := context.Background()
	mockRepo.On("Find", ctx, int64(5)).Return(&models.Location{
		ID: 5, Name: "Loop", Type: models.LocationCity, ParentID: ptrInt64(5),
	}, nil)

	// Act
	path, err := service.FullPath(ctx, 5)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, path)
	assert.ErrorIs(t, err, repository.ErrCycleDetected)
}

func TestFullPath_NotFound(t *testing.T) {
	// Arrange
	mockRepo := new(MockLocationRepository)
	log := logger.New("test")
	service := NewLocationService(mockRepo, log)

	ctx := context.Background()
	mockRepo.On("Find", ctx, int64(99)).Return(nil, repository.ErrNotFound)

	// Act
	path, err := service.FullPath(ctx, 99)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, path)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestValidParent(t *testing.T) {
	service := NewLocationService(new(MockLocationRepository), logger.New("test"))

	assert.True(t, service.ValidParent(models.LocationCity, models.LocationCountry))
	assert.True(t, service.ValidParent(models.LocationNeighborhood, models.LocationDistrict))
	assert.False(t, service.ValidParent(models.LocationDistrict, models.LocationCountry))
	assert.False(t, service.ValidParent(models.LocationCountry, models.LocationCity))
}
