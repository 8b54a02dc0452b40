package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "github.com/rifaat-dev/propcore/internal/errors"
	"github.com/rifaat-dev/propcore/internal/logger"
	"github.com/rifaat-dev/propcore/internal/middleware"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/repository"
)

// MockLocationRepository is a mock implementation of repository.LocationRepository.
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
	return args.Get(0).(*models.Location), args.Error(1)
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
	return args.Get(0).(repository.Paginated[models.Location]), args.Error(1)
}

func (m *MockLocationRepository) Children(ctx context.Context, parentID int64) ([]models.Location, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Location), args.Error(1)
}

// MockLocationService is a mock implementation of services.LocationService.
type MockLocationService struct {
	mock.Mock
}

func (m *MockLocationService) FullPath(ctx context.Context, id int64) ([]string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLocationService) ValidParent(child, parent models.LocationType) bool {
	args := m.Called(child, parent)
	return args.Bool(0)
}

// setupLocationTestRouter builds the same middleware chain and routes the
// server uses for the locations group.
func setupLocationTestRouter(handler *LocationHandler, log *logger.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Principal())
	{
		locations := v1.Group("/locations")
		{
			locations.GET("", handler.List)
			locations.GET("/:id", handler.Get)
			locations.GET("/:id/full-path", handler.FullPath)
			locations.POST("", handler.Create)
		}
	}

	return router
}

// asSuperAdmin stamps gateway identity headers for a platform admin.
func asSuperAdmin(req *http.Request) {
	req.Header.Set(middleware.PrincipalIDHeader, "1")
	req.Header.Set(middleware.PrincipalRoleHeader, string(models.RoleSuperAdmin))
}

// asCompanyAdmin stamps gateway identity headers for a company admin.
func asCompanyAdmin(req *http.Request, companyID string) {
	req.Header.Set(middleware.PrincipalIDHeader, "2")
	req.Header.Set(middleware.PrincipalRoleHeader, string(models.RoleCompanyAdmin))
	req.Header.Set(middleware.PrincipalCompanyHeader, companyID)
}

func TestLocationFullPath_Success(t *testing.T) {
	log := logger.New("test")
	repo := new(MockLocationRepository)
	service := new(MockLocationService)
	service.On("FullPath", mock.Anything, int64(4)).
		Return([]string{"Egypt", "Cairo", "Zamalek", "Abu El Feda"}, nil)

	handler := NewLocationHandler(repo, service)
	router := setupLocationTestRouter(handler, log)

	req, err := http.NewRequest(http.MethodGet, "/api/v1/locations/4/full-path", nil)
	require.NoError(t, err)
	asCompanyAdmin(req, "10")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Path []string `json:"path"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, []string{"Egypt", "Cairo", "Zamalek", "Abu El Feda"}, response.Path)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestLocationGet_NotFound(t *testing.T) {
	log := logger.New("test")
	repo := new(MockLocationRepository)
	repo.On("Find", mock.Anything, int64(404)).Return(nil, repository.ErrNotFound)

	handler := NewLocationHandler(repo, new(MockLocationService))
	router := setupLocationTestRouter(handler, log)

	req, err := http.NewRequest(http.MethodGet, "/api/v1/locations/404", nil)
	require.NoError(t, err)
	asCompanyAdmin(req, "10")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, apierrors.ErrNotFound, response.Error.Code)
	assert.Equal(t, "Location not found", response.Error.Message)
	assert.NotEmpty(t, response.Error.RequestID)
}

func TestLocationCreate_RequiresSuperAdmin(t *testing.T) {
	log := logger.New("test")
	repo := new(MockLocationRepository)
	handler := NewLocationHandler(repo, new(MockLocationService))
	router := setupLocationTestRouter(handler, log)

	body, _ := json.Marshal(LocationRequest{Name: "Egypt", Type: "country"})
	req, err := http.NewRequest(http.MethodPost, "/api/v1/locations", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	asCompanyAdmin(req, "10")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var response apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, apierrors.ErrForbidden, response.Error.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLocationCreate_Success(t *testing.T) {
	log := logger.New("test")
	repo := new(MockLocationRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(l *models.Location) bool {
		return l.Name == "Egypt" && l.Type == models.LocationCountry && l.ParentID == nil
	})).Return(nil)

	handler := NewLocationHandler(repo, new(MockLocationService))
	router := setupLocationTestRouter(handler, log)

	body, _ := json.Marshal(LocationRequest{Name: "Egypt", Type: "country"})
	req, err := http.NewRequest(http.MethodPost, "/api/v1/locations", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	asSuperAdmin(req)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	repo.AssertExpectations(t)
}

func TestLocationCreate_InvalidType(t *testing.T) {
	log := logger.New("test")
	repo := new(MockLocationRepository)
	handler := NewLocationHandler(repo, new(MockLocationService))
	router := setupLocationTestRouter(handler, log)

	body, _ := json.Marshal(LocationRequest{Name: "Egypt", Type: "continent"})
	req, err := http.NewRequest(http.MethodPost, "/api/v1/locations", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	asSuperAdmin(req)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, apierrors.ErrValidation, response.Error.Code)
	assert.NotNil(t, response.Error.Details)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLocationCreate_InvalidHierarchy(t *testing.T) {
	log := logger.New("test")
	repo := new(MockLocationRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrInvalidHierarchy)

	handler := NewLocationHandler(repo, new(MockLocationService))
	router := setupLocationTestRouter(handler, log)

	parentID := int64(1)
	body, _ := json.Marshal(LocationRequest{ParentID: &parentID, Name: "Cairo", Type: "country"})
	req, err := http.NewRequest(http.MethodPost, "/api/v1/locations", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	asSuperAdmin(req)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, apierrors.ErrInvalidHierarchy, response.Error.Code)
}

func TestLocationRoutes_Unauthenticated(t *testing.T) {
	log := logger.New("test")
	handler := NewLocationHandler(new(MockLocationRepository), new(MockLocationService))
	router := setupLocationTestRouter(handler, log)

	// No identity headers at all.
	req, err := http.NewRequest(http.MethodGet, "/api/v1/locations/1", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
