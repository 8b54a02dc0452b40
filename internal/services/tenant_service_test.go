package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rifaat-dev/propcore/internal/config"
	"github.com/rifaat-dev/propcore/internal/logger"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/repository"
	"github.com/rifaat-dev/propcore/internal/scope"
)

// MockTenantRepository is a mock implementation of TenantRepository for testing
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Find(ctx context.Context, id int64, sc scope.Scope) (*models.Tenant, error) {
	args := m.Called(ctx, id, sc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	t, _ := args.Get(0).(*models.Tenant)
	return t, args.Error(1)
}

func (m *MockTenantRepository) FindByUserID(ctx context.Context, userID int64, sc scope.Scope) (*models.Tenant, error) {
	args := m.Called(ctx, userID, sc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	t, _ := args.Get(0).(*models.Tenant)
	return t, args.Error(1)
}

func (m *MockTenantRepository) Update(ctx context.Context, t *models.Tenant, sc scope.Scope) error {
	args := m.Called(ctx, t, sc)
	return args.Error(0)
}

func (m *MockTenantRepository) SoftDelete(ctx context.Context, id int64, sc scope.Scope) error {
	args := m.Called(ctx, id, sc)
	return args.Error(0)
}

func (m *MockTenantRepository) List(ctx context.Context, f repository.TenantFilter, page repository.Page, sc scope.Scope) (repository.Paginated[models.Tenant], error) {
	args := m.Called(ctx, f, page, sc)
	result, _ := args.Get(0).(repository.Paginated[models.Tenant])
	return result, args.Error(1)
}

func (m *MockTenantRepository) CreateWithUser(ctx context.Context, u *models.User, t *models.Tenant) error {
	args := m.Called(ctx, u, t)
	return args.Error(0)
}

func (m *MockTenantRepository) UpdateWithUser(ctx context.Context, u *models.User, t *models.Tenant) error {
	args := m.Called(ctx, u, t)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *models.User, sc scope.Scope) error {
	args := m.Called(ctx, u, sc)
	return args.Error(0)
}

func (m *MockUserRepository) Find(ctx context.Context, id int64, sc scope.Scope) (*models.User, error) {
	args := m.Called(ctx, id, sc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string, sc scope.Scope) (*models.User, error) {
	args := m.Called(ctx, email, sc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *models.User, sc scope.Scope) error {
	args := m.Called(ctx, u, sc)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64, sc scope.Scope) error {
	args := m.Called(ctx, id, sc)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, f repository.UserFilter, page repository.Page, sc scope.Scope) (repository.Paginated[models.User], error) {
	args := m.Called(ctx, f, page, sc)
	result, _ := args.Get(0).(repository.Paginated[models.User])
	return result, args.Error(1)
}

func newTenantService(tenants *MockTenantRepository, users *MockUserRepository, cfg config.TenancyConfig) TenantService {
	return NewTenantService(tenants, users, cfg, logger.New("test"))
}

func adminScope(companyID int64) scope.Scope {
	return scope.For(scope.Principal{UserID: 1, Role: models.RoleCompanyAdmin, CompanyID: &companyID})
}

func superScope() scope.Scope {
	return scope.For(scope.Principal{UserID: 1, Role: models.RoleSuperAdmin})
}

func TestTenantCreate_MissingUserData(t *testing.T) {
	mockTenants := new(MockTenantRepository)
	service := newTenantService(mockTenants, new(MockUserRepository), config.TenancyConfig{})

	_, _, err := service.Create(context.Background(), adminScope(7), CreateTenantInput{})

	assert.ErrorIs(t, err, repository.ErrMissingUserData)
	mockTenants.AssertNotCalled(t, "CreateWithUser")
}

func TestTenantCreate_HashesPasswordAndForcesRole(t *testing.T) {
	// Arrange
	mockTenants := new(MockTenantRepository)
	service := newTenantService(mockTenants, new(MockUserRepository), config.TenancyConfig{})

	ctx := context.Background()
	var created *models.User
	mockTenants.On("CreateWithUser", ctx, mock.AnythingOfType("*models.User"), mock.AnythingOfType("*models.Tenant")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.User)
			created.ID = 42
			args.Get(2).(*models.Tenant).ID = 9
		}).
		Return(nil)

	// Act
	tenant, user, err := service.Create(ctx, adminScope(7), CreateTenantInput{
		User: &UserFields{
			Name:     "Mona Hassan",
			Email:    "mona@example.com",
			Password: "s3cret-pass",
		},
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, models.RoleTenant, user.Role)
	assert.NotEqual(t, "s3cret-pass", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("s3cret-pass")))
	require.NotNil(t, user.CompanyID)
	assert.Equal(t, int64(7), *user.CompanyID)
	assert.Equal(t, int64(9), tenant.ID)
	mockTenants.AssertExpectations(t)
}

func TestTenantCreate_ScopedIgnoresRequestedCompany(t *testing.T) {
	mockTenants := new(MockTenantRepository)
	service := newTenantService(mockTenants, new(MockUserRepository), config.TenancyConfig{})

	ctx := context.Background()
	other := int64(99)
	mockTenants.On("CreateWithUser", ctx, mock.AnythingOfType("*models.User"), mock.AnythingOfType("*models.Tenant")).
		Return(nil)

	_, user, err := service.Create(ctx, adminScope(7), CreateTenantInput{
		User: &UserFields{Name: "X", Email: "x@example.com", Password: "p", CompanyID: &other},
	})

	require.NoError(t, err)
	require.NotNil(t, user.CompanyID)
	assert.Equal(t, int64(7), *user.CompanyID)
}

func TestTenantCreate_SuperAdminRequiresCompany(t *testing.T) {
	mockTenants := new(MockTenantRepository)
	service := newTenantService(mockTenants, new(MockUserRepository), config.TenancyConfig{})

	_, _, err := service.Create(context.Background(), superScope(), CreateTenantInput{
		User: &UserFields{Name: "X", Email: "x@example.com", Password: "p"},
	})

	assert.ErrorIs(t, err, repository.ErrCompanyRequired)
	mockTenants.AssertNotCalled(t, "CreateWithUser")
}

func TestTenantCreate_NoPasswordNoDefault(t *testing.T) {
	mockTenants := new(MockTenantRepository)
	service := newTenantService(mockTenants, new(MockUserRepository), config.TenancyConfig{})

	_, _, err := service.Create(context.Background(), adminScope(7), CreateTenantInput{
		User: &UserFields{Name: "X", Email: "x@example.com"},
	})

	assert.ErrorIs(t, err, ErrPasswordRequired)
	mockTenants.AssertNotCalled(t, "CreateWithUser")
}

func TestTenantCreate_NoPasswordWithDefault(t *testing.T) {
	mockTenants := new(MockTenantRepository)
	service := newTenantService(mockTenants, new(MockUserRepository), config.TenancyConfig{
		DefaultTenantPassword: "welcome-1",
	})

	ctx := context.Background()
	var created *models.User
	mockTenants.On("CreateWithUser", ctx, mock.AnythingOfType("*models.User"), mock.AnythingOfType("*models.Tenant")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.User)
		}).
		Return(nil)

	_, _, err := service.Create(ctx, adminScope(7), CreateTenantInput{
		User: &UserFields{Name: "X", Email: "x@example.com"},
	})

	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("welcome-1")))
}

func TestTenantCreate_RepositoryFailure(t *testing.T) {
	mockTenants := new(MockTenantRepository)
	service := newTenantService(mockTenants, new(MockUserRepository), config.TenancyConfig{})

	ctx := context.Background()
	mockTenants.On("CreateWithUser", ctx, mock.Anything, mock.Anything).
		Return(repository.ErrDuplicateUser)

	tenant, user, err := service.Create(ctx, adminScope(7), CreateTenantInput{
		User: &UserFields{Name: "X", Email: "dup@example.com", Password: "p"},
	})

	assert.ErrorIs(t, err, repository.ErrDuplicateUser)
	assert.Nil(t, tenant)
	assert.Nil(t, user)
}

func TestTenantUpdate_EmptyPasswordKeepsHash(t *testing.T) {
	// Arrange
	mockTenants := new(MockTenantRepository)
	mockUsers := new(MockUserRepository)
	service := newTenantService(mockTenants, mockUsers, config.TenancyConfig{})

	ctx := context.Background()
	sc := adminScope(7)
	companyID := int64(7)
	existingHash := "$2a$14$existinghashvalue"

	mockTenants.On("Find", ctx, int64(9), sc).Return(&models.Tenant{
		ID: 9, UserID: 42, CompanyID: 7,
	}, nil)
	mockUsers.On("Find", ctx, int64(42), sc).Return(&models.User{
		ID: 42, CompanyID: &companyID, Email: "old@example.com", Password: existingHash, Role: models.RoleTenant,
	}, nil)

	var updated *models.User
	mockTenants.On("UpdateWithUser", ctx, mock.AnythingOfType("*models.User"), mock.AnythingOfType("*models.Tenant")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(*models.User)
		}).
		Return(nil)

	// Act
	tenant, _, err := service.Update(ctx, sc, 9, UpdateTenantInput{
		User:    &UserFields{Name: "New Name", Email: "new@example.com"},
		Profile: models.Tenant{JobTitle: "Engineer"},
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, existingHash, updated.Password)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, int64(7), tenant.CompanyID)
	assert.Equal(t, "Engineer", tenant.JobTitle)
	mockTenants.AssertExpectations(t)
}

func TestTenantUpdate_ProfileOnlySkipsUserWrite(t *testing.T) {
	mockTenants := new(MockTenantRepository)
	mockUsers := new(MockUserRepository)
	service := newTenantService(mockTenants, mockUsers, config.TenancyConfig{})

	ctx := context.Background()
	sc := adminScope(7)
	companyID := int64(7)

	mockTenants.On("Find", ctx, int64(9), sc).Return(&models.Tenant{ID: 9, UserID: 42, CompanyID: 7}, nil)
	mockUsers.On("Find", ctx, int64(42), sc).Return(&models.User{ID: 42, CompanyID: &companyID}, nil)
	mockTenants.On("Update", ctx, mock.AnythingOfType("*models.Tenant"), sc).Return(nil)

	_, _, err := service.Update(ctx, sc, 9, UpdateTenantInput{
		Profile: models.Tenant{JobTitle: "Engineer"},
	})

	require.NoError(t, err)
	mockTenants.AssertNotCalled(t, "UpdateWithUser")
}

func TestTenantUpdate_NotFound(t *testing.T) {
	mockTenants := new(MockTenantRepository)
	service := newTenantService(mockTenants, new(MockUserRepository), config.TenancyConfig{})

	ctx := context.Background()
	sc := adminScope(7)
	mockTenants.On("Find", ctx, int64(9), sc).Return(nil, repository.ErrNotFound)

	_, _, err := service.Update(ctx, sc, 9, UpdateTenantInput{})

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTenantUpdate_CrossCompanyMoveDenied(t *testing.T) {
	mockTenants := new(MockTenantRepository)
	mockUsers := new(MockUserRepository)
	service := newTenantService(mockTenants, mockUsers, config.TenancyConfig{})

	ctx := context.Background()
	sc := adminScope(7)
	companyID := int64(7)
	other := int64(99)

	mockTenants.On("Find", ctx, int64(9), sc).Return(&models.Tenant{ID: 9, UserID: 42, CompanyID: 7}, nil)
	mockUsers.On("Find", ctx, int64(42), sc).Return(&models.User{ID: 42, CompanyID: &companyID}, nil)

	_, _, err := service.Update(ctx, sc, 9, UpdateTenantInput{
		User: &UserFields{Name: "X", Email: "x@example.com", CompanyID: &other},
	})

	assert.ErrorIs(t, err, repository.ErrCrossTenant)
	mockTenants.AssertNotCalled(t, "UpdateWithUser")
}

func TestTenantDelete_PropagatesError(t *testing.T) {
	mockTenants := new(MockTenantRepository)
	service := newTenantService(mockTenants, new(MockUserRepository), config.TenancyConfig{})

	ctx := context.Background()
	sc := adminScope(7)
	wantErr := errors.New("boom")
	mockTenants.On("SoftDelete", ctx, int64(9), sc).Return(wantErr)

	err := service.Delete(ctx, sc, 9)

	assert.ErrorIs(t, err, wantErr)
}
