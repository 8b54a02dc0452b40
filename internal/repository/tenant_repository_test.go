package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/rifaat-dev/propcore/internal/config"
	"github.com/rifaat-dev/propcore/internal/database"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/scope"
)

// getTestConfig returns database configuration for integration tests.
func getTestConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:     getEnvOrDefault("DB_HOST", "localhost"),
		Port:     getEnvOrDefault("DB_PORT", "5432"),
		Name:     getEnvOrDefault("DB_NAME", "propcore_test"),
		User:     getEnvOrDefault("DB_USER", "postgres"),
		Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
		PoolMin:  2,
		PoolMax:  5,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// setupTestDB creates a test database connection. The migrations in
// migrations/ must have been applied to the test database.
func setupTestDB(t *testing.T) *database.Database {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, getTestConfig())
	if err != nil {
		t.Fatalf("Failed to create database connection: %v", err)
	}
	return db
}

// createTestCompany inserts a company fixture and registers cleanup.
func createTestCompany(t *testing.T, db *database.Database) *models.Company {
	t.Helper()
	ctx := context.Background()

	c := &models.Company{
		Name:     fmt.Sprintf("Test Company %d", time.Now().UnixNano()),
		Email:    fmt.Sprintf("company-%d@test.local", time.Now().UnixNano()),
		IsActive: true,
	}
	if err := NewCompanyRepository(db).Create(ctx, c); err != nil {
		t.Fatalf("Failed to create company fixture: %v", err)
	}
	t.Cleanup(func() {
		// Cascades to users, tenants, and everything below them.
		_, _ = db.Exec(context.Background(), "DELETE FROM companies WHERE id = $1", c.ID)
	})
	return c
}

func testUser(companyID int64) *models.User {
	return &models.User{
		CompanyID: &companyID,
		Name:      "Tenant User",
		Email:     fmt.Sprintf("tenant-%d@test.local", time.Now().UnixNano()),
		Password:  "$2a$14$not.a.real.hash.but.opaque.to.the.repository.layer00000",
		Role:      models.RoleTenant,
	}
}

func TestCreateWithUser_InsertsBothRows(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	company := createTestCompany(t, db)
	repo := NewTenantRepository(db, false)

	u := testUser(company.ID)
	profile := &models.Tenant{CompanyID: company.ID, NumberOfOccupants: 2}
	if err := repo.CreateWithUser(ctx, u, profile); err != nil {
		t.Fatalf("CreateWithUser returned error: %v", err)
	}

	if u.ID == 0 {
		t.Error("Expected user ID to be assigned")
	}
	if profile.ID == 0 {
		t.Error("Expected tenant ID to be assigned")
	}
	if profile.UserID != u.ID {
		t.Errorf("Expected tenant.UserID %d, got %d", u.ID, profile.UserID)
	}
	if profile.Status != models.TenantActive {
		t.Errorf("Expected default status %q, got %q", models.TenantActive, profile.Status)
	}

	found, err := repo.FindByUserID(ctx, u.ID, scope.Company(company.ID))
	if err != nil {
		t.Fatalf("FindByUserID returned error: %v", err)
	}
	if found.ID != profile.ID {
		t.Errorf("Expected tenant %d, got %d", profile.ID, found.ID)
	}
}

// A failure on the tenant insert must roll back the user insert.
func TestCreateWithUser_RollsBackUserOnTenantFailure(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	company := createTestCompany(t, db)
	repo := NewTenantRepository(db, false)
	users := NewUserRepository(db)

	u := testUser(company.ID)
	// An invalid status violates the tenants status check constraint after
	// the user row has already been written inside the transaction.
	profile := &models.Tenant{CompanyID: company.ID, Status: models.TenantStatus("bogus")}

	if err := repo.CreateWithUser(ctx, u, profile); err == nil {
		t.Fatal("Expected CreateWithUser to fail on invalid tenant status")
	}

	if _, err := users.FindByEmail(ctx, u.Email, scope.Unrestricted()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected user row to be rolled back, FindByEmail err = %v", err)
	}
}

func TestCreateWithUser_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	company := createTestCompany(t, db)
	repo := NewTenantRepository(db, false)

	u := testUser(company.ID)
	if err := repo.CreateWithUser(ctx, u, &models.Tenant{CompanyID: company.ID}); err != nil {
		t.Fatalf("CreateWithUser returned error: %v", err)
	}

	dup := testUser(company.ID)
	dup.Email = u.Email
	err := repo.CreateWithUser(ctx, dup, &models.Tenant{CompanyID: company.ID})
	if !errors.Is(err, ErrDuplicateUser) {
		t.Errorf("Expected ErrDuplicateUser, got %v", err)
	}
}

func TestTenantFind_ScopeIsolation(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	companyA := createTestCompany(t, db)
	companyB := createTestCompany(t, db)
	repo := NewTenantRepository(db, false)

	u := testUser(companyA.ID)
	profile := &models.Tenant{CompanyID: companyA.ID}
	if err := repo.CreateWithUser(ctx, u, profile); err != nil {
		t.Fatalf("CreateWithUser returned error: %v", err)
	}

	// Visible in its own company and to an unrestricted scope.
	if _, err := repo.Find(ctx, profile.ID, scope.Company(companyA.ID)); err != nil {
		t.Errorf("Find in own company returned error: %v", err)
	}
	if _, err := repo.Find(ctx, profile.ID, scope.Unrestricted()); err != nil {
		t.Errorf("Find with unrestricted scope returned error: %v", err)
	}

	// Invisible from another company, indistinguishable from absence.
	if _, err := repo.Find(ctx, profile.ID, scope.Company(companyB.ID)); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound from foreign company scope, got %v", err)
	}

	// A zero scope (principal with no company) matches nothing.
	if _, err := repo.Find(ctx, profile.ID, scope.Scope{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound from zero scope, got %v", err)
	}
}

func TestSoftDelete_HidesTenantFromReads(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	company := createTestCompany(t, db)
	repo := NewTenantRepository(db, false)

	u := testUser(company.ID)
	profile := &models.Tenant{CompanyID: company.ID}
	if err := repo.CreateWithUser(ctx, u, profile); err != nil {
		t.Fatalf("CreateWithUser returned error: %v", err)
	}

	sc := scope.Company(company.ID)
	if err := repo.SoftDelete(ctx, profile.ID, sc); err != nil {
		t.Fatalf("SoftDelete returned error: %v", err)
	}

	if _, err := repo.Find(ctx, profile.ID, sc); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected soft-deleted tenant to be hidden, got %v", err)
	}

	// The row itself survives with deleted_at stamped.
	var deletedAt *time.Time
	err := db.QueryRow(ctx, "SELECT deleted_at FROM tenants WHERE id = $1", profile.ID).Scan(&deletedAt)
	if err != nil {
		t.Fatalf("Failed to read raw tenant row: %v", err)
	}
	if deletedAt == nil {
		t.Error("Expected deleted_at to be set")
	}

	// Soft delete of an already-deleted tenant reports not found.
	if err := repo.SoftDelete(ctx, profile.ID, sc); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on repeated soft delete, got %v", err)
	}
}

func TestSoftDelete_ForeignScopeDenied(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	companyA := createTestCompany(t, db)
	companyB := createTestCompany(t, db)
	repo := NewTenantRepository(db, false)

	u := testUser(companyA.ID)
	profile := &models.Tenant{CompanyID: companyA.ID}
	if err := repo.CreateWithUser(ctx, u, profile); err != nil {
		t.Fatalf("CreateWithUser returned error: %v", err)
	}

	if err := repo.SoftDelete(ctx, profile.ID, scope.Company(companyB.ID)); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound from foreign scope, got %v", err)
	}

	// The tenant is untouched.
	if _, err := repo.Find(ctx, profile.ID, scope.Company(companyA.ID)); err != nil {
		t.Errorf("Tenant should still be visible in its own company: %v", err)
	}
}
