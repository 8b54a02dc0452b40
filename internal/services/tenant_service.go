package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/rifaat-dev/propcore/internal/config"
	"github.com/rifaat-dev/propcore/internal/logger"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/repository"
	"github.com/rifaat-dev/propcore/internal/scope"
)

// bcryptCost matches the cost used across the rest of the platform.
const bcryptCost = 14

// Service-level errors for the tenant lifecycle.
var (
	ErrPasswordRequired = errors.New("a password is required to create a tenant account")
)

// UserFields is the nested account part of a tenant payload. Role is not
// accepted from callers; tenant-linked users are always role=tenant.
type UserFields struct {
	Name      string
	Email     string
	Password  string // plaintext from the caller; hashed before persistence
	Phone     string
	CompanyID *int64 // honored for unrestricted scopes only
}

// CreateTenantInput carries the two explicit halves of a tenant creation:
// the account to create and the renter profile to attach to it.
type CreateTenantInput struct {
	User    *UserFields
	Profile models.Tenant
}

// UpdateTenantInput carries a profile update with an optional update of the
// linked account. A nil User leaves the account untouched; an empty
// User.Password keeps the existing hash.
type UpdateTenantInput struct {
	User    *UserFields
	Profile models.Tenant
}

// TenantService coordinates the atomic user+tenant lifecycle on top of the
// tenant repository's transactions.
type TenantService interface {
	Create(ctx context.Context, sc scope.Scope, in CreateTenantInput) (*models.Tenant, *models.User, error)
	Update(ctx context.Context, sc scope.Scope, tenantID int64, in UpdateTenantInput) (*models.Tenant, *models.User, error)
	Delete(ctx context.Context, sc scope.Scope, tenantID int64) error
}

type tenantService struct {
	tenants repository.TenantRepository
	users   repository.UserRepository
	cfg     config.TenancyConfig
	log     *logger.Logger
}

// NewTenantService creates a new TenantService.
func NewTenantService(tenants repository.TenantRepository, users repository.UserRepository, cfg config.TenancyConfig, log *logger.Logger) TenantService {
	return &tenantService{tenants: tenants, users: users, cfg: cfg, log: log}
}

// resolveCompany determines the company a tenant account lands in. Scoped
// principals always create into their own company; unrestricted principals
// must say which company they mean.
func resolveCompany(sc scope.Scope, requested *int64) (int64, error) {
	if !sc.All() {
		if sc.CompanyID() == 0 {
			return 0, repository.ErrCompanyRequired
		}
		return sc.CompanyID(), nil
	}
	if requested == nil {
		return 0, repository.ErrCompanyRequired
	}
	return *requested, nil
}

// hashPassword bcrypt-hashes a plaintext credential.
func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Create validates the nested payload, builds the user with role forced to
// tenant, and persists both records in one transaction. The profile's
// company is derived from the created user inside the transaction, never
// from caller input.
func (s *tenantService) Create(ctx context.Context, sc scope.Scope, in CreateTenantInput) (*models.Tenant, *models.User, error) {
	if in.User == nil {
		return nil, nil, repository.ErrMissingUserData
	}

	companyID, err := resolveCompany(sc, in.User.CompanyID)
	if err != nil {
		return nil, nil, err
	}

	password := in.User.Password
	if password == "" {
		// Falling back to a configured default credential is a policy
		// decision; with no default configured the request is rejected.
		if s.cfg.DefaultTenantPassword == "" {
			return nil, nil, ErrPasswordRequired
		}
		password = s.cfg.DefaultTenantPassword
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{
		CompanyID: &companyID,
		Name:      in.User.Name,
		Email:     in.User.Email,
		Password:  hash,
		Role:      models.RoleTenant, // forced regardless of caller input
		Phone:     in.User.Phone,
	}
	tenant := in.Profile

	if err := s.tenants.CreateWithUser(ctx, user, &tenant); err != nil {
		s.log.Error("Tenant creation rolled back", err, map[string]interface{}{
			"operation":  "tenant.create",
			"email":      in.User.Email,
			"company_id": companyID,
		})
		return nil, nil, err
	}

	s.log.Info("Tenant created", map[string]interface{}{
		"tenant_id":  tenant.ID,
		"user_id":    user.ID,
		"company_id": tenant.CompanyID,
	})
	return &tenant, user, nil
}

// Update applies profile changes and, when account fields are supplied,
// updates the linked user in the same transaction. A company change on the
// user moves the profile with it.
func (s *tenantService) Update(ctx context.Context, sc scope.Scope, tenantID int64, in UpdateTenantInput) (*models.Tenant, *models.User, error) {
	existing, err := s.tenants.Find(ctx, tenantID, sc)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.users.Find(ctx, existing.UserID, sc)
	if err != nil {
		return nil, nil, err
	}

	tenant := in.Profile
	tenant.ID = existing.ID
	tenant.UserID = existing.UserID
	tenant.CompanyID = existing.CompanyID

	if in.User == nil {
		if err := s.tenants.Update(ctx, &tenant, sc); err != nil {
			return nil, nil, err
		}
		return &tenant, user, nil
	}

	user.Name = in.User.Name
	user.Email = in.User.Email
	user.Phone = in.User.Phone
	if in.User.Password != "" {
		hash, err := hashPassword(in.User.Password)
		if err != nil {
			return nil, nil, err
		}
		user.Password = hash
	}
	if sc.All() && in.User.CompanyID != nil {
		user.CompanyID = in.User.CompanyID
	} else if in.User.CompanyID != nil && !sc.Allows(*in.User.CompanyID) {
		return nil, nil, repository.ErrCrossTenant
	}

	if err := s.tenants.UpdateWithUser(ctx, user, &tenant); err != nil {
		s.log.Error("Tenant update rolled back", err, map[string]interface{}{
			"operation": "tenant.update",
			"tenant_id": tenantID,
			"user_id":   user.ID,
		})
		return nil, nil, err
	}

	s.log.Info("Tenant updated", map[string]interface{}{
		"tenant_id":  tenant.ID,
		"user_id":    user.ID,
		"company_id": tenant.CompanyID,
	})
	return &tenant, user, nil
}

// Delete soft-deletes a tenant profile; the linked user account survives.
func (s *tenantService) Delete(ctx context.Context, sc scope.Scope, tenantID int64) error {
	if err := s.tenants.SoftDelete(ctx, tenantID, sc); err != nil {
		return err
	}
	s.log.Info("Tenant soft-deleted", map[string]interface{}{
		"tenant_id": tenantID,
	})
	return nil
}
