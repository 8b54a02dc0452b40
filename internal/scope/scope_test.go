package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/rifaat-dev/propcore/internal/models"
)

func int64Ptr(v int64) *int64 { return &v }

func TestFor_SuperAdmin_Unrestricted(t *testing.T) {
	s := For(Principal{UserID: 7, Role: models.RoleSuperAdmin})

	assert.True(t, s.All())
	assert.True(t, s.Allows(1))
	assert.True(t, s.Allows(999))
	assert.Equal(t, int64(7), s.UserID())
}

func TestFor_CompanyAdmin_OwnCompanyOnly(t *testing.T) {
	s := For(Principal{UserID: 3, Role: models.RoleCompanyAdmin, CompanyID: int64Ptr(1)})

	assert.False(t, s.All())
	assert.Equal(t, int64(1), s.CompanyID())
	assert.True(t, s.Allows(1))
	assert.False(t, s.Allows(2))
}

func TestFor_PropertyManagerAndTenant_Scoped(t *testing.T) {
	for _, role := range []models.Role{models.RolePropertyManager, models.RoleTenant} {
		s := For(Principal{UserID: 5, Role: role, CompanyID: int64Ptr(4)})
		assert.False(t, s.All(), "role %s must be scoped", role)
		assert.True(t, s.Allows(4))
		assert.False(t, s.Allows(1))
	}
}

func TestFor_ScopedPrincipalWithoutCompany_AllowsNothing(t *testing.T) {
	s := For(Principal{UserID: 9, Role: models.RoleCompanyAdmin})

	assert.False(t, s.All())
	assert.False(t, s.Allows(0))
	assert.False(t, s.Allows(1))
}

func TestZeroScope_AllowsNothing(t *testing.T) {
	var s Scope
	assert.False(t, s.All())
	assert.False(t, s.Allows(1))
}

func TestCompanyScope(t *testing.T) {
	s := Company(2)
	assert.False(t, s.All())
	assert.True(t, s.Allows(2))
	assert.False(t, s.Allows(3))
}
