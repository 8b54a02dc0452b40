package models

import "time"

// Role determines how the tenancy scope is computed for a principal.
type Role string

const (
	RoleSuperAdmin      Role = "super_admin"
	RoleCompanyAdmin    Role = "company_admin"
	RolePropertyManager Role = "property_manager"
	RoleTenant          Role = "tenant"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleSuperAdmin, RoleCompanyAdmin, RolePropertyManager, RoleTenant:
		return true
	}
	return false
}

// User is an account in the system. CompanyID is nil only for super admins,
// who are not bound to a single company.
type User struct {
	ID        int64     `json:"id"`
	CompanyID *int64    `json:"company_id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // bcrypt hash, never serialized
	Role      Role      `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsSuperAdmin() bool { return u.Role == RoleSuperAdmin }
func (u *User) IsTenant() bool     { return u.Role == RoleTenant }
