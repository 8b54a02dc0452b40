// Package scope computes the effective company filter for every data access.
// It is the single place the multi-tenant visibility rule lives: super admins
// see everything, every other role is confined to its own company.
package scope

import (
	"github.com/rifaat-dev/propcore/internal/models"
)

// Principal is the acting user context for an operation: who is asking, in
// what role, for which company. It is threaded explicitly into every
// repository and service call and re-evaluated on every request.
type Principal struct {
	UserID    int64
	Role      models.Role
	CompanyID *int64
}

// Scope is the resolved visibility predicate derived from a Principal.
// The zero value allows nothing; build scopes with For (or Unrestricted in
// tests and system jobs).
type Scope struct {
	unrestricted bool
	companyID    int64
	userID       int64
}

// For derives the scope for a principal. Super admins are unrestricted; all
// other roles get a company_id equality filter on their own company. A
// non-super-admin principal without a company yields a scope that matches
// nothing, which surfaces as NotFound downstream.
func For(p Principal) Scope {
	if p.Role == models.RoleSuperAdmin {
		return Scope{unrestricted: true, userID: p.UserID}
	}
	s := Scope{userID: p.UserID}
	if p.CompanyID != nil {
		s.companyID = *p.CompanyID
	}
	return s
}

// Unrestricted returns a scope with no company filter.
func Unrestricted() Scope {
	return Scope{unrestricted: true}
}

// Company returns a scope confined to one company.
func Company(companyID int64) Scope {
	return Scope{companyID: companyID}
}

// All reports whether the scope is unrestricted.
func (s Scope) All() bool { return s.unrestricted }

// CompanyID returns the company filter value. Only meaningful when All() is
// false.
func (s Scope) CompanyID() int64 { return s.companyID }

// UserID returns the acting user's id, for "mine" filters and audit fields.
func (s Scope) UserID() int64 { return s.userID }

// Allows reports whether a record owned by companyID is visible in this
// scope. A zero-company scope (principal with no company) allows nothing.
func (s Scope) Allows(companyID int64) bool {
	if s.unrestricted {
		return true
	}
	return s.companyID != 0 && s.companyID == companyID
}
