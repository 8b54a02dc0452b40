package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/scope"
)

const (
	// PrincipalIDHeader carries the authenticated user id, set by the
	// auth gateway in front of this service.
	PrincipalIDHeader = "X-Principal-ID"
	// PrincipalRoleHeader carries the authenticated user's role.
	PrincipalRoleHeader = "X-Principal-Role"
	// PrincipalCompanyHeader carries the user's company id; absent for
	// super admins.
	PrincipalCompanyHeader = "X-Principal-Company"

	principalKey = "principal"
	scopeKey     = "scope"
)

// Principal reads the identity headers the gateway attaches to every
// request, resolves them into a tenancy scope, and rejects requests that
// carry no usable identity. This service never validates credentials
// itself; it trusts the gateway's headers.
func Principal() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseInt(c.GetHeader(PrincipalIDHeader), 10, 64)
		if err != nil || userID <= 0 {
			unauthenticated(c, "missing or invalid principal id")
			return
		}

		role := models.Role(c.GetHeader(PrincipalRoleHeader))
		if !models.ValidRole(role) {
			unauthenticated(c, "missing or invalid principal role")
			return
		}

		p := scope.Principal{UserID: userID, Role: role}
		if raw := c.GetHeader(PrincipalCompanyHeader); raw != "" {
			companyID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || companyID <= 0 {
				unauthenticated(c, "invalid principal company")
				return
			}
			p.CompanyID = &companyID
		}

		c.Set(principalKey, p)
		c.Set(scopeKey, scope.For(p))

		c.Next()
	}
}

func unauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":       "UNAUTHENTICATED",
			"message":    message,
			"request_id": GetRequestID(c),
		},
	})
}

// GetPrincipal retrieves the request principal from the Gin context.
// The bool is false when the Principal middleware did not run.
func GetPrincipal(c *gin.Context) (scope.Principal, bool) {
	if v, exists := c.Get(principalKey); exists {
		if p, ok := v.(scope.Principal); ok {
			return p, true
		}
	}
	return scope.Principal{}, false
}

// GetScope retrieves the resolved tenancy scope from the Gin context. The
// zero scope allows nothing, so a missing scope fails closed.
func GetScope(c *gin.Context) scope.Scope {
	if v, exists := c.Get(scopeKey); exists {
		if sc, ok := v.(scope.Scope); ok {
			return sc
		}
	}
	return scope.Scope{}
}
