package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/rifaat-dev/propcore/internal/models"
)

func init() {
	// Set Gin to test mode to reduce noise in tests
	gin.SetMode(gin.TestMode)
}

// TestRequestID tests the RequestID middleware
func TestRequestID(t *testing.T) {
	t.Run("generates new request ID", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) {
			requestID := GetRequestID(c)
			if requestID == "" {
				t.Error("Expected request ID to be set")
			}
			c.String(200, requestID)
		})

		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		headerID := w.Header().Get(RequestIDHeader)
		if headerID == "" {
			t.Error("Expected X-Request-ID header to be set")
		}
		if w.Body.String() != headerID {
			t.Errorf("Expected body to contain request ID %s, got %s", headerID, w.Body.String())
		}
	})

	t.Run("uses existing request ID from header", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) {
			c.String(200, GetRequestID(c))
		})

		existingID := "existing-request-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Body.String() != existingID {
			t.Errorf("Expected request ID %s, got %s", existingID, w.Body.String())
		}
	})
}

// TestCORS tests the CORS middleware
func TestCORS(t *testing.T) {
	allowedOrigins := []string{"http://localhost:3000"}

	t.Run("allows request from allowed origin", func(t *testing.T) {
		router := gin.New()
		router.Use(CORS(allowedOrigins))
		router.GET("/test", func(c *gin.Context) {
			c.String(200, "OK")
		})

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != 200 {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
			t.Error("Expected Access-Control-Allow-Origin header to be set")
		}
	})

	t.Run("does not set CORS headers for disallowed origin", func(t *testing.T) {
		router := gin.New()
		router.Use(CORS(allowedOrigins))
		router.GET("/test", func(c *gin.Context) {
			c.String(200, "OK")
		})

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Origin", "http://evil.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Header().Get("Access-Control-Allow-Origin") != "" {
			t.Error("Expected no CORS headers for disallowed origin")
		}
	})
}

// TestPrincipal tests the Principal middleware
func TestPrincipal(t *testing.T) {
	newRouter := func() *gin.Engine {
		router := gin.New()
		router.Use(Principal())
		router.GET("/test", func(c *gin.Context) {
			p, ok := GetPrincipal(c)
			if !ok {
				t.Error("Expected principal to be set")
			}
			c.JSON(200, gin.H{"user_id": p.UserID, "role": p.Role})
		})
		return router
	}

	t.Run("resolves a scoped principal", func(t *testing.T) {
		router := newRouter()
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(PrincipalIDHeader, "42")
		req.Header.Set(PrincipalRoleHeader, string(models.RoleCompanyAdmin))
		req.Header.Set(PrincipalCompanyHeader, "7")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != 200 {
			t.Errorf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("accepts a super admin without a company", func(t *testing.T) {
		router := newRouter()
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(PrincipalIDHeader, "1")
		req.Header.Set(PrincipalRoleHeader, string(models.RoleSuperAdmin))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != 200 {
			t.Errorf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects missing identity headers", func(t *testing.T) {
		router := newRouter()
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != 401 {
			t.Errorf("Expected status 401, got %d", w.Code)
		}
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		router := newRouter()
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(PrincipalIDHeader, "42")
		req.Header.Set(PrincipalRoleHeader, "owner")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != 401 {
			t.Errorf("Expected status 401, got %d", w.Code)
		}
	})

	t.Run("scope on a bare context allows nothing", func(t *testing.T) {
		c := &gin.Context{}
		if GetScope(c).Allows(1) {
			t.Error("Expected zero scope to deny")
		}
	})
}
