package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rifaat-dev/propcore/internal/logger"
	"github.com/rifaat-dev/propcore/internal/middleware"
	"github.com/rifaat-dev/propcore/internal/repository"
)

func init() {
	// Set Gin to test mode to suppress logs during tests
	gin.SetMode(gin.TestMode)
}

// setupTestContext creates a test Gin context with logger and request ID in context.
func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	c.Set("logger", logger.New("development"))
	c.Set(middleware.RequestIDKey, "test-request-id")

	return c, w
}

// parseErrorResponse parses the JSON response into an ErrorResponse struct.
func parseErrorResponse(t *testing.T, body *bytes.Buffer) ErrorResponse {
	var response ErrorResponse
	err := json.Unmarshal(body.Bytes(), &response)
	require.NoError(t, err, "Failed to parse error response JSON")
	return response
}

func TestNotFound(t *testing.T) {
	c, w := setupTestContext()

	NotFound(c, "Property not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrNotFound, response.Error.Code)
	assert.Equal(t, "Property not found", response.Error.Message)
	assert.Equal(t, "test-request-id", response.Error.RequestID)
}

func TestBadRequest_WithDetails(t *testing.T) {
	c, w := setupTestContext()

	BadRequest(c, "Invalid payload", map[string]interface{}{"field": "name"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrBadRequest, response.Error.Code)
	assert.Equal(t, "name", response.Error.Details["field"])
}

func TestInternalServerError_HidesDetails(t *testing.T) {
	c, w := setupTestContext()

	InternalServerError(c, "Something went wrong", fmt.Errorf("pgx: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrInternalServer, response.Error.Code)
	assert.NotContains(t, response.Error.Message, "pgx")
}

func TestFromError_Mapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", repository.ErrNotFound, http.StatusNotFound, ErrNotFound},
		{"cross tenant", repository.ErrCrossTenant, http.StatusForbidden, ErrCrossTenant},
		{"invalid hierarchy", repository.ErrInvalidHierarchy, http.StatusUnprocessableEntity, ErrInvalidHierarchy},
		{"duplicate email", repository.ErrDuplicateUser, http.StatusConflict, ErrDuplicateEmail},
		{"duplicate profile", repository.ErrDuplicateTenant, http.StatusConflict, ErrDuplicateProfile},
		{"duplicate unit number", repository.ErrDuplicateUnitNumber, http.StatusConflict, ErrDuplicateUnit},
		{"location in use", repository.ErrLocationInUse, http.StatusConflict, ErrLocationInUse},
		{"missing user data", repository.ErrMissingUserData, http.StatusBadRequest, ErrMissingUserData},
		{"company required", repository.ErrCompanyRequired, http.StatusBadRequest, ErrCompanyRequired},
		{"cycle detected", repository.ErrCycleDetected, http.StatusInternalServerError, ErrInternalServer},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, ErrInternalServer},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := setupTestContext()

			FromError(c, tc.err, "record not found")

			assert.Equal(t, tc.wantStatus, w.Code)
			response := parseErrorResponse(t, w.Body)
			assert.Equal(t, tc.wantCode, response.Error.Code)
		})
	}
}

func TestFromError_WrappedSentinel(t *testing.T) {
	c, w := setupTestContext()

	FromError(c, fmt.Errorf("failed to find tenant 9: %w", repository.ErrNotFound), "tenant not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, "tenant not found", response.Error.Message)
}
