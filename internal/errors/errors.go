package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/rifaat-dev/propcore/internal/middleware"
	"github.com/rifaat-dev/propcore/internal/repository"
	"github.com/rifaat-dev/propcore/internal/services"
)

// Error code constants for standardized error responses
const (
	ErrNotFound           = "NOT_FOUND"
	ErrBadRequest         = "BAD_REQUEST"
	ErrForbidden          = "FORBIDDEN"
	ErrConflict           = "CONFLICT"
	ErrInternalServer     = "INTERNAL_SERVER_ERROR"
	ErrValidation         = "VALIDATION_ERROR"
	ErrCrossTenant        = "CROSS_TENANT_VIOLATION"
	ErrInvalidHierarchy   = "INVALID_HIERARCHY"
	ErrCycleDetected      = "CYCLE_DETECTED"
	ErrDuplicateEmail     = "DUPLICATE_EMAIL"
	ErrDuplicateProfile   = "DUPLICATE_TENANT_PROFILE"
	ErrDuplicateUnit      = "DUPLICATE_UNIT_NUMBER"
	ErrMissingUserData    = "MISSING_USER_DATA"
	ErrLocationInUse      = "LOCATION_IN_USE"
	ErrCompanyRequired    = "COMPANY_REQUIRED"
	ErrUnknownMetric      = "UNKNOWN_METRIC"
	ErrDatabaseConnection = "DATABASE_CONNECTION_ERROR"
)

// ErrorResponse is the top-level error response structure.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// NotFound returns a 404 Not Found error response.
// It logs a warning and sends a JSON response with the error details.
func NotFound(c *gin.Context, message string) {
	respondWarn(c, http.StatusNotFound, ErrNotFound, message, nil)
}

// BadRequest returns a 400 Bad Request error response with optional details.
// It logs a warning and sends a JSON response with the error details.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	respondWarn(c, http.StatusBadRequest, ErrBadRequest, message, details)
}

// Forbidden returns a 403 Forbidden error response.
func Forbidden(c *gin.Context, message string) {
	respondWarn(c, http.StatusForbidden, ErrForbidden, message, nil)
}

// Conflict returns a 409 Conflict error response with a specific code.
func Conflict(c *gin.Context, code, message string) {
	respondWarn(c, http.StatusConflict, code, message, nil)
}

// InternalServerError returns a 500 Internal Server Error response.
// It logs the error with full context and sends a generic error message to
// the client. The actual error details are not exposed to the client.
func InternalServerError(c *gin.Context, message string, err error) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	if log != nil {
		log.Error("Internal server error", err, map[string]interface{}{
			"message":    message,
			"request_id": requestID,
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
		})
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{
			Code:      ErrInternalServer,
			Message:   message,
			RequestID: requestID,
		},
	})
}

// ValidationError returns a 400 Bad Request error response with
// field-specific validation errors parsed from the validator library.
func ValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	details := make(map[string]interface{})
	for _, err := range validationErrors {
		details[err.Field()] = formatValidationError(err)
	}
	respondWarn(c, http.StatusBadRequest, ErrValidation, "Validation failed for one or more fields", details)
}

// FromError maps a repository or service error to the appropriate HTTP
// response. Handlers call this for any error they do not handle themselves;
// unrecognized errors become a generic 500.
func FromError(c *gin.Context, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, notFoundMessage)
	case errors.Is(err, repository.ErrCrossTenant):
		respondWarn(c, http.StatusForbidden, ErrCrossTenant, "Referenced record belongs to another company", nil)
	case errors.Is(err, repository.ErrInvalidHierarchy):
		respondWarn(c, http.StatusUnprocessableEntity, ErrInvalidHierarchy, err.Error(), nil)
	case errors.Is(err, repository.ErrCycleDetected):
		InternalServerError(c, "Location hierarchy is malformed", err)
	case errors.Is(err, repository.ErrDuplicateUser):
		Conflict(c, ErrDuplicateEmail, "A user with this email already exists")
	case errors.Is(err, repository.ErrDuplicateTenant):
		Conflict(c, ErrDuplicateProfile, "This user already has a tenant profile")
	case errors.Is(err, repository.ErrDuplicateUnitNumber):
		Conflict(c, ErrDuplicateUnit, "A unit with this number already exists in the property")
	case errors.Is(err, repository.ErrLocationInUse):
		Conflict(c, ErrLocationInUse, "Location still has children or properties attached")
	case errors.Is(err, repository.ErrMissingUserData):
		respondWarn(c, http.StatusBadRequest, ErrMissingUserData, "Tenant creation requires nested user data", nil)
	case errors.Is(err, repository.ErrCompanyRequired):
		respondWarn(c, http.StatusBadRequest, ErrCompanyRequired, "A company id is required for this operation", nil)
	case errors.Is(err, services.ErrPasswordRequired):
		respondWarn(c, http.StatusBadRequest, ErrValidation, "A password is required", nil)
	case errors.Is(err, services.ErrUnknownMetric):
		respondWarn(c, http.StatusBadRequest, ErrUnknownMetric, err.Error(), nil)
	default:
		InternalServerError(c, "An unexpected error occurred", err)
	}
}

func respondWarn(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	logFields := map[string]interface{}{
		"code":       code,
		"message":    message,
		"request_id": requestID,
		"path":       c.Request.URL.Path,
	}
	if details != nil {
		logFields["details"] = details
	}
	if log != nil {
		log.Warn("Request failed", logFields)
	}

	c.JSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
	})
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Value is too short or small (minimum: " + err.Param() + ")"
	case "max":
		return "Value is too long or large (maximum: " + err.Param() + ")"
	case "gt":
		return "Must be greater than " + err.Param()
	case "gte":
		return "Must be greater than or equal to " + err.Param()
	case "lt":
		return "Must be less than " + err.Param()
	case "lte":
		return "Must be less than or equal to " + err.Param()
	case "oneof":
		return "Must be one of: " + err.Param()
	case "datetime":
		return "Must be a date in format " + err.Param()
	default:
		return "Validation failed for tag: " + err.Tag()
	}
}
