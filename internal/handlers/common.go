package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/rifaat-dev/propcore/internal/errors"
	"github.com/rifaat-dev/propcore/internal/middleware"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/repository"
)

// bindJSON binds and validates a JSON request body. It writes the error
// response and returns false when binding fails.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return false
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return false
	}
	return true
}

// bindQuery binds and validates query parameters. It writes the error
// response and returns false when binding fails.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return false
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return false
	}
	return true
}

// pathID parses the named path parameter as a positive integer id. It
// writes the error response and returns false when the parameter is not a
// valid id.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		apierrors.BadRequest(c, "Invalid "+name+" path parameter", nil)
		return 0, false
	}
	return id, true
}

// pageQuery is the shared pagination query binding.
type pageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (q pageQuery) page() repository.Page {
	return repository.Page{Number: q.Page, Size: q.PageSize}
}

// requireSuperAdmin aborts with 403 unless the request principal is a super
// admin. Platform-level operations (company create/delete) use this.
func requireSuperAdmin(c *gin.Context) bool {
	p, ok := middleware.GetPrincipal(c)
	if !ok || p.Role != models.RoleSuperAdmin {
		apierrors.Forbidden(c, "This operation requires platform administrator access")
		return false
	}
	return true
}
