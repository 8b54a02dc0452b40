package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	apierrors "github.com/rifaat-dev/propcore/internal/errors"
	"github.com/rifaat-dev/propcore/internal/middleware"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/repository"
)

// passwordHashCost matches the bcrypt cost used for tenant credentials.
const passwordHashCost = 14

// UserHandler handles staff account HTTP requests. Tenant accounts are
// managed through the tenant endpoints, not here.
type UserHandler struct {
	repo repository.UserRepository
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(repo repository.UserRepository) *UserHandler {
	return &UserHandler{repo: repo}
}

// CreateUserRequest is the create payload for a staff account.
type CreateUserRequest struct {
	CompanyID *int64 `json:"company_id"`
	Name      string `json:"name" binding:"required,max=255"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role" binding:"required,oneof=super_admin company_admin property_manager"`
	Phone     string `json:"phone" binding:"omitempty,max=50"`
}

// UpdateUserRequest is the update payload. An empty password keeps the
// existing credential.
type UpdateUserRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"omitempty,min=8"`
	Role     string `json:"role" binding:"required,oneof=super_admin company_admin property_manager tenant"`
	Phone    string `json:"phone" binding:"omitempty,max=50"`
}

// ListUsersQuery is the query binding for user listing.
type ListUsersQuery struct {
	pageQuery
	Role      string `form:"role" binding:"omitempty,oneof=super_admin company_admin property_manager tenant"`
	CompanyID *int64 `form:"company_id"`
	Email     string `form:"email" binding:"omitempty,max=255"`
	Name      string `form:"name" binding:"omitempty,max=255"`
}

// List handles GET /api/v1/users.
func (h *UserHandler) List(c *gin.Context) {
	var q ListUsersQuery
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.repo.List(c.Request.Context(), repository.UserFilter{
		Role:      models.Role(q.Role),
		CompanyID: q.CompanyID,
		Email:     q.Email,
		Name:      q.Name,
	}, q.page(), middleware.GetScope(c))
	if err != nil {
		apierrors.FromError(c, err, "Users not found")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/v1/users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.repo.Find(c.Request.Context(), id, middleware.GetScope(c))
	if err != nil {
		apierrors.FromError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, user)
}

// Create handles POST /api/v1/users.
// Creating a super admin is itself a super admin operation.
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	role := models.Role(req.Role)
	if role == models.RoleSuperAdmin && !requireSuperAdmin(c) {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordHashCost)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to create user", err)
		return
	}

	sc := middleware.GetScope(c)
	user := models.User{
		CompanyID: req.CompanyID,
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hash),
		Role:      role,
		Phone:     req.Phone,
	}
	if !sc.All() {
		companyID := sc.CompanyID()
		user.CompanyID = &companyID
	}

	if err := h.repo.Create(c.Request.Context(), &user, sc); err != nil {
		apierrors.FromError(c, err, "Company not found")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Update handles PUT /api/v1/users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	role := models.Role(req.Role)
	if role == models.RoleSuperAdmin && !requireSuperAdmin(c) {
		return
	}

	sc := middleware.GetScope(c)
	user, err := h.repo.Find(c.Request.Context(), id, sc)
	if err != nil {
		apierrors.FromError(c, err, "User not found")
		return
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Role = role
	user.Phone = req.Phone
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordHashCost)
		if err != nil {
			apierrors.InternalServerError(c, "Failed to update user", err)
			return
		}
		user.Password = string(hash)
	}

	if err := h.repo.Update(c.Request.Context(), user, sc); err != nil {
		apierrors.FromError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /api/v1/users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id, middleware.GetScope(c)); err != nil {
		apierrors.FromError(c, err, "User not found")
		return
	}

	c.Status(http.StatusNoContent)
}
