package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/rifaat-dev/propcore/internal/errors"
	"github.com/rifaat-dev/propcore/internal/middleware"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/repository"
	"github.com/rifaat-dev/propcore/internal/services"
)

// CompanyHandler handles company HTTP requests. Creating and deleting
// companies is a platform-level operation; everything else is scoped.
type CompanyHandler struct {
	repo  repository.CompanyRepository
	stats services.StatsService
}

// NewCompanyHandler creates a new CompanyHandler instance.
func NewCompanyHandler(repo repository.CompanyRepository, stats services.StatsService) *CompanyHandler {
	return &CompanyHandler{repo: repo, stats: stats}
}

// CompanyRequest is the create/update payload for a company.
type CompanyRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"omitempty,max=50"`
	Address  string `json:"address" binding:"omitempty,max=500"`
	IsActive *bool  `json:"is_active"`
}

// ListCompaniesQuery is the query binding for company listing.
type ListCompaniesQuery struct {
	pageQuery
	Name     string `form:"name" binding:"omitempty,max=255"`
	IsActive *bool  `form:"is_active"`
}

// List handles GET /api/v1/companies.
func (h *CompanyHandler) List(c *gin.Context) {
	var q ListCompaniesQuery
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.repo.List(c.Request.Context(), repository.CompanyFilter{
		Name:     q.Name,
		IsActive: q.IsActive,
	}, q.page(), middleware.GetScope(c))
	if err != nil {
		apierrors.FromError(c, err, "Companies not found")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/v1/companies/:id.
func (h *CompanyHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	company, err := h.repo.Find(c.Request.Context(), id, middleware.GetScope(c))
	if err != nil {
		apierrors.FromError(c, err, "Company not found")
		return
	}

	c.JSON(http.StatusOK, company)
}

// Create handles POST /api/v1/companies. Super admin only.
func (h *CompanyHandler) Create(c *gin.Context) {
	if !requireSuperAdmin(c) {
		return
	}

	var req CompanyRequest
	if !bindJSON(c, &req) {
		return
	}

	company := models.Company{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		IsActive: true,
	}
	if req.IsActive != nil {
		company.IsActive = *req.IsActive
	}

	if err := h.repo.Create(c.Request.Context(), &company); err != nil {
		apierrors.FromError(c, err, "Company not found")
		return
	}

	c.JSON(http.StatusCreated, company)
}

// Update handles PUT /api/v1/companies/:id.
func (h *CompanyHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CompanyRequest
	if !bindJSON(c, &req) {
		return
	}

	sc := middleware.GetScope(c)
	company, err := h.repo.Find(c.Request.Context(), id, sc)
	if err != nil {
		apierrors.FromError(c, err, "Company not found")
		return
	}

	company.Name = req.Name
	company.Email = req.Email
	company.Phone = req.Phone
	company.Address = req.Address
	if req.IsActive != nil {
		company.IsActive = *req.IsActive
	}

	if err := h.repo.Update(c.Request.Context(), company, sc); err != nil {
		apierrors.FromError(c, err, "Company not found")
		return
	}

	c.JSON(http.StatusOK, company)
}

// Delete handles DELETE /api/v1/companies/:id. Super admin only.
func (h *CompanyHandler) Delete(c *gin.Context) {
	if !requireSuperAdmin(c) {
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id, middleware.GetScope(c)); err != nil {
		apierrors.FromError(c, err, "Company not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// Stats handles GET /api/v1/companies/:id/stats.
// Returns the dashboard widget: staff breakdown and money aggregates.
func (h *CompanyHandler) Stats(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	stats, err := h.stats.CompanyStats(c.Request.Context(), middleware.GetScope(c), id)
	if err != nil {
		apierrors.FromError(c, err, "Company not found")
		return
	}

	c.JSON(http.StatusOK, stats)
}
