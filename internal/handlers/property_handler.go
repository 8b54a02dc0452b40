package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/rifaat-dev/propcore/internal/errors"
	"github.com/rifaat-dev/propcore/internal/middleware"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/repository"
)

// PropertyHandler handles property HTTP requests.
type PropertyHandler struct {
	repo   repository.PropertyRepository
	images repository.ImageRepository
}

// NewPropertyHandler creates a new PropertyHandler instance.
func NewPropertyHandler(repo repository.PropertyRepository, images repository.ImageRepository) *PropertyHandler {
	return &PropertyHandler{repo: repo, images: images}
}

// CreatePropertyRequest is the create payload for a property. CompanyID is
// honored for super admins only; scoped principals always create into their
// own company.
type CreatePropertyRequest struct {
	CompanyID   int64  `json:"company_id"`
	LocationID  int64  `json:"location_id" binding:"required,min=1"`
	Name        string `json:"name" binding:"required,max=255"`
	Address     string `json:"address" binding:"required,max=500"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// UpdatePropertyRequest is the update payload. The owning company cannot
// change after creation.
type UpdatePropertyRequest struct {
	LocationID  int64  `json:"location_id" binding:"required,min=1"`
	Name        string `json:"name" binding:"required,max=255"`
	Address     string `json:"address" binding:"required,max=500"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// ListPropertiesQuery is the query binding for property listing.
type ListPropertiesQuery struct {
	pageQuery
	CompanyID  *int64 `form:"company_id"`
	LocationID *int64 `form:"location_id"`
	Name       string `form:"name" binding:"omitempty,max=255"`
}

// List handles GET /api/v1/properties.
func (h *PropertyHandler) List(c *gin.Context) {
	var q ListPropertiesQuery
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.repo.List(c.Request.Context(), repository.PropertyFilter{
		CompanyID:  q.CompanyID,
		LocationID: q.LocationID,
		Name:       q.Name,
	}, q.page(), middleware.GetScope(c))
	if err != nil {
		apierrors.FromError(c, err, "Properties not found")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/v1/properties/:id.
func (h *PropertyHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	property, err := h.repo.Find(c.Request.Context(), id, middleware.GetScope(c))
	if err != nil {
		apierrors.FromError(c, err, "Property not found")
		return
	}

	c.JSON(http.StatusOK, property)
}

// Create handles POST /api/v1/properties.
func (h *PropertyHandler) Create(c *gin.Context) {
	var req CreatePropertyRequest
	if !bindJSON(c, &req) {
		return
	}

	sc := middleware.GetScope(c)
	companyID := req.CompanyID
	if !sc.All() {
		companyID = sc.CompanyID()
	}

	property := models.Property{
		CompanyID:   companyID,
		LocationID:  req.LocationID,
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
	}

	if err := h.repo.Create(c.Request.Context(), &property, sc); err != nil {
		apierrors.FromError(c, err, "Location not found")
		return
	}

	c.JSON(http.StatusCreated, property)
}

// Update handles PUT /api/v1/properties/:id.
func (h *PropertyHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdatePropertyRequest
	if !bindJSON(c, &req) {
		return
	}

	sc := middleware.GetScope(c)
	property, err := h.repo.Find(c.Request.Context(), id, sc)
	if err != nil {
		apierrors.FromError(c, err, "Property not found")
		return
	}

	property.LocationID = req.LocationID
	property.Name = req.Name
	property.Address = req.Address
	property.Description = req.Description

	if err := h.repo.Update(c.Request.Context(), property, sc); err != nil {
		apierrors.FromError(c, err, "Property not found")
		return
	}

	c.JSON(http.StatusOK, property)
}

// Delete handles DELETE /api/v1/properties/:id.
func (h *PropertyHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id, middleware.GetScope(c)); err != nil {
		apierrors.FromError(c, err, "Property not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListImages handles GET /api/v1/properties/:id/images.
func (h *PropertyHandler) ListImages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	images, err := h.images.ListForProperty(c.Request.Context(), id, middleware.GetScope(c))
	if err != nil {
		apierrors.FromError(c, err, "Property not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": images, "count": len(images)})
}

// AttachImage handles POST /api/v1/properties/:id/images.
func (h *PropertyHandler) AttachImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req AttachImageRequest
	if !bindJSON(c, &req) {
		return
	}

	image := req.toModel(models.OwnerProperty, id)
	if err := h.images.Attach(c.Request.Context(), &image, middleware.GetScope(c)); err != nil {
		apierrors.FromError(c, err, "Property not found")
		return
	}

	c.JSON(http.StatusCreated, image)
}
