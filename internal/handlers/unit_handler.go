package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apierrors "github.com/rifaat-dev/propcore/internal/errors"
	"github.com/rifaat-dev/propcore/internal/middleware"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/repository"
)

// UnitHandler handles unit HTTP requests. A unit's tenancy follows its
// owning property.
type UnitHandler struct {
	repo   repository.UnitRepository
	images repository.ImageRepository
}

// NewUnitHandler creates a new UnitHandler instance.
func NewUnitHandler(repo repository.UnitRepository, images repository.ImageRepository) *UnitHandler {
	return &UnitHandler{repo: repo, images: images}
}

// CreateUnitRequest is the create payload for a unit.
type CreateUnitRequest struct {
	PropertyID int64           `json:"property_id" binding:"required,min=1"`
	UnitNumber string          `json:"unit_number" binding:"required,max=50"`
	RentPrice  decimal.Decimal `json:"rent_price" binding:"required"`
	Status     string          `json:"status" binding:"omitempty,oneof=available occupied maintenance reserved"`
	Type       string          `json:"type" binding:"omitempty,oneof=apartment studio villa office"`
}

// UpdateUnitRequest is the update payload. The owning property cannot
// change after creation.
type UpdateUnitRequest struct {
	UnitNumber string          `json:"unit_number" binding:"required,max=50"`
	RentPrice  decimal.Decimal `json:"rent_price" binding:"required"`
	Status     string          `json:"status" binding:"required,oneof=available occupied maintenance reserved"`
	Type       string          `json:"type" binding:"omitempty,oneof=apartment studio villa office"`
}

// UnitFeatureRequest is the payload for adding a feature to a unit.
type UnitFeatureRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Value string `json:"value" binding:"omitempty,max=255"`
}

// ListUnitsQuery is the query binding for unit listing.
type ListUnitsQuery struct {
	pageQuery
	PropertyID *int64 `form:"property_id"`
	Status     string `form:"status" binding:"omitempty,oneof=available occupied maintenance reserved"`
	Type       string `form:"type" binding:"omitempty,oneof=apartment studio villa office"`
}

// List handles GET /api/v1/units.
func (h *UnitHandler) List(c *gin.Context) {
	var q ListUnitsQuery
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.repo.List(c.Request.Context(), repository.UnitFilter{
		PropertyID: q.PropertyID,
		Status:     models.UnitStatus(q.Status),
		Type:       q.Type,
	}, q.page(), middleware.GetScope(c))
	if err != nil {
		apierrors.FromError(c, err, "Units not found")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/v1/units/:id.
func (h *UnitHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	unit, err := h.repo.Find(c.Request.Context(), id, middleware.GetScope(c))
	if err != nil {
		apierrors.FromError(c, err, "Unit not found")
		return
	}

	c.JSON(http.StatusOK, unit)
}

// Create handles POST /api/v1/units.
func (h *UnitHandler) Create(c *gin.Context) {
	var req CreateUnitRequest
	if !bindJSON(c, &req) {
		return
	}

	unit := models.Unit{
		PropertyID: req.PropertyID,
		UnitNumber: req.UnitNumber,
		RentPrice:  req.RentPrice,
		Status:     models.UnitAvailable,
		Type:       req.Type,
	}
	if req.Status != "" {
		unit.Status = models.UnitStatus(req.Status)
	}

	if err := h.repo.Create(c.Request.Context(), &unit, middleware.GetScope(c)); err != nil {
		apierrors.FromError(c, err, "Property not found")
		return
	}

	c.JSON(http.StatusCreated, unit)
}

// Update handles PUT /api/v1/units/:id.
func (h *UnitHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateUnitRequest
	if !bindJSON(c, &req) {
		return
	}

	sc := middleware.GetScope(c)
	unit, err := h.repo.Find(c.Request.Context(), id, sc)
	if err != nil {
		apierrors.FromError(c, err, "Unit not found")
		return
	}

	unit.UnitNumber = req.UnitNumber
	unit.RentPrice = req.RentPrice
	unit.Status = models.UnitStatus(req.Status)
	unit.Type = req.Type

	if err := h.repo.Update(c.Request.Context(), unit, sc); err != nil {
		apierrors.FromError(c, err, "Unit not found")
		return
	}

	c.JSON(http.StatusOK, unit)
}

// Delete handles DELETE /api/v1/units/:id.
func (h *UnitHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id, middleware.GetScope(c)); err != nil {
		apierrors.FromError(c, err, "Unit not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// Features handles GET /api/v1/units/:id/features.
func (h *UnitHandler) Features(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	features, err := h.repo.Features(c.Request.Context(), id, middleware.GetScope(c))
	if err != nil {
		apierrors.FromError(c, err, "Unit not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": features, "count": len(features)})
}

// AddFeature handles POST /api/v1/units/:id/features.
func (h *UnitHandler) AddFeature(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UnitFeatureRequest
	if !bindJSON(c, &req) {
		return
	}

	feature := models.UnitFeature{
		UnitID: id,
		Name:   req.Name,
		Value:  req.Value,
	}

	if err := h.repo.AddFeature(c.Request.Context(), &feature, middleware.GetScope(c)); err != nil {
		apierrors.FromError(c, err, "Unit not found")
		return
	}

	c.JSON(http.StatusCreated, feature)
}

// RemoveFeature handles DELETE /api/v1/units/features/:featureID.
func (h *UnitHandler) RemoveFeature(c *gin.Context) {
	featureID, ok := pathID(c, "featureID")
	if !ok {
		return
	}

	if err := h.repo.RemoveFeature(c.Request.Context(), featureID, middleware.GetScope(c)); err != nil {
		apierrors.FromError(c, err, "Feature not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListImages handles GET /api/v1/units/:id/images.
func (h *UnitHandler) ListImages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	images, err := h.images.ListForUnit(c.Request.Context(), id, middleware.GetScope(c))
	if err != nil {
		apierrors.FromError(c, err, "Unit not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": images, "count": len(images)})
}

// AttachImage handles POST /api/v1/units/:id/images.
func (h *UnitHandler) AttachImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req AttachImageRequest
	if !bindJSON(c, &req) {
		return
	}

	image := req.toModel(models.OwnerUnit, id)
	if err := h.images.Attach(c.Request.Context(), &image, middleware.GetScope(c)); err != nil {
		apierrors.FromError(c, err, "Unit not found")
		return
	}

	c.JSON(http.StatusCreated, image)
}
