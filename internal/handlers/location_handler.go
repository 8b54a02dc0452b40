package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/rifaat-dev/propcore/internal/errors"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/repository"
	"github.com/rifaat-dev/propcore/internal/services"
)

// LocationHandler handles location hierarchy HTTP requests. Locations are
// global reference data; writes are restricted to super admins.
type LocationHandler struct {
	repo    repository.LocationRepository
	service services.LocationService
}

// NewLocationHandler creates a new LocationHandler instance.
func NewLocationHandler(repo repository.LocationRepository, service services.LocationService) *LocationHandler {
	return &LocationHandler{repo: repo, service: service}
}

// LocationRequest is the create/update payload for a location.
type LocationRequest struct {
	ParentID  *int64   `json:"parent_id"`
	Name      string   `json:"name" binding:"required,max=255"`
	Type      string   `json:"type" binding:"required,oneof=country city district neighborhood"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
}

// ListLocationsQuery is the query binding for location listing.
type ListLocationsQuery struct {
	pageQuery
	Type     string `form:"type" binding:"omitempty,oneof=country city district neighborhood"`
	ParentID *int64 `form:"parent_id"`
	Name     string `form:"name" binding:"omitempty,max=255"`
}

// List handles GET /api/v1/locations.
func (h *LocationHandler) List(c *gin.Context) {
	var q ListLocationsQuery
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.repo.List(c.Request.Context(), repository.LocationFilter{
		Type:     models.LocationType(q.Type),
		ParentID: q.ParentID,
		Name:     q.Name,
	}, q.page())
	if err != nil {
		apierrors.FromError(c, err, "Locations not found")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/v1/locations/:id.
func (h *LocationHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	location, err := h.repo.Find(c.Request.Context(), id)
	if err != nil {
		apierrors.FromError(c, err, "Location not found")
		return
	}

	c.JSON(http.StatusOK, location)
}

// Children handles GET /api/v1/locations/:id/children.
func (h *LocationHandler) Children(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	children, err := h.repo.Children(c.Request.Context(), id)
	if err != nil {
		apierrors.FromError(c, err, "Location not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": children, "count": len(children)})
}

// FullPath handles GET /api/v1/locations/:id/full-path.
// Returns the names from the root country down to this location.
func (h *LocationHandler) FullPath(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	path, err := h.service.FullPath(c.Request.Context(), id)
	if err != nil {
		apierrors.FromError(c, err, "Location not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": path})
}

// Create handles POST /api/v1/locations. Super admin only.
func (h *LocationHandler) Create(c *gin.Context) {
	if !requireSuperAdmin(c) {
		return
	}

	var req LocationRequest
	if !bindJSON(c, &req) {
		return
	}

	location := models.Location{
		ParentID:  req.ParentID,
		Name:      req.Name,
		Type:      models.LocationType(req.Type),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	if err := h.repo.Create(c.Request.Context(), &location); err != nil {
		apierrors.FromError(c, err, "Parent location not found")
		return
	}

	c.JSON(http.StatusCreated, location)
}

// Update handles PUT /api/v1/locations/:id. Super admin only.
func (h *LocationHandler) Update(c *gin.Context) {
	if !requireSuperAdmin(c) {
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req LocationRequest
	if !bindJSON(c, &req) {
		return
	}

	location := models.Location{
		ID:        id,
		ParentID:  req.ParentID,
		Name:      req.Name,
		Type:      models.LocationType(req.Type),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	if err := h.repo.Update(c.Request.Context(), &location); err != nil {
		apierrors.FromError(c, err, "Location not found")
		return
	}

	c.JSON(http.StatusOK, location)
}

// Delete handles DELETE /api/v1/locations/:id. Super admin only.
// Deletion is restricted while children or properties still reference the
// location.
func (h *LocationHandler) Delete(c *gin.Context) {
	if !requireSuperAdmin(c) {
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		apierrors.FromError(c, err, "Location not found")
		return
	}

	c.Status(http.StatusNoContent)
}
