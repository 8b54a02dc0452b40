package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/rifaat-dev/propcore/internal/errors"
	"github.com/rifaat-dev/propcore/internal/middleware"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/repository"
)

// AttachImageRequest is the payload for attaching an image to an owning
// entity. The owner comes from the route, never from the body.
type AttachImageRequest struct {
	Path      string `json:"path" binding:"required,max=1024"`
	Disk      string `json:"disk" binding:"omitempty,max=50"`
	IsPrimary bool   `json:"is_primary"`
	Order     int    `json:"order" binding:"omitempty,min=0"`
}

func (r AttachImageRequest) toModel(owner models.ImageOwner, ownerID int64) models.Image {
	disk := r.Disk
	if disk == "" {
		disk = "public"
	}
	return models.Image{
		OwnerType: owner,
		OwnerID:   ownerID,
		Path:      r.Path,
		Disk:      disk,
		IsPrimary: r.IsPrimary,
		Order:     r.Order,
	}
}

// ImageHandler handles operations on images that are independent of the
// owning entity. Listing and attaching live on the owner's routes.
type ImageHandler struct {
	repo repository.ImageRepository
}

// NewImageHandler creates a new ImageHandler instance.
func NewImageHandler(repo repository.ImageRepository) *ImageHandler {
	return &ImageHandler{repo: repo}
}

// Get handles GET /api/v1/images/:id.
func (h *ImageHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	image, err := h.repo.Find(c.Request.Context(), id, middleware.GetScope(c))
	if err != nil {
		apierrors.FromError(c, err, "Image not found")
		return
	}

	c.JSON(http.StatusOK, image)
}

// Delete handles DELETE /api/v1/images/:id.
func (h *ImageHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id, middleware.GetScope(c)); err != nil {
		apierrors.FromError(c, err, "Image not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// SetPrimary handles PUT /api/v1/images/:id/primary.
// Demotes the owner's current primary image and promotes this one.
func (h *ImageHandler) SetPrimary(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.repo.SetPrimary(c.Request.Context(), id, middleware.GetScope(c)); err != nil {
		apierrors.FromError(c, err, "Image not found")
		return
	}

	c.Status(http.StatusNoContent)
}
