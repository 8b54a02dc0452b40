package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apierrors "github.com/rifaat-dev/propcore/internal/errors"
	"github.com/rifaat-dev/propcore/internal/middleware"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/repository"
)

// MaintenanceHandler handles maintenance request HTTP requests.
type MaintenanceHandler struct {
	repo   repository.MaintenanceRepository
	images repository.ImageRepository
}

// NewMaintenanceHandler creates a new MaintenanceHandler instance.
func NewMaintenanceHandler(repo repository.MaintenanceRepository, images repository.ImageRepository) *MaintenanceHandler {
	return &MaintenanceHandler{repo: repo, images: images}
}

// CreateMaintenanceRequest is the create payload for a maintenance request.
// The reporter defaults to the request principal.
type CreateMaintenanceRequest struct {
	CompanyID    int64            `json:"company_id"`
	UnitID       int64            `json:"unit_id" binding:"required,min=1"`
	AssignedToID *int64           `json:"assigned_to_id"`
	Title        string           `json:"title" binding:"required,max=255"`
	Description  string           `json:"description" binding:"required,max=5000"`
	Priority     string           `json:"priority" binding:"omitempty,oneof=low medium high emergency"`
	EstimatedCost *decimal.Decimal `json:"estimated_cost"`
	ScheduledAt  *time.Time       `json:"scheduled_at"`
}

// UpdateMaintenanceRequest is the update payload for a maintenance request.
type UpdateMaintenanceRequest struct {
	AssignedToID  *int64           `json:"assigned_to_id"`
	Title         string           `json:"title" binding:"required,max=255"`
	Description   string           `json:"description" binding:"required,max=5000"`
	Status        string           `json:"status" binding:"required,oneof=new pending in_progress resolved cancelled"`
	Priority      string           `json:"priority" binding:"required,oneof=low medium high emergency"`
	InternalNotes string           `json:"internal_notes" binding:"omitempty,max=5000"`
	EstimatedCost *decimal.Decimal `json:"estimated_cost"`
	ActualCost    *decimal.Decimal `json:"actual_cost"`
	ScheduledAt   *time.Time       `json:"scheduled_at"`
	CompletedAt   *time.Time       `json:"completed_at"`
}

// ListMaintenanceQuery is the query binding for maintenance listing.
type ListMaintenanceQuery struct {
	pageQuery
	UnitID       *int64     `form:"unit_id"`
	Status       string     `form:"status" binding:"omitempty,oneof=new pending in_progress resolved cancelled"`
	Priority     string     `form:"priority" binding:"omitempty,oneof=low medium high emergency"`
	AssignedToMe bool       `form:"assigned_to_me"`
	ReportedByMe bool       `form:"reported_by_me"`
	ScheduledTo  *time.Time `form:"scheduled_to" time_format:"2006-01-02"`
}

// List handles GET /api/v1/maintenance-requests.
func (h *MaintenanceHandler) List(c *gin.Context) {
	var q ListMaintenanceQuery
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.repo.List(c.Request.Context(), repository.MaintenanceFilter{
		UnitID:       q.UnitID,
		Status:       models.MaintenanceStatus(q.Status),
		Priority:     models.MaintenancePriority(q.Priority),
		AssignedToMe: q.AssignedToMe,
		ReportedByMe: q.ReportedByMe,
		ScheduledTo:  q.ScheduledTo,
	}, q.page(), middleware.GetScope(c))
	if err != nil {
		apierrors.FromError(c, err, "Maintenance requests not found")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/v1/maintenance-requests/:id.
func (h *MaintenanceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	request, err := h.repo.Find(c.Request.Context(), id, middleware.GetScope(c))
	if err != nil {
		apierrors.FromError(c, err, "Maintenance request not found")
		return
	}

	c.JSON(http.StatusOK, request)
}

// Create handles POST /api/v1/maintenance-requests.
func (h *MaintenanceHandler) Create(c *gin.Context) {
	var req CreateMaintenanceRequest
	if !bindJSON(c, &req) {
		return
	}

	p, _ := middleware.GetPrincipal(c)
	sc := middleware.GetScope(c)
	companyID := req.CompanyID
	if !sc.All() {
		companyID = sc.CompanyID()
	}

	request := models.MaintenanceRequest{
		UnitID:        req.UnitID,
		CompanyID:     companyID,
		ReportedByID:  p.UserID,
		AssignedToID:  req.AssignedToID,
		Title:         req.Title,
		Description:   req.Description,
		Status:        models.MaintenanceNew,
		Priority:      models.PriorityMedium,
		EstimatedCost: req.EstimatedCost,
		ScheduledAt:   req.ScheduledAt,
	}
	if req.Priority != "" {
		request.Priority = models.MaintenancePriority(req.Priority)
	}

	if err := h.repo.Create(c.Request.Context(), &request, sc); err != nil {
		apierrors.FromError(c, err, "Unit not found")
		return
	}

	c.JSON(http.StatusCreated, request)
}

// Update handles PUT /api/v1/maintenance-requests/:id.
func (h *MaintenanceHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateMaintenanceRequest
	if !bindJSON(c, &req) {
		return
	}

	sc := middleware.GetScope(c)
	request, err := h.repo.Find(c.Request.Context(), id, sc)
	if err != nil {
		apierrors.FromError(c, err, "Maintenance request not found")
		return
	}

	request.AssignedToID = req.AssignedToID
	request.Title = req.Title
	request.Description = req.Description
	request.Status = models.MaintenanceStatus(req.Status)
	request.Priority = models.MaintenancePriority(req.Priority)
	request.InternalNotes = req.InternalNotes
	request.EstimatedCost = req.EstimatedCost
	request.ActualCost = req.ActualCost
	request.ScheduledAt = req.ScheduledAt
	request.CompletedAt = req.CompletedAt

	if err := h.repo.Update(c.Request.Context(), request, sc); err != nil {
		apierrors.FromError(c, err, "Maintenance request not found")
		return
	}

	c.JSON(http.StatusOK, request)
}

// Delete handles DELETE /api/v1/maintenance-requests/:id.
func (h *MaintenanceHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id, middleware.GetScope(c)); err != nil {
		apierrors.FromError(c, err, "Maintenance request not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListImages handles GET /api/v1/maintenance-requests/:id/images.
func (h *MaintenanceHandler) ListImages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	images, err := h.images.ListForMaintenanceRequest(c.Request.Context(), id, middleware.GetScope(c))
	if err != nil {
		apierrors.FromError(c, err, "Maintenance request not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": images, "count": len(images)})
}

// AttachImage handles POST /api/v1/maintenance-requests/:id/images.
func (h *MaintenanceHandler) AttachImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req AttachImageRequest
	if !bindJSON(c, &req) {
		return
	}

	image := req.toModel(models.OwnerMaintenanceRequest, id)
	if err := h.images.Attach(c.Request.Context(), &image, middleware.GetScope(c)); err != nil {
		apierrors.FromError(c, err, "Maintenance request not found")
		return
	}

	c.JSON(http.StatusCreated, image)
}
