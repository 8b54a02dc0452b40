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

// RentalRequestHandler handles rental request HTTP requests.
type RentalRequestHandler struct {
	repo repository.RentalRequestRepository
}

// NewRentalRequestHandler creates a new RentalRequestHandler instance.
func NewRentalRequestHandler(repo repository.RentalRequestRepository) *RentalRequestHandler {
	return &RentalRequestHandler{repo: repo}
}

// CreateRentalRequestRequest is the create payload for a rental request.
type CreateRentalRequestRequest struct {
	CompanyID      int64            `json:"company_id"`
	TenantID       int64            `json:"tenant_id" binding:"required,min=1"`
	UnitID         *int64           `json:"unit_id"`
	Title          string           `json:"title" binding:"required,max=255"`
	Description    string           `json:"description" binding:"omitempty,max=5000"`
	Priority       string           `json:"priority" binding:"omitempty,oneof=low medium high"`
	PreferredType  string           `json:"preferred_type" binding:"omitempty,oneof=apartment studio villa office"`
	MaxBudget      *decimal.Decimal `json:"max_budget"`
	DesiredMoveIn  *time.Time       `json:"desired_move_in"`
	DurationMonths *int             `json:"duration_months" binding:"omitempty,min=1,max=120"`
}

// ReviewRentalRequestRequest is the payload for the admin decision on a
// pending request.
type ReviewRentalRequestRequest struct {
	Status     string `json:"status" binding:"required,oneof=approved rejected cancelled"`
	AdminNotes string `json:"admin_notes" binding:"omitempty,max=5000"`
}

// ListRentalRequestsQuery is the query binding for rental request listing.
type ListRentalRequestsQuery struct {
	pageQuery
	Status   string `form:"status" binding:"omitempty,oneof=pending approved rejected cancelled"`
	Priority string `form:"priority" binding:"omitempty,oneof=low medium high"`
	TenantID *int64 `form:"tenant_id"`
	UnitID   *int64 `form:"unit_id"`
}

// List handles GET /api/v1/rental-requests.
func (h *RentalRequestHandler) List(c *gin.Context) {
	var q ListRentalRequestsQuery
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.repo.List(c.Request.Context(), repository.RentalRequestFilter{
		Status:   models.RentalRequestStatus(q.Status),
		Priority: models.RentalRequestPriority(q.Priority),
		TenantID: q.TenantID,
		UnitID:   q.UnitID,
	}, q.page(), middleware.GetScope(c))
	if err != nil {
		apierrors.FromError(c, err, "Rental requests not found")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/v1/rental-requests/:id.
func (h *RentalRequestHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	request, err := h.repo.Find(c.Request.Context(), id, middleware.GetScope(c))
	if err != nil {
		apierrors.FromError(c, err, "Rental request not found")
		return
	}

	c.JSON(http.StatusOK, request)
}

// Create handles POST /api/v1/rental-requests.
func (h *RentalRequestHandler) Create(c *gin.Context) {
	var req CreateRentalRequestRequest
	if !bindJSON(c, &req) {
		return
	}

	sc := middleware.GetScope(c)
	companyID := req.CompanyID
	if !sc.All() {
		companyID = sc.CompanyID()
	}

	request := models.RentalRequest{
		CompanyID:      companyID,
		TenantID:       req.TenantID,
		UnitID:         req.UnitID,
		Title:          req.Title,
		Description:    req.Description,
		Status:         models.RentalPending,
		Priority:       models.RentalPriorityMedium,
		PreferredType:  req.PreferredType,
		MaxBudget:      req.MaxBudget,
		DesiredMoveIn:  req.DesiredMoveIn,
		DurationMonths: req.DurationMonths,
	}
	if req.Priority != "" {
		request.Priority = models.RentalRequestPriority(req.Priority)
	}

	if err := h.repo.Create(c.Request.Context(), &request, sc); err != nil {
		apierrors.FromError(c, err, "Tenant or unit not found")
		return
	}

	c.JSON(http.StatusCreated, request)
}

// Review handles POST /api/v1/rental-requests/:id/review.
// Stamps the decision, the reviewer, and the review time.
func (h *RentalRequestHandler) Review(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ReviewRentalRequestRequest
	if !bindJSON(c, &req) {
		return
	}

	p, _ := middleware.GetPrincipal(c)
	request, err := h.repo.Review(c.Request.Context(), id,
		models.RentalRequestStatus(req.Status), req.AdminNotes, p.UserID, middleware.GetScope(c))
	if err != nil {
		apierrors.FromError(c, err, "Rental request not found")
		return
	}

	c.JSON(http.StatusOK, request)
}

// Delete handles DELETE /api/v1/rental-requests/:id.
func (h *RentalRequestHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id, middleware.GetScope(c)); err != nil {
		apierrors.FromError(c, err, "Rental request not found")
		return
	}

	c.Status(http.StatusNoContent)
}
