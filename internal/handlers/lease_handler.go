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

// LeaseHandler handles lease HTTP requests. A lease ties a tenant profile
// to a unit; both must belong to the lease's company.
type LeaseHandler struct {
	repo repository.LeaseRepository
}

// NewLeaseHandler creates a new LeaseHandler instance.
func NewLeaseHandler(repo repository.LeaseRepository) *LeaseHandler {
	return &LeaseHandler{repo: repo}
}

// CreateLeaseRequest is the create payload for a lease. CompanyID is
// honored for super admins only.
type CreateLeaseRequest struct {
	CompanyID  int64           `json:"company_id"`
	TenantID   int64           `json:"tenant_id" binding:"required,min=1"`
	UnitID     int64           `json:"unit_id" binding:"required,min=1"`
	RentAmount decimal.Decimal `json:"rent_amount" binding:"required"`
	Status     string          `json:"status" binding:"omitempty,oneof=active expired terminated"`
	StartDate  time.Time       `json:"start_date" binding:"required"`
	EndDate    *time.Time      `json:"end_date"`
}

// UpdateLeaseRequest is the update payload. Tenant, unit, and company
// cannot change after creation.
type UpdateLeaseRequest struct {
	RentAmount decimal.Decimal `json:"rent_amount" binding:"required"`
	Status     string          `json:"status" binding:"required,oneof=active expired terminated"`
	StartDate  time.Time       `json:"start_date" binding:"required"`
	EndDate    *time.Time      `json:"end_date"`
}

// RecordPaymentRequest is the payload for recording a payment against a
// lease.
type RecordPaymentRequest struct {
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	Status     string          `json:"status" binding:"omitempty,oneof=paid partial pending"`
	DueDate    time.Time       `json:"due_date" binding:"required"`
	PaidAt     *time.Time      `json:"paid_at"`
}

// ListLeasesQuery is the query binding for lease listing.
type ListLeasesQuery struct {
	pageQuery
	TenantID  *int64     `form:"tenant_id"`
	UnitID    *int64     `form:"unit_id"`
	Status    string     `form:"status" binding:"omitempty,oneof=active expired terminated"`
	StartFrom *time.Time `form:"start_from" time_format:"2006-01-02"`
	StartTo   *time.Time `form:"start_to" time_format:"2006-01-02"`
}

// List handles GET /api/v1/leases.
func (h *LeaseHandler) List(c *gin.Context) {
	var q ListLeasesQuery
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.repo.List(c.Request.Context(), repository.LeaseFilter{
		TenantID:  q.TenantID,
		UnitID:    q.UnitID,
		Status:    models.LeaseStatus(q.Status),
		StartFrom: q.StartFrom,
		StartTo:   q.StartTo,
	}, q.page(), middleware.GetScope(c))
	if err != nil {
		apierrors.FromError(c, err, "Leases not found")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/v1/leases/:id.
func (h *LeaseHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	lease, err := h.repo.Find(c.Request.Context(), id, middleware.GetScope(c))
	if err != nil {
		apierrors.FromError(c, err, "Lease not found")
		return
	}

	c.JSON(http.StatusOK, lease)
}

// Create handles POST /api/v1/leases.
func (h *LeaseHandler) Create(c *gin.Context) {
	var req CreateLeaseRequest
	if !bindJSON(c, &req) {
		return
	}

	sc := middleware.GetScope(c)
	companyID := req.CompanyID
	if !sc.All() {
		companyID = sc.CompanyID()
	}

	lease := models.Lease{
		CompanyID:  companyID,
		TenantID:   req.TenantID,
		UnitID:     req.UnitID,
		RentAmount: req.RentAmount,
		Status:     models.LeaseActive,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	}
	if req.Status != "" {
		lease.Status = models.LeaseStatus(req.Status)
	}

	if err := h.repo.Create(c.Request.Context(), &lease, sc); err != nil {
		apierrors.FromError(c, err, "Tenant or unit not found")
		return
	}

	c.JSON(http.StatusCreated, lease)
}

// Update handles PUT /api/v1/leases/:id.
func (h *LeaseHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateLeaseRequest
	if !bindJSON(c, &req) {
		return
	}

	sc := middleware.GetScope(c)
	lease, err := h.repo.Find(c.Request.Context(), id, sc)
	if err != nil {
		apierrors.FromError(c, err, "Lease not found")
		return
	}

	lease.RentAmount = req.RentAmount
	lease.Status = models.LeaseStatus(req.Status)
	lease.StartDate = req.StartDate
	lease.EndDate = req.EndDate

	if err := h.repo.Update(c.Request.Context(), lease, sc); err != nil {
		apierrors.FromError(c, err, "Lease not found")
		return
	}

	c.JSON(http.StatusOK, lease)
}

// Delete handles DELETE /api/v1/leases/:id.
func (h *LeaseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id, middleware.GetScope(c)); err != nil {
		apierrors.FromError(c, err, "Lease not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// RecordPayment handles POST /api/v1/leases/:id/payments.
func (h *LeaseHandler) RecordPayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req RecordPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	payment := models.Payment{
		LeaseID:    id,
		Amount:     req.Amount,
		PaidAmount: req.PaidAmount,
		Status:     models.PaymentPending,
		DueDate:    req.DueDate,
		PaidAt:     req.PaidAt,
	}
	if req.Status != "" {
		payment.Status = models.PaymentStatus(req.Status)
	}

	if err := h.repo.RecordPayment(c.Request.Context(), &payment, middleware.GetScope(c)); err != nil {
		apierrors.FromError(c, err, "Lease not found")
		return
	}

	c.JSON(http.StatusCreated, payment)
}
