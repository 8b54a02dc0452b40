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
	"github.com/rifaat-dev/propcore/internal/services"
)

// TenantHandler handles tenant profile HTTP requests. Tenant profiles are
// created and updated together with their linked user account through the
// tenant service.
type TenantHandler struct {
	repo    repository.TenantRepository
	service services.TenantService
	stats   services.StatsService
}

// NewTenantHandler creates a new TenantHandler instance.
func NewTenantHandler(repo repository.TenantRepository, service services.TenantService, stats services.StatsService) *TenantHandler {
	return &TenantHandler{repo: repo, service: service, stats: stats}
}

// TenantUserRequest is the nested account payload. Role is never accepted;
// tenant-linked accounts are always tenants.
type TenantUserRequest struct {
	Name      string `json:"name" binding:"required,max=255"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"omitempty,min=8"`
	Phone     string `json:"phone" binding:"omitempty,max=50"`
	CompanyID *int64 `json:"company_id"`
}

// TenantProfileRequest is the profile half of the tenant payload.
type TenantProfileRequest struct {
	Avatar string `json:"avatar" binding:"omitempty,max=1024"`

	EmergencyContactName         string `json:"emergency_contact_name" binding:"omitempty,max=255"`
	EmergencyContactPhone        string `json:"emergency_contact_phone" binding:"omitempty,max=50"`
	EmergencyContactRelationship string `json:"emergency_contact_relationship" binding:"omitempty,max=100"`

	EmployerName        string           `json:"employer_name" binding:"omitempty,max=255"`
	EmployerPhone       string           `json:"employer_phone" binding:"omitempty,max=50"`
	EmployerAddress     string           `json:"employer_address" binding:"omitempty,max=500"`
	JobTitle            string           `json:"job_title" binding:"omitempty,max=255"`
	MonthlyIncome       *decimal.Decimal `json:"monthly_income"`
	EmploymentStartDate *time.Time       `json:"employment_start_date"`

	PreviousAddress       string     `json:"previous_address" binding:"omitempty,max=500"`
	PreviousLandlordName  string     `json:"previous_landlord_name" binding:"omitempty,max=255"`
	PreviousLandlordPhone string     `json:"previous_landlord_phone" binding:"omitempty,max=50"`
	PreviousTenancyStart  *time.Time `json:"previous_tenancy_start"`
	PreviousTenancyEnd    *time.Time `json:"previous_tenancy_end"`

	IDType       string     `json:"id_type" binding:"omitempty,oneof=passport national_id driver_license"`
	IDNumber     string     `json:"id_number" binding:"omitempty,max=100"`
	IDExpiryDate *time.Time `json:"id_expiry_date"`

	MoveInDate        *time.Time `json:"move_in_date"`
	NumberOfOccupants int        `json:"number_of_occupants" binding:"omitempty,min=1"`
	HasPets           bool       `json:"has_pets"`
	PetDetails        string     `json:"pet_details" binding:"omitempty,max=1000"`

	References []models.Reference `json:"references" binding:"omitempty,dive"`

	BackgroundCheckStatus string     `json:"background_check_status" binding:"omitempty,oneof=pending approved rejected not_required"`
	BackgroundCheckDate   *time.Time `json:"background_check_date"`
	BackgroundCheckNotes  string     `json:"background_check_notes" binding:"omitempty,max=2000"`

	Status string `json:"status" binding:"omitempty,oneof=active inactive blacklisted"`
	Notes  string `json:"notes" binding:"omitempty,max=2000"`
}

func (r TenantProfileRequest) toModel() models.Tenant {
	t := models.Tenant{
		Avatar:                       r.Avatar,
		EmergencyContactName:         r.EmergencyContactName,
		EmergencyContactPhone:        r.EmergencyContactPhone,
		EmergencyContactRelationship: r.EmergencyContactRelationship,
		EmployerName:                 r.EmployerName,
		EmployerPhone:                r.EmployerPhone,
		EmployerAddress:              r.EmployerAddress,
		JobTitle:                     r.JobTitle,
		MonthlyIncome:                r.MonthlyIncome,
		EmploymentStartDate:          r.EmploymentStartDate,
		PreviousAddress:              r.PreviousAddress,
		PreviousLandlordName:         r.PreviousLandlordName,
		PreviousLandlordPhone:        r.PreviousLandlordPhone,
		PreviousTenancyStart:         r.PreviousTenancyStart,
		PreviousTenancyEnd:           r.PreviousTenancyEnd,
		IDType:                       r.IDType,
		IDNumber:                     r.IDNumber,
		IDExpiryDate:                 r.IDExpiryDate,
		MoveInDate:                   r.MoveInDate,
		NumberOfOccupants:            r.NumberOfOccupants,
		HasPets:                      r.HasPets,
		PetDetails:                   r.PetDetails,
		References:                   r.References,
		BackgroundCheckDate:          r.BackgroundCheckDate,
		BackgroundCheckNotes:         r.BackgroundCheckNotes,
		Notes:                        r.Notes,
	}

	t.Status = models.TenantActive
	if r.Status != "" {
		t.Status = models.TenantStatus(r.Status)
	}
	t.BackgroundCheckStatus = models.BackgroundCheckPending
	if r.BackgroundCheckStatus != "" {
		t.BackgroundCheckStatus = models.BackgroundCheckStatus(r.BackgroundCheckStatus)
	}
	return t
}

// CreateTenantRequest is the combined create payload: the account plus the
// profile.
type CreateTenantRequest struct {
	User    *TenantUserRequest   `json:"user" binding:"omitempty"`
	Profile TenantProfileRequest `json:"profile"`
}

// UpdateTenantRequest is the combined update payload. A nil user leaves the
// account untouched.
type UpdateTenantRequest struct {
	User    *TenantUserRequest   `json:"user" binding:"omitempty"`
	Profile TenantProfileRequest `json:"profile"`
}

// TenantResponse pairs a tenant profile with its linked user account.
type TenantResponse struct {
	Tenant *models.Tenant `json:"tenant"`
	User   *models.User   `json:"user,omitempty"`
}

// TenantWithCounts decorates a tenant with its lease tallies for list views.
type TenantWithCounts struct {
	models.Tenant
	LeaseCount       int64 `json:"lease_count"`
	ActiveLeaseCount int64 `json:"active_lease_count"`
}

// ListTenantsQuery is the query binding for tenant listing.
type ListTenantsQuery struct {
	pageQuery
	Status                string  `form:"status" binding:"omitempty,oneof=active inactive blacklisted"`
	BackgroundCheckStatus string  `form:"background_check_status" binding:"omitempty,oneof=pending approved rejected not_required"`
	MoveInFrom            *string `form:"move_in_from" binding:"omitempty,datetime=2006-01-02"`
	MoveInTo              *string `form:"move_in_to" binding:"omitempty,datetime=2006-01-02"`
	HasPets               *bool   `form:"has_pets"`
}

// List handles GET /api/v1/tenants.
// Each tenant in the page carries its lease counts, computed in a single
// grouped query over the page rather than one query per row.
func (h *TenantHandler) List(c *gin.Context) {
	var q ListTenantsQuery
	if !bindQuery(c, &q) {
		return
	}

	sc := middleware.GetScope(c)
	result, err := h.repo.List(c.Request.Context(), repository.TenantFilter{
		Status:                models.TenantStatus(q.Status),
		BackgroundCheckStatus: models.BackgroundCheckStatus(q.BackgroundCheckStatus),
		MoveInFrom:            q.MoveInFrom,
		MoveInTo:              q.MoveInTo,
		HasPets:               q.HasPets,
	}, q.page(), sc)
	if err != nil {
		apierrors.FromError(c, err, "Tenants not found")
		return
	}

	ids := make([]int64, 0, len(result.Items))
	for _, t := range result.Items {
		ids = append(ids, t.ID)
	}
	counts, err := h.stats.LeaseCounts(c.Request.Context(), sc, ids)
	if err != nil {
		apierrors.FromError(c, err, "Tenants not found")
		return
	}

	items := make([]TenantWithCounts, 0, len(result.Items))
	for _, t := range result.Items {
		items = append(items, TenantWithCounts{
			Tenant:           t,
			LeaseCount:       counts[t.ID].LeaseCount,
			ActiveLeaseCount: counts[t.ID].ActiveLeaseCount,
		})
	}

	c.JSON(http.StatusOK, repository.Paginated[TenantWithCounts]{
		Items:    items,
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	})
}

// Get handles GET /api/v1/tenants/:id.
func (h *TenantHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	tenant, err := h.repo.Find(c.Request.Context(), id, middleware.GetScope(c))
	if err != nil {
		apierrors.FromError(c, err, "Tenant not found")
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// Create handles POST /api/v1/tenants.
// The nested user is required; account and profile are created atomically.
func (h *TenantHandler) Create(c *gin.Context) {
	var req CreateTenantRequest
	if !bindJSON(c, &req) {
		return
	}

	in := services.CreateTenantInput{Profile: req.Profile.toModel()}
	if req.User != nil {
		in.User = &services.UserFields{
			Name:      req.User.Name,
			Email:     req.User.Email,
			Password:  req.User.Password,
			Phone:     req.User.Phone,
			CompanyID: req.User.CompanyID,
		}
	}

	tenant, user, err := h.service.Create(c.Request.Context(), middleware.GetScope(c), in)
	if err != nil {
		apierrors.FromError(c, err, "Tenant not found")
		return
	}

	c.JSON(http.StatusCreated, TenantResponse{Tenant: tenant, User: user})
}

// Update handles PUT /api/v1/tenants/:id.
func (h *TenantHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateTenantRequest
	if !bindJSON(c, &req) {
		return
	}

	in := services.UpdateTenantInput{Profile: req.Profile.toModel()}
	if req.User != nil {
		in.User = &services.UserFields{
			Name:      req.User.Name,
			Email:     req.User.Email,
			Password:  req.User.Password,
			Phone:     req.User.Phone,
			CompanyID: req.User.CompanyID,
		}
	}

	tenant, user, err := h.service.Update(c.Request.Context(), middleware.GetScope(c), id, in)
	if err != nil {
		apierrors.FromError(c, err, "Tenant not found")
		return
	}

	c.JSON(http.StatusOK, TenantResponse{Tenant: tenant, User: user})
}

// Delete handles DELETE /api/v1/tenants/:id.
// Tenants are soft-deleted; the linked user account survives.
func (h *TenantHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.GetScope(c), id); err != nil {
		apierrors.FromError(c, err, "Tenant not found")
		return
	}

	c.Status(http.StatusNoContent)
}
