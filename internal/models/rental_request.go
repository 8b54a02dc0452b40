package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RentalRequestStatus is the review state of a rental request.
type RentalRequestStatus string

const (
	RentalPending   RentalRequestStatus = "pending"
	RentalApproved  RentalRequestStatus = "approved"
	RentalRejected  RentalRequestStatus = "rejected"
	RentalCancelled RentalRequestStatus = "cancelled"
)

// ValidRentalRequestStatus reports whether s is a known request status.
func ValidRentalRequestStatus(s RentalRequestStatus) bool {
	switch s {
	case RentalPending, RentalApproved, RentalRejected, RentalCancelled:
		return true
	}
	return false
}

// RentalRequestPriority is the urgency of a rental request. Unlike
// maintenance, rental requests have no emergency level.
type RentalRequestPriority string

const (
	RentalPriorityLow    RentalRequestPriority = "low"
	RentalPriorityMedium RentalRequestPriority = "medium"
	RentalPriorityHigh   RentalRequestPriority = "high"
)

// ValidRentalRequestPriority reports whether p is a known priority.
func ValidRentalRequestPriority(p RentalRequestPriority) bool {
	switch p {
	case RentalPriorityLow, RentalPriorityMedium, RentalPriorityHigh:
		return true
	}
	return false
}

// RentalRequest is a tenant's ask for a unit, reviewed by company staff.
// TenantID references tenants.id.
type RentalRequest struct {
	ID             int64                 `json:"id"`
	CompanyID      int64                 `json:"company_id"`
	TenantID       int64                 `json:"tenant_id"`
	UnitID         *int64                `json:"unit_id,omitempty"`
	Title          string                `json:"title"`
	Description    string                `json:"description,omitempty"`
	Status         RentalRequestStatus   `json:"status"`
	Priority       RentalRequestPriority `json:"priority"`
	PreferredType  string                `json:"preferred_type,omitempty"`
	MaxBudget      *decimal.Decimal      `json:"max_budget,omitempty"`
	DesiredMoveIn  *time.Time            `json:"desired_move_in,omitempty"`
	DurationMonths *int                  `json:"duration_months,omitempty"`
	AdminNotes     string                `json:"admin_notes,omitempty"`
	ReviewedAt     *time.Time            `json:"reviewed_at,omitempty"`
	ReviewedBy     *int64                `json:"reviewed_by,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}
