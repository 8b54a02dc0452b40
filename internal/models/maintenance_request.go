package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaintenanceStatus is the workflow state of a maintenance request.
type MaintenanceStatus string

const (
	MaintenanceNew        MaintenanceStatus = "new"
	MaintenancePending    MaintenanceStatus = "pending"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceResolved   MaintenanceStatus = "resolved"
	MaintenanceCancelled  MaintenanceStatus = "cancelled"
)

// ValidMaintenanceStatus reports whether s is a known maintenance status.
func ValidMaintenanceStatus(s MaintenanceStatus) bool {
	switch s {
	case MaintenanceNew, MaintenancePending, MaintenanceInProgress, MaintenanceResolved, MaintenanceCancelled:
		return true
	}
	return false
}

// MaintenancePriority is the urgency of a maintenance request.
type MaintenancePriority string

const (
	PriorityLow       MaintenancePriority = "low"
	PriorityMedium    MaintenancePriority = "medium"
	PriorityHigh      MaintenancePriority = "high"
	PriorityEmergency MaintenancePriority = "emergency"
)

// ValidMaintenancePriority reports whether p is a known priority.
func ValidMaintenancePriority(p MaintenancePriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityEmergency:
		return true
	}
	return false
}

// MaintenanceRequest is a reported issue against a unit. ReportedByID and
// AssignedToID reference users; both must belong to the request's company.
type MaintenanceRequest struct {
	ID            int64               `json:"id"`
	UnitID        int64               `json:"unit_id"`
	CompanyID     int64               `json:"company_id"`
	ReportedByID  int64               `json:"reported_by_id"`
	AssignedToID  *int64              `json:"assigned_to_id,omitempty"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Status        MaintenanceStatus   `json:"status"`
	Priority      MaintenancePriority `json:"priority"`
	InternalNotes string              `json:"internal_notes,omitempty"`
	EstimatedCost *decimal.Decimal    `json:"estimated_cost,omitempty"`
	ActualCost    *decimal.Decimal    `json:"actual_cost,omitempty"`
	ScheduledAt   *time.Time          `json:"scheduled_at,omitempty"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}
