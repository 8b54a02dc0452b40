package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TenantStatus is the standing of a tenant profile.
type TenantStatus string

const (
	TenantActive      TenantStatus = "active"
	TenantInactive    TenantStatus = "inactive"
	TenantBlacklisted TenantStatus = "blacklisted"
)

// ValidTenantStatus reports whether s is a known tenant status.
func ValidTenantStatus(s TenantStatus) bool {
	switch s {
	case TenantActive, TenantInactive, TenantBlacklisted:
		return true
	}
	return false
}

// BackgroundCheckStatus is the state of a tenant's background check.
type BackgroundCheckStatus string

const (
	BackgroundCheckPending     BackgroundCheckStatus = "pending"
	BackgroundCheckApproved    BackgroundCheckStatus = "approved"
	BackgroundCheckRejected    BackgroundCheckStatus = "rejected"
	BackgroundCheckNotRequired BackgroundCheckStatus = "not_required"
)

// Reference is one entry in a tenant's ordered reference list, stored as a
// JSON array on the tenants row.
type Reference struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
}

// Tenant is a renter profile linked one-to-one to a User with role=tenant.
// CompanyID mirrors the linked user's company and must stay in sync with it.
// Tenants are soft-deleted: DeletedAt is set and the row is retained.
type Tenant struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	CompanyID int64  `json:"company_id"`
	Avatar    string `json:"avatar,omitempty"`

	// Emergency contact
	EmergencyContactName         string `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone        string `json:"emergency_contact_phone,omitempty"`
	EmergencyContactRelationship string `json:"emergency_contact_relationship,omitempty"`

	// Employment
	EmployerName        string           `json:"employer_name,omitempty"`
	EmployerPhone       string           `json:"employer_phone,omitempty"`
	EmployerAddress     string           `json:"employer_address,omitempty"`
	JobTitle            string           `json:"job_title,omitempty"`
	MonthlyIncome       *decimal.Decimal `json:"monthly_income,omitempty"`
	EmploymentStartDate *time.Time       `json:"employment_start_date,omitempty"`

	// Previous tenancy
	PreviousAddress       string     `json:"previous_address,omitempty"`
	PreviousLandlordName  string     `json:"previous_landlord_name,omitempty"`
	PreviousLandlordPhone string     `json:"previous_landlord_phone,omitempty"`
	PreviousTenancyStart  *time.Time `json:"previous_tenancy_start,omitempty"`
	PreviousTenancyEnd    *time.Time `json:"previous_tenancy_end,omitempty"`

	// Identification
	IDType       string     `json:"id_type,omitempty"` // passport, national_id, driver_license
	IDNumber     string     `json:"id_number,omitempty"`
	IDExpiryDate *time.Time `json:"id_expiry_date,omitempty"`

	// Move-in
	MoveInDate        *time.Time `json:"move_in_date,omitempty"`
	NumberOfOccupants int        `json:"number_of_occupants"`
	HasPets           bool       `json:"has_pets"`
	PetDetails        string     `json:"pet_details,omitempty"`

	References []Reference `json:"references,omitempty"`

	// Background check
	BackgroundCheckStatus BackgroundCheckStatus `json:"background_check_status"`
	BackgroundCheckDate   *time.Time            `json:"background_check_date,omitempty"`
	BackgroundCheckNotes  string                `json:"background_check_notes,omitempty"`

	Status TenantStatus `json:"status"`
	Notes  string       `json:"notes,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
