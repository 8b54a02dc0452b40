package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaseStatus is the lifecycle state of a lease.
type LeaseStatus string

const (
	LeaseActive     LeaseStatus = "active"
	LeaseExpired    LeaseStatus = "expired"
	LeaseTerminated LeaseStatus = "terminated"
)

// Lease ties a tenant profile to a unit for a period. TenantID references
// tenants.id, not users.id; a lease belongs to the renter profile.
type Lease struct {
	ID         int64           `json:"id"`
	CompanyID  int64           `json:"company_id"`
	TenantID   int64           `json:"tenant_id"`
	UnitID     int64           `json:"unit_id"`
	RentAmount decimal.Decimal `json:"rent_amount"`
	Status     LeaseStatus     `json:"status"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    *time.Time      `json:"end_date,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPending PaymentStatus = "pending"
)

// Payment is money received against a lease.
type Payment struct {
	ID         int64           `json:"id"`
	LeaseID    int64           `json:"lease_id"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	Status     PaymentStatus   `json:"status"`
	DueDate    time.Time       `json:"due_date"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
