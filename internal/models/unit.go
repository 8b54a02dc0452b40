package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnitStatus is the occupancy state of a unit.
type UnitStatus string

const (
	UnitAvailable   UnitStatus = "available"
	UnitOccupied    UnitStatus = "occupied"
	UnitMaintenance UnitStatus = "maintenance"
	UnitReserved    UnitStatus = "reserved"
)

// ValidUnitStatus reports whether s is a known unit status.
func ValidUnitStatus(s UnitStatus) bool {
	switch s {
	case UnitAvailable, UnitOccupied, UnitMaintenance, UnitReserved:
		return true
	}
	return false
}

// Unit is a rentable space inside a property. (property_id, unit_number) is
// unique. Units do not carry a company_id of their own; their tenancy is the
// owning property's company.
type Unit struct {
	ID         int64           `json:"id"`
	PropertyID int64           `json:"property_id"`
	UnitNumber string          `json:"unit_number"`
	RentPrice  decimal.Decimal `json:"rent_price"`
	Status     UnitStatus      `json:"status"`
	Type       string          `json:"type,omitempty"` // apartment, studio, villa, office
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// UnitFeature is a simple name/value attribute attached to a unit.
type UnitFeature struct {
	ID     int64  `json:"id"`
	UnitID int64  `json:"unit_id"`
	Name   string `json:"name"`
	Value  string `json:"value"`
}
