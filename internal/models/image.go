package models

import "time"

// ImageOwner is the kind of entity an image can be attached to. Images live
// in a single table keyed by (owner_type, owner_id); the owner kind is a
// closed set rather than a free-form string.
type ImageOwner string

const (
	OwnerProperty           ImageOwner = "property"
	OwnerUnit               ImageOwner = "unit"
	OwnerMaintenanceRequest ImageOwner = "maintenance_request"
)

// ValidImageOwner reports whether o is a known owner kind.
func ValidImageOwner(o ImageOwner) bool {
	switch o {
	case OwnerProperty, OwnerUnit, OwnerMaintenanceRequest:
		return true
	}
	return false
}

// Image is a stored file attached to an owning entity. Order gives a stable
// display ordering; at most one image per owner should be primary.
type Image struct {
	ID        int64      `json:"id"`
	OwnerType ImageOwner `json:"owner_type"`
	OwnerID   int64      `json:"owner_id"`
	Path      string     `json:"path"`
	Disk      string     `json:"disk"`
	IsPrimary bool       `json:"is_primary"`
	Order     int        `json:"order"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
