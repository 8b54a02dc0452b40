package models

import "time"

// LocationType is the level of a location in the fixed geographic hierarchy.
type LocationType string

const (
	LocationCountry      LocationType = "country"
	LocationCity         LocationType = "city"
	LocationDistrict     LocationType = "district"
	LocationNeighborhood LocationType = "neighborhood"
)

// ValidLocationType reports whether t is one of the known hierarchy levels.
func ValidLocationType(t LocationType) bool {
	switch t {
	case LocationCountry, LocationCity, LocationDistrict, LocationNeighborhood:
		return true
	}
	return false
}

// parentOf encodes the fixed hierarchy: country < city < district < neighborhood.
var parentOf = map[LocationType]LocationType{
	LocationCity:         LocationCountry,
	LocationDistrict:     LocationCity,
	LocationNeighborhood: LocationDistrict,
}

// ValidTypeForParent reports whether a location of type child may have a
// parent of type parent. A country must have no parent, so child=country is
// only valid when parent is empty.
func ValidTypeForParent(child, parent LocationType) bool {
	if child == LocationCountry {
		return parent == ""
	}
	want, ok := parentOf[child]
	return ok && parent == want
}

// Location is a node in the country -> city -> district -> neighborhood tree.
// Locations are global reference data and are not company-scoped.
type Location struct {
	ID        int64        `json:"id"`
	ParentID  *int64       `json:"parent_id,omitempty"`
	Name      string       `json:"name"`
	Type      LocationType `json:"type"`
	Latitude  *float64     `json:"latitude,omitempty"`
	Longitude *float64     `json:"longitude,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
