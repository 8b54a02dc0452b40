package models

import "time"

// Property belongs to exactly one Company and one Location.
type Property struct {
	ID          int64     `json:"id"`
	CompanyID   int64     `json:"company_id"`
	LocationID  int64     `json:"location_id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
