package models

import "time"

// Location types
const (
	LocationTypePark  = "park"
	LocationTypeTrail = "trail"
	LocationTypeBike  = "bike"
	LocationTypePlant = "plant"
	LocationTypeClean = "clean"
)

// ValidateLocationType validates the location type enum
func ValidateLocationType(locationType string) bool {
	switch locationType {
	case LocationTypePark, LocationTypeTrail, LocationTypeBike, LocationTypePlant, LocationTypeClean:
		return true
	}
	return false
}

// Location represents a community-suggested eco location. Suggestions always
// enter the moderation queue.
type Location struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name" validate:"required,max=200"`
	Description  string    `json:"description,omitempty" db:"description"`
	LocationType string    `json:"location_type" db:"location_type" validate:"required,oneof=park trail bike plant clean"`
	Latitude     float64   `json:"latitude" db:"latitude" validate:"min=-90,max=90"`
	Longitude    float64   `json:"longitude" db:"longitude" validate:"min=-180,max=180"`
	Approved     bool      `json:"approved" db:"approved"`
	SuggestedBy  *int64    `json:"suggested_by,omitempty" db:"suggested_by"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
