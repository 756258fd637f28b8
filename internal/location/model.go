// Package location provides storage and presence tracking for candidates'
// last known coordinates, feeding the geospatial matcher.
package location

import (
	"errors"
	"time"
)

// Common errors for location operations.
var (
	ErrLocationNotFound   = errors.New("no location recorded for candidate")
	ErrInvalidCoordinates = errors.New("invalid coordinates: latitude must be in [-90, 90] and longitude in [-180, 180]")
)

// Record is a candidate's last known position. Geohash is the coarse
// public form of the coordinates; precise values never leave this package
// except through the matcher's distance math.
type Record struct {
	ProfileID string    `json:"profile_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Geohash   string    `json:"geohash"`
	Online    bool      `json:"online"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidateCoordinates checks decimal-degree ranges. The write path validates
// so the read-side distance math never has to.
func ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
