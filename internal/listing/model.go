// Package listing provides the job listing model and repositories consumed
// by the matching engine.
package listing

import (
	"errors"
	"time"
)

// Common errors for listing operations.
var (
	ErrListingNotFound = errors.New("listing not found")
	ErrMissingTitle    = errors.New("listing title is required")
	ErrMissingClient   = errors.New("listing client id is required")
)

// Listing represents a posted job. Latitude and Longitude are optional;
// listings created from a free-text address only carry the Location string
// until a geocoding pass fills the coordinates in.
type Listing struct {
	ID          string     `json:"id"`
	ClientID    string     `json:"client_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	Date        time.Time  `json:"date"`
	Rate        float64    `json:"rate"`
	Industry    string     `json:"industry,omitempty"`
	Subcategory string     `json:"subcategory,omitempty"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// HasCoordinates reports whether the listing carries a usable lat/lon pair.
// Proximity search requires coordinates; the fuzzy location sub-score does not.
func (l *Listing) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// Validate checks required fields before persistence.
func (l *Listing) Validate() error {
	if l.Title == "" {
		return ErrMissingTitle
	}
	if l.ClientID == "" {
		return ErrMissingClient
	}
	return nil
}
