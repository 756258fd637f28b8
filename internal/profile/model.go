// Package profile provides the candidate profile model and repositories
// consumed by the matching engine.
package profile

import (
	"errors"
	"strings"
	"time"
)

// Rating bounds. A zero rating means "not yet rated" and is treated as a
// neutral default by the rating sub-score, so new candidates are not
// penalized against established ones.
const (
	MinRating = 0.0
	MaxRating = 5.0
)

// Common errors for profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidRating   = errors.New("invalid rating: must be between 0.0 and 5.0")
	ErrMissingUsername = errors.New("profile username is required")
)

// Profile represents a candidate available for matching. Skills is the raw
// comma-separated string as entered by the candidate; SkillList normalizes it.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Location  string    `json:"location,omitempty"`
	Skills    string    `json:"skills,omitempty"`
	Rating    float64   `json:"rating"`
	Premium   bool      `json:"premium"`
	Badges    []string  `json:"badges,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SkillList splits the comma-separated skills string into trimmed,
// lowercased tokens. Empty entries are dropped.
func (p *Profile) SkillList() []string {
	if p.Skills == "" {
		return nil
	}

	parts := strings.Split(p.Skills, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		s := strings.ToLower(strings.TrimSpace(part))
		if s != "" {
			skills = append(skills, s)
		}
	}
	if len(skills) == 0 {
		return nil
	}
	return skills
}

// DisplayName returns the candidate's full name, falling back to the
// username when no name is set.
func (p *Profile) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.Username
	}
	return name
}

// ValidateRating checks that a rating value is within [MinRating, MaxRating].
func ValidateRating(rating float64) error {
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}

// Validate checks required fields and rating bounds before persistence.
func (p *Profile) Validate() error {
	if p.Username == "" {
		return ErrMissingUsername
	}
	return ValidateRating(p.Rating)
}
