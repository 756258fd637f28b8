// Package application provides the job application model and repositories.
// The matching engine reads applications to detect already-applied pairs and
// to count a candidate's same-day commitments.
package application

import (
	"errors"
	"time"
)

// Status represents the lifecycle state of a job application.
type Status string

// Valid application statuses.
const (
	StatusPending   Status = "pending"
	StatusApplied   Status = "applied"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusOngoing   Status = "ongoing"
	StatusWithdrawn Status = "withdrawn"
)

// Common errors for application operations.
var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrInvalidStatus       = errors.New("invalid application status")
	ErrDuplicateApplication = errors.New("candidate has already applied to this listing")
)

// validStatuses is the lookup set for status validation.
var validStatuses = map[Status]bool{
	StatusPending:   true,
	StatusApplied:   true,
	StatusAccepted:  true,
	StatusRejected:  true,
	StatusOngoing:   true,
	StatusWithdrawn: true,
}

// Valid reports whether s is a known application status.
func (s Status) Valid() bool {
	return validStatuses[s]
}

// CountsAsCommitment reports whether an application in this status ties up
// the candidate on the listing's date. Only accepted and pending
// applications count toward the availability sub-score's soft capacity.
func (s Status) CountsAsCommitment() bool {
	return s == StatusAccepted || s == StatusPending
}

// Application links a candidate profile to a listing. Date is denormalized
// from the listing so same-day commitment counting is a single indexed read.
type Application struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profile_id"`
	ListingID string    `json:"listing_id"`
	Status    Status    `json:"status"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the application's status before persistence.
func (a *Application) Validate() error {
	if !a.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// sameDay reports whether two times fall on the same UTC calendar day.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
