package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for application data operations.
type Repository interface {
	// Create inserts a new application with a generated UUID.
	// Returns ErrDuplicateApplication if the candidate already applied.
	Create(ctx context.Context, a *Application) error

	// UpdateStatus transitions an application to a new status.
	UpdateStatus(ctx context.Context, id string, status Status) error

	// HasApplied reports whether the candidate has an application for the
	// listing in any status.
	HasApplied(ctx context.Context, profileID, listingID string) (bool, error)

	// CountSameDay returns the number of accepted or pending applications
	// the candidate holds on the given calendar day.
	CountSameDay(ctx context.Context, profileID string, date time.Time) (int, error)
}

// InMemoryRepository is an in-memory implementation of Repository.
// Used for testing and development.
type InMemoryRepository struct {
	mu           sync.RWMutex
	applications map[string]*Application
}

// NewInMemoryRepository creates a new in-memory application repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		applications: make(map[string]*Application),
	}
}

// Create inserts a new application with a generated UUID.
func (r *InMemoryRepository) Create(ctx context.Context, a *Application) error {
	if err := a.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.applications {
		if existing.ProfileID == a.ProfileID && existing.ListingID == a.ListingID {
			return ErrDuplicateApplication
		}
	}

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	stored := *a
	r.applications[a.ID] = &stored
	return nil
}

// UpdateStatus transitions an application to a new status.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.applications[id]
	if !ok {
		return ErrApplicationNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	return nil
}

// HasApplied reports whether the candidate has an application for the listing.
func (r *InMemoryRepository) HasApplied(ctx context.Context, profileID, listingID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.applications {
		if a.ProfileID == profileID && a.ListingID == listingID {
			return true, nil
		}
	}
	return false, nil
}

// CountSameDay returns the candidate's accepted or pending applications on
// the given calendar day.
func (r *InMemoryRepository) CountSameDay(ctx context.Context, profileID string, date time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, a := range r.applications {
		if a.ProfileID == profileID && a.Status.CountsAsCommitment() && sameDay(a.Date, date) {
			count++
		}
	}
	return count, nil
}
