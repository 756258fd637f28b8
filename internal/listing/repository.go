package listing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for listing data operations.
type Repository interface {
	// Create inserts a new listing with a generated UUID.
	Create(ctx context.Context, l *Listing) error

	// Update modifies an existing listing.
	Update(ctx context.Context, l *Listing) error

	// GetByID retrieves a listing by its ID.
	// Returns ErrListingNotFound if no such listing exists.
	GetByID(ctx context.Context, id string) (*Listing, error)

	// ListActive returns all active, non-deleted listings.
	ListActive(ctx context.Context) ([]*Listing, error)
}

// InMemoryRepository is an in-memory implementation of Repository.
// Used for testing and development.
type InMemoryRepository struct {
	mu       sync.RWMutex
	listings map[string]*Listing
}

// NewInMemoryRepository creates a new in-memory listing repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		listings: make(map[string]*Listing),
	}
}

// Create inserts a new listing with a generated UUID.
func (r *InMemoryRepository) Create(ctx context.Context, l *Listing) error {
	if err := l.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now

	r.listings[l.ID] = copyListing(l)
	return nil
}

// Update modifies an existing listing.
func (r *InMemoryRepository) Update(ctx context.Context, l *Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[l.ID]; !ok {
		return ErrListingNotFound
	}
	l.UpdatedAt = time.Now()
	r.listings[l.ID] = copyListing(l)
	return nil
}

// GetByID retrieves a listing by its ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.listings[id]
	if !ok || l.DeletedAt != nil {
		return nil, ErrListingNotFound
	}
	return copyListing(l), nil
}

// ListActive returns all active, non-deleted listings.
func (r *InMemoryRepository) ListActive(ctx context.Context) ([]*Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Listing, 0, len(r.listings))
	for _, l := range r.listings {
		if l.Active && l.DeletedAt == nil {
			result = append(result, copyListing(l))
		}
	}
	return result, nil
}

// copyListing returns a deep copy to prevent external mutation of stored state.
func copyListing(l *Listing) *Listing {
	c := *l
	if l.Latitude != nil {
		lat := *l.Latitude
		c.Latitude = &lat
	}
	if l.Longitude != nil {
		lon := *l.Longitude
		c.Longitude = &lon
	}
	if l.DeletedAt != nil {
		d := *l.DeletedAt
		c.DeletedAt = &d
	}
	return &c
}
