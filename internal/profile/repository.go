package profile

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for profile data operations.
type Repository interface {
	// Create inserts a new profile with a generated UUID.
	Create(ctx context.Context, p *Profile) error

	// Update modifies an existing profile.
	Update(ctx context.Context, p *Profile) error

	// GetByID retrieves a profile by its ID.
	// Returns ErrProfileNotFound if no such profile exists.
	GetByID(ctx context.Context, id string) (*Profile, error)
}

// InMemoryRepository is an in-memory implementation of Repository.
// Used for testing and development.
type InMemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewInMemoryRepository creates a new in-memory profile repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		profiles: make(map[string]*Profile),
	}
}

// Create inserts a new profile with a generated UUID.
func (r *InMemoryRepository) Create(ctx context.Context, p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	r.profiles[p.ID] = copyProfile(p)
	return nil
}

// Update modifies an existing profile.
func (r *InMemoryRepository) Update(ctx context.Context, p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[p.ID]; !ok {
		return ErrProfileNotFound
	}
	p.UpdatedAt = time.Now()
	r.profiles[p.ID] = copyProfile(p)
	return nil
}

// GetByID retrieves a profile by its ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return copyProfile(p), nil
}

// copyProfile returns a deep copy to prevent external mutation of stored state.
func copyProfile(p *Profile) *Profile {
	c := *p
	if p.Badges != nil {
		c.Badges = make([]string, len(p.Badges))
		copy(c.Badges, p.Badges)
	}
	return &c
}
