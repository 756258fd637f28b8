package location

import (
	"context"
	"sync"
	"time"

	"github.com/gigdesk/matchcore/internal/geo"
	"github.com/gigdesk/matchcore/internal/stats"
)

// Store persists candidate locations. Implementations must be safe for
// concurrent use.
type Store interface {
	// Upsert records a candidate's position, creating or replacing the
	// single row kept per profile. Reporting the same coordinates again
	// only refreshes the timestamp.
	Upsert(ctx context.Context, profileID string, lat, lon float64) (*Record, error)
	// Latest returns the most recent record for a profile.
	// Returns ErrLocationNotFound if the profile has never reported.
	Latest(ctx context.Context, profileID string) (*Record, error)
	// ListOnline returns all records currently marked online.
	ListOnline(ctx context.Context) ([]*Record, error)
	// MarkOffline clears the online flag for a profile. Unknown profiles
	// are a no-op.
	MarkOffline(ctx context.Context, profileID string) error
	// MarkStaleOffline clears the online flag for every record not
	// updated since the cutoff, returning how many were swept.
	MarkStaleOffline(ctx context.Context, cutoff time.Time) (int, error)
}

// InMemoryStore is an in-memory implementation of Store for tests and
// local development.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
	stats   *stats.UpsertStats
	// now is swappable for tests.
	now func() time.Time
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[string]*Record),
		stats:   stats.NewUpsertStats(),
		now:     time.Now,
	}
}

// Stats exposes the store's upsert counters.
func (s *InMemoryStore) Stats() *stats.UpsertStats {
	return s.stats
}

// Upsert records a candidate's position.
func (s *InMemoryStore) Upsert(ctx context.Context, profileID string, lat, lon float64) (*Record, error) {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.records[profileID]
	switch {
	case !exists:
		rec = &Record{ProfileID: profileID}
		s.records[profileID] = rec
		s.stats.RecordInsert()
	case rec.Latitude == lat && rec.Longitude == lon:
		s.stats.RecordRefresh()
	default:
		s.stats.RecordUpdate()
	}

	rec.Latitude = lat
	rec.Longitude = lon
	rec.Geohash = geo.Encode(lat, lon, geo.DefaultPrecision)
	rec.Online = true
	rec.UpdatedAt = s.now().UTC()

	out := *rec
	return &out, nil
}

// Latest returns the most recent record for a profile.
func (s *InMemoryStore) Latest(ctx context.Context, profileID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[profileID]
	if !ok {
		return nil, ErrLocationNotFound
	}
	out := *rec
	return &out, nil
}

// ListOnline returns all records currently marked online.
func (s *InMemoryStore) ListOnline(ctx context.Context) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Record, 0, len(s.records))
	for _, rec := range s.records {
		if !rec.Online {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

// MarkOffline clears the online flag for a profile.
func (s *InMemoryStore) MarkOffline(ctx context.Context, profileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[profileID]; ok {
		rec.Online = false
	}
	return nil
}

// MarkStaleOffline clears the online flag for records older than cutoff.
func (s *InMemoryStore) MarkStaleOffline(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var swept int
	for _, rec := range s.records {
		if rec.Online && rec.UpdatedAt.Before(cutoff) {
			rec.Online = false
			swept++
		}
	}
	return swept, nil
}
