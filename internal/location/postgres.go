package location

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/gigdesk/matchcore/internal/geo"
	"github.com/gigdesk/matchcore/internal/stats"
)

// PostgresStore is a PostgreSQL-backed implementation of Store.
// One row is kept per profile; upserts go through ON CONFLICT.
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
	stats  *stats.UpsertStats
}

// NewPostgresStore creates a Postgres-backed location store.
func NewPostgresStore(db *sql.DB, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{
		db:     db,
		logger: logger,
		stats:  stats.NewUpsertStats(),
	}
}

// Stats exposes the store's upsert counters.
func (s *PostgresStore) Stats() *stats.UpsertStats {
	return s.stats
}

// Upsert records a candidate's position.
func (s *PostgresStore) Upsert(ctx context.Context, profileID string, lat, lon float64) (*Record, error) {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	// Read the previous coordinates first so the upsert can be classified
	// as insert, update, or timestamp-only refresh. The classification is
	// advisory; a concurrent writer at worst skews the counters.
	var prevLat, prevLon float64
	existed := true
	err := s.db.QueryRowContext(ctx,
		`SELECT latitude, longitude FROM candidate_locations WHERE profile_id = $1`,
		profileID,
	).Scan(&prevLat, &prevLon)
	if err == sql.ErrNoRows {
		existed = false
	} else if err != nil {
		return nil, fmt.Errorf("failed to read existing location: %w", err)
	}

	rec := &Record{
		ProfileID: profileID,
		Latitude:  lat,
		Longitude: lon,
		Geohash:   geo.Encode(lat, lon, geo.DefaultPrecision),
		Online:    true,
		UpdatedAt: time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO candidate_locations (profile_id, latitude, longitude, geohash, online, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (profile_id) DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			geohash = EXCLUDED.geohash,
			online = EXCLUDED.online,
			updated_at = EXCLUDED.updated_at`,
		rec.ProfileID, rec.Latitude, rec.Longitude, rec.Geohash, rec.Online, rec.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert location: %w", err)
	}

	switch {
	case !existed:
		s.stats.RecordInsert()
	case prevLat == lat && prevLon == lon:
		s.stats.RecordRefresh()
	default:
		s.stats.RecordUpdate()
	}

	return rec, nil
}

// Latest returns the most recent record for a profile.
func (s *PostgresStore) Latest(ctx context.Context, profileID string) (*Record, error) {
	rec := &Record{}
	err := s.db.QueryRowContext(ctx, `
		SELECT profile_id, latitude, longitude, geohash, online, updated_at
		FROM candidate_locations
		WHERE profile_id = $1`,
		profileID,
	).Scan(&rec.ProfileID, &rec.Latitude, &rec.Longitude, &rec.Geohash, &rec.Online, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	return rec, nil
}

// ListOnline returns all records currently marked online.
func (s *PostgresStore) ListOnline(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT profile_id, latitude, longitude, geohash, online, updated_at
		FROM candidate_locations
		WHERE online = true`)
	if err != nil {
		return nil, fmt.Errorf("failed to list online locations: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec := &Record{}
		if err := rows.Scan(&rec.ProfileID, &rec.Latitude, &rec.Longitude, &rec.Geohash, &rec.Online, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate locations: %w", err)
	}
	return out, nil
}

// MarkOffline clears the online flag for a profile.
func (s *PostgresStore) MarkOffline(ctx context.Context, profileID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE candidate_locations SET online = false WHERE profile_id = $1`,
		profileID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark offline: %w", err)
	}
	return nil
}

// MarkStaleOffline clears the online flag for records older than cutoff.
func (s *PostgresStore) MarkStaleOffline(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE candidate_locations SET online = false WHERE online = true AND updated_at < $1`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep stale locations: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count swept rows: %w", err)
	}
	return int(n), nil
}
