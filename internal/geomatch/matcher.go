// Package geomatch finds candidates physically near a job listing using
// great-circle distance over their last reported locations.
package geomatch

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/gigdesk/matchcore/internal/geo"
	"github.com/gigdesk/matchcore/internal/listing"
	"github.com/gigdesk/matchcore/internal/location"
	"github.com/gigdesk/matchcore/internal/profile"
)

// DefaultRadiusKm is the search radius used when the caller does not
// specify one.
const DefaultRadiusKm = 10.0

// NearbyCandidate is one candidate within range of a listing.
type NearbyCandidate struct {
	ProfileID  string    `json:"profile_id"`
	DistanceKm float64   `json:"distance_km"`
	Rating     float64   `json:"rating"`
	Premium    bool      `json:"is_premium"`
	LastActive time.Time `json:"last_active"`
}

// Coverage summarizes how well a listing's area is served by online
// candidates.
type Coverage struct {
	TotalApplicants   int     `json:"total_applicants"`
	PremiumApplicants int     `json:"premium_applicants"`
	AverageRating     float64 `json:"average_rating"`
	CoverageRadiusKm  float64 `json:"coverage_radius_km"`
}

// MatcherConfig bundles the Matcher's collaborators. Presence, Cache and
// Metrics are optional.
type MatcherConfig struct {
	Locations location.Store
	Profiles  profile.Repository
	Presence  *location.Presence
	Cache     *CoverageCache
	Logger    *slog.Logger
	Metrics   *Metrics
	// DefaultRadius is the search radius in km applied when a caller
	// passes none. Zero means DefaultRadiusKm.
	DefaultRadius float64
}

// Matcher performs geospatial candidate search. Reads never mutate any
// store; UpdateLocation is the one write path.
type Matcher struct {
	locations     location.Store
	profiles      profile.Repository
	presence      *location.Presence
	cache         *CoverageCache
	logger        *slog.Logger
	metrics       *Metrics
	defaultRadius float64
}

// NewMatcher creates a Matcher from its collaborators.
func NewMatcher(config MatcherConfig) *Matcher {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.DefaultRadius <= 0 {
		config.DefaultRadius = DefaultRadiusKm
	}
	return &Matcher{
		locations:     config.Locations,
		profiles:      config.Profiles,
		presence:      config.Presence,
		cache:         config.Cache,
		logger:        config.Logger,
		metrics:       config.Metrics,
		defaultRadius: config.DefaultRadius,
	}
}

// FindNearby returns all online candidates within maxKm of the listing's
// coordinates, nearest first with premium then rating as tie-breaks.
// A listing without coordinates yields an empty result, not an error;
// proximity search needs real coordinates, unlike the fuzzy free-text
// location sub-score.
func (m *Matcher) FindNearby(ctx context.Context, l *listing.Listing, maxKm float64) ([]NearbyCandidate, error) {
	if maxKm <= 0 {
		maxKm = m.defaultRadius
	}

	start := time.Now()
	defer func() {
		if m.metrics != nil {
			m.metrics.ObserveSearchDuration(time.Since(start).Seconds())
		}
	}()

	if l == nil || !l.HasCoordinates() {
		m.logger.Debug("listing has no coordinates, skipping proximity search",
			"listing_id", listingID(l))
		if m.metrics != nil {
			m.metrics.IncSearches("no_coordinates")
		}
		return []NearbyCandidate{}, nil
	}

	records, err := m.locations.ListOnline(ctx)
	if err != nil {
		m.logger.Error("failed to list online candidates",
			"listing_id", l.ID,
			"error", err)
		if m.metrics != nil {
			m.metrics.IncSearches("error")
		}
		return []NearbyCandidate{}, nil
	}

	nearby := make([]NearbyCandidate, 0, len(records))
	for _, rec := range records {
		dist := geo.DistanceKm(*l.Latitude, *l.Longitude, rec.Latitude, rec.Longitude)
		if dist > maxKm {
			continue
		}

		cand := NearbyCandidate{
			ProfileID:  rec.ProfileID,
			DistanceKm: roundKm(dist),
			LastActive: rec.UpdatedAt,
		}
		// A candidate with a location but no resolvable profile still
		// counts as nearby; they just carry neutral rating and no
		// premium flag.
		if p, err := m.profiles.GetByID(ctx, rec.ProfileID); err == nil {
			cand.Rating = p.Rating
			cand.Premium = p.Premium
		} else {
			m.logger.Warn("nearby candidate has no profile",
				"profile_id", rec.ProfileID,
				"error", err)
		}
		nearby = append(nearby, cand)
	}

	sort.Slice(nearby, func(i, j int) bool {
		a, b := nearby[i], nearby[j]
		if a.DistanceKm != b.DistanceKm {
			return a.DistanceKm < b.DistanceKm
		}
		if a.Premium != b.Premium {
			return a.Premium
		}
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return a.ProfileID < b.ProfileID
	})

	if m.metrics != nil {
		m.metrics.IncSearches("ok")
		m.metrics.SetLastResultSize(float64(len(nearby)))
	}
	return nearby, nil
}

// JobCoverage aggregates FindNearby into area statistics for a listing.
// An empty result set yields zero stats with the radius echoed back.
func (m *Matcher) JobCoverage(ctx context.Context, l *listing.Listing, radiusKm float64) (Coverage, error) {
	if radiusKm <= 0 {
		radiusKm = m.defaultRadius
	}

	if m.cache != nil && l != nil {
		if cov, ok := m.cache.Get(ctx, l.ID, radiusKm); ok {
			if m.metrics != nil {
				m.metrics.IncCoverageCache("hit")
			}
			return cov, nil
		}
		if m.metrics != nil {
			m.metrics.IncCoverageCache("miss")
		}
	}

	nearby, err := m.FindNearby(ctx, l, radiusKm)
	if err != nil {
		return Coverage{CoverageRadiusKm: radiusKm}, err
	}

	cov := Coverage{
		TotalApplicants:  len(nearby),
		CoverageRadiusKm: radiusKm,
	}
	var ratingSum float64
	for _, cand := range nearby {
		if cand.Premium {
			cov.PremiumApplicants++
		}
		ratingSum += cand.Rating
	}
	if len(nearby) > 0 {
		cov.AverageRating = math.Round(ratingSum/float64(len(nearby))*100) / 100
	}

	if m.cache != nil && l != nil {
		if err := m.cache.Set(ctx, l.ID, radiusKm, cov); err != nil {
			m.logger.Warn("failed to cache coverage",
				"listing_id", l.ID,
				"error", err)
		}
	}
	return cov, nil
}

// UpdateLocation records a candidate's position and marks them online.
// Repeating the call with the same coordinates only refreshes the
// timestamp, so clients may report on a timer without side effects.
func (m *Matcher) UpdateLocation(ctx context.Context, profileID string, lat, lon float64) (*location.Record, error) {
	rec, err := m.locations.Upsert(ctx, profileID, lat, lon)
	if err != nil {
		return nil, err
	}

	if m.presence != nil {
		// Presence is best-effort; the durable record already says online.
		if err := m.presence.Touch(ctx, profileID); err != nil {
			m.logger.Warn("failed to refresh presence",
				"profile_id", profileID,
				"error", err)
		}
	}
	if m.metrics != nil {
		m.metrics.IncLocationUpdates()
	}
	return rec, nil
}

func roundKm(d float64) float64 {
	return math.Round(d*100) / 100
}

func listingID(l *listing.Listing) string {
	if l == nil {
		return ""
	}
	return l.ID
}
