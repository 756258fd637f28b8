package match

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/gigdesk/matchcore/internal/application"
	"github.com/gigdesk/matchcore/internal/listing"
	"github.com/gigdesk/matchcore/internal/profile"
)

// DefaultLimit is the number of results returned when the caller passes a
// non-positive limit.
const DefaultLimit = 10

// Ranking thresholds. The two directions are intentionally asymmetric,
// mirroring the marketplace's observed behavior: applicant ranking drops
// zero scores only, while job ranking drops everything at or below the base
// sub-score floor so a candidate browsing jobs still sees partial matches.
const (
	ApplicantScoreThreshold = 0.0
	JobScoreThreshold       = 10.0
)

// ApplicantMatch is a scored candidate for a listing. All fields are plain
// JSON-serializable values; no repository types cross this boundary.
type ApplicantMatch struct {
	ProfileID string  `json:"profile_id"`
	Username  string  `json:"username"`
	FirstName string  `json:"first_name,omitempty"`
	LastName  string  `json:"last_name,omitempty"`
	Score     float64 `json:"score"`
	Skills    string  `json:"skills,omitempty"`
	Location  string  `json:"location,omitempty"`
}

// JobMatch is a scored listing for a candidate.
type JobMatch struct {
	ListingID  string    `json:"listing_id"`
	Title      string    `json:"title"`
	Location   string    `json:"location,omitempty"`
	Score      float64   `json:"score"`
	ClientID   string    `json:"client_id"`
	ClientName string    `json:"client_name,omitempty"`
	Date       time.Time `json:"date"`
	Rate       float64   `json:"rate"`
}

// EngineConfig configures the scoring engine.
type EngineConfig struct {
	// Weights for the composite score. Nil uses DefaultWeights.
	Weights *Weights
	// Logger for batch activity.
	Logger *slog.Logger
	// Metrics for performance tracking. Optional.
	Metrics *Metrics
}

// Engine computes composite match scores between listings and candidate
// profiles. It is stateless over its inputs: all reads go through the
// injected repositories and nothing is ever written.
type Engine struct {
	config       EngineConfig
	listings     listing.Repository
	profiles     profile.Repository
	applications application.Repository
}

// NewEngine creates a scoring engine backed by the given repositories.
func NewEngine(
	config EngineConfig,
	listings listing.Repository,
	profiles profile.Repository,
	applications application.Repository,
) *Engine {
	if config.Weights == nil {
		config.Weights = DefaultWeights()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Engine{
		config:       config,
		listings:     listings,
		profiles:     profiles,
		applications: applications,
	}
}

// Score computes the composite score for a single listing/candidate pairing.
// The availability and already-applied inputs come from the application
// repository; everything else is derived from the two records.
func (e *Engine) Score(ctx context.Context, l *listing.Listing, p *profile.Profile) (float64, error) {
	hasApplied, err := e.applications.HasApplied(ctx, p.ID, l.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to check existing application: %w", err)
	}

	commitments, err := e.applications.CountSameDay(ctx, p.ID, l.Date)
	if err != nil {
		return 0, fmt.Errorf("failed to count same-day commitments: %w", err)
	}

	sub := SubScores{
		Location:     LocationScore(l.Location, p.Location),
		Skills:       SkillsScore(l.Title, l.Description, p.Skills),
		Availability: AvailabilityScore(commitments),
		Rating:       RatingScore(p.Rating),
	}

	return CompositeScore(sub, hasApplied, e.config.Weights), nil
}

// RankApplicantsForJob scores every candidate in the pool against the
// listing and returns the top results by descending score. Candidates whose
// score is not strictly positive are dropped.
//
// A listing that cannot be resolved is logged and yields an empty slice; a
// failure scoring one candidate contributes a zero score for that candidate
// and never aborts the batch.
func (e *Engine) RankApplicantsForJob(ctx context.Context, listingID string, pool []string, limit int) []ApplicantMatch {
	start := time.Now()
	if limit <= 0 {
		limit = DefaultLimit
	}

	l, err := e.listings.GetByID(ctx, listingID)
	if err != nil {
		e.config.Logger.Warn("listing lookup failed, returning no applicants",
			"listing_id", listingID,
			"error", err)
		return []ApplicantMatch{}
	}

	matches := make([]ApplicantMatch, 0, len(pool))
	for _, profileID := range pool {
		score := e.scoreApplicant(ctx, l, profileID)
		if score <= ApplicantScoreThreshold {
			continue
		}

		p, err := e.profiles.GetByID(ctx, profileID)
		if err != nil {
			// Scored above threshold but vanished between reads; skip it.
			e.config.Logger.Warn("profile lookup failed after scoring",
				"profile_id", profileID,
				"error", err)
			continue
		}

		matches = append(matches, ApplicantMatch{
			ProfileID: p.ID,
			Username:  p.Username,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Score:     score,
			Skills:    p.Skills,
			Location:  p.Location,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ProfileID < matches[j].ProfileID
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	e.observeBatch("applicants_for_job", len(pool), len(matches), time.Since(start))
	return matches
}

// RankJobsForApplicant scores listings against the candidate and returns the
// top results by descending score. When pool is nil, all active listings are
// considered. Scores at or below JobScoreThreshold are dropped.
//
// A candidate that cannot be resolved is logged and yields an empty slice.
func (e *Engine) RankJobsForApplicant(ctx context.Context, profileID string, pool []string, limit int) []JobMatch {
	start := time.Now()
	if limit <= 0 {
		limit = DefaultLimit
	}

	p, err := e.profiles.GetByID(ctx, profileID)
	if err != nil {
		e.config.Logger.Warn("profile lookup failed, returning no jobs",
			"profile_id", profileID,
			"error", err)
		return []JobMatch{}
	}

	candidates, err := e.resolveListings(ctx, pool)
	if err != nil {
		e.config.Logger.Warn("listing pool resolution failed, returning no jobs",
			"profile_id", profileID,
			"error", err)
		return []JobMatch{}
	}

	matches := make([]JobMatch, 0, len(candidates))
	for _, l := range candidates {
		score := e.scoreListing(ctx, l, p)
		if score <= JobScoreThreshold {
			continue
		}

		matches = append(matches, JobMatch{
			ListingID:  l.ID,
			Title:      l.Title,
			Location:   l.Location,
			Score:      score,
			ClientID:   l.ClientID,
			ClientName: e.clientName(ctx, l.ClientID),
			Date:       l.Date,
			Rate:       l.Rate,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ListingID < matches[j].ListingID
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	e.observeBatch("jobs_for_applicant", len(candidates), len(matches), time.Since(start))
	return matches
}

// scoreApplicant scores one candidate against a listing, converting any
// failure (including a panic from a malformed record) into a zero score so
// one bad record cannot abort the whole ranking pass.
func (e *Engine) scoreApplicant(ctx context.Context, l *listing.Listing, profileID string) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			e.config.Logger.Error("panic scoring candidate",
				"listing_id", l.ID,
				"profile_id", profileID,
				"panic", r)
			if e.config.Metrics != nil {
				e.config.Metrics.IncScoringErrors("panic")
			}
			score = 0
		}
	}()

	p, err := e.profiles.GetByID(ctx, profileID)
	if err != nil {
		e.config.Logger.Warn("skipping unresolvable candidate",
			"listing_id", l.ID,
			"profile_id", profileID,
			"error", err)
		if e.config.Metrics != nil {
			e.config.Metrics.IncScoringErrors("profile_not_found")
		}
		return 0
	}

	s, err := e.Score(ctx, l, p)
	if err != nil {
		e.config.Logger.Warn("scoring failed for candidate",
			"listing_id", l.ID,
			"profile_id", profileID,
			"error", err)
		if e.config.Metrics != nil {
			e.config.Metrics.IncScoringErrors("score_error")
		}
		return 0
	}
	return s
}

// scoreListing scores one listing against a candidate with the same failure
// isolation as scoreApplicant.
func (e *Engine) scoreListing(ctx context.Context, l *listing.Listing, p *profile.Profile) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			e.config.Logger.Error("panic scoring listing",
				"listing_id", l.ID,
				"profile_id", p.ID,
				"panic", r)
			if e.config.Metrics != nil {
				e.config.Metrics.IncScoringErrors("panic")
			}
			score = 0
		}
	}()

	s, err := e.Score(ctx, l, p)
	if err != nil {
		e.config.Logger.Warn("scoring failed for listing",
			"listing_id", l.ID,
			"profile_id", p.ID,
			"error", err)
		if e.config.Metrics != nil {
			e.config.Metrics.IncScoringErrors("score_error")
		}
		return 0
	}
	return s
}

// resolveListings turns a pool of listing IDs into records, falling back to
// all active listings when the pool is nil. Unresolvable and inactive
// listings are skipped, keeping both branches on the same active set.
func (e *Engine) resolveListings(ctx context.Context, pool []string) ([]*listing.Listing, error) {
	if pool == nil {
		return e.listings.ListActive(ctx)
	}

	result := make([]*listing.Listing, 0, len(pool))
	for _, id := range pool {
		l, err := e.listings.GetByID(ctx, id)
		if err != nil {
			e.config.Logger.Warn("skipping unresolvable listing",
				"listing_id", id,
				"error", err)
			continue
		}
		if !l.Active {
			continue
		}
		result = append(result, l)
	}
	return result, nil
}

// clientName resolves the display name of a listing's client, best effort.
func (e *Engine) clientName(ctx context.Context, clientID string) string {
	p, err := e.profiles.GetByID(ctx, clientID)
	if err != nil {
		return ""
	}
	return p.DisplayName()
}

// observeBatch records batch-level metrics for one ranking call.
func (e *Engine) observeBatch(direction string, poolSize, resultSize int, elapsed time.Duration) {
	if e.config.Metrics == nil {
		return
	}
	e.config.Metrics.IncRankings(direction)
	e.config.Metrics.ObserveBatchDuration(direction, elapsed.Seconds())
	e.config.Metrics.SetLastBatchSize(direction, float64(poolSize))
	e.config.Metrics.SetLastResultSize(direction, float64(resultSize))
}
