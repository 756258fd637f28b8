package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gigdesk/matchcore/internal/geo"
	"github.com/gigdesk/matchcore/internal/geomatch"
	"github.com/gigdesk/matchcore/internal/listing"
	"github.com/gigdesk/matchcore/internal/location"
	"github.com/gigdesk/matchcore/internal/match"
	"github.com/gigdesk/matchcore/internal/tracing"
)

// MatchHandlers holds dependencies for the matching endpoints.
type MatchHandlers struct {
	engine   *match.Engine
	matcher  *geomatch.Matcher
	listings listing.Repository
}

// NewMatchHandlers creates a new MatchHandlers instance.
func NewMatchHandlers(engine *match.Engine, matcher *geomatch.Matcher, listings listing.Repository) *MatchHandlers {
	return &MatchHandlers{
		engine:   engine,
		matcher:  matcher,
		listings: listings,
	}
}

// Register attaches all matching routes to the mux.
func (h *MatchHandlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/listings/{id}/applicants", h.RankApplicants)
	mux.HandleFunc("GET /v1/listings/{id}/nearby", h.FindNearby)
	mux.HandleFunc("GET /v1/listings/{id}/coverage", h.JobCoverage)
	mux.HandleFunc("GET /v1/profiles/{id}/jobs", h.RankJobs)
	mux.HandleFunc("PUT /v1/profiles/{id}/location", h.UpdateLocation)
}

// RankApplicants scores a pool of candidates against a listing and returns
// the ranked matches. The pool comes from the `pool` query parameter as a
// comma-separated list of profile ids.
func (h *MatchHandlers) RankApplicants(w http.ResponseWriter, r *http.Request) {
	listingID := r.PathValue("id")
	pool := splitPool(r.URL.Query().Get("pool"))
	if len(pool) == 0 {
		WriteError(w, http.StatusBadRequest, ErrCodeValidation, "pool query parameter is required")
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeValidation, "limit must be a positive integer")
		return
	}

	ctx, endSpan := tracing.StartRankingSpan(r.Context(), "applicants_for_job", len(pool))
	matches := h.engine.RankApplicantsForJob(ctx, listingID, pool, limit)
	endSpan(len(matches), nil)

	WriteJSON(w, http.StatusOK, matches)
}

// RankJobs scores active listings against a candidate and returns the
// ranked matches. An explicit `pool` query parameter restricts the listings
// considered; without it every active listing is scored.
func (h *MatchHandlers) RankJobs(w http.ResponseWriter, r *http.Request) {
	profileID := r.PathValue("id")
	pool := splitPool(r.URL.Query().Get("pool"))
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeValidation, "limit must be a positive integer")
		return
	}

	ctx, endSpan := tracing.StartRankingSpan(r.Context(), "jobs_for_applicant", len(pool))
	matches := h.engine.RankJobsForApplicant(ctx, profileID, pool, limit)
	endSpan(len(matches), nil)

	WriteJSON(w, http.StatusOK, matches)
}

// FindNearby returns candidates within radius_km of the listing's
// coordinates.
func (h *MatchHandlers) FindNearby(w http.ResponseWriter, r *http.Request) {
	l, ok := h.lookupListing(w, r)
	if !ok {
		return
	}
	radius, err := parseRadius(r.URL.Query().Get("radius_km"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeValidation, "radius_km must be a positive number")
		return
	}

	ctx, endSpan := tracing.StartSearchSpan(r.Context(), l.ID, radius)
	nearby, err := h.matcher.FindNearby(ctx, l, radius)
	endSpan(len(nearby), err)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, ErrCodeInternal, "proximity search failed")
		return
	}

	WriteJSON(w, http.StatusOK, nearby)
}

// JobCoverage returns aggregate nearby-candidate statistics for a listing.
func (h *MatchHandlers) JobCoverage(w http.ResponseWriter, r *http.Request) {
	l, ok := h.lookupListing(w, r)
	if !ok {
		return
	}
	radius, err := parseRadius(r.URL.Query().Get("radius_km"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeValidation, "radius_km must be a positive number")
		return
	}

	cov, err := h.matcher.JobCoverage(r.Context(), l, radius)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, ErrCodeInternal, "coverage computation failed")
		return
	}

	WriteJSON(w, http.StatusOK, cov)
}

// UpdateLocationRequest represents the request body for a location report.
type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UpdateLocationResponse is the coarse public view of a stored location.
// Precise coordinates stay server-side; callers get the rounded geohash.
type UpdateLocationResponse struct {
	ProfileID string    `json:"profile_id"`
	Geohash   string    `json:"geohash"`
	Online    bool      `json:"online"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateLocation records a candidate's position and marks them online.
func (h *MatchHandlers) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	profileID := r.PathValue("id")

	var req UpdateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	rec, err := h.matcher.UpdateLocation(r.Context(), profileID, req.Latitude, req.Longitude)
	if err != nil {
		if errors.Is(err, location.ErrInvalidCoordinates) {
			WriteError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to record location")
		return
	}

	WriteJSON(w, http.StatusOK, UpdateLocationResponse{
		ProfileID: rec.ProfileID,
		Geohash:   geo.Round(rec.Geohash, geo.DefaultPrecision),
		Online:    rec.Online,
		UpdatedAt: rec.UpdatedAt,
	})
}

// lookupListing resolves the path's listing id, writing the error response
// on failure.
func (h *MatchHandlers) lookupListing(w http.ResponseWriter, r *http.Request) (*listing.Listing, bool) {
	l, err := h.listings.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, listing.ErrListingNotFound) {
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "listing not found")
		} else {
			WriteError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to load listing")
		}
		return nil, false
	}
	return l, true
}

// splitPool parses a comma-separated id list, dropping empty entries.
func splitPool(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseLimit parses the limit query parameter. Empty means "use the
// engine default"; zero and negatives are rejected.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid limit")
	}
	return n, nil
}

// parseRadius parses the radius_km query parameter. Empty means "use the
// default radius".
func parseRadius(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 {
		return 0, errors.New("invalid radius")
	}
	return f, nil
}
