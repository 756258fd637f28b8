package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gigdesk/matchcore/internal/application"
	"github.com/gigdesk/matchcore/internal/geo"
	"github.com/gigdesk/matchcore/internal/geomatch"
	"github.com/gigdesk/matchcore/internal/listing"
	"github.com/gigdesk/matchcore/internal/location"
	"github.com/gigdesk/matchcore/internal/match"
	"github.com/gigdesk/matchcore/internal/profile"
)

func floatPtr(f float64) *float64 { return &f }

type apiEnv struct {
	server    *httptest.Server
	listings  *listing.InMemoryRepository
	profiles  *profile.InMemoryRepository
	locations *location.InMemoryStore
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	listings := listing.NewInMemoryRepository()
	profiles := profile.NewInMemoryRepository()
	applications := application.NewInMemoryRepository()
	locations := location.NewInMemoryStore()

	engine := match.NewEngine(match.EngineConfig{Logger: logger}, listings, profiles, applications)
	matcher := geomatch.NewMatcher(geomatch.MatcherConfig{
		Locations: locations,
		Profiles:  profiles,
		Logger:    logger,
	})

	mux := http.NewServeMux()
	NewMatchHandlers(engine, matcher, listings).Register(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &apiEnv{
		server:    server,
		listings:  listings,
		profiles:  profiles,
		locations: locations,
	}
}

func (e *apiEnv) seedScenario(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	job := &listing.Listing{
		ID:        "job-1",
		ClientID:  "client-1",
		Title:     "Web Developer",
		Location:  "New York, NY",
		Latitude:  floatPtr(40.7128),
		Longitude: floatPtr(-74.0060),
		Date:      time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC),
		Rate:      350,
		Active:    true,
	}
	if err := e.listings.Create(ctx, job); err != nil {
		t.Fatalf("seed listing: %v", err)
	}

	for _, p := range []*profile.Profile{
		{ID: "cand-a", Username: "ada", Location: "New York, NY", Skills: "python,django", Rating: 4.5},
		{ID: "cand-b", Username: "bob", Location: "London", Skills: "cooking", Rating: 2.0},
	} {
		if err := e.profiles.Create(ctx, p); err != nil {
			t.Fatalf("seed profile: %v", err)
		}
	}
	if _, err := e.locations.Upsert(ctx, "cand-a", 40.7128, -74.0060); err != nil {
		t.Fatalf("seed location: %v", err)
	}
	if _, err := e.locations.Upsert(ctx, "cand-b", 51.5, -0.12); err != nil {
		t.Fatalf("seed location: %v", err)
	}
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestRankApplicants(t *testing.T) {
	env := newAPIEnv(t)
	env.seedScenario(t)

	var matches []match.ApplicantMatch
	status := getJSON(t, env.server.URL+"/v1/listings/job-1/applicants?pool=cand-a,cand-b", &matches)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(matches) != 2 {
		t.Fatalf("expected both candidates above the threshold, got %d", len(matches))
	}
	if matches[0].ProfileID != "cand-a" {
		t.Errorf("expected cand-a ranked first, got %s", matches[0].ProfileID)
	}
	if matches[0].Score <= matches[1].Score {
		t.Errorf("expected descending scores, got %v then %v", matches[0].Score, matches[1].Score)
	}
}

func TestRankApplicants_RequiresPool(t *testing.T) {
	env := newAPIEnv(t)
	env.seedScenario(t)

	var errResp ErrorResponse
	status := getJSON(t, env.server.URL+"/v1/listings/job-1/applicants", &errResp)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if errResp.Error.Code != ErrCodeValidation {
		t.Errorf("expected validation_error, got %s", errResp.Error.Code)
	}
}

func TestRankApplicants_UnknownListing(t *testing.T) {
	env := newAPIEnv(t)
	env.seedScenario(t)

	// Lookup failures surface as an empty list, not an error.
	var matches []match.ApplicantMatch
	status := getJSON(t, env.server.URL+"/v1/listings/nope/applicants?pool=cand-a", &matches)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(matches) != 0 {
		t.Errorf("expected empty result, got %d", len(matches))
	}
}

func TestRankApplicants_InvalidLimit(t *testing.T) {
	env := newAPIEnv(t)
	env.seedScenario(t)

	status := getJSON(t, env.server.URL+"/v1/listings/job-1/applicants?pool=cand-a&limit=zero", nil)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 for bad limit, got %d", status)
	}
}

func TestRankJobs(t *testing.T) {
	env := newAPIEnv(t)
	env.seedScenario(t)

	var matches []match.JobMatch
	status := getJSON(t, env.server.URL+"/v1/profiles/cand-a/jobs", &matches)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 job, got %d", len(matches))
	}
	if matches[0].ListingID != "job-1" {
		t.Errorf("expected job-1, got %s", matches[0].ListingID)
	}
}

func TestFindNearby(t *testing.T) {
	env := newAPIEnv(t)
	env.seedScenario(t)

	var nearby []geomatch.NearbyCandidate
	status := getJSON(t, env.server.URL+"/v1/listings/job-1/nearby?radius_km=10", &nearby)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(nearby) != 1 {
		t.Fatalf("expected only the co-located candidate, got %d", len(nearby))
	}
	if nearby[0].ProfileID != "cand-a" {
		t.Errorf("expected cand-a, got %s", nearby[0].ProfileID)
	}
}

func TestFindNearby_UnknownListing(t *testing.T) {
	env := newAPIEnv(t)

	var errResp ErrorResponse
	status := getJSON(t, env.server.URL+"/v1/listings/nope/nearby", &errResp)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if errResp.Error.Code != ErrCodeNotFound {
		t.Errorf("expected not_found, got %s", errResp.Error.Code)
	}
}

func TestJobCoverage(t *testing.T) {
	env := newAPIEnv(t)
	env.seedScenario(t)

	var cov geomatch.Coverage
	status := getJSON(t, env.server.URL+"/v1/listings/job-1/coverage?radius_km=10", &cov)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if cov.TotalApplicants != 1 {
		t.Errorf("expected 1 applicant, got %d", cov.TotalApplicants)
	}
	if cov.CoverageRadiusKm != 10 {
		t.Errorf("expected radius 10, got %v", cov.CoverageRadiusKm)
	}
}

func TestUpdateLocation(t *testing.T) {
	env := newAPIEnv(t)
	env.seedScenario(t)

	body := strings.NewReader(`{"latitude": 40.7, "longitude": -74.0}`)
	req, err := http.NewRequest(http.MethodPut, env.server.URL+"/v1/profiles/cand-a/location", body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT location: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var got UpdateLocationResponse
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !got.Online {
		t.Error("expected candidate online after update")
	}
	if got.Geohash == "" {
		t.Error("expected geohash to be set")
	}
	if len(got.Geohash) > geo.DefaultPrecision {
		t.Errorf("geohash too precise: %q", got.Geohash)
	}

	// The response is the coarse view; raw coordinates stay server-side.
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("decode fields: %v", err)
	}
	for _, key := range []string{"latitude", "longitude"} {
		if _, ok := fields[key]; ok {
			t.Errorf("response leaks %s", key)
		}
	}
}

func TestUpdateLocation_InvalidCoordinates(t *testing.T) {
	env := newAPIEnv(t)

	body := strings.NewReader(`{"latitude": 123.0, "longitude": 0}`)
	req, _ := http.NewRequest(http.MethodPut, env.server.URL+"/v1/profiles/cand-a/location", body)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT location: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Error.Code != ErrCodeValidation {
		t.Errorf("expected validation_error, got %s", errResp.Error.Code)
	}
}

func TestUpdateLocation_BadBody(t *testing.T) {
	env := newAPIEnv(t)

	req, _ := http.NewRequest(http.MethodPut, env.server.URL+"/v1/profiles/cand-a/location", strings.NewReader("{"))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT location: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", resp.StatusCode)
	}
}
