package geomatch

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/redis/go-redis/v9"
)

// DefaultCoverageTTL is how long a computed coverage snapshot stays valid.
// Coverage is a dashboard figure, so brief staleness is acceptable.
const DefaultCoverageTTL = 30 * time.Second

// CoverageCache keeps coverage snapshots in Redis, encoded as CBOR.
// Misses and transport failures both read as cache misses; the matcher
// recomputes either way.
type CoverageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCoverageCache creates a coverage cache. A zero ttl falls back to
// DefaultCoverageTTL.
func NewCoverageCache(client *redis.Client, ttl time.Duration) *CoverageCache {
	if ttl <= 0 {
		ttl = DefaultCoverageTTL
	}
	return &CoverageCache{
		client: client,
		ttl:    ttl,
	}
}

func coverageKey(listingID string, radiusKm float64) string {
	return "coverage:" + listingID + ":" + strconv.FormatFloat(radiusKm, 'f', -1, 64)
}

// Get returns a cached snapshot if one is live.
func (c *CoverageCache) Get(ctx context.Context, listingID string, radiusKm float64) (Coverage, bool) {
	raw, err := c.client.Get(ctx, coverageKey(listingID, radiusKm)).Bytes()
	if err != nil {
		// redis.Nil is an ordinary miss; anything else also degrades
		// to a miss so a Redis outage never blocks coverage reads.
		return Coverage{}, false
	}
	cov, err := decodeCoverage(raw)
	if err != nil {
		return Coverage{}, false
	}
	return cov, true
}

// Set stores a snapshot under the cache TTL.
func (c *CoverageCache) Set(ctx context.Context, listingID string, radiusKm float64, cov Coverage) error {
	raw, err := encodeCoverage(cov)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, coverageKey(listingID, radiusKm), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache coverage: %w", err)
	}
	return nil
}

func encodeCoverage(cov Coverage) ([]byte, error) {
	raw, err := cbor.Marshal(cov)
	if err != nil {
		return nil, fmt.Errorf("failed to encode coverage: %w", err)
	}
	return raw, nil
}

func decodeCoverage(raw []byte) (Coverage, error) {
	if len(raw) == 0 {
		return Coverage{}, errors.New("empty coverage payload")
	}
	var cov Coverage
	if err := cbor.Unmarshal(raw, &cov); err != nil {
		return Coverage{}, fmt.Errorf("failed to decode coverage: %w", err)
	}
	return cov, nil
}
