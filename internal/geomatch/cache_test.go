package geomatch

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestCoverageCodec(t *testing.T) {
	want := Coverage{
		TotalApplicants:   7,
		PremiumApplicants: 2,
		AverageRating:     3.86,
		CoverageRadiusKm:  10,
	}

	raw, err := encodeCoverage(want)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	got, err := decodeCoverage(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got != want {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestDecodeCoverage_Invalid(t *testing.T) {
	if _, err := decodeCoverage(nil); err == nil {
		t.Error("expected error for empty payload")
	}
	if _, err := decodeCoverage([]byte{0xff, 0x00}); err == nil {
		t.Error("expected error for malformed payload")
	}
}

// TestCoverageCache tests the cache against a real Redis instance.
// This test requires a Redis instance running on localhost:6379.
// Skip this test if Redis is not available.
func TestCoverageCache(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Redis not available, skipping integration test")
	}
	defer client.Close()

	cache := NewCoverageCache(client, time.Minute)
	listingID := "test-coverage-" + strconv.FormatInt(time.Now().UnixNano(), 10)
	ctx = context.Background()

	if _, ok := cache.Get(ctx, listingID, 10); ok {
		t.Error("expected miss before Set")
	}

	want := Coverage{TotalApplicants: 3, PremiumApplicants: 1, AverageRating: 4.1, CoverageRadiusKm: 10}
	if err := cache.Set(ctx, listingID, 10, want); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := cache.Get(ctx, listingID, 10)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	// A different radius is a different key.
	if _, ok := cache.Get(ctx, listingID, 25); ok {
		t.Error("expected miss for different radius")
	}
}
