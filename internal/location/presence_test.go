package location

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// TestPresence tests the presence tracker against a real Redis instance.
// This test requires a Redis instance running on localhost:6379.
// Skip this test if Redis is not available.
func TestPresence(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Redis not available, skipping integration test")
	}
	defer client.Close()

	presence := NewPresence(client, time.Minute)
	profileID := "test-presence-" + strconv.FormatInt(time.Now().UnixNano(), 10)
	ctx = context.Background()

	online, err := presence.IsOnline(ctx, profileID)
	if err != nil {
		t.Fatalf("IsOnline failed: %v", err)
	}
	if online {
		t.Error("expected profile to be offline before Touch")
	}

	if err := presence.Touch(ctx, profileID); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	online, err = presence.IsOnline(ctx, profileID)
	if err != nil {
		t.Fatalf("IsOnline failed: %v", err)
	}
	if !online {
		t.Error("expected profile to be online after Touch")
	}

	if err := presence.Clear(ctx, profileID); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	online, err = presence.IsOnline(ctx, profileID)
	if err != nil {
		t.Fatalf("IsOnline failed: %v", err)
	}
	if online {
		t.Error("expected profile to be offline after Clear")
	}
}

func TestNewPresence_DefaultTTL(t *testing.T) {
	p := NewPresence(nil, 0)
	if p.ttl != DefaultPresenceTTL {
		t.Errorf("expected default TTL %v, got %v", DefaultPresenceTTL, p.ttl)
	}
}
