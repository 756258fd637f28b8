package location

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPresenceTTL is how long a candidate counts as online after their
// last location report.
const DefaultPresenceTTL = 5 * time.Minute

// Presence tracks which candidates are currently online using expiring
// Redis keys. The durable online flag in the Store lags behind by up to
// one sweep interval; Presence is the low-latency view.
type Presence struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPresence creates a presence tracker. A zero ttl falls back to
// DefaultPresenceTTL.
func NewPresence(client *redis.Client, ttl time.Duration) *Presence {
	if ttl <= 0 {
		ttl = DefaultPresenceTTL
	}
	return &Presence{
		client: client,
		ttl:    ttl,
	}
}

func presenceKey(profileID string) string {
	return "presence:" + profileID
}

// Touch marks a candidate online, resetting their expiry window.
func (p *Presence) Touch(ctx context.Context, profileID string) error {
	if err := p.client.Set(ctx, presenceKey(profileID), "1", p.ttl).Err(); err != nil {
		return fmt.Errorf("failed to touch presence: %w", err)
	}
	return nil
}

// IsOnline reports whether a candidate's presence key is still live.
func (p *Presence) IsOnline(ctx context.Context, profileID string) (bool, error) {
	n, err := p.client.Exists(ctx, presenceKey(profileID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check presence: %w", err)
	}
	return n > 0, nil
}

// Clear removes a candidate's presence key immediately.
func (p *Presence) Clear(ctx context.Context, profileID string) error {
	if err := p.client.Del(ctx, presenceKey(profileID)).Err(); err != nil {
		return fmt.Errorf("failed to clear presence: %w", err)
	}
	return nil
}
