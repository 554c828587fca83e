package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultGuardTTL = 30 * time.Second

// SubmitGuard marks form submissions as in flight across every web process.
// Key format: submit:<key>
type SubmitGuard struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewSubmitGuard wraps client. A held key expires after ttl (30s when unset).
func NewSubmitGuard(client redis.UniversalClient, ttl time.Duration) *SubmitGuard {
	if ttl <= 0 {
		ttl = defaultGuardTTL
	}
	return &SubmitGuard{client: client, ttl: ttl}
}

// Acquire takes key with SET NX and reports whether it was free.
func (g *SubmitGuard) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, guardKey(key), "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("submit guard acquire: %w", err)
	}
	return ok, nil
}

// Release frees key.
func (g *SubmitGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, guardKey(key)).Err(); err != nil {
		return fmt.Errorf("submit guard release: %w", err)
	}
	return nil
}

func guardKey(key string) string {
	return "submit:" + key
}
