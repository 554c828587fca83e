package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bethehero/web/internal/core/domain"
	"github.com/bethehero/web/internal/core/ports"
)

// Storage keeps browser storage in Redis.
// Key format: storage:<browser_id>:<key>
type Storage struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewStorage wraps client. Every write refreshes the key's expiry to ttl;
// ttl <= 0 stores keys without expiry.
func NewStorage(client redis.UniversalClient, ttl time.Duration) *Storage {
	if ttl < 0 {
		ttl = 0
	}
	return &Storage{client: client, ttl: ttl}
}

// For returns the view of browserID.
func (s *Storage) For(browserID string) ports.Storage {
	return &browserStorage{s: s, browserID: browserID}
}

// Ping checks the connection for the readiness probe.
func (s *Storage) Ping(ctx context.Context) error {
	return ping(ctx, s.client, 0)
}

func storageKey(browserID, key string) string {
	return fmt.Sprintf("storage:%s:%s", browserID, key)
}

type browserStorage struct {
	s         *Storage
	browserID string
}

func (b *browserStorage) GetItem(ctx context.Context, key string) (string, error) {
	v, err := b.s.client.Get(ctx, storageKey(b.browserID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrStorageKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get item: %w", err)
	}
	return v, nil
}

func (b *browserStorage) SetItem(ctx context.Context, key, value string) error {
	if err := b.s.client.Set(ctx, storageKey(b.browserID, key), value, b.s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set item: %w", err)
	}
	return nil
}

func (b *browserStorage) RemoveItem(ctx context.Context, key string) error {
	if err := b.s.client.Del(ctx, storageKey(b.browserID, key)).Err(); err != nil {
		return fmt.Errorf("redis remove item: %w", err)
	}
	return nil
}
