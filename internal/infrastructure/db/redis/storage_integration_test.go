//go:build integration

package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bethehero/web/internal/core/domain"
)

// Run with: REDIS_ADDR=localhost:6379 go test -tags integration ./...
func connectForTest(t *testing.T) *Storage {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client, err := Connect(context.Background(), Config{Addr: addr, DB: 15})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewStorage(client, time.Minute)
}

func TestStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := connectForTest(t)
	browser := s.For(uuid.NewString())

	if _, err := browser.GetItem(ctx, domain.StorageKey); !errors.Is(err, domain.ErrStorageKeyNotFound) {
		t.Fatalf("expected ErrStorageKeyNotFound, got %v", err)
	}
	if err := browser.SetItem(ctx, domain.StorageKey, `{"id":"1"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, err := browser.GetItem(ctx, domain.StorageKey); err != nil || v != `{"id":"1"}` {
		t.Fatalf("unexpected get: %q, %v", v, err)
	}
	if err := browser.RemoveItem(ctx, domain.StorageKey); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := browser.GetItem(ctx, domain.StorageKey); !errors.Is(err, domain.ErrStorageKeyNotFound) {
		t.Fatalf("expected key removed, got %v", err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestSubmitGuard_SetNX(t *testing.T) {
	ctx := context.Background()
	s := connectForTest(t)
	g := NewSubmitGuard(s.client, time.Minute)
	key := uuid.NewString() + ":login"

	if ok, err := g.Acquire(ctx, key); err != nil || !ok {
		t.Fatalf("first acquire: %v %v", ok, err)
	}
	if ok, err := g.Acquire(ctx, key); err != nil || ok {
		t.Fatalf("second acquire must fail: %v %v", ok, err)
	}
	if err := g.Release(ctx, key); err != nil {
		t.Fatalf("release: %v", err)
	}
	if ok, _ := g.Acquire(ctx, key); !ok {
		t.Fatalf("acquire after release must succeed")
	}
	_ = g.Release(ctx, key)
}
