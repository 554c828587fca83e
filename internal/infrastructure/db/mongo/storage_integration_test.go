//go:build integration

package mongo

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/bethehero/web/internal/core/domain"
)

// Run with: MONGO_URI=mongodb://localhost:27017 go test -tags integration ./...
func TestStorage_RoundTrip(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx := context.Background()
	client, db, err := Connect(ctx, Config{URI: uri, Database: "bethehero_web_test"})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	s := NewStorage(db)
	if err := s.EnsureIndexes(ctx); err != nil {
		t.Fatalf("indexes: %v", err)
	}
	browser := s.For(uuid.NewString())

	if _, err := browser.GetItem(ctx, domain.StorageKey); !errors.Is(err, domain.ErrStorageKeyNotFound) {
		t.Fatalf("expected ErrStorageKeyNotFound, got %v", err)
	}
	for _, v := range []string{`{"id":"1"}`, `{"id":"2"}`} {
		if err := browser.SetItem(ctx, domain.StorageKey, v); err != nil {
			t.Fatalf("set: %v", err)
		}
	}
	if v, err := browser.GetItem(ctx, domain.StorageKey); err != nil || v != `{"id":"2"}` {
		t.Fatalf("expected upsert to overwrite, got %q, %v", v, err)
	}
	if err := browser.RemoveItem(ctx, domain.StorageKey); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := browser.GetItem(ctx, domain.StorageKey); !errors.Is(err, domain.ErrStorageKeyNotFound) {
		t.Fatalf("expected key removed, got %v", err)
	}
}
