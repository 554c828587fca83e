package ports

import "context"

// Storage is a durable key-value store scoped to one browser.
type Storage interface {
	// GetItem returns domain.ErrStorageKeyNotFound when key is absent.
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// StorageProvider hands out the Storage of a single browser.
type StorageProvider interface {
	For(browserID string) Storage
	Ping(ctx context.Context) error
}
