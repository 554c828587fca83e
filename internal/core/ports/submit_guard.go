package ports

import "context"

// SubmitGuard serialises form submissions that share a key.
type SubmitGuard interface {
	// Acquire returns false when key is already held.
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}
