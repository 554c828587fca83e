// Package storage holds the in-process implementations of the browser
// storage and submit guard ports. State is lost on restart.
package storage

import (
	"context"
	"sync"
	"time"

	"github.com/bethehero/web/internal/core/domain"
	"github.com/bethehero/web/internal/core/ports"
)

// Memory keeps every browser's keys in one map.
type Memory struct {
	mu    sync.RWMutex
	items map[string]map[string]string
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]map[string]string)}
}

// For returns the view of browserID.
func (m *Memory) For(browserID string) ports.Storage {
	return &memoryBrowser{m: m, browserID: browserID}
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error { return nil }

type memoryBrowser struct {
	m         *Memory
	browserID string
}

func (b *memoryBrowser) GetItem(_ context.Context, key string) (string, error) {
	b.m.mu.RLock()
	defer b.m.mu.RUnlock()
	v, ok := b.m.items[b.browserID][key]
	if !ok {
		return "", domain.ErrStorageKeyNotFound
	}
	return v, nil
}

func (b *memoryBrowser) SetItem(_ context.Context, key, value string) error {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	keys, ok := b.m.items[b.browserID]
	if !ok {
		keys = make(map[string]string)
		b.m.items[b.browserID] = keys
	}
	keys[key] = value
	return nil
}

func (b *memoryBrowser) RemoveItem(_ context.Context, key string) error {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	keys := b.m.items[b.browserID]
	delete(keys, key)
	if len(keys) == 0 {
		delete(b.m.items, b.browserID)
	}
	return nil
}

// MemoryGuard is the single-process submit guard. Keys expire after ttl so a
// crashed handler cannot hold a form forever.
type MemoryGuard struct {
	ttl time.Duration
	now func() time.Time

	mu   sync.Mutex
	held map[string]time.Time
}

// NewMemoryGuard returns a guard whose keys expire after ttl.
func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	return &MemoryGuard{ttl: ttl, now: time.Now, held: make(map[string]time.Time)}
}

// Acquire reports whether key was free and, if so, takes it.
func (g *MemoryGuard) Acquire(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	if exp, ok := g.held[key]; ok && now.Before(exp) {
		return false, nil
	}
	g.held[key] = now.Add(g.ttl)
	return true, nil
}

// Release frees key.
func (g *MemoryGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	delete(g.held, key)
	g.mu.Unlock()
	return nil
}
