package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"testing"

	"github.com/bethehero/web/internal/core/domain"
	"github.com/bethehero/web/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubGateway struct {
	getFn    func(ctx context.Context, resource string, query url.Values) (*ports.APIResponse, error)
	postFn   func(ctx context.Context, resource string, payload any) (*ports.APIResponse, error)
	deleteFn func(ctx context.Context, resource string) (*ports.APIResponse, error)

	mu    sync.Mutex
	auth  string
	calls []string
}

func (g *stubGateway) record(call string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, call)
}

func (g *stubGateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *stubGateway) Get(ctx context.Context, resource string, query url.Values) (*ports.APIResponse, error) {
	g.record("GET " + resource + "?" + query.Encode())
	return g.getFn(ctx, resource, query)
}

func (g *stubGateway) Post(ctx context.Context, resource string, payload any) (*ports.APIResponse, error) {
	g.record("POST " + resource)
	return g.postFn(ctx, resource, payload)
}

func (g *stubGateway) Delete(ctx context.Context, resource string) (*ports.APIResponse, error) {
	g.record("DELETE " + resource)
	return g.deleteFn(ctx, resource)
}

func (g *stubGateway) SetAuthorization(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if token == "" {
		g.auth = ""
		return
	}
	g.auth = "Bearer " + token
}

func (g *stubGateway) Authorization() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.auth
}

type stubNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *stubNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *stubNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

type stubStorage struct {
	mu      sync.Mutex
	items   map[string]string
	getErr  error
	setErr  error
	delErr  error
	removed []string
}

func newStubStorage() *stubStorage {
	return &stubStorage{items: make(map[string]string)}
}

func (s *stubStorage) GetItem(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", s.getErr
	}
	v, ok := s.items[key]
	if !ok {
		return "", domain.ErrStorageKeyNotFound
	}
	return v, nil
}

func (s *stubStorage) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.items[key] = value
	return nil
}

func (s *stubStorage) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delErr != nil {
		return s.delErr
	}
	delete(s.items, key)
	s.removed = append(s.removed, key)
	return nil
}

type stubStorageProvider struct {
	mu       sync.Mutex
	browsers map[string]*stubStorage
}

func (p *stubStorageProvider) For(browserID string) ports.Storage {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.browsers == nil {
		p.browsers = make(map[string]*stubStorage)
	}
	s, ok := p.browsers[browserID]
	if !ok {
		s = newStubStorage()
		p.browsers[browserID] = s
	}
	return s
}

func (p *stubStorageProvider) Ping(context.Context) error { return nil }

type stubGatewayFactory struct {
	built []*stubGateway
}

func (f *stubGatewayFactory) New() ports.APIGateway {
	g := &stubGateway{}
	f.built = append(f.built, g)
	return g
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func incidents(from, to int) []domain.Incident {
	out := make([]domain.Incident, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, domain.Incident{
			ID:          domain.ID(fmt.Sprint(i)),
			Title:       fmt.Sprintf("Caso %d", i),
			Description: fmt.Sprintf("Descrição do caso %d", i),
			Value:       float64(i) * 10,
		})
	}
	return out
}

func pageResponse(t *testing.T, items []domain.Incident, link string) *ports.APIResponse {
	t.Helper()
	body, err := json.Marshal(items)
	if err != nil {
		t.Fatalf("marshal page: %v", err)
	}
	h := make(http.Header)
	if link != "" {
		h.Set("Link", link)
	}
	return &ports.APIResponse{StatusCode: http.StatusOK, Header: h, Body: body}
}

func jsonAPIResponse(t *testing.T, v any) *ports.APIResponse {
	t.Helper()
	body, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return &ports.APIResponse{StatusCode: http.StatusOK, Header: make(http.Header), Body: body}
}

func ids(items []domain.Incident) []domain.ID {
	out := make([]domain.ID, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func equalIDs(a, b []domain.ID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
