package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bethehero/web/internal/core/domain"
	"github.com/bethehero/web/internal/core/ports"
	"github.com/bethehero/web/internal/pkg/metrics"
)

// GatewayFactory builds one API gateway per workspace.
type GatewayFactory interface {
	New() ports.APIGateway
}

// Workspace is the application context of one browser: its session, its API
// gateway (with that browser's Authorization header), its toasts and the
// incident feed currently mounted.
type Workspace struct {
	ID      string
	Gateway ports.APIGateway
	Session *SessionStore
	Toasts  *Toasts

	log zerolog.Logger

	mu       sync.Mutex
	feed     *Feed
	lastSeen time.Time
}

// MountFeed tears down the current feed, if any, and mounts a new one for the
// logged-in NGO.
func (w *Workspace) MountFeed(ctx context.Context) (*Feed, error) {
	feed := NewFeed(w.Session.Current().ID, w.Gateway, w.Toasts, w.log)

	w.mu.Lock()
	if w.feed != nil {
		w.feed.Close()
	}
	w.feed = feed
	w.mu.Unlock()

	return feed, feed.Mount(ctx)
}

// Feed returns the mounted feed, or nil.
func (w *Workspace) Feed() *Feed {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.feed
}

// DeleteIncident deletes id on the server whether or not a feed is mounted.
// The mounted feed, if any, drops the incident once the server confirms.
func (w *Workspace) DeleteIncident(ctx context.Context, id domain.ID) error {
	if feed := w.Feed(); feed != nil {
		return feed.Delete(ctx, id)
	}
	return deleteIncident(ctx, w.Gateway, w.Toasts, w.log, id)
}

// Logout tears down the feed and clears the session.
func (w *Workspace) Logout(ctx context.Context) error {
	w.mu.Lock()
	if w.feed != nil {
		w.feed.Close()
		w.feed = nil
	}
	w.mu.Unlock()
	return w.Session.Logout(ctx)
}

// LoginForm returns a login controller bound to this workspace.
func (w *Workspace) LoginForm() *LoginForm {
	return NewLoginForm(w.Gateway, w.Session, w.Toasts, w.log)
}

// RegisterForm returns a register controller bound to this workspace.
func (w *Workspace) RegisterForm() *RegisterForm {
	return NewRegisterForm(w.Gateway, w.Toasts, w.log)
}

// IncidentForm returns a create-incident controller bound to this workspace.
func (w *Workspace) IncidentForm() *IncidentForm {
	return NewIncidentForm(w.Gateway, w.Toasts, w.log)
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince(now time.Time) time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return now.Sub(w.lastSeen)
}

// Workspaces holds the workspace of every browser seen recently.
type Workspaces struct {
	storage  ports.StorageProvider
	gateways GatewayFactory
	log      zerolog.Logger
	now      func() time.Time

	mu   sync.Mutex
	byID map[string]*Workspace
}

// NewWorkspaces returns an empty registry.
func NewWorkspaces(storage ports.StorageProvider, gateways GatewayFactory, log zerolog.Logger) *Workspaces {
	return &Workspaces{
		storage:  storage,
		gateways: gateways,
		log:      log.With().Str("component", "workspaces").Logger(),
		now:      time.Now,
		byID:     make(map[string]*Workspace),
	}
}

// Get returns the workspace of browserID. The first request of a browser
// creates it and restores the session from durable storage.
func (r *Workspaces) Get(ctx context.Context, browserID string) *Workspace {
	now := r.now()

	r.mu.Lock()
	ws, ok := r.byID[browserID]
	r.mu.Unlock()
	if ok {
		ws.touch(now)
		return ws
	}

	fresh := r.build(ctx, browserID)
	fresh.touch(now)

	r.mu.Lock()
	defer r.mu.Unlock()
	if ws, ok := r.byID[browserID]; ok {
		return ws
	}
	r.byID[browserID] = fresh
	metrics.ActiveWorkspaces.Set(float64(len(r.byID)))
	return fresh
}

func (r *Workspaces) build(ctx context.Context, browserID string) *Workspace {
	log := r.log.With().Str("browser_id", browserID).Logger()
	gw := r.gateways.New()
	session := NewSessionStore(r.storage.For(browserID), gw, log)
	session.Restore(ctx)

	return &Workspace{
		ID:      browserID,
		Gateway: gw,
		Session: session,
		Toasts:  &Toasts{},
		log:     log,
	}
}

// Sweep drops workspaces idle for longer than idle and returns how many were
// removed. Their sessions stay in durable storage.
func (r *Workspaces) Sweep(idle time.Duration) int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, ws := range r.byID {
		if ws.idleSince(now) <= idle {
			continue
		}
		if f := ws.Feed(); f != nil {
			f.Close()
		}
		delete(r.byID, id)
		removed++
	}
	metrics.ActiveWorkspaces.Set(float64(len(r.byID)))
	return removed
}

// Len returns the number of workspaces held.
func (r *Workspaces) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// RunSweeper sweeps every interval until ctx is cancelled.
func (r *Workspaces) RunSweeper(ctx context.Context, idle, interval time.Duration) {
	if idle <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(idle); n > 0 {
				r.log.Debug().Int("removed", n).Int("remaining", r.Len()).Msg("evicted idle workspaces")
			}
		}
	}
}
