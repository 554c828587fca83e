package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bethehero/web/internal/core/domain"
	"github.com/bethehero/web/internal/core/ports"
	"github.com/bethehero/web/internal/pkg/metrics"
)

// Toast texts raised by the feed.
const (
	MsgIncidentDeleted     = "Caso removido com sucesso!"
	MsgIncidentDeleteError = "Erro ao remover caso, tente novamente!"
	MsgFeedLoadError       = "Erro ao carregar casos, tente novamente!"
)

// lastPageMarker is searched case-insensitively in the link header. Its
// presence means another page can be requested.
const lastPageMarker = `rel="last"`

// FeedSnapshot is a point-in-time copy of a feed, safe to render.
type FeedSnapshot struct {
	Items       []domain.Incident
	CurrentPage int
	ReachedEnd  bool
	Loading     bool
	State       domain.FeedState
}

// LoadResult describes one load-more trigger.
type LoadResult struct {
	// Issued is false when the trigger was ignored because the feed was
	// loading or exhausted.
	Issued bool
	// Appended holds the incidents added by this page, in server order.
	Appended []domain.Incident
	// ReachedEnd reports the feed state after the page was applied.
	ReachedEnd bool
}

// Feed is the forward-only, append-only incident list of one NGO. At most one
// page request is outstanding at any time.
type Feed struct {
	ngoID    domain.ID
	gateway  ports.APIGateway
	notifier ports.Notifier
	log      zerolog.Logger

	mu         sync.Mutex
	items      []domain.Incident
	page       int
	reachedEnd bool
	loading    bool
	mounted    bool
	closed     bool
}

// NewFeed returns a feed in the Loading state for page 1. Call Mount to
// issue the first request.
func NewFeed(ngoID domain.ID, gateway ports.APIGateway, notifier ports.Notifier, log zerolog.Logger) *Feed {
	return &Feed{
		ngoID:    ngoID,
		gateway:  gateway,
		notifier: notifier,
		log:      log.With().Str("component", "feed").Str("ngo_id", ngoID.String()).Logger(),
		page:     1,
		loading:  true,
	}
}

// Mount fetches page 1. It runs once per feed; later calls are no-ops.
func (f *Feed) Mount(ctx context.Context) error {
	f.mu.Lock()
	if f.mounted || f.closed {
		f.mu.Unlock()
		return nil
	}
	f.mounted = true
	f.mu.Unlock()

	_, err := f.fetch(ctx, 1, 0)
	return err
}

// LoadMore requests the page after the current one. While the feed is
// loading or exhausted the call does nothing and reports Issued=false.
func (f *Feed) LoadMore(ctx context.Context) (LoadResult, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return LoadResult{}, domain.ErrFeedClosed
	}
	if f.loading || f.reachedEnd {
		state, reachedEnd := f.stateLocked(), f.reachedEnd
		f.mu.Unlock()
		metrics.FeedLoadSuppressedTotal.WithLabelValues(string(state)).Inc()
		return LoadResult{ReachedEnd: reachedEnd}, nil
	}
	prev := f.page
	f.page++
	f.loading = true
	page := f.page
	f.mu.Unlock()

	appended, err := f.fetch(ctx, page, prev)
	if err != nil {
		return LoadResult{Issued: true}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return LoadResult{Issued: true, Appended: appended, ReachedEnd: f.reachedEnd}, nil
}

// fetch requests page and applies the response. The caller has already put
// the feed in the Loading state. prev is the page restored on failure.
func (f *Feed) fetch(ctx context.Context, page, prev int) ([]domain.Incident, error) {
	resource := fmt.Sprintf("ngos/%s/incidents", url.PathEscape(f.ngoID.String()))
	resp, err := f.gateway.Get(ctx, resource, url.Values{"page": {strconv.Itoa(page)}})

	var items []domain.Incident
	if err == nil {
		err = resp.Decode(&items)
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		metrics.FeedPageLoadsTotal.WithLabelValues("dropped").Inc()
		f.log.Debug().Int("page", page).Msg("feed closed, dropping page")
		return nil, nil
	}

	if err != nil {
		f.page = prev
		f.loading = false
		f.mu.Unlock()

		metrics.FeedPageLoadsTotal.WithLabelValues("error").Inc()
		f.log.Warn().Err(err).Int("page", page).Msg("failed to load incidents page")
		f.notifier.Error(MsgFeedLoadError)
		return nil, fmt.Errorf("load incidents page %d: %w", page, err)
	}

	f.items = append(f.items, items...)
	if !hasNextPage(resp.Header.Values("Link")) {
		f.reachedEnd = true
	}
	f.loading = false
	reachedEnd := f.reachedEnd
	f.mu.Unlock()

	outcome := "more"
	if reachedEnd {
		outcome = "exhausted"
	}
	metrics.FeedPageLoadsTotal.WithLabelValues(outcome).Inc()
	f.log.Debug().Int("page", page).Int("count", len(items)).Bool("reached_end", reachedEnd).Msg("incidents page loaded")

	return items, nil
}

// hasNextPage reports whether any link header value carries the last-page
// marker. The match ignores case.
func hasNextPage(links []string) bool {
	for _, link := range links {
		if strings.Contains(strings.ToLower(link), lastPageMarker) {
			return true
		}
	}
	return false
}

// Delete removes an incident on the server, then from the list. On failure the
// list is left untouched.
func (f *Feed) Delete(ctx context.Context, id domain.ID) error {
	if err := deleteIncident(ctx, f.gateway, f.notifier, f.log, id); err != nil {
		return err
	}
	f.remove(id)
	return nil
}

func (f *Feed) remove(id domain.ID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := make([]domain.Incident, 0, len(f.items))
	for _, it := range f.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	f.items = kept
}

// deleteIncident calls DELETE incidents/{id} and raises the matching toast.
func deleteIncident(ctx context.Context, gateway ports.APIGateway, notifier ports.Notifier, log zerolog.Logger, id domain.ID) error {
	if _, err := gateway.Delete(ctx, "incidents/"+url.PathEscape(id.String())); err != nil {
		log.Warn().Err(err).Str("incident_id", id.String()).Msg("failed to delete incident")
		notifier.Error(MsgIncidentDeleteError)
		return fmt.Errorf("delete incident %s: %w", id, err)
	}
	log.Info().Str("incident_id", id.String()).Msg("incident deleted")
	notifier.Success(MsgIncidentDeleted)
	return nil
}

// Close tears the feed down. Responses still in flight are not applied.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

// State returns the current pagination state.
func (f *Feed) State() domain.FeedState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stateLocked()
}

func (f *Feed) stateLocked() domain.FeedState {
	switch {
	case f.loading:
		return domain.FeedLoading
	case f.reachedEnd:
		return domain.FeedExhausted
	default:
		return domain.FeedIdle
	}
}

// Snapshot copies the feed state.
func (f *Feed) Snapshot() FeedSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]domain.Incident, len(f.items))
	copy(items, f.items)
	return FeedSnapshot{
		Items:       items,
		CurrentPage: f.page,
		ReachedEnd:  f.reachedEnd,
		Loading:     f.loading,
		State:       f.stateLocked(),
	}
}
