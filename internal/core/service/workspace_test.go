package service

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bethehero/web/internal/core/domain"
	"github.com/bethehero/web/internal/core/ports"
)

func TestWorkspaces_GetRestoresOncePerBrowser(t *testing.T) {
	provider := &stubStorageProvider{}
	provider.For("b1").(*stubStorage).items[domain.StorageKey] = `{"id":"7","name":"APAD","token":"tok"}`
	gateways := &stubGatewayFactory{}
	reg := NewWorkspaces(provider, gateways, zerolog.Nop())
	ctx := context.Background()

	ws := reg.Get(ctx, "b1")
	if ws.Session.Current().Token != "tok" {
		t.Fatalf("expected restored session, got %+v", ws.Session.Current())
	}
	if ws.Gateway.Authorization() != "Bearer tok" {
		t.Fatalf("expected restored header, got %q", ws.Gateway.Authorization())
	}
	if again := reg.Get(ctx, "b1"); again != ws {
		t.Fatalf("expected the same workspace for the same browser")
	}

	other := reg.Get(ctx, "b2")
	if other.Session.Current().IsAuthenticated() {
		t.Fatalf("browsers must not share sessions")
	}
	if len(gateways.built) != 2 || reg.Len() != 2 {
		t.Fatalf("expected one gateway per browser, got %d", len(gateways.built))
	}
}

func TestWorkspaces_SweepEvictsIdle(t *testing.T) {
	reg := NewWorkspaces(&stubStorageProvider{}, &stubGatewayFactory{}, zerolog.Nop())
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }
	ctx := context.Background()

	reg.Get(ctx, "old")
	now = now.Add(20 * time.Minute)
	reg.Get(ctx, "fresh")
	now = now.Add(15 * time.Minute)

	if n := reg.Sweep(30 * time.Minute); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}
	if reg.Len() != 1 {
		t.Fatalf("expected 1 workspace left, got %d", reg.Len())
	}
}

func TestWorkspace_RemountAndLogoutCloseFeed(t *testing.T) {
	gateways := &stubGatewayFactory{}
	reg := NewWorkspaces(&stubStorageProvider{}, gateways, zerolog.Nop())
	ctx := context.Background()
	ws := reg.Get(ctx, "b1")
	gw := gateways.built[0]
	gw.getFn = func(context.Context, string, url.Values) (*ports.APIResponse, error) {
		return pageResponse(t, incidents(1, 2), morePages), nil
	}

	if err := ws.Session.Login(ctx, domain.Session{ID: "9", Name: "N", Token: "t"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	first, err := ws.MountFeed(ctx)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	second, err := ws.MountFeed(ctx)
	if err != nil {
		t.Fatalf("remount: %v", err)
	}
	if _, err := first.LoadMore(ctx); err != domain.ErrFeedClosed {
		t.Fatalf("expected first feed torn down, got %v", err)
	}
	if ws.Feed() != second {
		t.Fatalf("expected second feed to be current")
	}
	if calls := gw.Calls(); calls[0] != "GET ngos/9/incidents?page=1" {
		t.Fatalf("unexpected first call %v", calls)
	}

	if err := ws.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if ws.Feed() != nil || ws.Session.Current().IsAuthenticated() {
		t.Fatalf("expected feed and session cleared")
	}
	if _, err := second.LoadMore(ctx); err != domain.ErrFeedClosed {
		t.Fatalf("expected feed closed on logout, got %v", err)
	}
}

func TestToasts_DrainInOrder(t *testing.T) {
	var q Toasts
	q.Success("a")
	q.Error("b")
	got := q.Drain()
	if len(got) != 2 || got[0] != (Toast{ToastSuccess, "a"}) || got[1] != (Toast{ToastError, "b"}) {
		t.Fatalf("unexpected toasts: %+v", got)
	}
	if len(q.Drain()) != 0 {
		t.Fatalf("expected queue emptied")
	}
}

func TestWorkspace_DeleteIncidentWithoutFeed(t *testing.T) {
	gateways := &stubGatewayFactory{}
	reg := NewWorkspaces(&stubStorageProvider{}, gateways, zerolog.Nop())
	ctx := context.Background()
	ws := reg.Get(ctx, "b1")
	gw := gateways.built[0]
	gw.deleteFn = func(context.Context, string) (*ports.APIResponse, error) {
		return &ports.APIResponse{StatusCode: 204}, nil
	}

	if ws.Feed() != nil {
		t.Fatalf("expected no feed before the list is rendered")
	}
	if err := ws.DeleteIncident(ctx, "3"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if calls := gw.Calls(); len(calls) != 1 || calls[0] != "DELETE incidents/3" {
		t.Fatalf("expected the API call to be made, got %v", calls)
	}
	toasts := ws.Toasts.Drain()
	if len(toasts) != 1 || toasts[0].Kind != ToastSuccess || toasts[0].Message != MsgIncidentDeleted {
		t.Fatalf("expected success toast, got %+v", toasts)
	}
}

func TestWorkspace_DeleteIncidentPrunesMountedFeed(t *testing.T) {
	gateways := &stubGatewayFactory{}
	reg := NewWorkspaces(&stubStorageProvider{}, gateways, zerolog.Nop())
	ctx := context.Background()
	ws := reg.Get(ctx, "b1")
	gw := gateways.built[0]
	gw.getFn = func(context.Context, string, url.Values) (*ports.APIResponse, error) {
		return pageResponse(t, incidents(1, 3), ""), nil
	}
	gw.deleteFn = func(context.Context, string) (*ports.APIResponse, error) {
		return nil, domain.ErrRemote
	}

	feed, err := ws.MountFeed(ctx)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if err := ws.DeleteIncident(ctx, "2"); err == nil {
		t.Fatalf("expected delete error")
	}
	if got := ids(feed.Snapshot().Items); !equalIDs(got, ids(incidents(1, 3))) {
		t.Fatalf("failed delete must keep the list, got %v", got)
	}

	gw.deleteFn = func(context.Context, string) (*ports.APIResponse, error) {
		return &ports.APIResponse{StatusCode: 204}, nil
	}
	if err := ws.DeleteIncident(ctx, "2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	want := []domain.ID{"1", "3"}
	if got := ids(feed.Snapshot().Items); !equalIDs(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
