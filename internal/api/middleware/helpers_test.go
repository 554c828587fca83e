package middleware

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bethehero/web/internal/core/domain"
	"github.com/bethehero/web/internal/core/service"
	"github.com/bethehero/web/internal/infrastructure/gateway"
	"github.com/bethehero/web/internal/infrastructure/storage"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := CookieKey([]byte("test-secret"))
	if err != nil {
		t.Fatalf("cookie key: %v", err)
	}
	return key
}

func newWorkspaces() *service.Workspaces {
	return service.NewWorkspaces(
		storage.NewMemory(),
		gateway.NewFactory("http://api.test", 0, zerolog.Nop()),
		zerolog.Nop(),
	)
}

func loggedIn(t *testing.T, ws *service.Workspace) {
	t.Helper()
	if err := ws.Session.Login(context.Background(), domain.Session{ID: "1", Name: "A", Token: "t"}); err != nil {
		t.Fatalf("login: %v", err)
	}
}
