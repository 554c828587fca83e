// Package main starts the Be The Hero web front-end.
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/bethehero/web/internal/api"
	"github.com/bethehero/web/internal/api/middleware"
	"github.com/bethehero/web/internal/core/ports"
	"github.com/bethehero/web/internal/core/service"
	mongostore "github.com/bethehero/web/internal/infrastructure/db/mongo"
	redisstore "github.com/bethehero/web/internal/infrastructure/db/redis"
	"github.com/bethehero/web/internal/infrastructure/gateway"
	"github.com/bethehero/web/internal/infrastructure/storage"
	"github.com/bethehero/web/internal/pkg/config"
	"github.com/bethehero/web/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute
	submitGuardTTL  = 30 * time.Second
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "bethehero-web",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("web server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Browser storage ---
	backend, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer backend.close()

	// --- Browser cookie ---
	secret := []byte(cfg.Session.Secret)
	if len(secret) == 0 {
		log.Warn().Msg("SESSION_SECRET not set, browser cookies will not survive a restart")
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("generate session secret: %w", err)
		}
	}
	key, err := middleware.CookieKey(secret)
	if err != nil {
		return err
	}

	// --- Workspaces ---
	gateways := gateway.NewFactory(cfg.API.URL, cfg.API.Timeout, log)
	workspaces := service.NewWorkspaces(backend.storage, gateways, log)
	go workspaces.RunSweeper(ctx, cfg.Session.IdleTTL, sweepInterval)

	var guard ports.SubmitGuard
	if cfg.Session.SubmitGuard {
		guard = backend.guard
	}

	e, err := api.NewRouter(api.Deps{
		Log:            log,
		Workspaces:     workspaces,
		Browser:        middleware.BrowserConfig{Key: key, Secure: cfg.Session.CookieSecure, MaxAge: cfg.Storage.TTL},
		Storage:        backend.storage,
		StorageBackend: cfg.Storage.Backend,
		SubmitGuard:    guard,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("api_url", cfg.API.URL).
			Str("storage", cfg.Storage.Backend).
			Msg("web server listening")
		errCh <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

type storageBackend struct {
	storage ports.StorageProvider
	guard   ports.SubmitGuard
	close   func()
}

// openStorage connects the STORAGE_BACKEND. The submit guard lives next to
// it: Redis when storage is Redis, in-process otherwise.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storageBackend, error) {
	switch cfg.Storage.Backend {
	case config.StorageRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
		return &storageBackend{
			storage: redisstore.NewStorage(client, cfg.Storage.TTL),
			guard:   redisstore.NewSubmitGuard(client, submitGuardTTL),
			close:   func() { _ = client.Close() },
		}, nil

	case config.StorageMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		s := mongostore.NewStorage(db)
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")
		return &storageBackend{
			storage: s,
			guard:   storage.NewMemoryGuard(submitGuardTTL),
			close:   func() { _ = client.Disconnect(context.Background()) },
		}, nil

	default:
		return &storageBackend{
			storage: storage.NewMemory(),
			guard:   storage.NewMemoryGuard(submitGuardTTL),
			close:   func() {},
		}, nil
	}
}
