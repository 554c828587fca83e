package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bethehero/web/internal/core/domain"
	"github.com/bethehero/web/internal/core/ports"
)

// SessionStore owns the session of one browser. Login and logout are its only
// writers; readers always receive a complete copy.
type SessionStore struct {
	storage ports.Storage
	gateway ports.APIGateway
	log     zerolog.Logger

	mu      sync.RWMutex
	current domain.Session
}

// NewSessionStore returns an empty store backed by storage. The gateway's
// default Authorization header follows the stored token.
func NewSessionStore(storage ports.Storage, gateway ports.APIGateway, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		storage: storage,
		gateway: gateway,
		log:     log.With().Str("component", "session").Logger(),
	}
}

// Restore loads the session persisted under domain.StorageKey. A missing,
// unreadable or unparsable entry yields the empty session.
func (s *SessionStore) Restore(ctx context.Context) domain.Session {
	sess, err := s.load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrStorageKeyNotFound) {
			s.log.Debug().Msg("no stored session")
		} else {
			s.log.Warn().Err(err).Msg("discarding stored session")
		}
		sess = domain.Session{}
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	if sess.IsAuthenticated() {
		s.gateway.SetAuthorization(sess.Token)
	}
	return sess
}

func (s *SessionStore) load(ctx context.Context) (domain.Session, error) {
	raw, err := s.storage.GetItem(ctx, domain.StorageKey)
	if err != nil {
		return domain.Session{}, err
	}
	var sess domain.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return domain.Session{}, fmt.Errorf("parse stored session: %w", err)
	}
	return sess, nil
}

// Current returns a copy of the session.
func (s *SessionStore) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Login persists sess and makes it current. The Authorization header is set
// before Login returns, so the next request is authenticated.
func (s *SessionStore) Login(ctx context.Context, sess domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.storage.SetItem(ctx, domain.StorageKey, string(data)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	if sess.IsAuthenticated() {
		s.gateway.SetAuthorization(sess.Token)
	}
	s.log.Info().Str("ngo_id", sess.ID.String()).Msg("session started")
	return nil
}

// Logout removes the persisted session and resets to the empty session. The
// in-memory session is reset even when storage fails.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	prev := s.current
	s.current = domain.Session{}
	s.mu.Unlock()

	s.gateway.SetAuthorization("")

	if err := s.storage.RemoveItem(ctx, domain.StorageKey); err != nil {
		return fmt.Errorf("clear stored session: %w", err)
	}
	s.log.Info().Str("ngo_id", prev.ID.String()).Msg("session ended")
	return nil
}
