package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/edgebook/guestbook-server-go/internal/auth"
	"github.com/edgebook/guestbook-server-go/internal/config"
	apperrors "github.com/edgebook/guestbook-server-go/internal/errors"
	"github.com/edgebook/guestbook-server-go/internal/model"
	"github.com/edgebook/guestbook-server-go/internal/repository"
)

// Store reconciles the external auth provider's session with the session
// entity addressed by the same session id. It is constructed once at startup
// and injected into request handlers; all methods are safe for concurrent
// use because per-session serialization lives in the entities.
type Store struct {
	provider auth.Provider
	sessions *Namespace
	users    repository.UserRepository
}

// NewStore fails fast on missing dependencies rather than degrading at
// request time.
func NewStore(provider auth.Provider, sessions *Namespace, users repository.UserRepository) (*Store, error) {
	if provider == nil {
		return nil, errors.New("session store: auth provider is required")
	}
	if sessions == nil {
		return nil, errors.New("session store: namespace is required")
	}
	if users == nil {
		return nil, errors.New("session store: user repository is required")
	}
	return &Store{provider: provider, sessions: sessions, users: users}, nil
}

// Load resolves the session for a request. A nil record with nil error means
// anonymous. A missing or expired entity record is re-seeded from a fresh
// user row; a live one is served through the refresh policy: the cached user
// is re-read from the database only when absent or older than the refresh
// window.
func (s *Store) Load(ctx context.Context, r *http.Request) (*model.SessionRecord, error) {
	providerSession, err := s.provider.GetSession(ctx, r, false)
	if err != nil {
		return nil, err
	}
	if providerSession == nil {
		return nil, nil
	}

	entity := s.sessions.Entity(providerSession.Session.ID)

	record, err := entity.Get(ctx)
	if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionExpired) {
		// The read released the dead instance; seed through a fresh one.
		return s.seed(ctx, providerSession)
	}
	if err != nil {
		return nil, err
	}

	stale := record.User == nil ||
		record.LastAccessed < time.Now().Add(-config.SessionRefreshWindow).UnixMilli()
	if stale {
		fresh, err := s.users.FindByID(ctx, providerSession.User.ID)
		if err != nil {
			return nil, apperrors.Database(err)
		}
		if fresh != nil {
			updated, err := entity.UpdateUser(ctx, fresh)
			if err != nil {
				return nil, err
			}
			if updated != nil {
				return updated, nil
			}
		}
	}

	return record, nil
}

// Save writes a partial session through to the entity. Empty deltas and
// requests without a valid auth session are no-ops.
func (s *Store) Save(ctx context.Context, r *http.Request, data model.SessionData) error {
	if data.UserID == "" && data.User == nil {
		return nil
	}

	providerSession, err := s.provider.GetSession(ctx, r, false)
	if err != nil {
		return err
	}
	if providerSession == nil {
		log.Warn().Msg("session save: no valid auth session")
		return nil
	}

	userID := data.UserID
	if userID == "" {
		userID = providerSession.User.ID
	}

	_, err = s.sessions.Entity(providerSession.Session.ID).Save(ctx, userID, data.User)
	return err
}

// Remove revokes the entity record for the request's auth session, if any.
func (s *Store) Remove(ctx context.Context, r *http.Request) error {
	providerSession, err := s.provider.GetSession(ctx, r, false)
	if err != nil {
		return err
	}
	if providerSession == nil {
		return nil
	}

	return s.sessions.Entity(providerSession.Session.ID).Revoke(ctx)
}

// UpdateUser pushes a fresh user snapshot into the entity. forceRefresh is
// the caller's hint after a profile mutation: the immediate write renews the
// record so the next Load serves the new data without waiting out the
// refresh window.
func (s *Store) UpdateUser(ctx context.Context, r *http.Request, user *model.User, forceRefresh bool) error {
	providerSession, err := s.provider.GetSession(ctx, r, false)
	if err != nil {
		return err
	}
	if providerSession == nil {
		log.Warn().Msg("session update: no valid auth session")
		return nil
	}

	_, err = s.sessions.Entity(providerSession.Session.ID).UpdateUser(ctx, user)
	if err != nil {
		return err
	}

	log.Debug().
		Str("sessionId", providerSession.Session.ID).
		Bool("forceRefresh", forceRefresh).
		Msg("session user updated")
	return nil
}

// Entity exposes the addressed entity for diagnostics handlers.
func (s *Store) Entity(ctx context.Context, r *http.Request) (*Entity, error) {
	providerSession, err := s.provider.GetSession(ctx, r, false)
	if err != nil {
		return nil, err
	}
	if providerSession == nil {
		return nil, nil
	}
	return s.sessions.Entity(providerSession.Session.ID), nil
}

// seed rebuilds an entity record from the system of record, falling back to
// the identity the auth provider vouched for when the row is missing.
func (s *Store) seed(ctx context.Context, providerSession *auth.ProviderSession) (*model.SessionRecord, error) {
	user, err := s.users.FindByID(ctx, providerSession.User.ID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if user == nil {
		user = providerSession.User
	}

	entity := s.sessions.Entity(providerSession.Session.ID)
	return entity.Save(ctx, providerSession.User.ID, user)
}
