package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/edgebook/guestbook-server-go/internal/auth"
	apperrors "github.com/edgebook/guestbook-server-go/internal/errors"
	"github.com/edgebook/guestbook-server-go/internal/model"
	"github.com/edgebook/guestbook-server-go/internal/onboarding"
	"github.com/edgebook/guestbook-server-go/internal/session"
)

type contextKey string

const (
	UserContextKey       contextKey = "user"
	OnboardingContextKey contextKey = "needsOnboarding"
	OriginContextKey     contextKey = "origin"
)

// GetUser returns the resolved user for the request, or nil when anonymous.
func GetUser(ctx context.Context) *model.User {
	if user, ok := ctx.Value(UserContextKey).(*model.User); ok {
		return user
	}
	return nil
}

// NeedsOnboarding reports whether the onboarding gate flagged this request.
func NeedsOnboarding(ctx context.Context) bool {
	if needs, ok := ctx.Value(OnboardingContextKey).(bool); ok {
		return needs
	}
	return false
}

// Origin returns the computed origin URL for the request.
func Origin(ctx context.Context) string {
	if origin, ok := ctx.Value(OriginContextKey).(string); ok {
		return origin
	}
	return ""
}

// SessionMiddleware resolves the session on every request and populates the
// request context with the user, the onboarding flag, and the origin URL.
type SessionMiddleware struct {
	store    *session.Store
	provider auth.Provider
	gate     *onboarding.Gate
}

func NewSessionMiddleware(store *session.Store, provider auth.Provider, gate *onboarding.Gate) *SessionMiddleware {
	return &SessionMiddleware{store: store, provider: provider, gate: gate}
}

func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), OriginContextKey, requestOrigin(r))

		user, err := m.resolveUser(ctx, r)
		if err != nil {
			// Expected absence never reaches here; anything that does means
			// the session layer itself is broken.
			log.Error().Err(err).Msg("session middleware: failed to load session")
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "Failed to load session",
			})
			return
		}

		if user != nil {
			ctx = context.WithValue(ctx, UserContextKey, user)
		}

		if m.gate.Check(ctx, r.URL.Path, user) {
			ctx = context.WithValue(ctx, OnboardingContextKey, true)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolveUser loads the session record, falling back to the auth provider
// for a first-time session and seeding the entity so later requests hit the
// cache. An anonymous request resolves to (nil, nil).
func (m *SessionMiddleware) resolveUser(ctx context.Context, r *http.Request) (*model.User, error) {
	record, err := m.store.Load(ctx, r)
	if err != nil {
		return nil, err
	}
	if record != nil && record.User != nil {
		return record.User, nil
	}

	providerSession, err := m.provider.GetSession(ctx, r, true)
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		log.Warn().Err(err).Msg("session middleware: auth provider fallback failed")
		return nil, nil
	}
	if providerSession == nil {
		return nil, nil
	}

	if err := m.store.Save(ctx, r, model.SessionData{
		UserID: providerSession.User.ID,
		User:   providerSession.User,
	}); err != nil {
		return nil, err
	}

	return providerSession.User, nil
}

func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
