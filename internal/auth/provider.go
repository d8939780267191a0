package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/edgebook/guestbook-server-go/internal/model"
)

// Session is the auth provider's view of a login session. Its ID is the
// canonical session identifier shared with the session entity namespace.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ProviderSession pairs the provider session with the identity it vouches
// for. The user here is an initial/fallback identity, not the system of
// record for profile fields.
type ProviderSession struct {
	Session Session     `json:"session"`
	User    *model.User `json:"user"`
}

// Provider resolves the external auth provider's session for a request's
// credentials. A nil result with nil error means no session (anonymous).
// disableCookieCache forces a fresh read when staleness matters.
type Provider interface {
	GetSession(ctx context.Context, r *http.Request, disableCookieCache bool) (*ProviderSession, error)
}
