package onboarding

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/edgebook/guestbook-server-go/internal/model"
	"github.com/edgebook/guestbook-server-go/internal/repository"
)

// Gate decides whether a request should be interrupted for profile
// completion. It holds no state of its own.
type Gate struct {
	users repository.UserRepository
}

func NewGate(users repository.UserRepository) *Gate {
	return &Gate{users: users}
}

// Check reports whether the user still needs onboarding. API and auth paths
// are programmatic surfaces, never interrupted. A cached empty name is not
// trusted on its own: the name is re-read from the user table, because a
// just-completed profile edit may not have reached the session cache yet.
// If that read fails the gate fails open and asks again.
func (g *Gate) Check(ctx context.Context, path string, user *model.User) bool {
	if strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/auth/") {
		return false
	}

	if user == nil || user.Name != "" {
		return false
	}

	name, err := g.users.FindNameByID(ctx, user.ID)
	if err != nil {
		log.Error().Err(err).Str("userId", user.ID).Msg("onboarding check: database error")
		return true
	}

	return name == nil || *name == ""
}
