package onboarding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edgebook/guestbook-server-go/internal/model"
)

type fakeUserRepo struct {
	names   map[string]string
	findErr error
	reads   int
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) FindNameByID(ctx context.Context, id string) (*string, error) {
	r.reads++
	if r.findErr != nil {
		return nil, r.findErr
	}
	name, ok := r.names[id]
	if !ok {
		return nil, nil
	}
	return &name, nil
}

func (r *fakeUserRepo) UpdateName(ctx context.Context, id string, name string) (*model.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) UpdateImage(ctx context.Context, id string, image *string) (*model.User, error) {
	return nil, nil
}

func TestGateCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("skips api and auth paths", func(t *testing.T) {
		repo := &fakeUserRepo{}
		gate := NewGate(repo)
		user := &model.User{ID: "u1"}

		assert.False(t, gate.Check(ctx, "/api/session/refresh", user))
		assert.False(t, gate.Check(ctx, "/auth/callback", user))
		assert.Zero(t, repo.reads)
	})

	t.Run("anonymous user never needs onboarding", func(t *testing.T) {
		gate := NewGate(&fakeUserRepo{})
		assert.False(t, gate.Check(ctx, "/guestbook", nil))
	})

	t.Run("user with cached name never needs onboarding", func(t *testing.T) {
		repo := &fakeUserRepo{}
		gate := NewGate(repo)

		assert.False(t, gate.Check(ctx, "/guestbook", &model.User{ID: "u1", Name: "Alice"}))
		assert.Zero(t, repo.reads)
	})

	t.Run("empty cached name but fresh name in database", func(t *testing.T) {
		// A just-completed profile edit may not have reached the session
		// cache yet; the gate must believe the database.
		repo := &fakeUserRepo{names: map[string]string{"u1": "Alice"}}
		gate := NewGate(repo)

		assert.False(t, gate.Check(ctx, "/guestbook", &model.User{ID: "u1"}))
		assert.Equal(t, 1, repo.reads)
	})

	t.Run("empty name in cache and database", func(t *testing.T) {
		repo := &fakeUserRepo{names: map[string]string{"u1": ""}}
		gate := NewGate(repo)

		assert.True(t, gate.Check(ctx, "/guestbook", &model.User{ID: "u1"}))
	})

	t.Run("missing row still needs onboarding", func(t *testing.T) {
		gate := NewGate(&fakeUserRepo{})
		assert.True(t, gate.Check(ctx, "/guestbook", &model.User{ID: "u1"}))
	})

	t.Run("fails open on database error", func(t *testing.T) {
		repo := &fakeUserRepo{findErr: errors.New("connection refused")}
		gate := NewGate(repo)

		assert.True(t, gate.Check(ctx, "/guestbook", &model.User{ID: "u1"}))
	})
}
