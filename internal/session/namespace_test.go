package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgebook/guestbook-server-go/internal/config"
	"github.com/edgebook/guestbook-server-go/internal/model"
)

func TestNamespace(t *testing.T) {
	t.Run("returns same entity for same id", func(t *testing.T) {
		ns := NewNamespace(newMemStorage())

		a := ns.Entity("sess-1")
		b := ns.Entity("sess-1")
		assert.Same(t, a, b)
	})

	t.Run("returns distinct entities for distinct ids", func(t *testing.T) {
		ns := NewNamespace(newMemStorage())

		a := ns.Entity("sess-1")
		b := ns.Entity("sess-2")
		assert.NotSame(t, a, b)
		assert.Equal(t, 2, ns.Len())
	})

	t.Run("evict drops the instance but not the durable record", func(t *testing.T) {
		ctx := context.Background()
		storage := newMemStorage()
		ns := NewNamespace(storage)

		_, err := ns.Entity("sess-1").Save(ctx, "u1", nil)
		require.NoError(t, err)

		ns.Evict("sess-1")
		assert.Zero(t, ns.Len())

		// A fresh instance hydrates from storage.
		got, err := ns.Entity("sess-1").Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "u1", got.UserID)
	})

	t.Run("expiry purge releases the entity", func(t *testing.T) {
		ctx := context.Background()
		storage := newMemStorage()
		ns := NewNamespace(storage)

		created := time.Now().Add(-config.MaxSessionDuration - time.Minute).UnixMilli()
		for i := 0; i < 100; i++ {
			id := fmt.Sprintf("sess-%d", i)
			storage.seed(id, model.SessionRecord{
				UserID:       "u1",
				CreatedAt:    created,
				LastAccessed: created,
			})
			_, err := ns.Entity(id).Get(ctx)
			assert.ErrorIs(t, err, ErrSessionExpired)
		}

		assert.Zero(t, ns.Len())
	})

	t.Run("not found read releases the entity", func(t *testing.T) {
		ctx := context.Background()
		ns := NewNamespace(newMemStorage())

		_, err := ns.Entity("sess-1").Get(ctx)
		assert.ErrorIs(t, err, ErrSessionNotFound)
		assert.Zero(t, ns.Len())
	})

	t.Run("revoke releases the entity", func(t *testing.T) {
		ctx := context.Background()
		ns := NewNamespace(newMemStorage())

		_, err := ns.Entity("sess-1").Save(ctx, "u1", nil)
		require.NoError(t, err)
		assert.Equal(t, 1, ns.Len())

		require.NoError(t, ns.Entity("sess-1").Revoke(ctx))
		assert.Zero(t, ns.Len())
	})

	t.Run("live sessions stay resident", func(t *testing.T) {
		ctx := context.Background()
		ns := NewNamespace(newMemStorage())

		_, err := ns.Entity("sess-1").Save(ctx, "u1", nil)
		require.NoError(t, err)
		_, err = ns.Entity("sess-1").Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, ns.Len())
	})

	t.Run("concurrent lookups converge on one instance", func(t *testing.T) {
		ns := NewNamespace(newMemStorage())

		const goroutines = 32
		entities := make([]*Entity, goroutines)
		var wg sync.WaitGroup
		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				entities[i] = ns.Entity("sess-1")
			}(i)
		}
		wg.Wait()

		for i := 1; i < goroutines; i++ {
			assert.Same(t, entities[0], entities[i])
		}
	})
}
