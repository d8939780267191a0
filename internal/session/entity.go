package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/edgebook/guestbook-server-go/internal/config"
	apperrors "github.com/edgebook/guestbook-server-go/internal/errors"
	"github.com/edgebook/guestbook-server-go/internal/model"
)

// Expected outcomes of entity reads. These are recoverable conditions that
// callers branch on, not failures.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Entity is the single writer for one session's durable record. Instances
// are handed out by a Namespace, which guarantees at most one entity per
// session id; the entity's own mutex serializes every operation, so two
// requests for the same session are processed one at a time while different
// sessions proceed in parallel.
//
// The in-memory record is a performance hint only: it is re-validated
// against the expiry window on every read, since the durable copy may have
// been purged or may outlive an evicted instance.
type Entity struct {
	id      string
	storage Storage

	// release drops this instance from its namespace. Called once the
	// durable record is known to be gone, so dead sessions do not pin an
	// entity per id for the life of the process.
	release func()

	mu     sync.Mutex
	record *model.SessionRecord
}

func newEntity(id string, storage Storage) *Entity {
	return &Entity{id: id, storage: storage}
}

func (e *Entity) released() {
	if e.release != nil {
		e.release()
	}
}

// ID returns the session id this entity is bound to.
func (e *Entity) ID() string {
	return e.id
}

// Save creates or overwrites the record with fresh timestamps.
func (e *Entity) Save(ctx context.Context, userID string, user *model.User) (*model.SessionRecord, error) {
	if userID == "" {
		return nil, apperrors.MissingRequired("userId")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now().UnixMilli()
	record := &model.SessionRecord{
		UserID:       userID,
		User:         user,
		CreatedAt:    now,
		LastAccessed: now,
	}

	if err := e.storage.Put(ctx, e.id, record); err != nil {
		log.Error().Err(err).Str("sessionId", e.id).Msg("failed to save session")
		return nil, apperrors.SessionStorage(err)
	}
	e.record = record

	// Hand out a copy so callers never share the cached struct.
	snapshot := *record
	return &snapshot, nil
}

// Get returns the current record, touching its last-accessed time. Absence
// and expiry come back as ErrSessionNotFound / ErrSessionExpired. An expired
// record is purged before being reported, so a subsequent Get sees not-found.
//
// The returned snapshot carries the pre-touch last-accessed time; callers
// use it to judge how stale the cached user is, while the durable record
// gets the fresh touch.
func (e *Entity) Get(ctx context.Context) (*model.SessionRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	record := e.record
	if record == nil {
		loaded, err := e.storage.Get(ctx, e.id)
		if err != nil {
			log.Error().Err(err).Str("sessionId", e.id).Msg("failed to load session")
			return nil, apperrors.SessionStorage(err)
		}
		if loaded == nil {
			e.released()
			return nil, ErrSessionNotFound
		}
		record = loaded
	}

	if expired(record) {
		if err := e.purge(ctx); err != nil {
			return nil, err
		}
		return nil, ErrSessionExpired
	}

	snapshot := *record
	record.LastAccessed = time.Now().UnixMilli()
	if err := e.storage.Put(ctx, e.id, record); err != nil {
		log.Error().Err(err).Str("sessionId", e.id).Msg("failed to touch session")
		return nil, apperrors.SessionStorage(err)
	}
	e.record = record
	return &snapshot, nil
}

// UpdateUser replaces the cached user snapshot. If no record exists the call
// is a no-op returning (nil, nil); sessions are never fabricated here.
func (e *Entity) UpdateUser(ctx context.Context, user *model.User) (*model.SessionRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.record == nil {
		stored, err := e.storage.Get(ctx, e.id)
		if err != nil {
			log.Error().Err(err).Str("sessionId", e.id).Msg("failed to hydrate session")
			return nil, apperrors.SessionStorage(err)
		}
		if stored == nil {
			log.Warn().Str("sessionId", e.id).Msg("attempted to update user for non-existent session")
			e.released()
			return nil, nil
		}
		e.record = stored
	}

	if expired(e.record) {
		if err := e.purge(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}

	e.record.User = user
	e.record.LastAccessed = time.Now().UnixMilli()
	if err := e.storage.Put(ctx, e.id, e.record); err != nil {
		log.Error().Err(err).Str("sessionId", e.id).Msg("failed to update session user")
		return nil, apperrors.SessionStorage(err)
	}

	snapshot := *e.record
	return &snapshot, nil
}

// Revoke deletes the durable record and clears the cache. Idempotent.
func (e *Entity) Revoke(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.purge(ctx)
}

// Valid reports whether a live record exists without touching its
// last-accessed time. It always reads durable storage so health checks see
// the same truth a fresh instance would.
func (e *Entity) Valid(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	record, err := e.storage.Get(ctx, e.id)
	if err != nil {
		return false, apperrors.SessionStorage(err)
	}
	if record == nil {
		return false, nil
	}
	return !expired(record), nil
}

// Info returns a diagnostics snapshot without touching last-accessed.
func (e *Entity) Info(ctx context.Context) (*model.SessionInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	record, err := e.storage.Get(ctx, e.id)
	if err != nil {
		return nil, apperrors.SessionStorage(err)
	}
	if record == nil {
		return &model.SessionInfo{Exists: false}, nil
	}

	return &model.SessionInfo{
		Exists:       true,
		UserID:       record.UserID,
		HasUser:      record.User != nil,
		CreatedAt:    record.CreatedAt,
		LastAccessed: record.LastAccessed,
	}, nil
}

// purge removes durable and cached state and releases the instance from its
// namespace. Callers hold e.mu.
func (e *Entity) purge(ctx context.Context) error {
	if err := e.storage.Delete(ctx, e.id); err != nil {
		log.Error().Err(err).Str("sessionId", e.id).Msg("failed to revoke session")
		return apperrors.SessionStorage(err)
	}
	e.record = nil
	e.released()
	return nil
}

func expired(record *model.SessionRecord) bool {
	return record.CreatedAt+config.MaxSessionDuration.Milliseconds() < time.Now().UnixMilli()
}
