package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/edgebook/guestbook-server-go/internal/config"
	"github.com/edgebook/guestbook-server-go/internal/model"
	"github.com/edgebook/guestbook-server-go/internal/redis"
)

// Storage is the durable layer behind a session entity. A nil record with
// nil error means no record exists.
type Storage interface {
	Get(ctx context.Context, sessionID string) (*model.SessionRecord, error)
	Put(ctx context.Context, sessionID string, record *model.SessionRecord) error
	Delete(ctx context.Context, sessionID string) error
}

type redisStorage struct {
	client *redis.Client
}

// NewRedisStorage returns session record storage backed by Redis. Records are
// written with a TTL of MaxSessionDuration as a backstop; expiry policy
// itself is enforced lazily by the entity.
func NewRedisStorage(client *redis.Client) Storage {
	return &redisStorage{client: client}
}

func (s *redisStorage) Get(ctx context.Context, sessionID string) (*model.SessionRecord, error) {
	val, err := s.client.Get(ctx, redis.SessionKey(sessionID)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record model.SessionRecord
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return nil, fmt.Errorf("unmarshal session record: %w", err)
	}
	return &record, nil
}

func (s *redisStorage) Put(ctx context.Context, sessionID string, record *model.SessionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}
	return s.client.Set(ctx, redis.SessionKey(sessionID), data, config.MaxSessionDuration).Err()
}

func (s *redisStorage) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, redis.SessionKey(sessionID)).Err()
}
