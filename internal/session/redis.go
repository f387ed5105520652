package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Имена полей сессии в хранилище. Поле role писали старые сборки консоли,
// новые его не используют, но Clear обязан убирать и его.
const (
	fieldToken = "auth_token"
	fieldUser  = "user"
)

// RedisStore хранит сессии в redis-хэшах с TTL.
type RedisStore struct {
	db *redis.Client
}

// NewRedisStore оборачивает готовое подключение redis.
func NewRedisStore(db *redis.Client) *RedisStore {
	return &RedisStore{db: db}
}

func sessionKey(id string) string {
	return "session:" + id
}

// Get возвращает сессию по идентификатору, (nil, nil) если сессии нет.
func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	const op = "session.RedisStore.Get"
	fields, err := s.db.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return &Session{
		ID:       id,
		Token:    fields[fieldToken],
		UserJSON: fields[fieldUser],
	}, nil
}

// Set сохраняет сессию с временем жизни.
func (s *RedisStore) Set(ctx context.Context, sess *Session, ttl time.Duration) error {
	const op = "session.RedisStore.Set"
	key := sessionKey(sess.ID)
	if err := s.db.HSet(ctx, key, fieldToken, sess.Token, fieldUser, sess.UserJSON).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.db.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Clear удаляет сессию целиком, вместе с legacy-полем role.
func (s *RedisStore) Clear(ctx context.Context, id string) error {
	const op = "session.RedisStore.Clear"
	if err := s.db.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
