package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/duynhne/chat-bff/internal/core/domain"
)

const redisKeyPrefix = "session:"

// RedisSessionStore implements domain.SessionStore on Redis. Expiry is
// enforced by key TTL, so sessions survive BFF restarts and Sweep has
// nothing to do.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore creates a Redis-backed session store.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func redisKey(sessionID string) string {
	return redisKeyPrefix + sessionID
}

// Create stores a new session under a generated identifier with the store TTL.
func (s *RedisSessionStore) Create(ctx context.Context, email string) (string, error) {
	sessionID := uuid.NewString()
	sess := domain.Session{
		ID:        sessionID,
		Email:     email,
		CreatedAt: time.Now(),
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(sessionID), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return sessionID, nil
}

// Get returns the session for sessionID, or (nil, nil) when absent. Redis
// removes expired keys itself, so an expired identifier reads as absent.
func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	val, err := s.client.Get(ctx, redisKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

// Delete removes a session. Deleting an unknown key is a no-op in Redis.
func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, redisKey(sessionID)).Err()
}

// Sweep is a no-op: key TTLs handle expiry.
func (s *RedisSessionStore) Sweep(context.Context) error {
	return nil
}

// Close releases the underlying client connection pool.
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}
