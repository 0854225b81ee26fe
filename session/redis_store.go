// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore keeps each session as a string key whose TTL is the idle
// window. Redis drops expired keys on its own.
type RedisStore struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, now: time.Now}
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func (s *RedisStore) Create(ctx context.Context, username string, ttl time.Duration) (Session, error) {
	sess := Session{
		ID:        uuid.NewString(),
		Username:  username,
		ExpiresAt: s.now().Add(ttl),
	}

	if err := s.rdb.Set(ctx, redisKey(sess.ID), username, ttl).Err(); err != nil {
		return Session{}, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

func (s *RedisStore) Touch(ctx context.Context, id string, ttl time.Duration) (Session, error) {
	username, err := s.rdb.GetEx(ctx, redisKey(id), ttl).Result()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	return Session{ID: id, Username: username, ExpiresAt: s.now().Add(ttl)}, nil
}

// Purge is a no-op; key TTLs already remove expired sessions
func (s *RedisStore) Purge(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}
