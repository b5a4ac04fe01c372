// Package session implements server-side sessions: an opaque key delivered in
// a cookie maps to the authenticated user ID in Redis. Flash messages ride on
// the same key and are cleared when read.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CookieName is the cookie carrying the opaque session key.
const CookieName = "warbler_session"

// AnonymousUserID marks a session that exists only to carry flash messages
// for a visitor who has not logged in.
const AnonymousUserID uint = 0

// ErrUnavailable is returned when the backing Redis store is not configured.
var ErrUnavailable = errors.New("session store unavailable")

// Store persists sessions and their flash messages in Redis.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore returns a Store writing sessions with the given TTL.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func sessionKey(key string) string { return "session:" + key }
func flashKey(key string) string   { return "flash:" + key }

// Create allocates a fresh opaque key bound to userID. Pass AnonymousUserID
// for a flash-only session.
func (s *Store) Create(ctx context.Context, userID uint) (string, error) {
	if s == nil || s.rdb == nil {
		return "", ErrUnavailable
	}
	key := uuid.NewString()
	val := strconv.FormatUint(uint64(userID), 10)
	if err := s.rdb.Set(ctx, sessionKey(key), val, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}
	return key, nil
}

// UserID resolves a session key to its user ID. The second return value is
// false when the key is unknown or expired. A hit slides the expiry forward.
func (s *Store) UserID(ctx context.Context, key string) (uint, bool, error) {
	if s == nil || s.rdb == nil {
		return 0, false, ErrUnavailable
	}
	val, err := s.rdb.Get(ctx, sessionKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("resolving session: %w", err)
	}
	id, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt session value %q: %w", val, err)
	}
	s.rdb.Expire(ctx, sessionKey(key), s.ttl)
	return uint(id), true, nil
}

// Destroy removes the session and any pending flash messages.
func (s *Store) Destroy(ctx context.Context, key string) error {
	if s == nil || s.rdb == nil {
		return ErrUnavailable
	}
	if err := s.rdb.Del(ctx, sessionKey(key), flashKey(key)).Err(); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

// AddFlash queues a one-time message for the session's next page view.
func (s *Store) AddFlash(ctx context.Context, key, message string) error {
	if s == nil || s.rdb == nil {
		return ErrUnavailable
	}
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, flashKey(key), message)
	pipe.Expire(ctx, flashKey(key), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("adding flash: %w", err)
	}
	return nil
}

// PopFlashes returns and clears all pending flash messages for the session.
func (s *Store) PopFlashes(ctx context.Context, key string) ([]string, error) {
	if s == nil || s.rdb == nil {
		return nil, ErrUnavailable
	}
	pipe := s.rdb.TxPipeline()
	get := pipe.LRange(ctx, flashKey(key), 0, -1)
	pipe.Del(ctx, flashKey(key))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("popping flashes: %w", err)
	}
	return get.Val(), nil
}
