package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/acumidata/propdash/pkg/logging"
)

// ErrNotFound indicates no live session exists for the token. Unknown and
// expired tokens both miss; the caller cannot tell them apart.
var ErrNotFound = errors.New("session not found")

// Store manages sessions in redis.
type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewStore creates a session store. ttl bounds how long a login stays valid.
func NewStore(redisClient *redis.Client, ttl time.Duration) *Store {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{
		redis: redisClient,
		ttl:   ttl,
	}
}

// Create starts a session for a username and returns it. The token is a
// random UUID; redis expires the key at the session's ExpiresAt.
func (s *Store) Create(ctx context.Context, username string) (*Session, error) {
	now := time.Now()
	sess := &Session{
		Token:     uuid.NewString(),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		SessionErrors.WithLabelValues("create").Inc()
		return nil, fmt.Errorf("encode session: %w", err)
	}

	if err := s.redis.Set(ctx, key(sess.Token), data, s.ttl).Err(); err != nil {
		SessionErrors.WithLabelValues("create").Inc()
		return nil, fmt.Errorf("redis set: %w", err)
	}

	SessionsCreated.Inc()
	logger := logging.NewLogger("session-store")
	logger.Debug().
		Str("username", username).
		Time("expires_at", sess.ExpiresAt).
		Msg("Session created")

	return sess, nil
}

// Get looks up a session by token. Returns ErrNotFound for unknown and
// expired tokens alike.
func (s *Store) Get(ctx context.Context, token string) (*Session, error) {
	data, err := s.redis.Get(ctx, key(token)).Bytes()
	if err != nil {
		if err == redis.Nil {
			SessionMisses.Inc()
			return nil, ErrNotFound
		}
		SessionErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		SessionErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("decode session: %w", err)
	}

	// Redis TTL and the stored expiry normally agree; the explicit check
	// covers clock drift and manually written keys.
	if sess.IsExpired() {
		_ = s.Delete(ctx, token)
		SessionMisses.Inc()
		return nil, ErrNotFound
	}

	SessionHits.Inc()
	return &sess, nil
}

// Delete ends a session. Deleting an unknown token is not an error.
func (s *Store) Delete(ctx context.Context, token string) error {
	if err := s.redis.Del(ctx, key(token)).Err(); err != nil {
		SessionErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Refresh extends a live session by the store TTL.
func (s *Store) Refresh(ctx context.Context, token string) (*Session, error) {
	sess, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	sess.ExpiresAt = time.Now().Add(s.ttl)

	data, err := json.Marshal(sess)
	if err != nil {
		SessionErrors.WithLabelValues("refresh").Inc()
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := s.redis.Set(ctx, key(token), data, s.ttl).Err(); err != nil {
		SessionErrors.WithLabelValues("refresh").Inc()
		return nil, fmt.Errorf("redis set: %w", err)
	}

	return sess, nil
}
