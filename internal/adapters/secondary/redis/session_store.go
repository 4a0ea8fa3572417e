// Package redis stores sessions in Redis so they survive restarts and are
// shared between API instances.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/ports"
	goredis "github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "ticket-insights:session:"

// SessionStore keeps each session as a JSON value that expires with the session.
type SessionStore struct {
	client    *goredis.Client
	keyPrefix string
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore connects to the Redis server at redisURL
// (e.g. "redis://localhost:6379/0") and verifies connectivity.
func NewSessionStore(ctx context.Context, redisURL, keyPrefix string) (*SessionStore, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &SessionStore{client: client, keyPrefix: keyPrefix}, nil
}

func (s *SessionStore) key(id uuid.UUID) string {
	return s.keyPrefix + id.String()
}

// Get loads a session. A missing or expired key is ErrSessionNotFound.
func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

// Set stores a session until its expiry. Expired sessions are not stored.
func (s *SessionStore) Set(ctx context.Context, session *domain.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return apperrors.ErrSessionExpired
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// Clear deletes a session. Clearing an unknown session is not an error.
func (s *SessionStore) Clear(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Ping verifies Redis connectivity.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client.
func (s *SessionStore) Close() error {
	return s.client.Close()
}
