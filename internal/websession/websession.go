// Package websession stores dashboard login sessions.
package websession

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/glizzus/goonbot/internal/config"
	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is the server side of a dashboard cookie. UserID is empty until the
// OAuth flow completes; OAuthState is only set while the flow is in progress.
type Session struct {
	ID         string `json:"-"`
	UserID     string `json:"userId,omitempty"`
	OAuthState string `json:"oauthState,omitempty"`
}

// Authenticated reports whether the session belongs to a logged in user.
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

type Store interface {
	Get(ctx context.Context, id string) (Session, error)
	// Save writes the session with the store's default lifetime.
	Save(ctx context.Context, session Session) error
	// SaveFor writes the session with its own lifetime.
	SaveFor(ctx context.Context, session Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// NewRedisClientFromEnv connects to the Redis instance described by the
// environment and checks that it responds.
func NewRedisClientFromEnv(ctx context.Context) (*redis.Client, error) {
	redisConfig, err := config.NewRedisConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load redis config: %w", err)
	}

	opts, err := redisConfig.Options()
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

var _ Store = (*RedisStore)(nil)

func sessionKey(id string) string {
	return "session:" + id
}

func (s *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to get session %s: %w", id, err)
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return Session{}, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	session.ID = id
	return session, nil
}

// Save writes the session and resets its expiry.
func (s *RedisStore) Save(ctx context.Context, session Session) error {
	return s.SaveFor(ctx, session, s.ttl)
}

func (s *RedisStore) SaveFor(ctx context.Context, session Session, ttl time.Duration) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", session.ID, err)
	}
	if err := s.client.Set(ctx, sessionKey(session.ID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

// MemoryStore keeps sessions in process. Sessions never expire.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Get(_ context.Context, id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return session, nil
}

func (s *MemoryStore) Save(_ context.Context, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

// SaveFor ignores ttl.
func (s *MemoryStore) SaveFor(ctx context.Context, session Session, _ time.Duration) error {
	return s.Save(ctx, session)
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
