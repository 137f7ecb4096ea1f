package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"ms-storefront/internal/auth"

	"github.com/go-redis/redis/v8"
	"github.com/jonboulle/clockwork"
)

const tokenKeyPrefix = "storefront:session:"

// TokenStore persists the API token of each storefront session.
// Get returns "" when there is no live token.
type TokenStore interface {
	Get(ctx context.Context, sessionID string) (string, error)
	Set(ctx context.Context, sessionID, token string) error
	Delete(ctx context.Context, sessionID string) error
}

// StoredToken is the JSON value kept per session.
type StoredToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Live reports whether the token may still be sent to the API.
func (st *StoredToken) Live(now time.Time) bool {
	if st == nil || st.Token == "" {
		return false
	}
	if !st.ExpiresAt.IsZero() && !now.Before(st.ExpiresAt) {
		return false
	}
	return !auth.IsExpired(st.Token, now)
}

func newStoredToken(token string) StoredToken {
	st := StoredToken{Token: token}
	if exp, ok, err := auth.TokenExpiry(token); err == nil && ok {
		st.ExpiresAt = exp
	}
	return st
}

type RedisTokenStore struct {
	Client *redis.Client
	TTL    time.Duration
	clock  clockwork.Clock
}

// NewRedisTokenStore keeps tokens until their exp claim, or for ttl when they carry none.
func NewRedisTokenStore(client *redis.Client, ttl time.Duration, clock clockwork.Clock) *RedisTokenStore {
	return &RedisTokenStore{Client: client, TTL: ttl, clock: clock}
}

func (s *RedisTokenStore) Get(ctx context.Context, sessionID string) (string, error) {
	if s.Client == nil {
		return "", fmt.Errorf("redis client not initialized")
	}

	raw, err := s.Client.Get(ctx, tokenKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("failed to get session token from Redis: %w", err)
	}

	var st StoredToken
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return "", fmt.Errorf("failed to unmarshal session token: %w", err)
	}
	if !st.Live(s.clock.Now()) {
		_ = s.Client.Del(ctx, tokenKeyPrefix+sessionID).Err()
		return "", nil
	}
	return st.Token, nil
}

func (s *RedisTokenStore) Set(ctx context.Context, sessionID, token string) error {
	if s.Client == nil {
		return fmt.Errorf("redis client not initialized")
	}

	st := newStoredToken(token)
	ttl := s.TTL
	if !st.ExpiresAt.IsZero() {
		ttl = st.ExpiresAt.Sub(s.clock.Now())
		if ttl <= 0 {
			return nil
		}
	}

	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal session token: %w", err)
	}
	if err := s.Client.Set(ctx, tokenKeyPrefix+sessionID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session token in Redis: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) Delete(ctx context.Context, sessionID string) error {
	if s.Client == nil {
		return fmt.Errorf("redis client not initialized")
	}
	return s.Client.Del(ctx, tokenKeyPrefix+sessionID).Err()
}

// MemoryTokenStore is used when Redis is unavailable and in tests.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]StoredToken
	clock  clockwork.Clock
}

func NewMemoryTokenStore(clock clockwork.Clock) *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]StoredToken), clock: clock}
}

func (s *MemoryTokenStore) Get(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.tokens[sessionID]
	if !ok {
		return "", nil
	}
	if !st.Live(s.clock.Now()) {
		delete(s.tokens, sessionID)
		return "", nil
	}
	return st.Token, nil
}

func (s *MemoryTokenStore) Set(_ context.Context, sessionID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[sessionID] = newStoredToken(token)
	return nil
}

func (s *MemoryTokenStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, sessionID)
	return nil
}
