package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ms-storefront/internal/auth"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const restoreTimeout = 5 * time.Second

// Registry maps storefront session ids to their Store. Sessions are created on
// login or register and dropped on logout. A session id that is not in memory is
// restored from the TokenStore. Sessions whose JWT has expired are dropped.
type Registry struct {
	api    API
	tokens TokenStore
	clock  clockwork.Clock
	logger *logger.Logger

	mu     sync.RWMutex
	stores map[string]*Store
}

func NewRegistry(api API, tokens TokenStore, clock clockwork.Clock, log *logger.Logger) *Registry {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Registry{
		api:    api,
		tokens: tokens,
		clock:  clock,
		logger: log,
		stores: make(map[string]*Store),
	}
}

func (r *Registry) newStore() *Store {
	return NewStore(uuid.New().String(), r.api, r.tokens, r.logger)
}

func (r *Registry) add(s *Store) {
	r.mu.Lock()
	r.stores[s.ID()] = s
	r.mu.Unlock()
}

func (r *Registry) Login(ctx context.Context, email, password string) (*Store, error) {
	s := r.newStore()
	if err := s.Login(ctx, email, password); err != nil {
		return nil, err
	}
	r.add(s)
	return s, nil
}

func (r *Registry) Register(ctx context.Context, in models.RegisterInput) (*Store, error) {
	s := r.newStore()
	if err := s.Register(ctx, in); err != nil {
		return nil, err
	}
	r.add(s)
	return s, nil
}

func (r *Registry) Logout(ctx context.Context, sessionID string) {
	r.mu.Lock()
	s, ok := r.stores[sessionID]
	delete(r.stores, sessionID)
	r.mu.Unlock()

	if ok {
		s.Logout(ctx)
		return
	}
	_ = r.tokens.Delete(ctx, sessionID)
}

// Get returns the store for sessionID, restoring it from the token store if needed.
func (r *Registry) Get(ctx context.Context, sessionID string) (*Store, bool) {
	r.mu.RLock()
	s, ok := r.stores[sessionID]
	r.mu.RUnlock()
	if ok {
		if auth.IsExpired(s.Token(), r.clock.Now()) {
			r.expire(ctx, sessionID, s)
			return nil, false
		}
		return s, s.IsAuthenticated()
	}

	s = NewStore(sessionID, r.api, r.tokens, r.logger)
	if !s.Init(ctx) {
		return nil, false
	}

	r.mu.Lock()
	if existing, ok := r.stores[sessionID]; ok {
		s = existing
	} else {
		r.stores[sessionID] = s
	}
	r.mu.Unlock()
	return s, true
}

// expire drops s if it is still the store for sessionID and forgets its token.
func (r *Registry) expire(ctx context.Context, sessionID string, s *Store) {
	r.mu.Lock()
	if r.stores[sessionID] == s {
		delete(r.stores, sessionID)
	}
	r.mu.Unlock()

	s.Logout(ctx)
	r.logger.Debug("SESSION", fmt.Sprintf("Token for %s expired, session dropped", sessionID))
}

// Prune drops every session that is logged out or whose token has expired.
func (r *Registry) Prune(ctx context.Context) int {
	now := r.clock.Now()
	r.mu.Lock()
	var dead []*Store
	for id, s := range r.stores {
		if !s.IsAuthenticated() || auth.IsExpired(s.Token(), now) {
			dead = append(dead, s)
			delete(r.stores, id)
		}
	}
	r.mu.Unlock()

	for _, s := range dead {
		s.Logout(ctx)
	}
	if len(dead) > 0 {
		r.logger.Info("SESSION", fmt.Sprintf("Pruned %d expired sessions", len(dead)))
	}
	return len(dead)
}

// Resolve implements auth.SessionLookup. Restoring a session is bounded by
// restoreTimeout and by the caller's ctx.
func (r *Registry) Resolve(ctx context.Context, sessionID string) (token, userID string, ok bool) {
	ctx, cancel := context.WithTimeout(ctx, restoreTimeout)
	defer cancel()

	s, ok := r.Get(ctx, sessionID)
	if !ok {
		return "", "", false
	}
	user, ok := s.User()
	if !ok {
		return "", "", false
	}
	return s.Token(), user.ID, true
}

// RefreshTickets reloads the wallet of sessionID, if it is live.
func (r *Registry) RefreshTickets(ctx context.Context, sessionID string) {
	r.mu.RLock()
	s, ok := r.stores[sessionID]
	r.mu.RUnlock()
	if ok {
		s.RefreshTickets(ctx)
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stores)
}
