package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ms-storefront/internal/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	past := signed(t, jwt.MapClaims{"sub": "u", "exp": now.Add(-time.Minute).Unix()})
	future := signed(t, jwt.MapClaims{"sub": "u", "exp": now.Add(time.Hour).Unix()})
	noExp := signed(t, jwt.MapClaims{"sub": "u"})

	assert.True(t, auth.IsExpired(past, now))
	assert.False(t, auth.IsExpired(future, now))
	assert.False(t, auth.IsExpired(noExp, now))
	assert.False(t, auth.IsExpired("opaque-token", now))
}

type staticSessions map[string][2]string

func (s staticSessions) Resolve(ctx context.Context, id string) (string, string, bool) {
	if ctx.Err() != nil {
		return "", "", false
	}
	v, ok := s[id]
	return v[0], v[1], ok
}

func TestMiddleware(t *testing.T) {
	sessions := staticSessions{"sess-1": {"tok", "user-1"}}
	var seen context.Context
	handler := auth.Middleware(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Context()
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set(auth.SessionHeader, "unknown")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set(auth.SessionHeader, "sess-1")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "tok", auth.TokenFrom(seen))
	assert.Equal(t, "user-1", auth.UserID(seen))
	assert.Equal(t, "sess-1", auth.SessionID(seen))
}

func TestMiddlewareResolvesWithRequestContext(t *testing.T) {
	sessions := staticSessions{"sess-1": {"tok", "user-1"}}
	called := false
	handler := auth.Middleware(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil).WithContext(ctx)
	req.Header.Set(auth.SessionHeader, "sess-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}
