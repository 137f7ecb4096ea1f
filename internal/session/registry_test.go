package session

import (
	"context"
	"testing"
	"time"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegistryLoginResolveLogout(t *testing.T) {
	api := new(MockAPI)
	clock := clockwork.NewFakeClockAt(testNow)
	tokens := NewMemoryTokenStore(clock)
	reg := NewRegistry(api, tokens, clock, logger.NewConsoleLogger(nil))
	api.On("Login", mock.Anything, "ana@example.com", "segredo").Return(&models.AuthPayload{Token: "tok-1", User: *apiUser("u1")}, nil)
	api.On("MyTickets", mock.Anything).Return([]models.APITicket{}, nil)

	store, err := reg.Login(context.Background(), "ana@example.com", "segredo")
	require.NoError(t, err)
	assert.Len(t, store.ID(), 36)

	token, userID, ok := reg.Resolve(context.Background(), store.ID())
	require.True(t, ok)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, "u1", userID)

	reg.Logout(context.Background(), store.ID())
	assert.Equal(t, 0, reg.Len())
	_, _, ok = reg.Resolve(context.Background(), store.ID())
	assert.False(t, ok)
}

func TestRegistryFailedLoginCreatesNoSession(t *testing.T) {
	api := new(MockAPI)
	clock := clockwork.NewFakeClockAt(testNow)
	reg := NewRegistry(api, NewMemoryTokenStore(clock), clock, logger.NewConsoleLogger(nil))
	api.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(&models.AuthPayload{}, nil)

	_, err := reg.Login(context.Background(), "ana@example.com", "x")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistryRestoresPersistedSession(t *testing.T) {
	api := new(MockAPI)
	clock := clockwork.NewFakeClockAt(testNow)
	tokens := NewMemoryTokenStore(clock)
	require.NoError(t, tokens.Set(context.Background(), "old-session", "tok-9"))
	reg := NewRegistry(api, tokens, clock, logger.NewConsoleLogger(nil))
	api.On("Me", withToken("tok-9")).Return(apiUser("u9"), nil).Once()
	api.On("MyTickets", withToken("tok-9")).Return([]models.APITicket{{ID: "t1"}}, nil)

	token, userID, ok := reg.Resolve(context.Background(), "old-session")
	require.True(t, ok)
	assert.Equal(t, "tok-9", token)
	assert.Equal(t, "u9", userID)
	assert.Equal(t, 1, reg.Len())

	reg.RefreshTickets(context.Background(), "old-session")
	store, ok := reg.Get(context.Background(), "old-session")
	require.True(t, ok)
	assert.Len(t, store.Tickets(), 1)
	api.AssertNumberOfCalls(t, "Me", 1)
}

func TestRegistryDropsSessionWhenTokenExpires(t *testing.T) {
	api := new(MockAPI)
	clock := clockwork.NewFakeClockAt(testNow)
	tokens := NewMemoryTokenStore(clock)
	reg := NewRegistry(api, tokens, clock, logger.NewConsoleLogger(nil))
	jwtToken := signedToken(t, testNow.Add(time.Hour))
	api.On("Login", mock.Anything, "ana@example.com", "segredo").Return(&models.AuthPayload{Token: jwtToken, User: *apiUser("u1")}, nil)
	api.On("MyTickets", mock.Anything).Return([]models.APITicket{}, nil)

	store, err := reg.Login(context.Background(), "ana@example.com", "segredo")
	require.NoError(t, err)
	token, _, ok := reg.Resolve(context.Background(), store.ID())
	require.True(t, ok)
	assert.Equal(t, jwtToken, token)

	clock.Advance(2 * time.Hour)

	token, _, ok = reg.Resolve(context.Background(), store.ID())
	assert.False(t, ok)
	assert.Empty(t, token)
	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, store.Token())
	persisted, err := tokens.Get(context.Background(), store.ID())
	require.NoError(t, err)
	assert.Empty(t, persisted)
	api.AssertNotCalled(t, "Me", mock.Anything)
}

func TestRegistryPrune(t *testing.T) {
	api := new(MockAPI)
	clock := clockwork.NewFakeClockAt(testNow)
	reg := NewRegistry(api, NewMemoryTokenStore(clock), clock, logger.NewConsoleLogger(nil))
	shortLived := signedToken(t, testNow.Add(time.Hour))
	longLived := signedToken(t, testNow.Add(48*time.Hour))
	api.On("Login", mock.Anything, "curta@example.com", mock.Anything).Return(&models.AuthPayload{Token: shortLived, User: *apiUser("u1")}, nil)
	api.On("Login", mock.Anything, "longa@example.com", mock.Anything).Return(&models.AuthPayload{Token: longLived, User: *apiUser("u2")}, nil)
	api.On("MyTickets", mock.Anything).Return([]models.APITicket{}, nil)

	_, err := reg.Login(context.Background(), "curta@example.com", "x")
	require.NoError(t, err)
	kept, err := reg.Login(context.Background(), "longa@example.com", "x")
	require.NoError(t, err)
	require.Equal(t, 2, reg.Len())

	clock.Advance(2 * time.Hour)

	assert.Equal(t, 1, reg.Prune(context.Background()))
	assert.Equal(t, 1, reg.Len())
	_, ok := reg.Get(context.Background(), kept.ID())
	assert.True(t, ok)
}
