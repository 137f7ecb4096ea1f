package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"ms-storefront/internal/auth"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/validation"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func apiUser(id string) *models.APIUser {
	phone := "999999999"
	return &models.APIUser{ID: id, Name: "Ana Souza", Email: "ana@example.com", CPF: "12345678900", PhoneNumber: &phone}
}

func withToken(token string) interface{} {
	return mock.MatchedBy(func(ctx context.Context) bool {
		return auth.TokenFrom(ctx) == token
	})
}

func newTestStore(api *MockAPI) (*Store, *MemoryTokenStore) {
	tokens := NewMemoryTokenStore(clockwork.NewFakeClockAt(testNow))
	return NewStore("sess-1", api, tokens, logger.NewConsoleLogger(nil)), tokens
}

func TestLoginPersistsTokenAndLoadsWallet(t *testing.T) {
	api := new(MockAPI)
	store, tokens := newTestStore(api)
	api.On("Login", mock.Anything, "ana@example.com", "segredo").
		Return(&models.AuthPayload{Token: "tok-1", User: *apiUser("u1")}, nil)
	api.On("MyTickets", withToken("tok-1")).
		Return([]models.APITicket{{ID: "t1", Code: "ABC", CreatedAt: "2026-03-01T10:00:00Z"}}, nil)

	require.NoError(t, store.Login(context.Background(), "ana@example.com", "segredo"))

	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "tok-1", store.Token())
	user, ok := store.User()
	require.True(t, ok)
	assert.Equal(t, "999999999", user.PhoneNumber)
	require.Len(t, store.Tickets(), 1)
	assert.Equal(t, "2026-03-01", store.Tickets()[0].PurchaseDate)

	persisted, err := tokens.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", persisted)
}

func TestLoginFailure(t *testing.T) {
	api := new(MockAPI)
	store, _ := newTestStore(api)
	api.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("Login: invalid credentials"))

	err := store.Login(context.Background(), "ana@example.com", "errada")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, store.IsAuthenticated())
}

func TestRegisterValidatesBeforeCallingAPI(t *testing.T) {
	api := new(MockAPI)
	store, _ := newTestStore(api)

	err := store.Register(context.Background(), models.RegisterInput{CPF: "123.456.789", PhoneCountryCode: "55", PhoneAreaCode: "11", PhoneNumber: "999999999"})
	assert.EqualError(t, err, "CPF inválido: deve conter 11 dígitos.")

	err = store.Register(context.Background(), models.RegisterInput{CPF: "123.456.789-00", PhoneCountryCode: "55", PhoneAreaCode: "10", PhoneNumber: "999999999"})
	var vErr *validation.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "DDD inválido (deve estar entre 11 e 99)", vErr.Message)

	api.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegisterSendsSanitisedInput(t *testing.T) {
	api := new(MockAPI)
	store, _ := newTestStore(api)
	api.On("Register", mock.Anything, mock.MatchedBy(func(in models.RegisterInput) bool {
		return in.CPF == "12345678900" && in.PhoneNumber == "999998888"
	})).Return(&models.AuthPayload{Token: "tok-2", User: *apiUser("u2")}, nil)
	api.On("MyTickets", mock.Anything).Return([]models.APITicket{}, nil)

	err := store.Register(context.Background(), models.RegisterInput{
		Name: "Ana", Email: "ana@example.com", Password: "segredo",
		CPF: "123.456.789-00", PhoneCountryCode: "55", PhoneAreaCode: "11", PhoneNumber: "99999-8888",
	})

	require.NoError(t, err)
	assert.True(t, store.IsAuthenticated())
}

func TestRegisterMapsRemoteErrors(t *testing.T) {
	input := models.RegisterInput{CPF: "12345678900", PhoneCountryCode: "55", PhoneAreaCode: "11", PhoneNumber: "999999999"}

	api := new(MockAPI)
	store, _ := newTestStore(api)
	api.On("Register", mock.Anything, mock.Anything).Return(nil, errors.New("Register: UNIQUE constraint failed: users.cpf")).Once()
	assert.ErrorIs(t, store.Register(context.Background(), input), ErrCPFTaken)

	api.On("Register", mock.Anything, mock.Anything).Return(nil, errors.New("Register: UNIQUE constraint failed: users.email")).Once()
	err := store.Register(context.Background(), input)
	assert.ErrorIs(t, err, ErrRegistrationRejected)
	assert.Equal(t, "E-mail já cadastrado ou dados inválidos.", err.Error())
}

func TestInitRestoresOrClearsToken(t *testing.T) {
	api := new(MockAPI)
	store, tokens := newTestStore(api)
	ctx := context.Background()

	assert.False(t, store.Init(ctx))

	require.NoError(t, tokens.Set(ctx, "sess-1", "tok-ok"))
	api.On("Me", withToken("tok-ok")).Return(apiUser("u1"), nil).Once()
	api.On("MyTickets", withToken("tok-ok")).Return(nil, errors.New("boom")).Once()
	assert.True(t, store.Init(ctx))
	assert.Empty(t, store.Tickets())

	other, tokens2 := newTestStore(api)
	require.NoError(t, tokens2.Set(ctx, "sess-1", "tok-revoked"))
	api.On("Me", withToken("tok-revoked")).Return(nil, errors.New("unauthorized")).Once()
	assert.False(t, other.Init(ctx))
	token, err := tokens2.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestUpdatePhone(t *testing.T) {
	api := new(MockAPI)
	store, _ := newTestStore(api)
	ctx := context.Background()

	assert.ErrorIs(t, store.UpdatePhone(ctx, models.PhoneInput{PhoneCountryCode: "55", PhoneAreaCode: "11", PhoneNumber: "999999999"}), ErrNotAuthenticated)

	api.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(&models.AuthPayload{Token: "tok-1", User: *apiUser("u1")}, nil)
	api.On("MyTickets", mock.Anything).Return([]models.APITicket{}, nil)
	require.NoError(t, store.Login(ctx, "ana@example.com", "segredo"))

	err := store.UpdatePhone(ctx, models.PhoneInput{PhoneCountryCode: "", PhoneAreaCode: "11", PhoneNumber: "1"})
	assert.EqualError(t, err, "Código do país é obrigatório")

	updated := apiUser("u1")
	newNumber := "988887777"
	updated.PhoneNumber = &newNumber
	api.On("UpdatePhone", withToken("tok-1"), models.PhoneInput{PhoneCountryCode: "55", PhoneAreaCode: "21", PhoneNumber: "988887777"}).
		Return(updated, nil).Once()
	require.NoError(t, store.UpdatePhone(ctx, models.PhoneInput{PhoneCountryCode: "55", PhoneAreaCode: "21", PhoneNumber: "98888-7777"}))
	user, _ := store.User()
	assert.Equal(t, "988887777", user.PhoneNumber)

	api.On("UpdatePhone", mock.Anything, mock.Anything).Return(nil, errors.New("down")).Once()
	err = store.UpdatePhone(ctx, models.PhoneInput{PhoneCountryCode: "55", PhoneAreaCode: "21", PhoneNumber: "988887777"})
	assert.EqualError(t, err, "Erro ao atualizar telefone.")
}

func TestUpdateProfileAndLogout(t *testing.T) {
	api := new(MockAPI)
	store, tokens := newTestStore(api)
	ctx := context.Background()

	name := "Ana Clara"
	_, err := store.UpdateProfile(models.ProfileUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	api.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(&models.AuthPayload{Token: "tok-1", User: *apiUser("u1")}, nil)
	api.On("MyTickets", mock.Anything).Return([]models.APITicket{{ID: "t1"}}, nil)
	require.NoError(t, store.Login(ctx, "ana@example.com", "segredo"))

	user, err := store.UpdateProfile(models.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ana Clara", user.Name)
	assert.Equal(t, "ana@example.com", user.Email)

	store.Logout(ctx)
	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Tickets())
	assert.Empty(t, store.Token())
	token, _ := tokens.Get(ctx, "sess-1")
	assert.Empty(t, token)
}

func TestRefreshWithoutTokenIsNoop(t *testing.T) {
	api := new(MockAPI)
	store, _ := newTestStore(api)

	store.RefreshTickets(context.Background())
	store.RefreshUser(context.Background())

	api.AssertNotCalled(t, "MyTickets", mock.Anything)
	api.AssertNotCalled(t, "Me", mock.Anything)
}
