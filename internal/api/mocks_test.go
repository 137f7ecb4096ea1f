package api_test

import (
	"context"
	"encoding/json"
	"errors"

	"ms-storefront/internal/catalog"
	"ms-storefront/internal/checkout"
	"ms-storefront/internal/models"
	"ms-storefront/internal/payment"

	"github.com/stretchr/testify/mock"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Events(ctx context.Context, category string) ([]models.Event, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockCatalog) Event(ctx context.Context, id string) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockCatalog) Home(ctx context.Context) (*catalog.HomeView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.HomeView), args.Error(1)
}

func (m *MockCatalog) Suggestions(ctx context.Context, query string, max int) ([]models.Event, error) {
	args := m.Called(ctx, query, max)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockCatalog) ProducerProfile(ctx context.Context, producerID string) (*catalog.ProducerProfile, error) {
	args := m.Called(ctx, producerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProducerProfile), args.Error(1)
}

func (m *MockCatalog) Cards(events []models.Event, showNew bool) []catalog.EventCard {
	cards := make([]catalog.EventCard, 0, len(events))
	for _, e := range events {
		cards = append(cards, catalog.EventCard{Event: e, SaleStatus: catalog.StatusAtivo})
	}
	return cards
}

type MockCheckouts struct {
	mock.Mock
}

func (m *MockCheckouts) Preview(ctx context.Context, req models.CheckoutRequest) (*checkout.Checkout, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Checkout), args.Error(1)
}

func (m *MockCheckouts) Pay(ctx context.Context, checkoutID string) (payment.Snapshot, error) {
	args := m.Called(ctx, checkoutID)
	return args.Get(0).(payment.Snapshot), args.Error(1)
}

func (m *MockCheckouts) Checkout(ctx context.Context, checkoutID string) (*checkout.Checkout, error) {
	args := m.Called(ctx, checkoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Checkout), args.Error(1)
}

func (m *MockCheckouts) Subscribe(ctx context.Context, checkoutID string) (<-chan payment.Snapshot, payment.Snapshot, error) {
	args := m.Called(ctx, checkoutID)
	if args.Get(0) == nil {
		return nil, payment.Snapshot{}, args.Error(2)
	}
	return args.Get(0).(<-chan payment.Snapshot), args.Get(1).(payment.Snapshot), args.Error(2)
}

func (m *MockCheckouts) PixPayload(ctx context.Context, checkoutID string) (string, error) {
	args := m.Called(ctx, checkoutID)
	return args.String(0), args.Error(1)
}

func (m *MockCheckouts) Close(ctx context.Context, checkoutID string) error {
	return m.Called(ctx, checkoutID).Error(0)
}

type MockScanner struct {
	mock.Mock
}

func (m *MockScanner) Validate(ctx context.Context, eventID, scanSessionID, qrCode string) (*models.ScanOutcome, error) {
	args := m.Called(ctx, eventID, scanSessionID, qrCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScanOutcome), args.Error(1)
}

func (m *MockScanner) ScanCount(ctx context.Context, eventID, scanSessionID string) (int, error) {
	args := m.Called(ctx, eventID, scanSessionID)
	return args.Int(0), args.Error(1)
}

func (m *MockScanner) ResetScanSession(ctx context.Context, eventID, scanSessionID string) error {
	return m.Called(ctx, eventID, scanSessionID).Error(0)
}

func (m *MockScanner) RecentScans(ctx context.Context, eventID string) ([]models.ScanRecord, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ScanRecord), args.Error(1)
}

// identityAPI accepts ana@example.com / segredo and serves a fixed wallet.
type identityAPI struct{}

const walletJSON = `[
	{"id":"tk-1","code":"ABC123","qrCode":"AFTZ-1","createdAt":"2026-02-10T12:00:00Z",
	 "event":{"id":"evt-1","title":"Rock na Praça","location":"Recife"},
	 "eventDate":{"id":"d-1","date":"2026-03-20"},
	 "ticketType":{"id":"tt-1","name":"Pista"}},
	{"id":"tk-2","code":"XYZ789","qrCode":"","createdAt":"2026-01-05T12:00:00Z",
	 "event":{"id":"evt-2","title":"Samba de Verão","location":"Olinda"},
	 "eventDate":{"id":"d-2","date":"2026-01-15"},
	 "ticketType":{"id":"tt-2","name":"Camarote"}}
]`

func testUser() models.APIUser {
	return models.APIUser{ID: "u-1", Name: "Ana Souza", Email: "ana@example.com", CPF: "52998224725"}
}

func (identityAPI) Login(_ context.Context, email, password string) (*models.AuthPayload, error) {
	if email != "ana@example.com" || password != "segredo" {
		return nil, errors.New("invalid credentials")
	}
	return &models.AuthPayload{Token: "tok-ana", User: testUser()}, nil
}

func (identityAPI) Register(context.Context, models.RegisterInput) (*models.AuthPayload, error) {
	return nil, errors.New("UNIQUE constraint failed: users.cpf")
}

func (identityAPI) Me(context.Context) (*models.APIUser, error) {
	u := testUser()
	return &u, nil
}

func (identityAPI) UpdatePhone(_ context.Context, in models.PhoneInput) (*models.APIUser, error) {
	u := testUser()
	u.PhoneAreaCode = &in.PhoneAreaCode
	u.PhoneNumber = &in.PhoneNumber
	return &u, nil
}

func (identityAPI) MyTickets(context.Context) ([]models.APITicket, error) {
	var list []models.APITicket
	err := json.Unmarshal([]byte(walletJSON), &list)
	return list, err
}
