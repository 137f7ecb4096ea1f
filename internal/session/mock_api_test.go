package session

import (
	"context"

	"ms-storefront/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) Login(ctx context.Context, email, password string) (*models.AuthPayload, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthPayload), args.Error(1)
}

func (m *MockAPI) Register(ctx context.Context, in models.RegisterInput) (*models.AuthPayload, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthPayload), args.Error(1)
}

func (m *MockAPI) Me(ctx context.Context) (*models.APIUser, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.APIUser), args.Error(1)
}

func (m *MockAPI) UpdatePhone(ctx context.Context, in models.PhoneInput) (*models.APIUser, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.APIUser), args.Error(1)
}

func (m *MockAPI) MyTickets(ctx context.Context) ([]models.APITicket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.APITicket), args.Error(1)
}
