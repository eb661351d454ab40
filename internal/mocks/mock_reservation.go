package mocks

import (
	"context"

	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockReserver struct {
	mock.Mock
}

func (m *MockReserver) Reserve(ctx context.Context, req domain.ReservationRequest) (*domain.Booking, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockBookingManager struct {
	mock.Mock
}

func (m *MockBookingManager) Get(ctx context.Context, reference string) (*domain.Booking, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingManager) List(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingManager) CheckIn(ctx context.Context, reference string) (*domain.Booking, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingManager) Delete(ctx context.Context, reference string, creds domain.AdminCredentials) (*domain.Booking, error) {
	args := m.Called(ctx, reference, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingManager) Authenticate(ctx context.Context, creds domain.AdminCredentials) error {
	args := m.Called(ctx, creds)
	return args.Error(0)
}
