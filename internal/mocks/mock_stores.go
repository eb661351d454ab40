package mocks

import (
	"context"

	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockInventoryStore struct {
	mock.Mock
}

func (m *MockInventoryStore) Load(ctx context.Context) (*domain.Theatre, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Theatre), args.Error(1)
}

func (m *MockInventoryStore) Save(ctx context.Context, theatre *domain.Theatre) error {
	args := m.Called(ctx, theatre)
	return args.Error(0)
}

type MockLedgerStore struct {
	mock.Mock
}

func (m *MockLedgerStore) Load(ctx context.Context) (*domain.Ledger, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

func (m *MockLedgerStore) Save(ctx context.Context, ledger *domain.Ledger) error {
	args := m.Called(ctx, ledger)
	return args.Error(0)
}

type MockReferenceGenerator struct {
	mock.Mock
}

func (m *MockReferenceGenerator) NextReference(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
