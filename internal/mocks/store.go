package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipebox/backend/internal/types"
)

// MockStore is a mock implementation of store.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) List(ctx context.Context) ([]types.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Recipe), args.Error(1)
}

func (m *MockStore) Get(ctx context.Context, id string) (types.Recipe, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(types.Recipe), args.Error(1)
}

func (m *MockStore) Create(ctx context.Context, recipe types.Recipe) (types.Recipe, error) {
	args := m.Called(ctx, recipe)
	return args.Get(0).(types.Recipe), args.Error(1)
}

func (m *MockStore) Update(ctx context.Context, recipe types.Recipe) (types.Recipe, error) {
	args := m.Called(ctx, recipe)
	return args.Get(0).(types.Recipe), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) Len(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
