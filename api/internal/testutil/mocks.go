package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSessionStore is a mock for store.SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) SetKey(ctx context.Context, userID int64, apiKey string) error {
	args := m.Called(ctx, userID, apiKey)
	return args.Error(0)
}

func (m *MockSessionStore) GetKey(ctx context.Context, userID int64) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) DeleteKey(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockSessionStore) MarkPending(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockSessionStore) ClearPending(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockSessionStore) IsPending(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}
