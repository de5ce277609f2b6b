package history

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of Store using testify/mock.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Append(ctx context.Context, userID string, rec Record) error {
	args := m.Called(ctx, userID, rec)
	return args.Error(0)
}

func (m *MockStore) ListRecent(ctx context.Context, userID string, limit int) ([]Record, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Record), args.Error(1)
}
