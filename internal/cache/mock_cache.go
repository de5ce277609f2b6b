package cache

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"triquery/internal/history"
)

// MockCache is a mock implementation of the Cache interface for testing.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetRecent(ctx context.Context, userID string) ([]history.Record, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]history.Record), args.Error(1)
}

func (m *MockCache) SetRecent(ctx context.Context, userID string, recs []history.Record, ttl time.Duration) error {
	args := m.Called(ctx, userID, recs, ttl)
	return args.Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
