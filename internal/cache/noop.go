package cache

import (
	"context"
	"time"

	"triquery/internal/history"
)

// NoOpCache is a cache implementation that does nothing. Used as a fallback
// when Redis is unavailable - all operations succeed but no actual caching
// occurs (always cache miss).
type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// GetRecent always returns nil (cache miss).
func (c *NoOpCache) GetRecent(ctx context.Context, userID string) ([]history.Record, error) {
	return nil, nil
}

// SetRecent does nothing and always succeeds.
func (c *NoOpCache) SetRecent(ctx context.Context, userID string, recs []history.Record, ttl time.Duration) error {
	return nil
}

// Invalidate does nothing and always succeeds.
func (c *NoOpCache) Invalidate(ctx context.Context, userID string) error {
	return nil
}

// Close does nothing and always succeeds.
func (c *NoOpCache) Close() error {
	return nil
}
