package cache

import (
	"context"
	"time"

	"triquery/internal/history"
)

// Cache keeps each user's recent stored history so the gateway does not hit
// Postgres on every history read.
type Cache interface {
	// GetRecent retrieves a user's cached history list.
	// Returns nil on a cache miss.
	GetRecent(ctx context.Context, userID string) ([]history.Record, error)

	// SetRecent stores a user's history list with TTL.
	SetRecent(ctx context.Context, userID string, recs []history.Record, ttl time.Duration) error

	// Invalidate drops a user's cached history after an append.
	Invalidate(ctx context.Context, userID string) error

	// Close closes the cache connection.
	Close() error
}
