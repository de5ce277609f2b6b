// Package history persists completed query bundles per signed-in user.
// Deletion is deliberately absent from the contract: removing a record from
// the in-session list never propagates to the store.
package history

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Record is one completed query with all three provider answers. Bundle is
// the serialized slot map as the orchestrator produced it; the store never
// interprets it.
type Record struct {
	ID        uuid.UUID       `json:"id"`
	Question  string          `json:"question"`
	ParentID  uuid.UUID       `json:"parent_id,omitempty"`
	Providers []string        `json:"providers"`
	Bundle    json.RawMessage `json:"bundle"`
	CreatedAt time.Time       `json:"created_at"`
}

// Store defines the persistence contract; an external DB implementation can
// replace this.
type Store interface {
	Append(ctx context.Context, userID string, rec Record) error
	ListRecent(ctx context.Context, userID string, limit int) ([]Record, error)
}
