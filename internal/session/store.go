package session

import (
	"context"
	"time"
)

// Store persists session state by session id.
type Store interface {
	// Load returns the state for id; found is false for unknown or expired ids.
	Load(ctx context.Context, id string) (state State, found bool, err error)
	// Save stores state under id for ttl.
	Save(ctx context.Context, id string, state State, ttl time.Duration) error
	// Delete removes id. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}
