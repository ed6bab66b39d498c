// Package store defines the durable client-side storage the session layer
// persists through. The interface is deliberately a small keyed-entry space:
// the only state the client keeps between runs is the serialized identity
// record and the bearer token.
package store

import (
	"context"
	"errors"
)

// Keys for the persisted session entries. Absence of either implies
// logged-out.
const (
	KeyAuthUser  = "auth.user"
	KeyAuthToken = "auth.token"
)

// ErrNotFound reports a missing entry.
var ErrNotFound = errors.New("store: entry not found")

// Store is durable keyed storage for client state. Writes are synchronous:
// when a call returns, the entry is on disk.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Put writes the value for key, replacing any existing entry.
	Put(ctx context.Context, key, value string) error

	// Delete removes the entry for key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying storage.
	Close() error
}
