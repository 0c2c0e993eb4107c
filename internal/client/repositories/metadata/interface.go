// Package metadata persists small key/value records in the local SQLite
// database. The session layer keeps the bearer token here.
package metadata

import (
	"context"
	"time"
)

// Record is one stored value with the time it was last written.
type Record struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

type Repository interface {
	// Get returns (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) (*Record, error)
	Put(ctx context.Context, key string, value []byte) error
	// PutMany writes all pairs in one transaction.
	PutMany(ctx context.Context, values map[string][]byte) error
	// Delete removes the given keys in one transaction. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
