// Package metadata is a small key-value store in the CLI's local SQLite
// database. It keeps the session between runs.
package metadata

import "context"

type Repository interface {
	// Get returns (nil, nil) for an absent key.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
