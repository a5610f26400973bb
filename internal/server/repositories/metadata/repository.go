// Package metadata is a small key/value store for server bookkeeping such
// as the archive cursor.
package metadata

import "context"

type Repository interface {
	// Get returns common.ErrNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
