// Package metadata stores small key/value facts about the local identity,
// such as the username it registered.
package metadata

import (
	"context"
)

// Repository is a string-keyed blob store. Get returns (nil, nil) for an
// absent key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
