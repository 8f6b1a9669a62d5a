// Package metadata is the key/value table of the local state DB. The
// session layer keeps its credential there.
package metadata

import (
	"context"
)

// Repository reads and writes metadata rows. Get returns (nil, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string, more ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
