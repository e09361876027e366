// internal/storage/store.go
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key is absent or expired.
var ErrNotFound = errors.New("storage: key not found")

// Store is a key-value store with TTL semantics. The pipeline only needs
// read-after-write consistency within one process; implementations must be
// safe for concurrent use.
type Store interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Count(ctx context.Context, prefix string) (int, error)
	Close() error
}
