package cache

import (
	"context"
	"time"
)

// Store is a TTL key-value cache. List returns live values only; expired
// entries must never be surfaced regardless of physical retention.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	List(ctx context.Context, prefix string) ([][]byte, error)
	Delete(ctx context.Context, key string) error
}

// Sweeper is implemented by stores that support active eviction.
type Sweeper interface {
	Sweep() int
}
