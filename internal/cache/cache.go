package cache

import "context"

// Store memoizes computed payloads per named key with TTL eviction. It is not
// an LRU: entries expire a fixed interval after insertion regardless of reads.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Invalidate(ctx context.Context, key string)
	InvalidateAll(ctx context.Context)
}

// GetOrCompute returns the cached value for key, computing and storing it on
// a miss. Compute errors are returned without polluting the cache.
func GetOrCompute(ctx context.Context, store Store, key string, compute func() ([]byte, error)) ([]byte, error) {
	if value, ok := store.Get(ctx, key); ok {
		return value, nil
	}
	value, err := compute()
	if err != nil {
		return nil, err
	}
	store.Set(ctx, key, value)
	return value, nil
}
