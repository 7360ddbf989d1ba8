package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/booking-gateway/internal/cache"
)

func TestMemoryStoreTTL(t *testing.T) {
	store := cache.NewMemoryStore(30*time.Minute, 10, zap.NewNop())
	current := time.Date(2026, 1, 7, 10, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return current })

	ctx := context.Background()
	store.Set(ctx, "key", []byte("value"))

	got, ok := store.Get(ctx, "key")
	require.True(t, ok)
	require.Equal(t, []byte("value"), got)

	current = current.Add(29 * time.Minute)
	_, ok = store.Get(ctx, "key")
	require.True(t, ok)

	current = current.Add(2 * time.Minute)
	_, ok = store.Get(ctx, "key")
	require.False(t, ok)
}

func TestMemoryStoreEvictsOldestAtCapacity(t *testing.T) {
	store := cache.NewMemoryStore(time.Hour, 2, zap.NewNop())
	current := time.Date(2026, 1, 7, 10, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return current })

	ctx := context.Background()
	store.Set(ctx, "a", []byte("1"))
	current = current.Add(time.Minute)
	store.Set(ctx, "b", []byte("2"))
	current = current.Add(time.Minute)
	store.Set(ctx, "c", []byte("3"))

	_, ok := store.Get(ctx, "a")
	require.False(t, ok)
	_, ok = store.Get(ctx, "b")
	require.True(t, ok)
	_, ok = store.Get(ctx, "c")
	require.True(t, ok)
}

func TestMemoryStoreOverwriteDoesNotEvict(t *testing.T) {
	store := cache.NewMemoryStore(time.Hour, 2, zap.NewNop())
	ctx := context.Background()

	store.Set(ctx, "a", []byte("1"))
	store.Set(ctx, "b", []byte("2"))
	store.Set(ctx, "a", []byte("updated"))

	got, ok := store.Get(ctx, "a")
	require.True(t, ok)
	require.Equal(t, []byte("updated"), got)
	_, ok = store.Get(ctx, "b")
	require.True(t, ok)
}

func TestMemoryStoreInvalidate(t *testing.T) {
	store := cache.NewMemoryStore(time.Hour, 10, zap.NewNop())
	ctx := context.Background()

	store.Set(ctx, "a", []byte("1"))
	store.Set(ctx, "b", []byte("2"))

	store.Invalidate(ctx, "a")
	_, ok := store.Get(ctx, "a")
	require.False(t, ok)
	_, ok = store.Get(ctx, "b")
	require.True(t, ok)

	store.InvalidateAll(ctx)
	_, ok = store.Get(ctx, "b")
	require.False(t, ok)
}

func TestGetOrCompute(t *testing.T) {
	store := cache.NewMemoryStore(time.Hour, 10, zap.NewNop())
	ctx := context.Background()

	computes := 0
	compute := func() ([]byte, error) {
		computes++
		return []byte("computed"), nil
	}

	got, err := cache.GetOrCompute(ctx, store, "key", compute)
	require.NoError(t, err)
	require.Equal(t, []byte("computed"), got)

	got, err = cache.GetOrCompute(ctx, store, "key", compute)
	require.NoError(t, err)
	require.Equal(t, []byte("computed"), got)
	require.Equal(t, 1, computes)
}

func TestGetOrComputeErrorNotCached(t *testing.T) {
	store := cache.NewMemoryStore(time.Hour, 10, zap.NewNop())
	ctx := context.Background()

	_, err := cache.GetOrCompute(ctx, store, "key", func() ([]byte, error) {
		return nil, errors.New("compute failed")
	})
	require.Error(t, err)

	_, ok := store.Get(ctx, "key")
	require.False(t, ok)
}
