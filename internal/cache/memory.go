package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type memoryEntry struct {
	value      []byte
	insertedAt time.Time
}

// MemoryStore is the default in-process cache backend: TTL-on-write expiry,
// bounded entry count with oldest-first eviction, no promotion on read.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	logger     *zap.Logger
}

// NewMemoryStore builds the store. A zero ttl defaults to 30 minutes.
func NewMemoryStore(ttl time.Duration, maxEntries int, logger *zap.Logger) *MemoryStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &MemoryStore{
		entries:    make(map[string]memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		logger:     logger,
	}
}

// SetClock overrides the time source, for tests.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// Get returns the cached value when present and not expired.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.now().Sub(entry.insertedAt) >= s.ttl {
		delete(s.entries, key)
		s.logger.Debug("cache entry evicted", zap.String("key", key), zap.String("cause", "expired"))
		return nil, false
	}
	return entry.value, true
}

// Set stores a value, evicting the oldest entry when the bound is reached.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.maxEntries {
		s.evictOldestLocked()
	}
	s.entries[key] = memoryEntry{value: value, insertedAt: s.now()}
}

// Invalidate removes a single entry.
func (s *MemoryStore) Invalidate(_ context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; ok {
		delete(s.entries, key)
		s.logger.Debug("cache entry evicted", zap.String("key", key), zap.String("cause", "invalidated"))
	}
}

// InvalidateAll clears the cache.
func (s *MemoryStore) InvalidateAll(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]memoryEntry)
	s.logger.Debug("cache cleared")
}

func (s *MemoryStore) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for key, entry := range s.entries {
		if oldestKey == "" || entry.insertedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.insertedAt
		}
	}
	if oldestKey != "" {
		delete(s.entries, oldestKey)
		s.logger.Debug("cache entry evicted", zap.String("key", oldestKey), zap.String("cause", "size"))
	}
}
