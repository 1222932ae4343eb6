package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss indicates the requested key was not found in cache
var ErrCacheMiss = errors.New("cache miss")

// Backend is the raw key/value store behind a Manager.
type Backend interface {
	// Name is used as the metrics layer label.
	Name() string

	// Get returns ErrCacheMiss when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores data until ttl elapses.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
}

// RedisBackend stores entries in Redis so replicas share one cache.
type RedisBackend struct {
	redis *redis.Client
}

// NewRedisBackend wraps a Redis client.
func NewRedisBackend(redisClient *redis.Client) *RedisBackend {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisBackend{redis: redisClient}
}

// Name implements Backend.
func (b *RedisBackend) Name() string { return "redis" }

// Get implements Backend.
func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return data, nil
}

// Set implements Backend.
func (b *RedisBackend) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return b.redis.Set(ctx, key, data, ttl).Err()
}

// Delete implements Backend.
func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	return b.redis.Del(ctx, key).Err()
}

// DefaultMaxEntries caps a MemoryBackend created without an explicit size.
const DefaultMaxEntries = 10000

type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

// MemoryBackend is a process-local backend holding at most a fixed number of
// items. At capacity, expired items go first, then the least recently used.
// Expired items are also dropped on access and by Sweep.
type MemoryBackend struct {
	mu    sync.Mutex
	items *lru.Cache[string, memoryItem]
	max   int
}

// NewMemoryBackend creates an in-process backend of DefaultMaxEntries items.
func NewMemoryBackend() *MemoryBackend {
	return NewBoundedMemoryBackend(DefaultMaxEntries)
}

// NewBoundedMemoryBackend creates an in-process backend of at most
// maxEntries items. Non-positive sizes mean DefaultMaxEntries.
func NewBoundedMemoryBackend(maxEntries int) *MemoryBackend {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	items, err := lru.NewWithEvict(maxEntries, func(string, memoryItem) {
		CacheEvictions.Inc()
	})
	if err != nil {
		// Only returned for non-positive sizes.
		panic(err)
	}
	return &MemoryBackend{items: items, max: maxEntries}
}

// Name implements Backend.
func (b *MemoryBackend) Name() string { return "memory" }

// Get implements Backend.
func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	item, ok := b.items.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	if time.Now().After(item.expiresAt) {
		b.items.Remove(key)
		return nil, ErrCacheMiss
	}
	return append([]byte(nil), item.data...), nil
}

// Set implements Backend.
func (b *MemoryBackend) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.items.Contains(key) && b.items.Len() >= b.max {
		b.removeExpired(time.Now())
	}
	b.items.Add(key, memoryItem{
		data:      append([]byte(nil), data...),
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// Delete implements Backend.
func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	b.items.Remove(key)
	b.mu.Unlock()
	return nil
}

// Sweep removes every expired item and returns how many were dropped.
func (b *MemoryBackend) Sweep() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.removeExpired(time.Now())
}

// removeExpired must be called with b.mu held.
func (b *MemoryBackend) removeExpired(now time.Time) int {
	removed := 0
	for _, key := range b.items.Keys() {
		if item, ok := b.items.Peek(key); ok && now.After(item.expiresAt) {
			b.items.Remove(key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored items, expired or not.
func (b *MemoryBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.items.Len()
}

// Cap returns the maximum number of items.
func (b *MemoryBackend) Cap() int {
	return b.max
}
