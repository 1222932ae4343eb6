package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DefaultStaleWindow is how long an entry is kept after it stops being fresh.
const DefaultStaleWindow = 24 * time.Hour

// ErrInvalidEntry indicates the cache entry is invalid or corrupted
var ErrInvalidEntry = errors.New("invalid cache entry")

// Manager handles caching operations on top of a Backend.
type Manager struct {
	backend     Backend
	staleWindow time.Duration
}

// NewManager creates a cache manager. A negative stale window is treated as zero.
func NewManager(backend Backend, staleWindow time.Duration) *Manager {
	if backend == nil {
		panic("cache backend cannot be nil")
	}
	if staleWindow < 0 {
		staleWindow = 0
	}
	return &Manager{
		backend:     backend,
		staleWindow: staleWindow,
	}
}

// Layer returns the backend name.
func (m *Manager) Layer() string {
	return m.backend.Name()
}

// StaleWindow returns how long entries outlive their freshness.
func (m *Manager) StaleWindow() time.Duration {
	return m.staleWindow
}

// Get retrieves a fresh cache entry by key.
// Returns ErrCacheMiss if the key doesn't exist or the entry is expired.
func (m *Manager) Get(ctx context.Context, key CacheKey) (*CacheEntry, error) {
	entry, err := m.Lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	if entry.IsExpired() {
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues(m.backend.Name()).Inc()
	return entry, nil
}

// Lookup retrieves an entry whether fresh or stale.
// Returns ErrCacheMiss if nothing is stored under key.
func (m *Manager) Lookup(ctx context.Context, key CacheKey) (*CacheEntry, error) {
	data, err := m.backend.Get(ctx, key.String())
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			CacheMisses.Inc()
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%s get: %w", m.backend.Name(), err)
	}

	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		_ = m.Delete(ctx, key)
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	return &entry, nil
}

// Set stores an entry. The backend keeps it for its freshness TTL plus the
// stale window.
func (m *Manager) Set(ctx context.Context, key CacheKey, entry *CacheEntry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}

	retention := entry.TTL() + m.staleWindow
	if retention <= 0 {
		// Already expired and no stale window, nothing worth keeping
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := m.backend.Set(ctx, key.String(), data, retention); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("%s set: %w", m.backend.Name(), err)
	}

	return nil
}

// Delete removes a cache entry.
func (m *Manager) Delete(ctx context.Context, key CacheKey) error {
	if err := m.backend.Delete(ctx, key.String()); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("%s del: %w", m.backend.Name(), err)
	}
	return nil
}

// UpdateTTL moves the freshness deadline of an existing entry.
// Used when a 304 Not Modified carries a new expires header.
func (m *Manager) UpdateTTL(ctx context.Context, key CacheKey, newExpires time.Time) error {
	entry, err := m.Lookup(ctx, key)
	if err != nil {
		return err
	}

	entry.Expires = newExpires
	return m.Set(ctx, key, entry)
}
