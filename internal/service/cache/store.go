package cache

import (
	"context"
	"sync"
	"time"

	pkgcache "FinSight/pkg/cache"
)

type entry struct {
	raw       []byte
	fetchedAt time.Time
}

// Store is the time-windowed data cache. The freshness window belongs to the
// call site, not the entry: quote data and catalog data tolerate very
// different staleness, so the same key can be fresh for one caller and stale
// for another. Stale entries are ignored, not deleted, until overwritten.
//
// An optional backing cache (redis via pkg/cache) acts as a shared L2 so
// several processes can reuse upstream fetches.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry

	backing    pkgcache.Service
	backingTTL time.Duration

	now func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithBacking adds a shared L2 written through on Set and consulted on local
// miss. The TTL caps how long entries live in the backing store.
func WithBacking(c pkgcache.Service, ttl time.Duration) Option {
	return func(s *Store) {
		s.backing = c
		s.backingTTL = ttl
	}
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty data cache.
func NewStore(opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the cached raw value for key if it is younger than window.
func (s *Store) Get(ctx context.Context, key string, window time.Duration) ([]byte, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if ok && s.now().Sub(e.fetchedAt) < window {
		return e.raw, true
	}

	if s.backing == nil {
		return nil, false
	}

	// L2 lookup: the backing store evicts by its own TTL, so anything found
	// there is treated as freshly fetched and pulled into the local map.
	var raw []byte
	if err := s.backing.Get(ctx, key, &raw); err != nil {
		return nil, false
	}
	s.mu.Lock()
	s.entries[key] = entry{raw: raw, fetchedAt: s.now()}
	s.mu.Unlock()
	return raw, true
}

// Set stores raw under key, unconditionally replacing any prior entry.
func (s *Store) Set(ctx context.Context, key string, raw []byte) {
	s.mu.Lock()
	s.entries[key] = entry{raw: raw, fetchedAt: s.now()}
	s.mu.Unlock()

	if s.backing != nil {
		// best-effort write-through
		_ = s.backing.Set(ctx, key, raw, s.backingTTL)
	}
}

// Len reports the number of entries, fresh or stale.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
