// Package cache provides a small in-process TTL cache for hot read paths
// like the tournament listing and the player pool.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/studyipl/tournament-api/internal/platform/resilience"
)

type cached struct {
	value     any
	expiresAt time.Time
}

func (c cached) expired(now time.Time) bool {
	return !c.expiresAt.IsZero() && !c.expiresAt.After(now)
}

// Store is a TTL map whose loads are singleflight-protected: concurrent
// misses for the same key run the loader once.
type Store struct {
	mu      sync.RWMutex
	entries map[string]cached
	ttl     time.Duration
	flight  resilience.SingleFlight
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]cached),
		ttl:     ttl,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if entry.expired(time.Now()) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}

	return entry.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	entry := cached{value: value}
	if s.ttl > 0 {
		entry.expiresAt = time.Now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}

// GetOrLoad returns the cached value or runs loader once for all concurrent
// callers of the same key, caching its result. Loader errors are not cached.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}
	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		// A racing caller may have filled the entry between the miss
		// and winning the flight.
		if cachedValue, ok := s.Get(ctx, key); ok {
			return cachedValue, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}
