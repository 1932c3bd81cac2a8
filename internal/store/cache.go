package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"climbtrack/internal/kv"
)

// cacheEntry is one cached derived view. An entry serves reads only
// while now < ExpiresAt; forcing ExpiresAt into the past invalidates it.
type cacheEntry struct {
	Data        json.RawMessage `json:"data"`
	PopulatedAt time.Time       `json:"populatedAt"`
	ExpiresAt   time.Time       `json:"expiresAt"`
}

func (e *cacheEntry) valid(now time.Time) bool {
	return e != nil && now.Before(e.ExpiresAt)
}

// cacheState mirrors the three derived views. It is persisted whole
// under keyCache so a restart does not force a full recomputation; a
// stale persisted entry is simply a miss once its TTL has elapsed.
type cacheState struct {
	Sessions *cacheEntry `json:"sessions,omitempty"`
	Profile  *cacheEntry `json:"userProfile,omitempty"`
	Stats    *cacheEntry `json:"stats,omitempty"`
}

// loadCache restores the persisted cache snapshot. Best-effort: any
// failure leaves the cache cold.
func (s *Store) loadCache(ctx context.Context) {
	raw, err := s.kv.Get(ctx, keyCache)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.log.Warn("load cache, starting cold", "error", err)
		}
		return
	}
	var state cacheState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		s.log.Warn("decode cache, starting cold", "error", err)
		return
	}
	s.cache = state
}

func (s *Store) persistCache(ctx context.Context) error {
	data, err := json.Marshal(s.cache)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, keyCache, string(data))
}

// setCacheEntry populates one view and persists the cache snapshot.
// Cache persistence is best-effort; a failure only costs a recompute.
func (s *Store) setCacheEntry(ctx context.Context, slot **cacheEntry, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("encode cache entry", "error", err)
		return
	}
	now := s.now()
	*slot = &cacheEntry{Data: data, PopulatedAt: now, ExpiresAt: now.Add(s.ttl)}
	if err := s.persistCache(ctx); err != nil {
		s.log.Warn("persist cache", "error", err)
	}
}

// expireStats invalidates the stats view after a session mutation.
func (s *Store) expireStats(ctx context.Context) {
	if s.cache.Stats == nil {
		return
	}
	s.cache.Stats.ExpiresAt = s.now().Add(-time.Second)
	if err := s.persistCache(ctx); err != nil {
		s.log.Warn("persist cache", "error", err)
	}
}

// InvalidateCache forces every cached view to expire and persists that
// state, so the next reads recompute from storage.
func (s *Store) InvalidateCache(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expired := s.now().Add(-time.Second)
	for _, e := range []*cacheEntry{s.cache.Sessions, s.cache.Profile, s.cache.Stats} {
		if e != nil {
			e.ExpiresAt = expired
		}
	}
	if err := s.persistCache(ctx); err != nil {
		return persistErr("cache", err)
	}
	return nil
}
