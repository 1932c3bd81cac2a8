package store

import (
	"context"
	"encoding/json"
	"time"

	"climbtrack/internal/domain/session"
	"climbtrack/internal/domain/stats"
)

// Stats returns aggregates over the whole collection, cached until a
// session mutation or the TTL invalidates them.
func (s *Store) Stats(ctx context.Context) (stats.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.cache.Stats.valid(now) {
		var st stats.Stats
		if err := json.Unmarshal(s.cache.Stats.Data, &st); err == nil {
			return st, nil
		}
		s.log.Warn("decode cached stats, recomputing")
	}

	st := stats.Compute(s.sessionsLocked(ctx), now)
	s.setCacheEntry(ctx, &s.cache.Stats, st)
	return st, nil
}

// StatsBetween aggregates over the sessions falling inside the given
// date range, inclusive. Range queries always recompute; they never
// touch the stats cache.
func (s *Store) StatsBetween(ctx context.Context, from, to time.Time) (stats.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var filtered []session.Session
	for _, sess := range s.sessionsLocked(ctx) {
		if sess.Date.Before(from) || sess.Date.After(to) {
			continue
		}
		filtered = append(filtered, sess)
	}
	return stats.Compute(filtered, s.now()), nil
}
