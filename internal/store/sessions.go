package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"climbtrack/internal/domain/session"
	"climbtrack/internal/kv"
)

// Sessions returns the full session collection, served from cache while
// the cached copy is still fresh. Absence and substrate read failures
// both degrade to an empty collection; the error return is reserved for
// context errors.
func (s *Store) Sessions(ctx context.Context) ([]session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionsLocked(ctx), nil
}

// sessionsLocked is the single read path for the collection. Callers
// hold s.mu.
func (s *Store) sessionsLocked(ctx context.Context) []session.Session {
	if s.cache.Sessions.valid(s.now()) {
		var out []session.Session
		if err := json.Unmarshal(s.cache.Sessions.Data, &out); err == nil {
			return out
		}
		s.log.Warn("decode cached sessions, rereading storage")
	}

	raw, err := s.kv.Get(ctx, keySessions)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.log.Error("read sessions, degrading to empty", "error", err)
		}
		return []session.Session{}
	}

	var out []session.Session
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		s.log.Error("decode sessions, degrading to empty", "error", err)
		return []session.Session{}
	}

	s.setCacheEntry(ctx, &s.cache.Sessions, out)
	return out
}

// SaveSession upserts by id: an existing id is replaced in place keeping
// its original createdAt, a new session is appended. The collection is
// trimmed oldest-first when it exceeds the configured maximum. The stats
// view is invalidated.
func (s *Store) SaveSession(ctx context.Context, sess *session.Session) error {
	if sess == nil {
		return session.ErrInvalidData
	}
	if err := sess.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessionsLocked(ctx)
	now := s.now()

	if sess.ID == "" {
		sess.ID = session.NewID()
	}

	replaced := false
	for i := range sessions {
		if sessions[i].ID == sess.ID {
			sess.CreatedAt = sessions[i].CreatedAt
			sess.UpdatedAt = now
			sessions[i] = *sess
			replaced = true
			break
		}
	}
	if !replaced {
		if sess.CreatedAt.IsZero() {
			sess.CreatedAt = now
		}
		if sess.UpdatedAt.IsZero() {
			sess.UpdatedAt = sess.CreatedAt
		}
		sessions = append(sessions, *sess)
	}

	sessions = s.trimOldest(sessions)

	if err := s.persistSessions(ctx, sessions); err != nil {
		return err
	}

	s.setCacheEntry(ctx, &s.cache.Sessions, sessions)
	s.expireStats(ctx)
	s.log.Info("session saved", "id", sess.ID, "replaced", replaced)
	return nil
}

// UpdateSession merges a partial update into the session with the given
// id. Id and createdAt are immutable; updatedAt is refreshed.
func (s *Store) UpdateSession(ctx context.Context, id string, upd session.Update) (*session.Session, error) {
	if err := upd.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessionsLocked(ctx)
	idx := -1
	for i := range sessions {
		if sessions[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, session.ErrNotFound
	}

	upd.Apply(&sessions[idx])
	sessions[idx].UpdatedAt = s.now()

	if err := s.persistSessions(ctx, sessions); err != nil {
		return nil, err
	}

	s.setCacheEntry(ctx, &s.cache.Sessions, sessions)
	s.expireStats(ctx)
	s.log.Info("session updated", "id", id)

	updated := sessions[idx]
	return &updated, nil
}

// DeleteSession removes the session with the given id. A missing id is a
// no-op, not an error; the store stays untouched.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessionsLocked(ctx)
	kept := sessions[:0:0]
	for _, sess := range sessions {
		if sess.ID != id {
			kept = append(kept, sess)
		}
	}
	if len(kept) == len(sessions) {
		return nil
	}

	if err := s.persistSessions(ctx, kept); err != nil {
		return err
	}

	s.setCacheEntry(ctx, &s.cache.Sessions, kept)
	s.expireStats(ctx)
	s.log.Info("session deleted", "id", id)
	return nil
}

// SessionsByMonth filters the collection to one calendar month.
func (s *Store) SessionsByMonth(ctx context.Context, year int, month time.Month) ([]session.Session, error) {
	all, err := s.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	var out []session.Session
	for _, sess := range all {
		if sess.Date.Year() == year && sess.Date.Month() == month {
			out = append(out, sess)
		}
	}
	return out, nil
}

// SessionsByDate filters the collection to one calendar date.
func (s *Store) SessionsByDate(ctx context.Context, date time.Time) ([]session.Session, error) {
	all, err := s.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	var out []session.Session
	for _, sess := range all {
		if sess.Day().Equal(day) {
			out = append(out, sess)
		}
	}
	return out, nil
}

// trimOldest enforces the retention cap by dropping the oldest records
// (by createdAt) first, keeping the stored order of the survivors.
func (s *Store) trimOldest(sessions []session.Session) []session.Session {
	for len(sessions) > s.maxSessions {
		oldest := 0
		for i := 1; i < len(sessions); i++ {
			if sessions[i].CreatedAt.Before(sessions[oldest].CreatedAt) {
				oldest = i
			}
		}
		s.log.Warn("session cap exceeded, dropping oldest", "id", sessions[oldest].ID, "max", s.maxSessions)
		sessions = append(sessions[:oldest], sessions[oldest+1:]...)
	}
	return sessions
}

func (s *Store) persistSessions(ctx context.Context, sessions []session.Session) error {
	data, err := json.Marshal(sessions)
	if err != nil {
		return persistErr("encode sessions", err)
	}
	if err := s.kv.Set(ctx, keySessions, string(data)); err != nil {
		s.log.Error("persist sessions", "error", err)
		return persistErr("sessions", err)
	}
	return nil
}
