package store

import (
	"context"
	"encoding/json"
	"errors"

	"climbtrack/internal/domain/profile"
	"climbtrack/internal/kv"
)

// Profile returns the stored user profile, or nil when none exists. A
// substrate read failure also degrades to "no profile".
func (s *Store) Profile(ctx context.Context) (*profile.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileLocked(ctx), nil
}

func (s *Store) profileLocked(ctx context.Context) *profile.Profile {
	if s.cache.Profile.valid(s.now()) {
		var p *profile.Profile
		if err := json.Unmarshal(s.cache.Profile.Data, &p); err == nil {
			return p
		}
		s.log.Warn("decode cached profile, rereading storage")
	}

	raw, err := s.kv.Get(ctx, keyProfile)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.log.Error("read profile, degrading to none", "error", err)
		}
		s.setCacheEntry(ctx, &s.cache.Profile, (*profile.Profile)(nil))
		return nil
	}

	var p *profile.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.log.Error("decode profile, degrading to none", "error", err)
		return nil
	}

	s.setCacheEntry(ctx, &s.cache.Profile, p)
	return p
}

// SaveProfile upserts the single profile record: an existing profile is
// fully replaced except createdAt.
func (s *Store) SaveProfile(ctx context.Context, p *profile.Profile) error {
	if p == nil {
		return profile.ErrInvalidData
	}
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.profileLocked(ctx)
	now := s.now()

	if existing != nil {
		p.CreatedAt = existing.CreatedAt
		if p.ID == "" {
			p.ID = existing.ID
		}
	} else if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	if err := s.persistProfile(ctx, p); err != nil {
		return err
	}

	s.setCacheEntry(ctx, &s.cache.Profile, p)
	s.log.Info("profile saved", "id", p.ID)
	return nil
}

// UpdateProfile merges a partial update into the stored profile; it
// fails with profile.ErrNotFound when no profile has been created yet.
func (s *Store) UpdateProfile(ctx context.Context, upd profile.Update) (*profile.Profile, error) {
	if err := upd.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.profileLocked(ctx)
	if existing == nil {
		return nil, profile.ErrNotFound
	}

	upd.Apply(existing)
	existing.UpdatedAt = s.now()

	if err := s.persistProfile(ctx, existing); err != nil {
		return nil, err
	}

	s.setCacheEntry(ctx, &s.cache.Profile, existing)
	s.log.Info("profile updated", "id", existing.ID)
	return existing, nil
}

func (s *Store) persistProfile(ctx context.Context, p *profile.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return persistErr("encode profile", err)
	}
	if err := s.kv.Set(ctx, keyProfile, string(data)); err != nil {
		s.log.Error("persist profile", "error", err)
		return persistErr("profile", err)
	}
	return nil
}
