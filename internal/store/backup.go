package store

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"time"

	"climbtrack/internal/domain/profile"
	"climbtrack/internal/domain/session"
)

// backupVersion tags exported bundles; it is independent of the stored
// schema version.
const backupVersion = "1.0"

// Bundle is the transportable point-in-time snapshot produced by Export
// and consumed by Import.
type Bundle struct {
	Version     string            `json:"version"`
	Timestamp   string            `json:"timestamp"`
	Sessions    []session.Session `json:"sessions"`
	UserProfile *profile.Profile  `json:"userProfile"`
	Metadata    BundleMetadata    `json:"metadata"`
}

type BundleMetadata struct {
	TotalSessions int    `json:"totalSessions"`
	TotalSize     int    `json:"totalSize"`
	Checksum      string `json:"checksum"`
}

// Export serializes the full record set into a bundle with an FNV-1a
// checksum over the serialized session list. The checksum signals
// corruption, nothing more; backups are not a security boundary.
func (s *Store) Export(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exportLocked(ctx)
}

func (s *Store) exportLocked(ctx context.Context) (string, error) {
	sessions := s.sessionsLocked(ctx)
	prof := s.profileLocked(ctx)

	sessionJSON, err := json.Marshal(sessions)
	if err != nil {
		return "", fmt.Errorf("encode sessions: %w", err)
	}

	bundle := Bundle{
		Version:     backupVersion,
		Timestamp:   s.now().UTC().Format(time.RFC3339),
		Sessions:    sessions,
		UserProfile: prof,
		Metadata: BundleMetadata{
			TotalSessions: len(sessions),
			TotalSize:     len(sessionJSON),
			Checksum:      checksum(sessionJSON),
		},
	}

	out, err := json.Marshal(bundle)
	if err != nil {
		return "", fmt.Errorf("encode bundle: %w", err)
	}
	return string(out), nil
}

// Import validates and restores a bundle. Validation happens before any
// state is mutated; the prior state is kept under a timestamp-suffixed
// safety key so a bad import stays manually recoverable.
func (s *Store) Import(ctx context.Context, bundleText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bundle, err := parseBundle(bundleText)
	if err != nil {
		return err
	}

	safety, err := s.exportLocked(ctx)
	if err != nil {
		return persistErr("snapshot current state", err)
	}
	safetyKey := backupKeyPrefix + s.now().UTC().Format("20060102T150405Z")
	if err := s.kv.Set(ctx, safetyKey, safety); err != nil {
		s.log.Error("persist safety backup", "error", err)
		return persistErr("safety backup", err)
	}

	if err := s.persistSessions(ctx, bundle.Sessions); err != nil {
		return err
	}
	if bundle.UserProfile != nil {
		if err := s.persistProfile(ctx, bundle.UserProfile); err != nil {
			return err
		}
	} else if err := s.kv.Remove(ctx, keyProfile); err != nil {
		s.log.Error("remove profile", "error", err)
		return persistErr("profile", err)
	}

	s.setCacheEntry(ctx, &s.cache.Sessions, bundle.Sessions)
	s.setCacheEntry(ctx, &s.cache.Profile, bundle.UserProfile)
	s.expireStats(ctx)

	s.log.Info("backup imported", "sessions", len(bundle.Sessions), "safety_key", safetyKey)
	return nil
}

// parseBundle structurally validates the bundle text: version and
// timestamp must be strings, sessions an array, userProfile null or an
// object.
func parseBundle(text string) (*Bundle, error) {
	var raw struct {
		Version     json.RawMessage `json:"version"`
		Timestamp   json.RawMessage `json:"timestamp"`
		Sessions    json.RawMessage `json:"sessions"`
		UserProfile json.RawMessage `json:"userProfile"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBackup, err)
	}

	var bundle Bundle
	if err := json.Unmarshal(raw.Version, &bundle.Version); err != nil {
		return nil, fmt.Errorf("%w: version is not a string", ErrMalformedBackup)
	}
	if err := json.Unmarshal(raw.Timestamp, &bundle.Timestamp); err != nil {
		return nil, fmt.Errorf("%w: timestamp is not a string", ErrMalformedBackup)
	}
	if len(raw.Sessions) == 0 || raw.Sessions[0] != '[' {
		return nil, fmt.Errorf("%w: sessions is not an array", ErrMalformedBackup)
	}
	if err := json.Unmarshal(raw.Sessions, &bundle.Sessions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBackup, err)
	}
	if bundle.Sessions == nil {
		bundle.Sessions = []session.Session{}
	}
	if len(raw.UserProfile) > 0 {
		if err := json.Unmarshal(raw.UserProfile, &bundle.UserProfile); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBackup, err)
		}
	}
	return &bundle, nil
}

func checksum(data []byte) string {
	h := fnv.New64a()
	h.Write(data)
	return fmt.Sprintf("%016x", h.Sum64())
}
