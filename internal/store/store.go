// Package store is the single point of truth for the tracker's persisted
// collections. It wraps the key-value substrate with transparent TTL
// caching, a startup schema-migration gate, session/profile CRUD, derived
// statistics and backup/restore.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"climbtrack/internal/domain/session"
	"climbtrack/internal/kv"
)

// SchemaVersion is the schema the current code writes. A differing stored
// marker triggers the migration gate on construction.
const (
	SchemaVersion       = "1.1.0"
	legacySchemaVersion = "1.0.0"
)

// Persisted key namespace. Safety-backup keys created during import are
// backupKeyPrefix plus a timestamp.
const (
	keySessions      = "climbtrack:sessions"
	keyProfile       = "climbtrack:user_profile"
	keyCache         = "climbtrack:cache"
	keySchemaVersion = "climbtrack:schema_version"
	backupKeyPrefix  = "climbtrack:backup:"
)

const (
	defaultCacheTTL    = 5 * time.Minute
	defaultMaxSessions = 1000
)

// Options tune a Store instance. Zero values fall back to defaults; Now
// is injectable so streak and TTL behavior is deterministic in tests.
type Options struct {
	CacheTTL    time.Duration
	MaxSessions int
	Now         func() time.Time
}

// Store owns the persisted session collection and user profile. Every
// mutating operation is a read-modify-write over whole values, so all
// mutations are serialized through one mutex (single-writer discipline).
type Store struct {
	kv          kv.Store
	log         *slog.Logger
	ttl         time.Duration
	maxSessions int
	now         func() time.Time

	mu       sync.Mutex
	cache    cacheState
	degraded bool
}

// New constructs a Store, runs the migration gate and loads the persisted
// cache. Construction never fails: migration and cache load are
// best-effort, and a failed migration leaves the store in degraded mode
// rather than blocking startup.
func New(kvs kv.Store, opts Options, log *slog.Logger) *Store {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = defaultMaxSessions
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Store{
		kv:          kvs,
		log:         log.With("component", "store"),
		ttl:         opts.CacheTTL,
		maxSessions: opts.MaxSessions,
		now:         opts.Now,
	}

	ctx := context.Background()
	s.migrate(ctx)
	s.loadCache(ctx)

	return s
}

// MigrationDegraded reports whether the startup migration failed and the
// store is running against data of an undetermined schema version.
func (s *Store) MigrationDegraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// migrate compares the stored schema marker against SchemaVersion and
// runs the migration step when they differ. Failures are logged and
// flagged, never propagated.
func (s *Store) migrate(ctx context.Context) {
	stored, err := s.kv.Get(ctx, keySchemaVersion)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.log.Error("read schema version", "error", err)
			s.degraded = true
			return
		}
		stored = legacySchemaVersion
	}
	if stored == SchemaVersion {
		return
	}

	s.log.Info("migrating stored data", "from", stored, "to", SchemaVersion)
	if err := s.runMigration(ctx, stored); err != nil {
		s.log.Error("migration failed, continuing on old data", "from", stored, "error", err)
		s.degraded = true
		return
	}
	if err := s.kv.Set(ctx, keySchemaVersion, SchemaVersion); err != nil {
		s.log.Error("write schema version", "error", err)
		s.degraded = true
	}
}

// runMigration rewrites the stored collections into the current schema.
// The current step re-serializes the session collection unchanged; it is
// the hook future version bumps hang their data transforms on.
func (s *Store) runMigration(ctx context.Context, from string) error {
	raw, err := s.kv.Get(ctx, keySessions)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var sessions []session.Session
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		return err
	}

	data, err := json.Marshal(sessions)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, keySessions, string(data))
}

// ClearAll wipes every persisted tracker key, including safety backups,
// and resets the in-memory cache.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.kv.Keys(ctx)
	if err != nil {
		return persistErr("list keys", err)
	}

	var own []string
	for _, k := range keys {
		if strings.HasPrefix(k, "climbtrack:") {
			own = append(own, k)
		}
	}
	if err := s.kv.RemoveMany(ctx, own); err != nil {
		return persistErr("clear data", err)
	}

	s.cache = cacheState{}
	s.log.Info("cleared all data", "keys", len(own))
	return nil
}
