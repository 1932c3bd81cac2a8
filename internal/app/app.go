// Package app wires configuration, logging, the persistence substrate
// and the record store into one client application object.
package app

import (
	"fmt"

	"golang.org/x/exp/slog"

	"climbtrack/internal/config"
	"climbtrack/internal/kv"
	"climbtrack/internal/store"
)

type App struct {
	Config *config.Config
	Log    *slog.Logger
	KV     kv.Store
	Store  *store.Store
}

// New builds the application: opens the configured storage backend and
// constructs the store on top of it.
func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	kvs, err := openBackend(cfg)
	if err != nil {
		return nil, fmt.Errorf("open storage backend: %w", err)
	}

	st := store.New(kvs, store.Options{
		CacheTTL:    cfg.CacheTTL,
		MaxSessions: cfg.MaxSessions,
	}, log)

	if st.MigrationDegraded() {
		log.Warn("store migration degraded, running on data of undetermined schema version")
	}

	return &App{
		Config: cfg,
		Log:    log,
		KV:     kvs,
		Store:  st,
	}, nil
}

func openBackend(cfg *config.Config) (kv.Store, error) {
	switch cfg.Backend {
	case "sqlite", "":
		return kv.NewSQLite(cfg.StoragePath)
	case "redis":
		return kv.NewRedis(cfg.RedisAddr, "")
	case "memory":
		return kv.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func (a *App) Close() error {
	return a.KV.Close()
}
