// Package backend opens the store.Store selected by configuration. The
// server and the admin CLI share it so both see the same data.
package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sakif/campus-connect/internal/config"
	"github.com/sakif/campus-connect/internal/store"
	"github.com/sakif/campus-connect/internal/store/memory"
	mongostore "github.com/sakif/campus-connect/internal/store/mongo"
	"github.com/sakif/campus-connect/internal/store/postgres"
	redisstore "github.com/sakif/campus-connect/internal/store/redis"
	"github.com/sakif/campus-connect/internal/store/sqlite"
)

// CloseFunc releases whatever Open acquired.
type CloseFunc func() error

func noop() error { return nil }

// Open returns the configured backend plus a function that releases it.
// The sqlite parent directory is created when missing.
func Open(ctx context.Context, cfg *config.Config) (store.Store, CloseFunc, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.New(), noop, nil

	case config.BackendRedis:
		st, err := redisstore.Open(ctx, redisstore.Config{
			Addr:   cfg.Redis.Addr,
			DB:     cfg.Redis.DB,
			Prefix: cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("opening redis store: %w", err)
		}
		return st, st.Close, nil

	case config.BackendMongo:
		st, err := mongostore.Open(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("opening mongo store: %w", err)
		}
		return st, st.Close, nil

	case config.BackendPostgres:
		st, err := postgres.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return st, st.Close, nil

	case config.BackendSQLite, "":
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		st, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return st, st.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
