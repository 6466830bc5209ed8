package db

import (
	"context"

	"elbyte/internal/config"
	"elbyte/internal/errors"
)

// Open creates a Store from configuration
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "postgres":
		if cfg.DSN == "" {
			return nil, errors.Config("postgres store requires a dsn")
		}
		return NewPostgresStore(ctx, cfg.DSN)
	case "sqlite", "":
		return NewSQLiteStore(cfg.Path)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, errors.Newf(errors.TypeConfig, "unknown store driver %q", cfg.Driver)
	}
}
