package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/leadline-hq/leadline/internal/config"
	"github.com/leadline-hq/leadline/internal/store"
)

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.BackendKind() {
	case "redis":
		if cfg.Redis.URL == "" {
			return nil, errors.New("redis backend selected but LEADLINE_REDIS_URL is not set")
		}
		return store.OpenRedis(ctx, cfg.Redis.URL)
	case "memory":
		return store.NewMemory(), nil
	default:
		return store.OpenSQLite(cfg.SQLite.Path)
	}
}

// withStore loads config, opens the configured backend, executes the
// function and handles cleanup.
func withStore(fn func(cfg *config.Config, s store.Store) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	s, err := openStore(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer s.Close()

	return fn(cfg, s)
}
