package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/hongminglow/coffee-shop/internal/config"
	"github.com/hongminglow/coffee-shop/internal/storage"
	"github.com/hongminglow/coffee-shop/internal/storage/file"
	"github.com/hongminglow/coffee-shop/internal/storage/postgres"
)

// OpenStore builds the user store selected by cfg and loads it once. The
// returned close function releases any connections.
func OpenStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (storage.UserStore, func(), error) {
	var (
		store storage.UserStore
		done  = func() {}
	)
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pg, err := postgres.NewUserStore(ctx, cfg.DatabaseURL, cfg.StoreCapacity)
		if err != nil {
			return nil, nil, fmt.Errorf("init database: %w", err)
		}
		store, done = pg, pg.Close
	default:
		if dir := filepath.Dir(cfg.UserFile); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create data dir: %w", err)
			}
		}
		store = file.NewUserStore(cfg.UserFile,
			file.WithCapacity(cfg.StoreCapacity),
			file.WithLogger(log.With().Str("component", "user_store").Logger()),
		)
	}

	n, err := store.LoadAll(ctx, cfg.StoreCapacity)
	if err != nil {
		done()
		return nil, nil, fmt.Errorf("load users: %w", err)
	}
	log.Info().Str("driver", cfg.StoreDriver).Int("users", n).Msg("user store ready")
	return store, done, nil
}
