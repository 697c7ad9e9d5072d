package store

import (
	"context"
	"fmt"

	"github.com/rmeissner/simple-safe/internal/domain/config"
	"github.com/rmeissner/simple-safe/internal/usecase"
)

// Open returns the state store selected by cfg.Store
func Open(ctx context.Context, cfg *config.RuntimeConfig) (usecase.StateStore, error) {
	switch cfg.Store {
	case config.StoreBadger, "":
		return OpenBadger(cfg.StateDir())
	case config.StoreRedis:
		return OpenRedis(ctx, cfg.RedisURL, cfg.RedisPrefix)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}
}
