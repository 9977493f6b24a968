package bootstrap

import (
	"context"

	"github.com/redis/go-redis/v9"

	infralogger "github.com/jonesrussell/trendboard/infrastructure/logger"
	infraredis "github.com/jonesrussell/trendboard/infrastructure/redis"
	"github.com/jonesrussell/trendboard/internal/cache"
	"github.com/jonesrussell/trendboard/internal/config"
)

// SetupMemo connects the Redis memo cache. It returns nils when the cache is
// disabled or Redis is unreachable; the service runs uncached.
func SetupMemo(ctx context.Context, cfg *config.Config, logger infralogger.Logger) (*cache.Memo, *redis.Client) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}

	client, err := infraredis.NewClient(ctx, infraredis.Config{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})
	if err != nil {
		logger.Warn("Redis unavailable, memoization disabled",
			infralogger.String("address", cfg.Redis.Address),
			infralogger.Error(err),
		)
		return nil, nil
	}

	logger.Info("Redis memo cache connected",
		infralogger.String("address", cfg.Redis.Address),
		infralogger.Duration("ttl", cfg.Redis.TTL),
	)
	return cache.NewMemo(client, cfg.Redis.KeyPrefix, cfg.Redis.TTL, logger), client
}
