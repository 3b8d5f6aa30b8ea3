package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/officeplus/faq-api/config"
	redisadapter "github.com/officeplus/faq-api/internal/adapters/redis"
)

// RedisClientFactory returns a factory building a cluster or direct client
// from cfg. Each call yields a fresh client so pool refreshes rebuild
// connections from scratch.
func RedisClientFactory(cfg config.RedisConfig) redisadapter.ClientFactory {
	return func() (redis.UniversalClient, error) {
		if cfg.ClusterMode {
			seeds := cfg.Seeds()
			if len(seeds) == 0 {
				return nil, errors.New("redis cluster mode requires at least one node")
			}
			return redis.NewClusterClient(&redis.ClusterOptions{
				Addrs:        seeds,
				Password:     cfg.Password,
				PoolSize:     cfg.PoolSize,
				DialTimeout:  cfg.DialTimeout,
				ReadTimeout:  cfg.ReadTimeout,
				WriteTimeout: cfg.WriteTimeout,
			}), nil
		}
		return redis.NewClient(&redis.Options{
			Addr:         cfg.Addr(),
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     cfg.PoolSize,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}), nil
	}
}

// ConnectRedis builds the shared client handle. An unreachable server is
// logged but not fatal: session checks fail closed until it recovers.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*redisadapter.ClientHandle, error) {
	if logger == nil {
		logger = slog.Default()
	}
	handle, err := redisadapter.NewClientHandle(redisadapter.ClientHandleOptions{
		Factory: RedisClientFactory(cfg),
		Drain:   cfg.RefreshDrain,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if pingErr := handle.Ping(pingCtx); pingErr != nil {
		logger.WarnContext(ctx, "redis not reachable at startup", "seeds", cfg.Seeds(), "cluster", cfg.ClusterMode, "error", pingErr)
		return handle, nil
	}
	logger.InfoContext(ctx, "redis connected", "seeds", cfg.Seeds(), "cluster", cfg.ClusterMode)
	return handle, nil
}
