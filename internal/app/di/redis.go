package di

import (
	"context"
	"log/slog"

	redisv9 "github.com/redis/go-redis/v9"

	"stock_insight/internal/platform/config"
	platformredis "stock_insight/internal/platform/redis"
)

// NewRedis returns a connected client, or nil when REDIS_HOST is unset or unreachable.
// Without Redis the directory runs uncached.
func NewRedis(ctx context.Context, cfg *config.Config) *redisv9.Client {
	addr := cfg.RedisAddr()
	if addr == "" {
		return nil
	}
	rdb, err := platformredis.NewRedisClient(ctx, addr, cfg.RedisPassword)
	if err != nil {
		slog.Warn("Redis unavailable. Running without search cache.", "error", err)
		return nil
	}
	return rdb
}
