package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"hazardsync/internal/config"
	"hazardsync/pkg/e"
)

const defaultTimeout = 3 * time.Second

// Redis owns the client shared by the report queue and the address cache.
type Redis struct {
	Client *redis.Client
}

func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*Redis, error) {
	const op = "redis.NewRedis"

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Error("redis unreachable",
			slog.String("op", op),
			slog.String("addr", cfg.Addr),
			slog.Any("error", err))
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: ping %s: %v: %w", op, cfg.Addr, err, e.ErrPersistence)
	}
	logger.Info("redis connected",
		slog.String("addr", cfg.Addr),
		slog.Int("db", cfg.DB),
		slog.Bool("address_cache", cfg.AddressCache))

	return &Redis{Client: rdb}, nil
}

func (r *Redis) Close() error {
	return r.Client.Close()
}
