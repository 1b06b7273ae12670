package data

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SqueakyMcSqueeze/stocks-pwa/config"
)

// NewRedisClient pings with the same retry budget as the postgres client.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	var err error
	for attempts := defaultConnAttempts; attempts > 0; attempts-- {
		var pong string
		pong, err = rdb.Ping(ctx).Result()
		if err == nil {
			slog.Info("Redis connected", slog.String("pong", pong), slog.String("addr", rdb.Options().Addr))
			return rdb, nil
		}

		slog.Info("Redis is trying to connect", slog.Int("attempts left", attempts), slog.String("err", err.Error()))

		select {
		case <-ctx.Done():
			_ = rdb.Close()
			return nil, ctx.Err()
		case <-time.After(connTimeout):
		}
	}

	_ = rdb.Close()
	return nil, fmt.Errorf("connect redis %s: %w", rdb.Options().Addr, err)
}
