package kvstore

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/SqueakyMcSqueeze/stocks-pwa/utils"
)

type Redis struct {
	redis  *redis.Client
	prefix string
}

// NewRedis stores every key under prefix so several deployments can share a DB.
func NewRedis(redisClient *redis.Client, prefix string) *Redis {
	return &Redis{redis: redisClient, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("Redis.Get start", slog.String("rqID", rqID), slog.String("key", key))

	res, err := r.redis.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("key", key))
		return "", err
	}

	slog.Debug("Redis.Get completed", slog.String("rqID", rqID), slog.String("key", key))
	return res, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("Redis.Set start", slog.String("rqID", rqID), slog.String("key", key))

	err := r.redis.Set(ctx, r.prefix+key, value, 0).Err()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("key", key))
		return err
	}

	slog.Debug("Redis.Set completed", slog.String("rqID", rqID), slog.String("key", key))
	return nil
}
