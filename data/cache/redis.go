package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
	"github.com/SqueakyMcSqueeze/stocks-pwa/utils"
)

type RedisCache struct {
	redis  *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache(redisClient *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{redis: redisClient, prefix: prefix + profileKeyPrefix, ttl: ttl}
}

func (r *RedisCache) SetProfile(ctx context.Context, profile model.Profile) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("SetProfile start", slog.String("rqID", rqID), slog.String("symbol", profile.Symbol))

	profileJson, err := json.Marshal(profile)
	if err != nil {
		slog.Error("can't marshall profile in SetProfile", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return errors.New("can't marshall profile")
	}

	if err = r.redis.Set(ctx, r.prefix+profile.Symbol, profileJson, r.ttl).Err(); err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("symbol", profile.Symbol))
		return err
	}

	slog.Debug("SetProfile completed", slog.String("rqID", rqID), slog.String("symbol", profile.Symbol))

	return nil
}

func (r *RedisCache) GetProfile(ctx context.Context, symbol string) (model.Profile, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("GetProfile start", slog.String("rqID", rqID), slog.String("symbol", symbol))

	res, err := r.redis.Get(ctx, r.prefix+symbol).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Profile{}, ErrCacheMiss
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("symbol", symbol))
		return model.Profile{}, err
	}

	profile := model.Profile{}
	if err = json.Unmarshal([]byte(res), &profile); err != nil {
		slog.Error(
			"can't unmarshall profile in GetProfile",
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.String("resultFromRedis", res),
		)
		return model.Profile{}, ErrCacheMiss
	}

	slog.Debug("GetProfile finished", slog.String("rqID", rqID), slog.String("symbol", symbol))

	return profile, nil
}
