package data

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/SqueakyMcSqueeze/stocks-pwa/config"
	"github.com/SqueakyMcSqueeze/stocks-pwa/data/cache"
	"github.com/SqueakyMcSqueeze/stocks-pwa/data/kvstore"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
)

type ProfileCache interface {
	GetProfile(ctx context.Context, symbol string) (model.Profile, error)
	SetProfile(ctx context.Context, profile model.Profile) error
}

// Storage is the backend picked by STORAGE_DRIVER: the key-value store the
// collections and sessions live in, plus the profile cache next to it.
type Storage struct {
	Store    kvstore.Store
	Profiles ProfileCache
	closers  []func() error
}

func Open(ctx context.Context, cfg *config.Config, clock clockwork.Clock) (*Storage, error) {
	s := &Storage{}

	switch cfg.Storage.Driver {
	case config.StorageMemory, "":
		s.Store = kvstore.NewMemory()
		s.Profiles = cache.NewMemoryCache(cfg.Storage.ProfileTTL, clock)
	case config.StorageRedis:
		rdb, err := NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s.Store = kvstore.NewRedis(rdb, cfg.Storage.KeyPrefix)
		s.Profiles = cache.NewRedisCache(rdb, cfg.Storage.KeyPrefix, cfg.Storage.ProfileTTL)
		s.closers = append(s.closers, rdb.Close)
	case config.StoragePostgres:
		db := NewPostgresClient(cfg)
		s.Store = kvstore.NewPostgres(db)
		s.Profiles = cache.NewMemoryCache(cfg.Storage.ProfileTTL, clock)
		s.closers = append(s.closers, db.Close)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	slog.Info("storage opened", slog.String("driver", cfg.Storage.Driver))

	return s, nil
}

func (s *Storage) Close() {
	for _, c := range s.closers {
		if err := c(); err != nil {
			slog.Error("storage close error", slog.String("err", err.Error()))
		}
	}
}
