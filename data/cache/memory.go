package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
)

type entry struct {
	profile   model.Profile
	expiresAt time.Time
}

// MemoryCache is the single-process counterpart of RedisCache.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	clock   clockwork.Clock
}

func NewMemoryCache(ttl time.Duration, clock clockwork.Clock) *MemoryCache {
	return &MemoryCache{entries: make(map[string]entry), ttl: ttl, clock: clock}
}

func (m *MemoryCache) SetProfile(_ context.Context, profile model.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[profile.Symbol] = entry{profile: profile, expiresAt: m.clock.Now().Add(m.ttl)}
	return nil
}

func (m *MemoryCache) GetProfile(_ context.Context, symbol string) (model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[symbol]
	if !ok {
		return model.Profile{}, ErrCacheMiss
	}
	if !m.clock.Now().Before(e.expiresAt) {
		delete(m.entries, symbol)
		return model.Profile{}, ErrCacheMiss
	}
	return e.profile, nil
}
