// Package session keeps the per-chat conversation state of the bot on top of
// the same key-value store the collections live in.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/SqueakyMcSqueeze/stocks-pwa/data/kvstore"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
	"github.com/SqueakyMcSqueeze/stocks-pwa/utils"
)

var ErrNotFound = errors.New("session not found")

const keyPrefix = "session:"

type Store struct {
	kv    kvstore.Store
	ttl   time.Duration
	clock clockwork.Clock
}

// New returns a store whose sessions expire ttl after their last write.
func New(kv kvstore.Store, ttl time.Duration, clock clockwork.Clock) *Store {
	return &Store{kv: kv, ttl: ttl, clock: clock}
}

// GetSession returns ErrNotFound for a missing, expired or unreadable session.
func (s *Store) GetSession(ctx context.Context, key string) (model.Session, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	raw, err := s.kv.Get(ctx, keyPrefix+key)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return model.Session{}, ErrNotFound
		}
		return model.Session{}, err
	}

	sess := model.Session{}
	if err = json.Unmarshal([]byte(raw), &sess); err != nil {
		slog.Warn("can't unmarshall session", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("key", key))
		return model.Session{}, ErrNotFound
	}

	if !s.clock.Now().Before(sess.ExpiresAt) {
		return model.Session{}, ErrNotFound
	}

	return sess, nil
}

func (s *Store) SetSession(ctx context.Context, key string, sess model.Session) error {
	sess.ExpiresAt = s.clock.Now().Add(s.ttl)

	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	return s.kv.Set(ctx, keyPrefix+key, string(raw))
}
