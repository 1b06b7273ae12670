package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/SqueakyMcSqueeze/stocks-pwa/data/kvstore"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
)

func TestSessionExpiry(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	s := New(kvstore.NewMemory(), 2*time.Minute, clock)

	if _, err := s.GetSession(ctx, "42"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetSession() error = %v, want ErrNotFound", err)
	}

	if err := s.SetSession(ctx, "42", model.Session{State: model.ExpectingResetConfirmation}); err != nil {
		t.Fatalf("SetSession() error = %v", err)
	}

	clock.Advance(time.Minute)
	got, err := s.GetSession(ctx, "42")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got.State != model.ExpectingResetConfirmation {
		t.Errorf("State = %v", got.State)
	}

	clock.Advance(time.Minute)
	if _, err := s.GetSession(ctx, "42"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSession() after expiry error = %v, want ErrNotFound", err)
	}
}

func TestSessionCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	_ = kv.Set(ctx, keyPrefix+"1", "{not json")

	s := New(kv, time.Minute, clockwork.NewFakeClock())
	if _, err := s.GetSession(ctx, "1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSession() error = %v, want ErrNotFound", err)
	}
}
