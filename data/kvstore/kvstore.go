// Package kvstore is the string-keyed blob storage every collection is
// persisted in. Writes to different keys are independent; there is no
// cross-key transaction.
package kvstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

type Store interface {
	// Get returns ErrNotFound for a key that was never set.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
