// Package cache keeps company profiles for a while so the profile proxy and
// holding enrichment don't hit the provider for every request.
package cache

import "errors"

var ErrCacheMiss = errors.New("cache miss")

const profileKeyPrefix = "profile:"
