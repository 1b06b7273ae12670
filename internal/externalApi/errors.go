package externalApi

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("error not found")
	ErrNoCredentials = errors.New("upstream api key is not configured")
	ErrBadResponse   = errors.New("malformed upstream response")
)

// UpstreamError is a non-2xx answer from the provider.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream responded with status %d", e.StatusCode)
}
