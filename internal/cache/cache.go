// Package cache provides the best-effort key-value store used by the track
// resolver. Callers must treat every failure as a miss: a broken cache never
// blocks resolution.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is not present.
var ErrMiss = errors.New("cache: miss")

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
