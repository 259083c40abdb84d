// Package lock serializes work on a single program across goroutines and,
// with Redis, across service instances.
package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/argo-platform/program-service/internal/config"
)

// ErrNotAcquired is returned when a lock could not be taken before ctx ended.
var ErrNotAcquired = errors.New("lock not acquired")

// Locker hands out exclusive, keyed locks.
type Locker interface {
	// Lock blocks until key is held or ctx is done. The returned release
	// function must be called exactly once.
	Lock(ctx context.Context, key string) (release func(), err error)
}

// Open returns the Locker selected by cfg: a Redis lock when RedisURL is set,
// otherwise an in-process one. The close function releases the Redis client.
func Open(ctx context.Context, cfg config.LockConfig, logger *slog.Logger) (Locker, func() error, error) {
	if cfg.RedisURL == "" {
		return NewLocal(), func() error { return nil }, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewRedis(client, RedisOptions{TTL: cfg.TTL, Logger: logger}), client.Close, nil
}
