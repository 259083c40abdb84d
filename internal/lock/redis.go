package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "programapi:lock:"

// releaseScript deletes the key only if it still carries our token, so a lock
// that expired and was taken by another holder is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisOptions configures a Redis lock.
type RedisOptions struct {
	// TTL bounds how long a crashed holder can block others. Default 30s.
	TTL time.Duration
	// Prefix is prepended to every key. Default "programapi:lock:".
	Prefix string
	// PollInterval is the first wait between acquisition attempts. Default 50ms.
	PollInterval time.Duration
	Logger       *slog.Logger
}

// Redis is a Locker backed by SET NX PX on a single Redis instance.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	poll   time.Duration
	logger *slog.Logger
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, opts RedisOptions) *Redis {
	r := &Redis{
		client: client,
		ttl:    opts.TTL,
		prefix: opts.Prefix,
		poll:   opts.PollInterval,
		logger: opts.Logger,
	}
	if r.ttl <= 0 {
		r.ttl = 30 * time.Second
	}
	if r.prefix == "" {
		r.prefix = defaultKeyPrefix
	}
	if r.poll <= 0 {
		r.poll = 50 * time.Millisecond
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Lock implements Locker.
func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := r.prefix + key
	token := uuid.NewString()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.poll
	b.MaxInterval = r.ttl / 4
	if b.MaxInterval < r.poll {
		b.MaxInterval = r.poll
	}
	b.MaxElapsedTime = 0
	b.Reset()

	err := backoff.Retry(func() error {
		ok, err := r.client.SetNX(ctx, redisKey, token, r.ttl).Result()
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotAcquired
		}
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotAcquired, key, err)
	}

	acquired := time.Now()
	released := false
	return func() {
		if released {
			return
		}
		released = true
		// The caller's context may already be done; release on a fresh one.
		rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		n, err := releaseScript.Run(rctx, r.client, []string{redisKey}, token).Int()
		switch {
		case err != nil:
			r.logger.Warn("release lock failed", "key", key, "error", err)
		case n == 0:
			r.logger.Warn("lock expired before release", "key", key, "held", time.Since(acquired), "ttl", r.ttl)
		}
	}, nil
}
