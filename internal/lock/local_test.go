package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argo-platform/program-service/internal/config"
	"github.com/argo-platform/program-service/internal/logging"
)

func TestLocal_SerializesSameKey(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Lock(ctx, "TEST-CA")
			if !assert.NoError(t, err) {
				return
			}
			defer release()

			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, 0, l.held())
}

func TestLocal_DifferentKeysDoNotBlock(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	releaseA, err := l.Lock(ctx, "A")
	require.NoError(t, err)
	defer releaseA()

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	releaseB, err := l.Lock(ctx, "B")
	require.NoError(t, err)
	releaseB()
}

func TestLocal_ContextCancelled(t *testing.T) {
	l := NewLocal()

	release, err := l.Lock(context.Background(), "TEST-CA")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "TEST-CA")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotAcquired))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	release()
	assert.Equal(t, 0, l.held())
}

func TestLocal_ReleaseIsIdempotent(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	release, err := l.Lock(ctx, "K")
	require.NoError(t, err)
	release()
	release()

	release, err = l.Lock(ctx, "K")
	require.NoError(t, err)
	release()
	assert.Equal(t, 0, l.held())
}

func TestOpen_WithoutRedisIsLocal(t *testing.T) {
	locker, closeFn, err := Open(context.Background(), config.LockConfig{TTL: time.Second}, logging.Discard())
	require.NoError(t, err)
	defer closeFn()

	_, ok := locker.(*Local)
	assert.True(t, ok)
}

func TestOpen_InvalidRedisURL(t *testing.T) {
	_, _, err := Open(context.Background(), config.LockConfig{RedisURL: "://bad", TTL: time.Second}, logging.Discard())
	require.Error(t, err)
}
