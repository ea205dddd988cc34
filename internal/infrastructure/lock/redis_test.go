package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLocker(client, time.Second, zerolog.Nop()), mr
}

func TestRedisLocker_LockUnlock(t *testing.T) {
	locker, mr := newTestRedisLocker(t)

	unlock, err := locker.Lock(context.Background(), "w1")
	require.NoError(t, err)
	assert.True(t, mr.Exists(walletLockPrefix+"w1"))

	unlock()
	assert.False(t, mr.Exists(walletLockPrefix+"w1"))
}

func TestRedisLocker_ContendedLockTimesOut(t *testing.T) {
	locker, _ := newTestRedisLocker(t)

	unlock, err := locker.Lock(context.Background(), "w1")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(ctx, "w1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestRedisLocker_IndependentWallets(t *testing.T) {
	locker, _ := newTestRedisLocker(t)

	unlockA, err := locker.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer unlockA()

	unlockB, err := locker.Lock(context.Background(), "b")
	require.NoError(t, err)
	unlockB()
}
