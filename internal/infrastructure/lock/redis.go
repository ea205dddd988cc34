package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	walletLockPrefix = "wallet-lock:"

	// DefaultLockExpiry must outlive the longest database transaction run
	// under the lock.
	DefaultLockExpiry = 30 * time.Second

	lockRetryDelay = 25 * time.Millisecond
	maxLockTries   = 1 << 16
)

// RedisLocker is a distributed per-wallet lock backed by redsync, for
// deployments running several instances against the same database.
type RedisLocker struct {
	rs     *redsync.Redsync
	expiry time.Duration
	logger zerolog.Logger
}

// NewRedisLocker creates a RedisLocker on top of an existing client.
func NewRedisLocker(client redis.UniversalClient, expiry time.Duration, logger zerolog.Logger) *RedisLocker {
	if expiry <= 0 {
		expiry = DefaultLockExpiry
	}

	return &RedisLocker{
		rs:     redsync.New(goredis.NewPool(client)),
		expiry: expiry,
		logger: logger.With().Str("component", "wallet_lock").Logger(),
	}
}

// Lock retries until the wallet lock is acquired or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, walletID string) (func(), error) {
	mutex := l.rs.NewMutex(
		walletLockPrefix+walletID,
		redsync.WithExpiry(l.expiry),
		redsync.WithTries(maxLockTries),
		redsync.WithRetryDelay(lockRetryDelay),
	)

	if err := mutex.LockContext(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("failed to acquire lock for wallet %s: %w", walletID, err)
	}

	return func() {
		// Use a fresh context so a cancelled request still releases the lock.
		unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if ok, err := mutex.UnlockContext(unlockCtx); err != nil || !ok {
			l.logger.Warn().Err(err).Str("wallet_id", walletID).Msg("failed to release wallet lock")
		}
	}, nil
}
