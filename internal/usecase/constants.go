package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultLockTimeout bounds how long Apply waits for a wallet lock.
	DefaultLockTimeout = 5 * time.Second

	// OwnerWalletCacheTTL is how long owner to wallet mappings are cached.
	// The mapping never changes once written.
	OwnerWalletCacheTTL = 24 * time.Hour

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	ownerWalletCachePrefix = "owner-wallet:"
)
