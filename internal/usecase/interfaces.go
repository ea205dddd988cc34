package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// WalletRepository defines data access for wallets.
type WalletRepository interface {
	Create(ctx context.Context, tx Transaction, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id string) (*domain.Wallet, error)
	GetByOwner(ctx context.Context, ownerID string) (*domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Wallet, error)
}

// TransactionRepository defines data access for the append-only transaction log.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.TransactionEntry) error
	GetByID(ctx context.Context, id string) (*domain.TransactionEntry, error)
	GetByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.TransactionEntry, error)
	GetByBillingRef(ctx context.Context, billingRef string) (*domain.TransactionEntry, error)
	CountByKind(ctx context.Context, walletID string, kind domain.TransactionKind) (int64, error)
	GetBalanceAtTime(ctx context.Context, walletID string, at time.Time) (decimal.Decimal, error)
}

// SystemConfigRepository defines data access for the configuration singleton.
type SystemConfigRepository interface {
	Get(ctx context.Context) (*domain.SystemConfig, error)
	Upsert(ctx context.Context, tx Transaction, cfg *domain.SystemConfig) error
	// Seed stores cfg only when no configuration exists yet.
	Seed(ctx context.Context, cfg *domain.SystemConfig) error
}

// BillingRecordRepository defines data access for billing records.
type BillingRecordRepository interface {
	// Create stores a record; storing an existing id is a no-op.
	Create(ctx context.Context, record *domain.BillingRecord) error
	GetByID(ctx context.Context, id string) (*domain.BillingRecord, error)
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	CheckConsistency(ctx context.Context) (totalBalance, totalAmount decimal.Decimal, negativeWallets int64, err error)
	// WalletTotals reads a wallet's balance and the sum of its entries from
	// one snapshot.
	WalletTotals(ctx context.Context, walletID string) (balance, entrySum decimal.Decimal, err error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// WalletLocker serializes work on a single wallet. Locks on different wallets
// never block each other.
type WalletLocker interface {
	// Lock blocks until the wallet lock is held or ctx is done.
	Lock(ctx context.Context, walletID string) (unlock func(), err error)
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so the request can be retried.
	Release(ctx context.Context, key string) error
}

// WalletProvisioner is the part of the wallet store used by the bonus issuer
// and the billing charger.
type WalletProvisioner interface {
	CreateWallet(ctx context.Context, input CreateWalletInput) (*domain.Wallet, error)
	FindByOwner(ctx context.Context, ownerID string) (*domain.Wallet, error)
}

// EntryApplier applies a single signed entry to a wallet.
type EntryApplier interface {
	Apply(ctx context.Context, input ApplyInput) (*domain.TransactionEntry, error)
}
