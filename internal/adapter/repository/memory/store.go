// Package memory implements the repositories on process memory. Writes made
// through a Tx become visible together at Commit, and GetByIDForUpdate holds a
// row lock until the transaction ends.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/lock"
	"github.com/iho/gowallet/internal/usecase"
)

var (
	// ErrTxDone is returned when a finished transaction is used again.
	ErrTxDone = errors.New("transaction has already been committed or rolled back")
	// ErrForeignTx is returned when a repository receives a non-memory transaction.
	ErrForeignTx = errors.New("transaction does not belong to the memory store")
)

// Store holds all committed state.
type Store struct {
	mu sync.RWMutex

	wallets       map[string]*domain.Wallet
	walletOrder   []string
	owners        map[string]string
	entries       map[string]*domain.TransactionEntry
	walletEntries map[string][]string
	chargeRefs    map[string]string
	config        *domain.SystemConfig
	records       map[string]*domain.BillingRecord
	outbox        []*domain.OutboxEvent

	rows *lock.KeyedMutex
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		wallets:       make(map[string]*domain.Wallet),
		owners:        make(map[string]string),
		entries:       make(map[string]*domain.TransactionEntry),
		walletEntries: make(map[string][]string),
		chargeRefs:    make(map[string]string),
		records:       make(map[string]*domain.BillingRecord),
		rows:          lock.NewKeyedMutex(),
	}
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Tx{store: m.store}, nil
}

// write is a staged change. check runs against committed state before any
// apply of the same transaction runs; both run under the store write lock.
type write struct {
	check func(s *Store) error
	apply func(s *Store)
}

// Tx stages writes until Commit.
type Tx struct {
	mu      sync.Mutex
	store   *Store
	writes  []write
	unlocks []func()
	done    bool
}

func (t *Tx) stage(w write) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return ErrTxDone
	}
	t.writes = append(t.writes, w)
	return nil
}

func (t *Tx) holdRow(ctx context.Context, walletID string) error {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()
	if done {
		return ErrTxDone
	}

	unlock, err := t.store.rows.Lock(ctx, walletID)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.unlocks = append(t.unlocks, unlock)
	t.mu.Unlock()
	return nil
}

// Commit applies every staged write atomically, or none of them.
func (t *Tx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return ErrTxDone
	}
	defer t.finish()

	if err := ctx.Err(); err != nil {
		return err
	}

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range t.writes {
		if w.check == nil {
			continue
		}
		if err := w.check(s); err != nil {
			return err
		}
	}
	for _, w := range t.writes {
		w.apply(s)
	}
	return nil
}

// Rollback discards staged writes. Rolling back a finished transaction is a no-op.
func (t *Tx) Rollback(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return nil
	}
	t.finish()
	return nil
}

// finish releases row locks. Callers hold t.mu.
func (t *Tx) finish() {
	t.done = true
	t.writes = nil
	for i := len(t.unlocks) - 1; i >= 0; i-- {
		t.unlocks[i]()
	}
	t.unlocks = nil
}

func asTx(tx usecase.Transaction) (*Tx, error) {
	mtx, ok := tx.(*Tx)
	if !ok {
		return nil, ErrForeignTx
	}
	return mtx, nil
}

func copyWallet(w *domain.Wallet) *domain.Wallet {
	c := *w
	return &c
}

func copyEntry(e *domain.TransactionEntry) *domain.TransactionEntry {
	c := *e
	if e.BillingRef != nil {
		ref := *e.BillingRef
		c.BillingRef = &ref
	}
	return &c
}
