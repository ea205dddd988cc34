package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

// Create stages an entry. A usage charge reusing a billing reference fails
// at commit with domain.ErrDuplicateCharge.
func (r *TransactionRepository) Create(_ context.Context, tx usecase.Transaction, entry *domain.TransactionEntry) error {
	mtx, err := asTx(tx)
	if err != nil {
		return err
	}

	e := copyEntry(entry)
	isCharge := e.Kind == domain.KindUsageCharge && e.BillingRef != nil

	return mtx.stage(write{
		check: func(s *Store) error {
			if _, ok := s.wallets[e.WalletID]; !ok {
				return domain.ErrWalletNotFound
			}
			if _, ok := s.entries[e.ID]; ok {
				return fmt.Errorf("transaction %s: duplicate id", e.ID)
			}
			if isCharge {
				if _, ok := s.chargeRefs[*e.BillingRef]; ok {
					return domain.ErrDuplicateCharge
				}
			}
			return nil
		},
		apply: func(s *Store) {
			s.entries[e.ID] = e
			s.walletEntries[e.WalletID] = append(s.walletEntries[e.WalletID], e.ID)
			if isCharge {
				s.chargeRefs[*e.BillingRef] = e.ID
			}
		},
	})
}

// GetByID retrieves an entry by ID.
func (r *TransactionRepository) GetByID(_ context.Context, id string) (*domain.TransactionEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.entries[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return copyEntry(e), nil
}

// GetByWallet returns a wallet's entries in the order they were applied.
func (r *TransactionRepository) GetByWallet(_ context.Context, walletID string, limit, offset int) ([]*domain.TransactionEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ids := page(r.store.walletEntries[walletID], limit, offset)
	entries := make([]*domain.TransactionEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, copyEntry(r.store.entries[id]))
	}
	return entries, nil
}

// GetByBillingRef returns the usage charge for a billing record.
func (r *TransactionRepository) GetByBillingRef(_ context.Context, billingRef string) (*domain.TransactionEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.chargeRefs[billingRef]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return copyEntry(r.store.entries[id]), nil
}

// CountByKind counts a wallet's entries of one kind.
func (r *TransactionRepository) CountByKind(_ context.Context, walletID string, kind domain.TransactionKind) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var n int64
	for _, id := range r.store.walletEntries[walletID] {
		if r.store.entries[id].Kind == kind {
			n++
		}
	}
	return n, nil
}

// GetBalanceAtTime sums the wallet's entries created at or before at.
func (r *TransactionRepository) GetBalanceAtTime(_ context.Context, walletID string, at time.Time) (decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sum := decimal.Zero
	for _, id := range r.store.walletEntries[walletID] {
		e := r.store.entries[id]
		if !e.CreatedAt.After(at) {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}
