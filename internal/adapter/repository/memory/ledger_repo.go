package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// CheckConsistency returns the sum of balances, the sum of entry amounts and
// the number of negative wallets from one consistent snapshot.
func (r *LedgerRepository) CheckConsistency(_ context.Context) (decimal.Decimal, decimal.Decimal, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	totalBalance := decimal.Zero
	var negative int64
	for _, w := range r.store.wallets {
		totalBalance = totalBalance.Add(w.Balance)
		if w.Balance.IsNegative() {
			negative++
		}
	}

	totalAmount := decimal.Zero
	for _, e := range r.store.entries {
		totalAmount = totalAmount.Add(e.Amount)
	}

	return totalBalance, totalAmount, negative, nil
}

// WalletTotals returns the wallet's balance and the sum of its entries under
// one read lock.
func (r *LedgerRepository) WalletTotals(_ context.Context, walletID string) (decimal.Decimal, decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	w, ok := r.store.wallets[walletID]
	if !ok {
		return decimal.Zero, decimal.Zero, domain.ErrWalletNotFound
	}

	sum := decimal.Zero
	for _, id := range r.store.walletEntries[walletID] {
		sum = sum.Add(r.store.entries[id].Amount)
	}
	return w.Balance, sum, nil
}
