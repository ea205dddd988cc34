package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	store *Store
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(store *Store) *WalletRepository {
	return &WalletRepository{store: store}
}

// Create stages a new wallet. Owner uniqueness is checked at commit.
func (r *WalletRepository) Create(_ context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
	mtx, err := asTx(tx)
	if err != nil {
		return err
	}

	w := copyWallet(wallet)

	return mtx.stage(write{
		check: func(s *Store) error {
			if _, ok := s.owners[w.OwnerID]; ok {
				return domain.ErrWalletAlreadyExists
			}
			if _, ok := s.wallets[w.ID]; ok {
				return fmt.Errorf("wallet %s: duplicate id", w.ID)
			}
			return nil
		},
		apply: func(s *Store) {
			s.wallets[w.ID] = w
			s.walletOrder = append(s.walletOrder, w.ID)
			s.owners[w.OwnerID] = w.ID
		},
	})
}

// GetByID retrieves a wallet by ID.
func (r *WalletRepository) GetByID(_ context.Context, id string) (*domain.Wallet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	w, ok := r.store.wallets[id]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	return copyWallet(w), nil
}

// GetByOwner retrieves the wallet of an owner.
func (r *WalletRepository) GetByOwner(_ context.Context, ownerID string) (*domain.Wallet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.owners[ownerID]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	return copyWallet(r.store.wallets[id]), nil
}

// GetByIDForUpdate locks the wallet row for the rest of the transaction.
func (r *WalletRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Wallet, error) {
	mtx, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := mtx.holdRow(ctx, id); err != nil {
		return nil, err
	}

	// Re-read after the lock so the caller sees the latest committed balance.
	return r.GetByID(ctx, id)
}

// UpdateBalance stages a balance change and bumps the version.
func (r *WalletRepository) UpdateBalance(_ context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	mtx, err := asTx(tx)
	if err != nil {
		return err
	}

	return mtx.stage(write{
		check: func(s *Store) error {
			if _, ok := s.wallets[id]; !ok {
				return domain.ErrWalletNotFound
			}
			if balance.IsNegative() {
				return fmt.Errorf("wallet %s: %w", id, domain.ErrInsufficientFunds)
			}
			return nil
		},
		apply: func(s *Store) {
			w := s.wallets[id]
			w.Balance = balance
			w.Version++
			w.UpdatedAt = updatedAt
		},
	})
}

// List returns wallets in creation order.
func (r *WalletRepository) List(_ context.Context, limit, offset int) ([]*domain.Wallet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ids := page(r.store.walletOrder, limit, offset)
	wallets := make([]*domain.Wallet, 0, len(ids))
	for _, id := range ids {
		wallets = append(wallets, copyWallet(r.store.wallets[id]))
	}
	return wallets, nil
}

func page(ids []string, limit, offset int) []string {
	if offset >= len(ids) {
		return nil
	}
	end := len(ids)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return ids[offset:end]
}
