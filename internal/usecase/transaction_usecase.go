package usecase

import (
	"context"
	"time"

	"github.com/iho/gowallet/internal/domain"
)

// TransactionUseCase reads the append-only transaction log.
type TransactionUseCase struct {
	walletRepo WalletRepository
	txRepo     TransactionRepository
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(walletRepo WalletRepository, txRepo TransactionRepository) *TransactionUseCase {
	return &TransactionUseCase{
		walletRepo: walletRepo,
		txRepo:     txRepo,
	}
}

// ListTransactionsInput represents input for listing a wallet's entries.
type ListTransactionsInput struct {
	WalletID string
	Limit    int
	Offset   int
}

// ListByWallet returns entries of a wallet in the order they were applied.
func (uc *TransactionUseCase) ListByWallet(ctx context.Context, input ListTransactionsInput) ([]*domain.TransactionEntry, error) {
	if _, err := uc.walletRepo.GetByID(ctx, input.WalletID); err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.txRepo.GetByWallet(ctx, input.WalletID, limit, offset)
}

// GetEntry retrieves a single entry by ID.
func (uc *TransactionUseCase) GetEntry(ctx context.Context, id string) (*domain.TransactionEntry, error) {
	return uc.txRepo.GetByID(ctx, id)
}

// GetBalanceAtTime returns the sum of the wallet's entries created at or
// before the given time.
func (uc *TransactionUseCase) GetBalanceAtTime(ctx context.Context, walletID string, at time.Time) (*domain.Balance, error) {
	if at.IsZero() {
		return nil, domain.ErrInvalidTimestamp
	}

	wallet, err := uc.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	amount, err := uc.txRepo.GetBalanceAtTime(ctx, walletID, at)
	if err != nil {
		return nil, err
	}

	return &domain.Balance{
		WalletID: wallet.ID,
		Amount:   amount,
		Currency: wallet.Currency,
		AsOf:     at.UTC(),
	}, nil
}
