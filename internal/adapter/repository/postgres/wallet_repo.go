package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/postgres/generated"
	"github.com/iho/gowallet/internal/usecase"
)

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	queries *generated.Queries
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(db generated.DBTX) *WalletRepository {
	return &WalletRepository{queries: generated.New(db)}
}

// Create inserts a wallet. A second wallet for the same owner fails with
// domain.ErrWalletAlreadyExists.
func (r *WalletRepository) Create(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	ownerID, err := stringToPgUUID(wallet.OwnerID)
	if err != nil {
		return err
	}

	_, err = queries.CreateWallet(ctx, generated.CreateWalletParams{
		ID:        wallet.ID,
		OwnerID:   ownerID,
		Currency:  wallet.Currency,
		Balance:   decimalToNumeric(wallet.Balance),
		Version:   wallet.Version,
		CreatedAt: timeToPgTimestamptz(wallet.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(wallet.UpdatedAt),
	})

	return mapWriteError(err)
}

// GetByID retrieves a wallet by ID.
func (r *WalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	row, err := r.queries.GetWalletByID(ctx, id)
	if err != nil {
		return nil, walletReadError(err)
	}

	return rowToWallet(row), nil
}

// GetByOwner retrieves the wallet of an owner.
func (r *WalletRepository) GetByOwner(ctx context.Context, ownerID string) (*domain.Wallet, error) {
	owner, err := stringToPgUUID(ownerID)
	if err != nil {
		return nil, domain.ErrWalletNotFound
	}

	row, err := r.queries.GetWalletByOwner(ctx, owner)
	if err != nil {
		return nil, walletReadError(err)
	}

	return rowToWallet(row), nil
}

// GetByIDForUpdate retrieves a wallet by ID with a FOR UPDATE lock.
func (r *WalletRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Wallet, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetWalletByIDForUpdate(ctx, id)
	if err != nil {
		return nil, walletReadError(err)
	}

	return rowToWallet(row), nil
}

// UpdateBalance stores a new balance and bumps the version.
func (r *WalletRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	affected, err := queries.UpdateWalletBalance(ctx, generated.UpdateWalletBalanceParams{
		ID:        id,
		Balance:   decimalToNumeric(balance),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return mapWriteError(err)
	}
	if affected == 0 {
		return domain.ErrWalletNotFound
	}

	return nil
}

// List lists wallets in creation order.
func (r *WalletRepository) List(ctx context.Context, limit, offset int) ([]*domain.Wallet, error) {
	rows, err := r.queries.ListWallets(ctx, generated.ListWalletsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	wallets := make([]*domain.Wallet, 0, len(rows))
	for _, row := range rows {
		wallets = append(wallets, rowToWallet(row))
	}

	return wallets, nil
}

func walletReadError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrWalletNotFound
	}
	return err
}

func rowToWallet(row generated.Wallet) *domain.Wallet {
	return &domain.Wallet{
		ID:        row.ID,
		OwnerID:   pgUUIDToString(row.OwnerID),
		Currency:  row.Currency,
		Balance:   numericToDecimal(row.Balance),
		Version:   row.Version,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
