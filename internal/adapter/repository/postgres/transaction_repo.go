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

// TransactionRepository implements usecase.TransactionRepository over the
// append-only wallet_transactions table.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// Create inserts an entry. Charging the same billing record twice fails with
// domain.ErrDuplicateCharge.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.TransactionEntry) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	billingRef, err := optionalPgUUID(entry.BillingRef)
	if err != nil {
		return err
	}

	err = queries.CreateWalletTransaction(ctx, generated.CreateWalletTransactionParams{
		ID:           entry.ID,
		WalletID:     entry.WalletID,
		Amount:       decimalToNumeric(entry.Amount),
		Kind:         string(entry.Kind),
		Detail:       entry.Detail,
		BillingRef:   billingRef,
		BalanceAfter: decimalToNumeric(entry.BalanceAfter),
		CreatedAt:    timeToPgTimestamptz(entry.CreatedAt),
	})

	return mapWriteError(err)
}

// GetByID retrieves an entry by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.TransactionEntry, error) {
	row, err := r.queries.GetWalletTransactionByID(ctx, id)
	if err != nil {
		return nil, entryReadError(err)
	}

	return rowToEntry(row), nil
}

// GetByWallet lists a wallet's entries in the order they were applied.
func (r *TransactionRepository) GetByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.TransactionEntry, error) {
	rows, err := r.queries.ListWalletTransactions(ctx, generated.ListWalletTransactionsParams{
		WalletID: walletID,
		Limit:    int32(limit),
		Offset:   int32(offset),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.TransactionEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries, nil
}

// GetByBillingRef retrieves the usage charge for a billing record.
func (r *TransactionRepository) GetByBillingRef(ctx context.Context, billingRef string) (*domain.TransactionEntry, error) {
	ref, err := stringToPgUUID(billingRef)
	if err != nil {
		return nil, err
	}

	row, err := r.queries.GetUsageChargeByBillingRef(ctx, ref)
	if err != nil {
		return nil, entryReadError(err)
	}

	return rowToEntry(row), nil
}

// CountByKind counts a wallet's entries of one kind.
func (r *TransactionRepository) CountByKind(ctx context.Context, walletID string, kind domain.TransactionKind) (int64, error) {
	return r.queries.CountWalletTransactionsByKind(ctx, generated.CountWalletTransactionsByKindParams{
		WalletID: walletID,
		Kind:     string(kind),
	})
}

// GetBalanceAtTime sums the wallet's entries created at or before at.
func (r *TransactionRepository) GetBalanceAtTime(ctx context.Context, walletID string, at time.Time) (decimal.Decimal, error) {
	balance, err := r.queries.GetWalletBalanceAtTime(ctx, generated.GetWalletBalanceAtTimeParams{
		WalletID:  walletID,
		CreatedAt: timeToPgTimestamptz(at),
	})
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(balance), nil
}

func entryReadError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrTransactionNotFound
	}
	return err
}

func rowToEntry(row generated.WalletTransaction) *domain.TransactionEntry {
	return &domain.TransactionEntry{
		ID:           row.ID,
		WalletID:     row.WalletID,
		Amount:       numericToDecimal(row.Amount),
		Kind:         domain.TransactionKind(row.Kind),
		Detail:       row.Detail,
		BillingRef:   pgUUIDToOptional(row.BillingRef),
		BalanceAfter: numericToDecimal(row.BalanceAfter),
		CreatedAt:    row.CreatedAt.Time,
	}
}
