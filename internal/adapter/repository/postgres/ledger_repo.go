package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// CheckConsistency returns the sum of all balances, the sum of all entry
// amounts and the number of negative wallets, read in one statement.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (decimal.Decimal, decimal.Decimal, int64, error) {
	result, err := r.queries.CheckLedgerConsistency(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, 0, err
	}

	return numericToDecimal(result.TotalWalletBalance),
		numericToDecimal(result.TotalTransactionAmount),
		result.NegativeWallets,
		nil
}

// WalletTotals returns the wallet's balance and the sum of its entries, read
// in one statement so a concurrent apply is seen by both or neither.
func (r *LedgerRepository) WalletTotals(ctx context.Context, walletID string) (decimal.Decimal, decimal.Decimal, error) {
	row, err := r.queries.GetWalletTotals(ctx, walletID)
	if err != nil {
		return decimal.Zero, decimal.Zero, walletReadError(err)
	}

	return numericToDecimal(row.Balance), numericToDecimal(row.EntrySum), nil
}
