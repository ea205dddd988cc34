package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gowallet/internal/domain"
)

func TestLedgerRepositoryCheckConsistency(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("SELECT").
		WillReturnRows(pgxmock.NewRows([]string{"total_wallet_balance", "total_transaction_amount", "negative_wallets"}).
			AddRow(decimalToNumeric(decimal.RequireFromString("42.5")), decimalToNumeric(decimal.RequireFromString("42.5")), int64(0)))

	repo := NewLedgerRepository(mock)
	totalBalance, totalAmount, negative, err := repo.CheckConsistency(context.Background())
	require.NoError(t, err)

	assert.True(t, totalBalance.Equal(decimal.RequireFromString("42.5")))
	assert.True(t, totalAmount.Equal(totalBalance))
	assert.Equal(t, int64(0), negative)
	assertExpectations(t, mock)
}

func TestLedgerRepositoryCheckConsistencyError(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection reset"))

	repo := NewLedgerRepository(mock)
	_, _, _, err := repo.CheckConsistency(context.Background())
	assert.EqualError(t, err, "connection reset")
}

func TestLedgerRepositoryWalletTotals(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("FROM wallets w").
		WithArgs("w1").
		WillReturnRows(pgxmock.NewRows([]string{"balance", "entry_sum"}).
			AddRow(decimalToNumeric(decimal.RequireFromString("42.1234")), decimalToNumeric(decimal.RequireFromString("42.1234"))))

	balance, sum, err := NewLedgerRepository(mock).WalletTotals(context.Background(), "w1")
	require.NoError(t, err)
	assert.Equal(t, "42.1234", balance.String())
	assert.True(t, sum.Equal(balance))
	assertExpectations(t, mock)
}

func TestLedgerRepositoryWalletTotalsNotFound(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("FROM wallets w").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, _, err := NewLedgerRepository(mock).WalletTotals(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
}
