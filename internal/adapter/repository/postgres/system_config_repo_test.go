package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gowallet/internal/domain"
)

func TestSystemConfigRepositoryGet(t *testing.T) {
	updatedAt := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)

	mock := newMockPool(t)
	mock.ExpectQuery("SELECT .+ FROM system_config WHERE id = 1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "bonus_enabled", "bonus_amount", "bonus_detail", "updated_at"}).
			AddRow(int16(1), true, decimalToNumeric(decimal.RequireFromString("10.00")), "Signup bonus", timeToPgTimestamptz(updatedAt)))

	repo := NewSystemConfigRepository(mock)
	cfg, err := repo.Get(context.Background())
	require.NoError(t, err)

	assert.True(t, cfg.BonusEnabled)
	assert.True(t, cfg.BonusAmount.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "Signup bonus", cfg.BonusDetail)
	assert.True(t, cfg.UpdatedAt.Equal(updatedAt))
	assertExpectations(t, mock)
}

func TestSystemConfigRepositoryGetNotFound(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("SELECT .+ FROM system_config").WillReturnError(pgx.ErrNoRows)

	repo := NewSystemConfigRepository(mock)
	_, err := repo.Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestSystemConfigRepositoryUpsert(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO system_config .+ ON CONFLICT \\(id\\) DO UPDATE").
		WithArgs(false, pgxmock.AnyArg(), "", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := newTxManagerWithPool(mock).Begin(ctx)
	require.NoError(t, err)

	repo := NewSystemConfigRepository(mock)
	require.NoError(t, repo.Upsert(ctx, tx, &domain.SystemConfig{BonusAmount: decimal.Zero, UpdatedAt: time.Now()}))
	require.NoError(t, tx.Commit(ctx))
	assertExpectations(t, mock)
}

func TestSystemConfigRepositorySeed(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectExec("INSERT INTO system_config .+ ON CONFLICT \\(id\\) DO NOTHING").
		WithArgs(true, pgxmock.AnyArg(), "Welcome", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	repo := NewSystemConfigRepository(mock)
	err := repo.Seed(context.Background(), &domain.SystemConfig{
		BonusEnabled: true,
		BonusAmount:  decimal.NewFromInt(5),
		BonusDetail:  "Welcome",
	})
	require.NoError(t, err)
	assertExpectations(t, mock)
}

func TestSystemConfigRepositoryUpsertForeignTx(t *testing.T) {
	repo := NewSystemConfigRepository(newMockPool(t))
	err := repo.Upsert(context.Background(), nil, &domain.SystemConfig{})
	assert.ErrorIs(t, err, ErrForeignTx)
}
