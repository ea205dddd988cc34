package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/postgres/generated"
	"github.com/iho/gowallet/internal/usecase"
)

// SystemConfigRepository implements usecase.SystemConfigRepository.
type SystemConfigRepository struct {
	queries *generated.Queries
}

// NewSystemConfigRepository creates a new SystemConfigRepository.
func NewSystemConfigRepository(db generated.DBTX) *SystemConfigRepository {
	return &SystemConfigRepository{queries: generated.New(db)}
}

// Get reads the configuration row.
func (r *SystemConfigRepository) Get(ctx context.Context) (*domain.SystemConfig, error) {
	row, err := r.queries.GetSystemConfig(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, err
	}

	return &domain.SystemConfig{
		BonusEnabled: row.BonusEnabled,
		BonusAmount:  numericToDecimal(row.BonusAmount),
		BonusDetail:  row.BonusDetail,
		UpdatedAt:    row.UpdatedAt.Time,
	}, nil
}

// Upsert replaces the configuration row within a transaction.
func (r *SystemConfigRepository) Upsert(ctx context.Context, tx usecase.Transaction, cfg *domain.SystemConfig) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return queries.UpsertSystemConfig(ctx, generated.UpsertSystemConfigParams{
		BonusEnabled: cfg.BonusEnabled,
		BonusAmount:  decimalToNumeric(cfg.BonusAmount),
		BonusDetail:  cfg.BonusDetail,
		UpdatedAt:    timeToPgTimestamptz(cfg.UpdatedAt),
	})
}

// Seed inserts the configuration row unless one exists.
func (r *SystemConfigRepository) Seed(ctx context.Context, cfg *domain.SystemConfig) error {
	return r.queries.SeedSystemConfig(ctx, generated.SeedSystemConfigParams{
		BonusEnabled: cfg.BonusEnabled,
		BonusAmount:  decimalToNumeric(cfg.BonusAmount),
		BonusDetail:  cfg.BonusDetail,
		UpdatedAt:    timeToPgTimestamptz(cfg.UpdatedAt),
	})
}
