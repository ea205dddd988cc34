package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// SystemConfigUseCase manages the bonus configuration singleton.
type SystemConfigUseCase struct {
	txManager  TransactionManager
	configRepo SystemConfigRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	logger     zerolog.Logger
}

// NewSystemConfigUseCase creates a new SystemConfigUseCase.
func NewSystemConfigUseCase(
	txManager TransactionManager,
	configRepo SystemConfigRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	logger zerolog.Logger,
) *SystemConfigUseCase {
	return &SystemConfigUseCase{
		txManager:  txManager,
		configRepo: configRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		logger:     logger.With().Str("component", "system_config").Logger(),
	}
}

// UpdateSystemConfigInput represents input for replacing the configuration.
type UpdateSystemConfigInput struct {
	BonusEnabled bool
	BonusAmount  decimal.Decimal
	BonusDetail  string
}

// Get returns the current configuration.
func (uc *SystemConfigUseCase) Get(ctx context.Context) (*domain.SystemConfig, error) {
	return uc.configRepo.Get(ctx)
}

// Update replaces the configuration. Owners created before the update keep
// whatever bonus they were granted.
func (uc *SystemConfigUseCase) Update(ctx context.Context, input UpdateSystemConfigInput) (*domain.SystemConfig, error) {
	cfg := &domain.SystemConfig{
		BonusEnabled: input.BonusEnabled,
		BonusAmount:  input.BonusAmount,
		BonusDetail:  input.BonusDetail,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.configRepo.Upsert(txCtx, tx, cfg); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   "1",
		AggregateType: domain.AggregateTypeSystemConfig,
		EventType:     domain.EventTypeSystemConfigUpdated,
		Payload: map[string]any{
			"bonus_enabled": cfg.BonusEnabled,
			"bonus_amount":  cfg.BonusAmount.String(),
		},
		CreatedAt: cfg.UpdatedAt,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.logger.Info().
		Bool("bonus_enabled", cfg.BonusEnabled).
		Str("bonus_amount", cfg.BonusAmount.String()).
		Msg("system config updated")

	return cfg, nil
}

// Seed stores the startup configuration when none exists yet.
func (uc *SystemConfigUseCase) Seed(ctx context.Context, input UpdateSystemConfigInput) error {
	cfg := &domain.SystemConfig{
		BonusEnabled: input.BonusEnabled,
		BonusAmount:  input.BonusAmount,
		BonusDetail:  input.BonusDetail,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return uc.configRepo.Seed(ctx, cfg)
}
