package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
)

// BonusUseCase provisions a wallet for a newly registered owner and grants
// the configured signup credit.
type BonusUseCase struct {
	wallets    WalletProvisioner
	applier    EntryApplier
	configRepo SystemConfigRepository
	txRepo     TransactionRepository
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewBonusUseCase creates a new BonusUseCase. m may be nil.
func NewBonusUseCase(
	wallets WalletProvisioner,
	applier EntryApplier,
	configRepo SystemConfigRepository,
	txRepo TransactionRepository,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *BonusUseCase {
	return &BonusUseCase{
		wallets:    wallets,
		applier:    applier,
		configRepo: configRepo,
		txRepo:     txRepo,
		metrics:    m,
		logger:     logger.With().Str("component", "bonus_issuer").Logger(),
	}
}

// BonusResult is the outcome of OnOwnerCreated. Entry is nil when no bonus
// was granted.
type BonusResult struct {
	Wallet *domain.Wallet
	Entry  *domain.TransactionEntry
}

// OnOwnerCreated ensures the owner has a wallet and, when enabled, credits
// the signup bonus. Calling it again for the same owner never grants a
// second bonus.
func (uc *BonusUseCase) OnOwnerCreated(ctx context.Context, ownerID string) (*BonusResult, error) {
	wallet, existed, err := uc.ensureWallet(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	result := &BonusResult{Wallet: wallet}

	cfg, err := uc.configRepo.Get(ctx)
	if errors.Is(err, domain.ErrConfigNotFound) {
		uc.logger.Debug().Str("owner_id", ownerID).Msg("no system config, bonus disabled")
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}

	if !cfg.GrantsBonus() {
		return result, nil
	}

	if existed {
		count, err := uc.txRepo.CountByKind(ctx, wallet.ID, domain.KindInitialCredit)
		if err != nil {
			return nil, fmt.Errorf("failed to check previous bonus: %w", err)
		}
		if count > 0 {
			uc.logger.Info().Str("owner_id", ownerID).Str("wallet_id", wallet.ID).Msg("bonus already granted")
			return result, nil
		}
	}

	entry, err := uc.applier.Apply(ctx, ApplyInput{
		WalletID: wallet.ID,
		Amount:   cfg.BonusAmount,
		Kind:     domain.KindInitialCredit,
		Detail:   cfg.BonusDetail,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply bonus: %w", err)
	}

	walletCopy := *wallet
	walletCopy.Balance = entry.BalanceAfter
	walletCopy.Version++
	walletCopy.UpdatedAt = entry.CreatedAt
	result.Wallet = &walletCopy
	result.Entry = entry

	if uc.metrics != nil {
		uc.metrics.BonusesIssued.Inc()
		uc.metrics.BonusAmount.Observe(entry.Amount.InexactFloat64())
	}

	uc.logger.Info().
		Str("owner_id", ownerID).
		Str("wallet_id", wallet.ID).
		Str("amount", entry.Amount.String()).
		Msg("signup bonus granted")

	return result, nil
}

// ensureWallet creates the owner's wallet or loads the existing one.
func (uc *BonusUseCase) ensureWallet(ctx context.Context, ownerID string) (*domain.Wallet, bool, error) {
	wallet, err := uc.wallets.CreateWallet(ctx, CreateWalletInput{OwnerID: ownerID})
	if err == nil {
		return wallet, false, nil
	}
	if !errors.Is(err, domain.ErrWalletAlreadyExists) {
		return nil, false, err
	}

	wallet, err = uc.wallets.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, false, err
	}
	return wallet, true, nil
}
