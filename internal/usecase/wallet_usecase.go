package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
)

// WalletUseCase is the wallet store: creation and balance lookups.
type WalletUseCase struct {
	txManager       TransactionManager
	walletRepo      WalletRepository
	outboxRepo      OutboxRepository
	cache           Cache
	idGen           IDGenerator
	metrics         *metrics.Metrics
	logger          zerolog.Logger
	defaultCurrency string
}

// NewWalletUseCase creates a new WalletUseCase. cache and m may be nil.
func NewWalletUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	outboxRepo OutboxRepository,
	cache Cache,
	idGen IDGenerator,
	m *metrics.Metrics,
	logger zerolog.Logger,
	defaultCurrency string,
) *WalletUseCase {
	if defaultCurrency == "" {
		defaultCurrency = domain.DefaultCurrency
	}

	return &WalletUseCase{
		txManager:       txManager,
		walletRepo:      walletRepo,
		outboxRepo:      outboxRepo,
		cache:           cache,
		idGen:           idGen,
		metrics:         m,
		logger:          logger.With().Str("component", "wallet_store").Logger(),
		defaultCurrency: defaultCurrency,
	}
}

// CreateWalletInput represents input for creating a wallet.
type CreateWalletInput struct {
	OwnerID  string
	Currency string
}

// CreateWallet creates a zero-balance wallet for an owner that has none.
// It fails with domain.ErrWalletAlreadyExists otherwise.
func (uc *WalletUseCase) CreateWallet(ctx context.Context, input CreateWalletInput) (*domain.Wallet, error) {
	if err := domain.ValidateUUID(input.OwnerID); err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = uc.defaultCurrency
	}
	currency = domain.NormalizeCurrency(currency)
	if err := domain.ValidateCurrency(currency); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:        uc.idGen.Generate(),
		OwnerID:   input.OwnerID,
		Currency:  currency,
		Balance:   decimal.Zero,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.walletRepo.Create(txCtx, tx, wallet); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   wallet.ID,
		AggregateType: domain.AggregateTypeWallet,
		EventType:     domain.EventTypeWalletCreated,
		Payload:       domain.WalletCreatedPayload(wallet),
		CreatedAt:     now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.WalletsCreated.Inc()
	}

	uc.logger.Info().
		Str("wallet_id", wallet.ID).
		Str("owner_id", wallet.OwnerID).
		Str("currency", wallet.Currency).
		Msg("wallet created")

	uc.rememberOwner(ctx, wallet)

	return wallet, nil
}

// GetWallet retrieves a wallet by ID.
func (uc *WalletUseCase) GetWallet(ctx context.Context, id string) (*domain.Wallet, error) {
	return uc.walletRepo.GetByID(ctx, id)
}

// GetBalance returns the committed balance of a wallet.
func (uc *WalletUseCase) GetBalance(ctx context.Context, walletID string) (*domain.Balance, error) {
	wallet, err := uc.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	return &domain.Balance{
		WalletID: wallet.ID,
		Amount:   wallet.Balance,
		Currency: wallet.Currency,
		AsOf:     time.Now().UTC(),
	}, nil
}

// FindByOwner returns the wallet of an owner or domain.ErrWalletNotFound.
func (uc *WalletUseCase) FindByOwner(ctx context.Context, ownerID string) (*domain.Wallet, error) {
	if uc.cache != nil {
		walletID, err := uc.cache.Get(ctx, ownerWalletCachePrefix+ownerID)
		if err == nil && walletID != "" {
			wallet, err := uc.walletRepo.GetByID(ctx, walletID)
			if err == nil && wallet.OwnerID == ownerID {
				return wallet, nil
			}
			uc.logger.Warn().Err(err).Str("owner_id", ownerID).Msg("cached wallet lookup failed")
		}
	}

	wallet, err := uc.walletRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	uc.rememberOwner(ctx, wallet)

	return wallet, nil
}

// ListWalletsInput represents input for listing wallets.
type ListWalletsInput struct {
	Limit  int
	Offset int
}

// ListWallets lists wallets with pagination.
func (uc *WalletUseCase) ListWallets(ctx context.Context, input ListWalletsInput) ([]*domain.Wallet, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	if input.Offset < 0 {
		input.Offset = 0
	}
	return uc.walletRepo.List(ctx, input.Limit, input.Offset)
}

func (uc *WalletUseCase) rememberOwner(ctx context.Context, wallet *domain.Wallet) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Set(ctx, ownerWalletCachePrefix+wallet.OwnerID, wallet.ID, OwnerWalletCacheTTL); err != nil {
		uc.logger.Debug().Err(err).Str("owner_id", wallet.OwnerID).Msg("failed to cache owner wallet")
	}
}
