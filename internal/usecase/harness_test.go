package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/gowallet/internal/adapter/repository/memory"
	"github.com/iho/gowallet/internal/adapter/repository/postgres"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/lock"
	"github.com/iho/gowallet/internal/usecase"
)

// walletSystem wires every use case on the memory backend.
type walletSystem struct {
	store      *memory.Store
	walletRepo *memory.WalletRepository
	txRepo     *memory.TransactionRepository
	outboxRepo *memory.OutboxRepository
	configRepo *memory.SystemConfigRepository
	recordRepo *memory.BillingRecordRepository

	wallets      *usecase.WalletUseCase
	applier      *usecase.ApplierUseCase
	transactions *usecase.TransactionUseCase
	bonus        *usecase.BonusUseCase
	billing      *usecase.BillingUseCase
	config       *usecase.SystemConfigUseCase
	reconcile    *usecase.ReconciliationUseCase
}

func newWalletSystem(t *testing.T) *walletSystem {
	t.Helper()

	log := zerolog.Nop()
	store := memory.NewStore()
	txManager := memory.NewTxManager(store)
	idGen := postgres.NewULIDGenerator()

	s := &walletSystem{
		store:      store,
		walletRepo: memory.NewWalletRepository(store),
		txRepo:     memory.NewTransactionRepository(store),
		outboxRepo: memory.NewOutboxRepository(store),
		configRepo: memory.NewSystemConfigRepository(store),
		recordRepo: memory.NewBillingRecordRepository(store),
	}

	s.wallets = usecase.NewWalletUseCase(txManager, s.walletRepo, s.outboxRepo, nil, idGen, nil, log, "USD")
	s.applier = usecase.NewApplierUseCase(txManager, s.walletRepo, s.txRepo, s.outboxRepo, lock.NewKeyedMutex(), nil, idGen, nil, log, 0)
	s.transactions = usecase.NewTransactionUseCase(s.walletRepo, s.txRepo)
	s.bonus = usecase.NewBonusUseCase(s.wallets, s.applier, s.configRepo, s.txRepo, nil, log)
	s.billing = usecase.NewBillingUseCase(txManager, s.recordRepo, s.txRepo, s.outboxRepo, s.wallets, s.applier, idGen, nil, log)
	s.config = usecase.NewSystemConfigUseCase(txManager, s.configRepo, s.outboxRepo, idGen, log)
	s.reconcile = usecase.NewReconciliationUseCase(s.walletRepo, memory.NewLedgerRepository(store), nil, log)

	return s
}

// setBonus replaces the system configuration.
func (s *walletSystem) setBonus(t *testing.T, enabled bool, amount string) {
	t.Helper()

	_, err := s.config.Update(context.Background(), usecase.UpdateSystemConfigInput{
		BonusEnabled: enabled,
		BonusAmount:  decimal.RequireFromString(amount),
		BonusDetail:  "Signup bonus",
	})
	require.NoError(t, err)
}

// newFundedWallet creates a wallet for a fresh owner and credits it.
func (s *walletSystem) newFundedWallet(t *testing.T, amount string) *domain.Wallet {
	t.Helper()

	ctx := context.Background()
	wallet, err := s.wallets.CreateWallet(ctx, usecase.CreateWalletInput{OwnerID: uuid.NewString()})
	require.NoError(t, err)

	if amount != "" && amount != "0" {
		_, err = s.applier.Apply(ctx, usecase.ApplyInput{
			WalletID: wallet.ID,
			Amount:   decimal.RequireFromString(amount),
			Kind:     domain.KindTopUp,
			Detail:   "test funds",
		})
		require.NoError(t, err)
	}

	fresh, err := s.walletRepo.GetByID(ctx, wallet.ID)
	require.NoError(t, err)
	return fresh
}

func (s *walletSystem) balance(t *testing.T, walletID string) decimal.Decimal {
	t.Helper()

	b, err := s.wallets.GetBalance(context.Background(), walletID)
	require.NoError(t, err)
	return b.Amount
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// requireDecimal compares decimals by value, ignoring scale.
func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}
