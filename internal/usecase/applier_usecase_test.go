package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
	"github.com/iho/gowallet/internal/usecase/mocks"
)

func TestApplierUseCase_CreditAndDebit(t *testing.T) {
	s := newWalletSystem(t)
	ctx := context.Background()
	wallet := s.newFundedWallet(t, "")

	credit, err := s.applier.Apply(ctx, usecase.ApplyInput{
		WalletID: wallet.ID,
		Amount:   dec("10.00"),
		Kind:     domain.KindTopUp,
		Detail:   "top up",
	})
	require.NoError(t, err)
	requireDecimal(t, "10", credit.BalanceAfter)

	debit, err := s.applier.Apply(ctx, usecase.ApplyInput{
		WalletID: wallet.ID,
		Amount:   dec("-7.00"),
		Kind:     domain.KindUsageCharge,
		Detail:   "usage",
	})
	require.NoError(t, err)
	requireDecimal(t, "3", debit.BalanceAfter)
	requireDecimal(t, "3", s.balance(t, wallet.ID))

	entries, err := s.transactions.ListByWallet(ctx, usecase.ListTransactionsInput{WalletID: wallet.ID})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, credit.ID, entries[0].ID)
	assert.Equal(t, debit.ID, entries[1].ID)

	audit, err := s.reconcile.ReconcileWallet(ctx, wallet.ID)
	require.NoError(t, err)
	assert.True(t, audit.IsReconciled)
	requireDecimal(t, "3", audit.CalculatedBalance)
}

func TestApplierUseCase_InsufficientFundsLeavesWalletUntouched(t *testing.T) {
	s := newWalletSystem(t)
	ctx := context.Background()
	wallet := s.newFundedWallet(t, "3")

	_, err := s.applier.Apply(ctx, usecase.ApplyInput{
		WalletID: wallet.ID,
		Amount:   dec("-5"),
		Kind:     domain.KindUsageCharge,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	var insufficient *domain.InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, wallet.ID, insufficient.WalletID)
	requireDecimal(t, "3", insufficient.Balance)
	requireDecimal(t, "-5", insufficient.Amount)

	requireDecimal(t, "3", s.balance(t, wallet.ID))

	entries, err := s.transactions.ListByWallet(ctx, usecase.ListTransactionsInput{WalletID: wallet.ID})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestApplierUseCase_DebitToExactlyZero(t *testing.T) {
	s := newWalletSystem(t)
	wallet := s.newFundedWallet(t, "5")

	entry, err := s.applier.Apply(context.Background(), usecase.ApplyInput{
		WalletID: wallet.ID,
		Amount:   dec("-5"),
		Kind:     domain.KindUsageCharge,
	})
	require.NoError(t, err)
	assert.True(t, entry.BalanceAfter.IsZero())
}

func TestApplierUseCase_ZeroAmountIsRecorded(t *testing.T) {
	s := newWalletSystem(t)
	ctx := context.Background()
	wallet := s.newFundedWallet(t, "")

	entry, err := s.applier.Apply(ctx, usecase.ApplyInput{
		WalletID: wallet.ID,
		Amount:   decimal.Zero,
		Kind:     domain.KindUsageCharge,
	})
	require.NoError(t, err)
	assert.True(t, entry.BalanceAfter.IsZero())

	count, err := s.txRepo.CountByKind(ctx, wallet.ID, domain.KindUsageCharge)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestApplierUseCase_SignMismatchIsAccepted(t *testing.T) {
	s := newWalletSystem(t)
	wallet := s.newFundedWallet(t, "10")

	entry, err := s.applier.Apply(context.Background(), usecase.ApplyInput{
		WalletID: wallet.ID,
		Amount:   dec("-2"),
		Kind:     domain.KindRefund,
	})
	require.NoError(t, err)
	requireDecimal(t, "8", entry.BalanceAfter)
}

func TestApplierUseCase_Validation(t *testing.T) {
	s := newWalletSystem(t)
	wallet := s.newFundedWallet(t, "")
	badRef := "not-a-uuid"

	tests := []struct {
		name    string
		input   usecase.ApplyInput
		wantErr error
	}{
		{
			name:    "missing wallet id",
			input:   usecase.ApplyInput{Amount: dec("1"), Kind: domain.KindTopUp},
			wantErr: domain.ErrWalletNotFound,
		},
		{
			name:    "unknown wallet",
			input:   usecase.ApplyInput{WalletID: "missing", Amount: dec("1"), Kind: domain.KindTopUp},
			wantErr: domain.ErrWalletNotFound,
		},
		{
			name:    "unknown kind",
			input:   usecase.ApplyInput{WalletID: wallet.ID, Amount: dec("1"), Kind: "gift"},
			wantErr: domain.ErrInvalidKind,
		},
		{
			name:    "too many decimals",
			input:   usecase.ApplyInput{WalletID: wallet.ID, Amount: dec("1.00001"), Kind: domain.KindTopUp},
			wantErr: domain.ErrAmountPrecision,
		},
		{
			name:    "amount too large",
			input:   usecase.ApplyInput{WalletID: wallet.ID, Amount: dec("1000000001"), Kind: domain.KindTopUp},
			wantErr: domain.ErrAmountTooLarge,
		},
		{
			name:    "detail too long",
			input:   usecase.ApplyInput{WalletID: wallet.ID, Amount: dec("1"), Kind: domain.KindTopUp, Detail: strings.Repeat("x", domain.MaxDetailLength+1)},
			wantErr: domain.ErrDetailTooLong,
		},
		{
			name:    "billing ref is not a uuid",
			input:   usecase.ApplyInput{WalletID: wallet.ID, Amount: dec("-1"), Kind: domain.KindUsageCharge, BillingRef: &badRef},
			wantErr: domain.ErrInvalidIDFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.applier.Apply(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	requireDecimal(t, "0", s.balance(t, wallet.ID))
}

func TestApplierUseCase_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	s := newWalletSystem(t)
	ctx := context.Background()
	wallet := s.newFundedWallet(t, "7.5")

	const workers = 20
	var (
		wg           sync.WaitGroup
		successes    atomic.Int64
		insufficient atomic.Int64
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.applier.Apply(ctx, usecase.ApplyInput{
				WalletID: wallet.ID,
				Amount:   dec("-1"),
				Kind:     domain.KindUsageCharge,
			})
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, domain.ErrInsufficientFunds):
				insufficient.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(7), successes.Load())
	assert.Equal(t, int64(workers-7), insufficient.Load())
	requireDecimal(t, "0.5", s.balance(t, wallet.ID))

	result, err := s.reconcile.ReconcileWallet(ctx, wallet.ID)
	require.NoError(t, err)
	assert.True(t, result.IsReconciled)
}

func TestApplierUseCase_ConcurrentMixedEntriesMatchLog(t *testing.T) {
	s := newWalletSystem(t)
	ctx := context.Background()
	wallet := s.newFundedWallet(t, "50")

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			input := usecase.ApplyInput{WalletID: wallet.ID, Amount: dec("-3"), Kind: domain.KindUsageCharge}
			if i%2 == 0 {
				input = usecase.ApplyInput{WalletID: wallet.ID, Amount: dec("2"), Kind: domain.KindTopUp}
			}
			_, _ = s.applier.Apply(ctx, input)
		}(i)
	}
	wg.Wait()

	assert.False(t, s.balance(t, wallet.ID).IsNegative())

	consistency, err := s.reconcile.CheckLedgerConsistency(ctx)
	require.NoError(t, err)
	assert.True(t, consistency.Consistent)
}

func TestApplierUseCase_LockTimeoutIsRetryable(t *testing.T) {
	ctrl := gomock.NewController(t)

	locker := mocks.NewMockWalletLocker(ctrl)
	locker.EXPECT().Lock(gomock.Any(), "wallet-1").Return(nil, context.DeadlineExceeded)

	applier := usecase.NewApplierUseCase(
		mocks.NewMockTransactionManager(ctrl),
		mocks.NewMockWalletRepository(ctrl),
		mocks.NewMockTransactionRepository(ctrl),
		mocks.NewMockOutboxRepository(ctrl),
		locker, nil, mocks.NewMockIDGenerator(ctrl), nil, zerolog.Nop(), 10*time.Millisecond,
	)

	_, err := applier.Apply(context.Background(), usecase.ApplyInput{
		WalletID: "wallet-1",
		Amount:   dec("-1"),
		Kind:     domain.KindUsageCharge,
	})
	require.ErrorIs(t, err, domain.ErrWalletBusy)
	assert.True(t, domain.IsRetryable(err))
}

func TestApplierUseCase_CallerCancellationIsReported(t *testing.T) {
	ctrl := gomock.NewController(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	locker := mocks.NewMockWalletLocker(ctrl)
	locker.EXPECT().Lock(gomock.Any(), "wallet-1").Return(nil, context.Canceled)

	applier := usecase.NewApplierUseCase(
		mocks.NewMockTransactionManager(ctrl),
		mocks.NewMockWalletRepository(ctrl),
		mocks.NewMockTransactionRepository(ctrl),
		mocks.NewMockOutboxRepository(ctrl),
		locker, nil, mocks.NewMockIDGenerator(ctrl), nil, zerolog.Nop(), time.Second,
	)

	_, err := applier.Apply(ctx, usecase.ApplyInput{WalletID: "wallet-1", Amount: dec("1"), Kind: domain.KindTopUp})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, domain.ErrWalletBusy))
}

func TestApplierUseCase_FailedWriteRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)

	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	walletRepo := mocks.NewMockWalletRepository(ctrl)
	txRepo := mocks.NewMockTransactionRepository(ctrl)
	outboxRepo := mocks.NewMockOutboxRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	locker := mocks.NewMockWalletLocker(ctrl)

	unlocked := false
	locker.EXPECT().Lock(gomock.Any(), "wallet-1").Return(func() { unlocked = true }, nil)
	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	walletRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, "wallet-1").
		Return(&domain.Wallet{ID: "wallet-1", Balance: dec("10")}, nil)
	idGen.EXPECT().Generate().Return("entry-1")
	txRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil)
	walletRepo.EXPECT().UpdateBalance(gomock.Any(), tx, "wallet-1", gomock.Any(), gomock.Any()).
		Return(errors.New("disk full"))
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	applier := usecase.NewApplierUseCase(txManager, walletRepo, txRepo, outboxRepo, locker, nil, idGen, nil, zerolog.Nop(), time.Second)

	_, err := applier.Apply(context.Background(), usecase.ApplyInput{WalletID: "wallet-1", Amount: dec("-4"), Kind: domain.KindUsageCharge})
	require.EqualError(t, err, "disk full")
	assert.True(t, unlocked)
}

func TestApplierUseCase_WritesEntryBalanceAndEvent(t *testing.T) {
	ctrl := gomock.NewController(t)

	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	walletRepo := mocks.NewMockWalletRepository(ctrl)
	txRepo := mocks.NewMockTransactionRepository(ctrl)
	outboxRepo := mocks.NewMockOutboxRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	locker := mocks.NewMockWalletLocker(ctrl)
	retrier := mocks.NewMockRetrier(ctrl)

	locker.EXPECT().Lock(gomock.Any(), "wallet-1").Return(func() {}, nil)
	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, op func() error) error { return op() },
	)
	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	walletRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, "wallet-1").
		Return(&domain.Wallet{ID: "wallet-1", Balance: dec("10")}, nil)
	idGen.EXPECT().Generate().Return("entry-1")
	idGen.EXPECT().Generate().Return("event-1")
	txRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ usecase.Transaction, e *domain.TransactionEntry) error {
			assert.Equal(t, "entry-1", e.ID)
			requireDecimal(t, "13", e.BalanceAfter)
			return nil
		},
	)
	walletRepo.EXPECT().UpdateBalance(gomock.Any(), tx, "wallet-1", gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ usecase.Transaction, _ string, balance decimal.Decimal, _ time.Time) error {
			requireDecimal(t, "13", balance)
			return nil
		},
	)
	outboxRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ usecase.Transaction, ev *domain.OutboxEvent) error {
			assert.Equal(t, domain.EventTypeTransactionApplied, ev.EventType)
			assert.Equal(t, "wallet-1", ev.AggregateID)
			return nil
		},
	)
	tx.EXPECT().Commit(gomock.Any()).Return(nil)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	applier := usecase.NewApplierUseCase(txManager, walletRepo, txRepo, outboxRepo, locker, retrier, idGen, nil, zerolog.Nop(), time.Second)

	entry, err := applier.Apply(context.Background(), usecase.ApplyInput{WalletID: "wallet-1", Amount: dec("3"), Kind: domain.KindRefund})
	require.NoError(t, err)
	assert.Equal(t, domain.KindRefund, entry.Kind)
}
