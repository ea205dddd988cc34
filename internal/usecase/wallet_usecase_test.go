package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
	"github.com/iho/gowallet/internal/usecase/mocks"
)

func TestWalletUseCase_CreateWallet(t *testing.T) {
	s := newWalletSystem(t)
	ctx := context.Background()
	ownerID := uuid.NewString()

	wallet, err := s.wallets.CreateWallet(ctx, usecase.CreateWalletInput{OwnerID: ownerID, Currency: " eur "})
	require.NoError(t, err)
	assert.NotEmpty(t, wallet.ID)
	assert.Equal(t, ownerID, wallet.OwnerID)
	assert.Equal(t, "EUR", wallet.Currency)
	assert.True(t, wallet.Balance.IsZero())

	found, err := s.wallets.FindByOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, wallet.ID, found.ID)

	events, err := s.outboxRepo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventTypeWalletCreated, events[0].EventType)
}

func TestWalletUseCase_CreateWalletDefaultsCurrency(t *testing.T) {
	s := newWalletSystem(t)

	wallet, err := s.wallets.CreateWallet(context.Background(), usecase.CreateWalletInput{OwnerID: uuid.NewString()})
	require.NoError(t, err)
	assert.Equal(t, "USD", wallet.Currency)
}

func TestWalletUseCase_CreateWalletErrors(t *testing.T) {
	s := newWalletSystem(t)
	ownerID := uuid.NewString()
	_, err := s.wallets.CreateWallet(context.Background(), usecase.CreateWalletInput{OwnerID: ownerID})
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   usecase.CreateWalletInput
		wantErr error
	}{
		{name: "second wallet for owner", input: usecase.CreateWalletInput{OwnerID: ownerID}, wantErr: domain.ErrWalletAlreadyExists},
		{name: "owner is not a uuid", input: usecase.CreateWalletInput{OwnerID: "owner"}, wantErr: domain.ErrInvalidIDFormat},
		{name: "unknown currency", input: usecase.CreateWalletInput{OwnerID: uuid.NewString(), Currency: "XYZ"}, wantErr: domain.ErrInvalidCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.wallets.CreateWallet(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestWalletUseCase_ConcurrentCreateKeepsOneWallet(t *testing.T) {
	s := newWalletSystem(t)
	ownerID := uuid.NewString()

	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := s.wallets.CreateWallet(context.Background(), usecase.CreateWalletInput{OwnerID: ownerID})
			errs <- err
		}()
	}

	var created int
	for i := 0; i < 8; i++ {
		if err := <-errs; err == nil {
			created++
		} else {
			require.ErrorIs(t, err, domain.ErrWalletAlreadyExists)
		}
	}
	assert.Equal(t, 1, created)

	wallets, err := s.wallets.ListWallets(context.Background(), usecase.ListWalletsInput{})
	require.NoError(t, err)
	assert.Len(t, wallets, 1)
}

func TestWalletUseCase_GetAndBalance(t *testing.T) {
	s := newWalletSystem(t)
	ctx := context.Background()
	wallet := s.newFundedWallet(t, "12.5")

	got, err := s.wallets.GetWallet(ctx, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, wallet.OwnerID, got.OwnerID)

	balance, err := s.wallets.GetBalance(ctx, wallet.ID)
	require.NoError(t, err)
	requireDecimal(t, "12.5", balance.Amount)
	assert.Equal(t, "USD", balance.Currency)

	_, err = s.wallets.GetBalance(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrWalletNotFound)

	_, err = s.wallets.FindByOwner(ctx, uuid.NewString())
	require.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestWalletUseCase_ListWalletsPages(t *testing.T) {
	s := newWalletSystem(t)
	for i := 0; i < 3; i++ {
		s.newFundedWallet(t, "")
	}

	page, err := s.wallets.ListWallets(context.Background(), usecase.ListWalletsInput{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)

	page, err = s.wallets.ListWallets(context.Background(), usecase.ListWalletsInput{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestWalletUseCase_ListWalletsClampsLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	walletRepo := mocks.NewMockWalletRepository(ctrl)
	walletRepo.EXPECT().List(gomock.Any(), 100, 0).Return(nil, nil)
	walletRepo.EXPECT().List(gomock.Any(), 20, 0).Return(nil, nil)

	uc := usecase.NewWalletUseCase(nil, walletRepo, nil, nil, nil, nil, zerolog.Nop(), "")

	_, err := uc.ListWallets(context.Background(), usecase.ListWalletsInput{Limit: 1000, Offset: -5})
	require.NoError(t, err)
	_, err = uc.ListWallets(context.Background(), usecase.ListWalletsInput{})
	require.NoError(t, err)
}

func TestWalletUseCase_FindByOwnerUsesCache(t *testing.T) {
	ownerID := uuid.NewString()
	wallet := &domain.Wallet{ID: "wallet-1", OwnerID: ownerID}

	t.Run("cache hit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cache := mocks.NewMockCache(ctrl)
		walletRepo := mocks.NewMockWalletRepository(ctrl)

		cache.EXPECT().Get(gomock.Any(), "owner-wallet:"+ownerID).Return("wallet-1", nil)
		walletRepo.EXPECT().GetByID(gomock.Any(), "wallet-1").Return(wallet, nil)

		uc := usecase.NewWalletUseCase(nil, walletRepo, nil, cache, nil, nil, zerolog.Nop(), "")

		got, err := uc.FindByOwner(context.Background(), ownerID)
		require.NoError(t, err)
		assert.Equal(t, "wallet-1", got.ID)
	})

	t.Run("cache miss fills cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cache := mocks.NewMockCache(ctrl)
		walletRepo := mocks.NewMockWalletRepository(ctrl)

		cache.EXPECT().Get(gomock.Any(), "owner-wallet:"+ownerID).Return("", errors.New("redis: nil"))
		walletRepo.EXPECT().GetByOwner(gomock.Any(), ownerID).Return(wallet, nil)
		cache.EXPECT().Set(gomock.Any(), "owner-wallet:"+ownerID, "wallet-1", usecase.OwnerWalletCacheTTL).Return(nil)

		uc := usecase.NewWalletUseCase(nil, walletRepo, nil, cache, nil, nil, zerolog.Nop(), "")

		got, err := uc.FindByOwner(context.Background(), ownerID)
		require.NoError(t, err)
		assert.Equal(t, "wallet-1", got.ID)
	})

	t.Run("stale cache entry falls back", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cache := mocks.NewMockCache(ctrl)
		walletRepo := mocks.NewMockWalletRepository(ctrl)

		cache.EXPECT().Get(gomock.Any(), "owner-wallet:"+ownerID).Return("gone", nil)
		walletRepo.EXPECT().GetByID(gomock.Any(), "gone").Return(nil, domain.ErrWalletNotFound)
		walletRepo.EXPECT().GetByOwner(gomock.Any(), ownerID).Return(wallet, nil)
		cache.EXPECT().Set(gomock.Any(), gomock.Any(), "wallet-1", gomock.Any()).Return(errors.New("redis down"))

		uc := usecase.NewWalletUseCase(nil, walletRepo, nil, cache, nil, nil, zerolog.Nop(), "")

		got, err := uc.FindByOwner(context.Background(), ownerID)
		require.NoError(t, err)
		assert.Equal(t, "wallet-1", got.ID)
	})
}
