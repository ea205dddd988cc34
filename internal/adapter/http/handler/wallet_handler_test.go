package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

type walletServiceStub struct {
	createFn  func(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error)
	getFn     func(ctx context.Context, id string) (*domain.Wallet, error)
	balanceFn func(ctx context.Context, walletID string) (*domain.Balance, error)
	ownerFn   func(ctx context.Context, ownerID string) (*domain.Wallet, error)
	listFn    func(ctx context.Context, input usecase.ListWalletsInput) ([]*domain.Wallet, error)
}

func (s *walletServiceStub) CreateWallet(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error) {
	return s.createFn(ctx, input)
}

func (s *walletServiceStub) GetWallet(ctx context.Context, id string) (*domain.Wallet, error) {
	return s.getFn(ctx, id)
}

func (s *walletServiceStub) GetBalance(ctx context.Context, walletID string) (*domain.Balance, error) {
	return s.balanceFn(ctx, walletID)
}

func (s *walletServiceStub) FindByOwner(ctx context.Context, ownerID string) (*domain.Wallet, error) {
	return s.ownerFn(ctx, ownerID)
}

func (s *walletServiceStub) ListWallets(ctx context.Context, input usecase.ListWalletsInput) ([]*domain.Wallet, error) {
	return s.listFn(ctx, input)
}

func TestWalletHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateWalletInput
	handler := NewWalletHandler(&walletServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error) {
			captured = input
			return &domain.Wallet{ID: "w-1", OwnerID: input.OwnerID, Currency: "USD"}, nil
		},
	})

	body, _ := json.Marshal(dto.CreateWalletRequest{OwnerID: "owner-1", Currency: "USD"})
	req := httptest.NewRequest(http.MethodPost, "/wallets", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.OwnerID != "owner-1" || captured.Currency != "USD" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.WalletResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "w-1" || resp.Balance != "0.0000" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestWalletHandler_Create_Conflict(t *testing.T) {
	handler := NewWalletHandler(&walletServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error) {
			return nil, domain.ErrWalletAlreadyExists
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/wallets", bytes.NewBufferString(`{"owner_id":"owner-1"}`))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestWalletHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewWalletHandler(&walletServiceStub{})

	req := httptest.NewRequest(http.MethodPost, "/wallets", bytes.NewBufferString(`{"owner_id":`))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestWalletHandler_Get(t *testing.T) {
	handler := NewWalletHandler(&walletServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Wallet, error) {
			if id != "w-1" {
				return nil, domain.ErrWalletNotFound
			}
			return &domain.Wallet{ID: id, Balance: decimal.RequireFromString("10")}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.Get(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/wallets/w-1", nil), "id", "w-1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.Get(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/wallets/missing", nil), "id", "missing"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.Get(rec, httptest.NewRequest(http.MethodGet, "/wallets/", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing id, got %d", rec.Code)
	}
}

func TestWalletHandler_Balance(t *testing.T) {
	handler := NewWalletHandler(&walletServiceStub{
		balanceFn: func(ctx context.Context, walletID string) (*domain.Balance, error) {
			return &domain.Balance{WalletID: walletID, Amount: decimal.RequireFromString("3"), Currency: "USD"}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.Balance(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/wallets/w-1/balance", nil), "id", "w-1"))

	var resp dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.WalletID != "w-1" || resp.Balance != "3.0000" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestWalletHandler_FindByOwner(t *testing.T) {
	handler := NewWalletHandler(&walletServiceStub{
		ownerFn: func(ctx context.Context, ownerID string) (*domain.Wallet, error) {
			return &domain.Wallet{ID: "w-1", OwnerID: ownerID}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.FindByOwner(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/owners/o-1/wallet", nil), "ownerID", "o-1"))

	var resp dto.WalletResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.OwnerID != "o-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestWalletHandler_List_PassesPagination(t *testing.T) {
	var captured usecase.ListWalletsInput
	handler := NewWalletHandler(&walletServiceStub{
		listFn: func(ctx context.Context, input usecase.ListWalletsInput) ([]*domain.Wallet, error) {
			captured = input
			return []*domain.Wallet{{ID: "w-1"}, {ID: "w-2"}}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/wallets?limit=5&offset=10", nil))

	if captured.Limit != 5 || captured.Offset != 10 {
		t.Fatalf("unexpected pagination: %+v", captured)
	}

	var resp dto.ListWalletsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 2 || len(resp.Wallets) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
