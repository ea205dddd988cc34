package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/usecase"
)

type reconciliationStub struct {
	reconcileFn   func(ctx context.Context, walletID string) (*usecase.ReconciliationResult, error)
	consistencyFn func(ctx context.Context) (*usecase.LedgerConsistency, error)
}

func (s *reconciliationStub) ReconcileWallet(ctx context.Context, walletID string) (*usecase.ReconciliationResult, error) {
	return s.reconcileFn(ctx, walletID)
}

func (s *reconciliationStub) CheckLedgerConsistency(ctx context.Context) (*usecase.LedgerConsistency, error) {
	return s.consistencyFn(ctx)
}

func TestLedgerHandler_CheckConsistency(t *testing.T) {
	tests := []struct {
		name     string
		result   *usecase.LedgerConsistency
		err      error
		expected int
		status   string
	}{
		{
			name:     "consistent",
			result:   &usecase.LedgerConsistency{TotalBalance: decimal.NewFromInt(5), TotalAmount: decimal.NewFromInt(5), Consistent: true},
			expected: http.StatusOK,
			status:   "consistent",
		},
		{
			name:     "inconsistent",
			result:   &usecase.LedgerConsistency{TotalBalance: decimal.NewFromInt(5), TotalAmount: decimal.NewFromInt(4)},
			err:      fmt.Errorf("%w: mismatch", usecase.ErrInconsistentLedger),
			expected: http.StatusConflict,
			status:   "inconsistent",
		},
		{
			name:     "storage failure",
			err:      errors.New("db down"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewLedgerHandler(&reconciliationStub{
				consistencyFn: func(ctx context.Context) (*usecase.LedgerConsistency, error) {
					return tt.result, tt.err
				},
			})

			rec := httptest.NewRecorder()
			handler.CheckConsistency(rec, httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil))

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}
			if tt.status == "" {
				return
			}

			var resp dto.LedgerConsistencyResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.status {
				t.Fatalf("expected status %s, got %s", tt.status, resp.Status)
			}
		})
	}
}

func TestLedgerHandler_ReconcileWallet(t *testing.T) {
	handler := NewLedgerHandler(&reconciliationStub{
		reconcileFn: func(ctx context.Context, walletID string) (*usecase.ReconciliationResult, error) {
			return &usecase.ReconciliationResult{
				WalletID:          walletID,
				RecordedBalance:   decimal.NewFromInt(3),
				CalculatedBalance: decimal.NewFromInt(3),
				IsReconciled:      true,
			}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.ReconcileWallet(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/wallets/w-1/reconciliation", nil), "id", "w-1"))

	var resp dto.ReconciliationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.WalletID != "w-1" || !resp.Reconciled {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
