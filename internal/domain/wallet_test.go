package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestWalletValidateApply(t *testing.T) {
	t.Parallel()

	w := &Wallet{ID: "w1", Balance: decimal.NewFromInt(3)}

	if err := w.ValidateApply(decimal.NewFromInt(-3)); err != nil {
		t.Fatalf("expected debit to zero to be allowed, got %v", err)
	}
	if err := w.ValidateApply(decimal.NewFromInt(5)); err != nil {
		t.Fatalf("expected credit to be allowed, got %v", err)
	}

	err := w.ValidateApply(decimal.NewFromInt(-5))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	var insufficient *InsufficientFundsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected *InsufficientFundsError, got %T", err)
	}
	if insufficient.WalletID != "w1" || !insufficient.Balance.Equal(decimal.NewFromInt(3)) || !insufficient.Amount.Equal(decimal.NewFromInt(-5)) {
		t.Fatalf("unexpected error details: %+v", insufficient)
	}
	if insufficient.Error() != "insufficient funds in wallet w1: balance 3, amount -5" {
		t.Fatalf("unexpected message: %q", insufficient.Error())
	}
}

func TestWalletApplyAmount(t *testing.T) {
	t.Parallel()

	w := &Wallet{Balance: decimal.RequireFromString("10.5")}
	if got := w.ApplyAmount(decimal.RequireFromString("-0.25")); !got.Equal(decimal.RequireFromString("10.25")) {
		t.Fatalf("expected 10.25, got %s", got)
	}
	if !w.Balance.Equal(decimal.RequireFromString("10.5")) {
		t.Fatalf("ApplyAmount must not modify the wallet")
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	if !IsRetryable(ErrWalletBusy) {
		t.Fatalf("expected busy wallet to be retryable")
	}
	if IsRetryable(ErrInsufficientFunds) {
		t.Fatalf("insufficient funds must not be retryable")
	}
}
