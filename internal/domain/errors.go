package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Wallet errors
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrWalletAlreadyExists = errors.New("wallet already exists for owner")
	ErrWalletBusy          = errors.New("wallet is busy, retry later")
	ErrInsufficientFunds   = errors.New("insufficient funds")

	// Transaction errors
	ErrInvalidKind          = errors.New("invalid transaction kind")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrDuplicateCharge      = errors.New("billing record already charged")
	ErrInvalidBillingRecord = errors.New("invalid billing record")
	ErrBillingRecordMissing = errors.New("billing record not found")

	// Configuration errors
	ErrInvalidBonusAmount = errors.New("bonus amount must not be negative")
	ErrConfigNotFound     = errors.New("system configuration not found")
)

// InsufficientFundsError is returned when an entry would drive a wallet negative.
type InsufficientFundsError struct {
	WalletID string
	Balance  decimal.Decimal
	Amount   decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in wallet %s: balance %s, amount %s", e.WalletID, e.Balance, e.Amount)
}

// Is makes errors.Is(err, ErrInsufficientFunds) match.
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// IsRetryable reports whether the caller may retry the operation unchanged.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrWalletBusy)
}
