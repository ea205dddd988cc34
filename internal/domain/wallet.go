package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds the materialized balance of a single owner.
type Wallet struct {
	ID        string
	OwnerID   string
	Currency  string
	Balance   decimal.Decimal
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Balance is a point-in-time view of a wallet balance.
type Balance struct {
	WalletID string
	Amount   decimal.Decimal
	Currency string
	AsOf     time.Time
}

// ValidateApply checks that applying the signed amount keeps the balance non-negative.
func (w *Wallet) ValidateApply(amount decimal.Decimal) error {
	if w.Balance.Add(amount).IsNegative() {
		return &InsufficientFundsError{
			WalletID: w.ID,
			Balance:  w.Balance,
			Amount:   amount,
		}
	}
	return nil
}

// ApplyAmount returns the balance after applying the signed amount.
func (w *Wallet) ApplyAmount(amount decimal.Decimal) decimal.Decimal {
	return w.Balance.Add(amount)
}
