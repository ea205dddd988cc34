package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a ledger entry. It is metadata only; the sign of
// the amount decides whether an entry credits or debits the wallet.
type TransactionKind string

const (
	KindInitialCredit TransactionKind = "initial_credit"
	KindUsageCharge   TransactionKind = "usage_charge"
	KindTopUp         TransactionKind = "top_up"
	KindRefund        TransactionKind = "refund"
)

var validKinds = map[TransactionKind]bool{
	KindInitialCredit: true,
	KindUsageCharge:   true,
	KindTopUp:         true,
	KindRefund:        true,
}

// IsValid reports whether k is a known kind.
func (k TransactionKind) IsValid() bool {
	return validKinds[k]
}

// ExpectedSign returns the sign callers conventionally use for the kind:
// 1 for credits, -1 for debits.
func (k TransactionKind) ExpectedSign() int {
	if k == KindUsageCharge {
		return -1
	}
	return 1
}

// MatchesSign reports whether amount follows the conventional sign for k.
// Zero amounts match every kind.
func (k TransactionKind) MatchesSign(amount decimal.Decimal) bool {
	if amount.IsZero() {
		return true
	}
	return amount.Sign() == k.ExpectedSign()
}

// TransactionEntry is an immutable, signed line in a wallet's log.
type TransactionEntry struct {
	CreatedAt    time.Time
	ID           string
	WalletID     string
	Kind         TransactionKind
	Detail       string
	BillingRef   *string
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
}
