package dto

import (
	"time"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// WalletResponse represents a wallet in API responses.
type WalletResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Currency  string    `json:"currency"`
	Balance   string    `json:"balance"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WalletFromDomain converts a domain wallet to a response.
func WalletFromDomain(w *domain.Wallet) *WalletResponse {
	return &WalletResponse{
		ID:        w.ID,
		OwnerID:   w.OwnerID,
		Currency:  w.Currency,
		Balance:   w.Balance.StringFixed(domain.MaxAmountScale),
		Version:   w.Version,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// WalletsFromDomain converts domain wallets to responses.
func WalletsFromDomain(wallets []*domain.Wallet) []*WalletResponse {
	result := make([]*WalletResponse, len(wallets))
	for i, w := range wallets {
		result[i] = WalletFromDomain(w)
	}
	return result
}

// ListWalletsResponse represents a page of wallets.
type ListWalletsResponse struct {
	Wallets []*WalletResponse `json:"wallets"`
	Total   int64             `json:"total"`
}

// BalanceResponse represents a wallet balance.
type BalanceResponse struct {
	WalletID string    `json:"wallet_id"`
	Balance  string    `json:"balance"`
	Currency string    `json:"currency,omitempty"`
	AsOf     time.Time `json:"as_of"`
}

// BalanceFromDomain converts a domain balance to a response.
func BalanceFromDomain(b *domain.Balance) *BalanceResponse {
	return &BalanceResponse{
		WalletID: b.WalletID,
		Balance:  b.Amount.StringFixed(domain.MaxAmountScale),
		Currency: b.Currency,
		AsOf:     b.AsOf,
	}
}

// TransactionResponse represents a transaction log entry.
type TransactionResponse struct {
	ID           string    `json:"id"`
	WalletID     string    `json:"wallet_id"`
	Amount       string    `json:"amount"`
	Kind         string    `json:"kind"`
	Detail       string    `json:"detail,omitempty"`
	BillingRef   *string   `json:"billing_ref,omitempty"`
	BalanceAfter string    `json:"balance_after"`
	CreatedAt    time.Time `json:"created_at"`
}

// TransactionFromDomain converts a domain entry to a response.
func TransactionFromDomain(e *domain.TransactionEntry) *TransactionResponse {
	return &TransactionResponse{
		ID:           e.ID,
		WalletID:     e.WalletID,
		Amount:       e.Amount.StringFixed(domain.MaxAmountScale),
		Kind:         string(e.Kind),
		Detail:       e.Detail,
		BillingRef:   e.BillingRef,
		BalanceAfter: e.BalanceAfter.StringFixed(domain.MaxAmountScale),
		CreatedAt:    e.CreatedAt,
	}
}

// TransactionsFromDomain converts domain entries to responses.
func TransactionsFromDomain(entries []*domain.TransactionEntry) []*TransactionResponse {
	result := make([]*TransactionResponse, len(entries))
	for i, e := range entries {
		result[i] = TransactionFromDomain(e)
	}
	return result
}

// ListTransactionsResponse represents a page of transactions.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
}

// OwnerRegisteredResponse is returned by the owner registration hook.
type OwnerRegisteredResponse struct {
	Wallet *WalletResponse      `json:"wallet"`
	Bonus  *TransactionResponse `json:"bonus,omitempty"`
}

// OwnerRegisteredFromResult converts a bonus result to a response.
func OwnerRegisteredFromResult(r *usecase.BonusResult) *OwnerRegisteredResponse {
	resp := &OwnerRegisteredResponse{Wallet: WalletFromDomain(r.Wallet)}
	if r.Entry != nil {
		resp.Bonus = TransactionFromDomain(r.Entry)
	}
	return resp
}

// ChargeStatusResponse describes whether a billing record was debited.
type ChargeStatusResponse struct {
	RecordID    string               `json:"record_id"`
	Paid        bool                 `json:"paid"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

// ChargeStatusFromDomain converts a charge status to a response.
func ChargeStatusFromDomain(s *domain.ChargeStatus) *ChargeStatusResponse {
	resp := &ChargeStatusResponse{
		RecordID: s.RecordID,
		Paid:     s.Paid,
	}
	if s.Entry != nil {
		resp.Transaction = TransactionFromDomain(s.Entry)
	}
	return resp
}

// SystemConfigResponse represents the system configuration.
type SystemConfigResponse struct {
	BonusEnabled bool      `json:"bonus_enabled"`
	BonusAmount  string    `json:"bonus_amount"`
	BonusDetail  string    `json:"bonus_detail"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SystemConfigFromDomain converts the domain configuration to a response.
func SystemConfigFromDomain(c *domain.SystemConfig) *SystemConfigResponse {
	return &SystemConfigResponse{
		BonusEnabled: c.BonusEnabled,
		BonusAmount:  c.BonusAmount.StringFixed(domain.MaxAmountScale),
		BonusDetail:  c.BonusDetail,
		UpdatedAt:    c.UpdatedAt,
	}
}

// ReconciliationResponse represents a single wallet reconciliation.
type ReconciliationResponse struct {
	WalletID          string    `json:"wallet_id"`
	RecordedBalance   string    `json:"recorded_balance"`
	CalculatedBalance string    `json:"calculated_balance"`
	Difference        string    `json:"difference"`
	Reconciled        bool      `json:"reconciled"`
	CheckedAt         time.Time `json:"checked_at"`
}

// ReconciliationFromResult converts a reconciliation result to a response.
func ReconciliationFromResult(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		WalletID:          r.WalletID,
		RecordedBalance:   r.RecordedBalance.StringFixed(domain.MaxAmountScale),
		CalculatedBalance: r.CalculatedBalance.StringFixed(domain.MaxAmountScale),
		Difference:        r.Difference.StringFixed(domain.MaxAmountScale),
		Reconciled:        r.IsReconciled,
		CheckedAt:         r.LastChecked,
	}
}

// LedgerConsistencyResponse represents a ledger-wide consistency check.
type LedgerConsistencyResponse struct {
	Status          string `json:"status"`
	Consistent      bool   `json:"consistent"`
	TotalBalance    string `json:"total_balance"`
	TotalAmount     string `json:"total_amount"`
	NegativeWallets int64  `json:"negative_wallets"`
}

// LedgerConsistencyFromResult converts a consistency result to a response.
func LedgerConsistencyFromResult(c *usecase.LedgerConsistency) *LedgerConsistencyResponse {
	status := "consistent"
	if !c.Consistent {
		status = "inconsistent"
	}
	return &LedgerConsistencyResponse{
		Status:          status,
		Consistent:      c.Consistent,
		TotalBalance:    c.TotalBalance.StringFixed(domain.MaxAmountScale),
		TotalAmount:     c.TotalAmount.StringFixed(domain.MaxAmountScale),
		NegativeWallets: c.NegativeWallets,
	}
}

// ErrorResponse represents an error response. Balance and Amount are set for
// insufficient funds.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Balance string `json:"balance,omitempty"`
	Amount  string `json:"amount,omitempty"`
}
