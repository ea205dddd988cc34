package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// CreateWalletRequest represents a request to create a wallet.
type CreateWalletRequest struct {
	OwnerID  string `json:"owner_id"`
	Currency string `json:"currency,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateWalletRequest) ToUseCaseInput() usecase.CreateWalletInput {
	return usecase.CreateWalletInput{
		OwnerID:  r.OwnerID,
		Currency: r.Currency,
	}
}

// ApplyTransactionRequest represents a signed entry to apply to a wallet.
type ApplyTransactionRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	Kind       string          `json:"kind"`
	Detail     string          `json:"detail,omitempty"`
	BillingRef *string         `json:"billing_ref,omitempty"`
}

// ToUseCaseInput converts to use case input for walletID.
func (r *ApplyTransactionRequest) ToUseCaseInput(walletID string) usecase.ApplyInput {
	return usecase.ApplyInput{
		WalletID:   walletID,
		Amount:     r.Amount,
		Kind:       domain.TransactionKind(r.Kind),
		Detail:     r.Detail,
		BillingRef: r.BillingRef,
	}
}

// ChargeRequest represents a billing record to charge.
type ChargeRequest struct {
	ID            string          `json:"id"`
	OwnerID       string          `json:"owner_id"`
	DeploymentID  *string         `json:"deployment_id,omitempty"`
	CPUMillicores int32           `json:"cpu_millicores"`
	MemoryMB      int32           `json:"memory_mb"`
	CostPerHour   decimal.Decimal `json:"cost_per_hour"`
	HoursUsed     decimal.Decimal `json:"hours_used"`
	ChargedAt     *time.Time      `json:"charged_at,omitempty"`
}

// ToDomain converts to a billing record.
func (r *ChargeRequest) ToDomain() *domain.BillingRecord {
	record := &domain.BillingRecord{
		ID:            r.ID,
		OwnerID:       r.OwnerID,
		DeploymentID:  r.DeploymentID,
		CPUMillicores: r.CPUMillicores,
		MemoryMB:      r.MemoryMB,
		CostPerHour:   r.CostPerHour,
		HoursUsed:     r.HoursUsed,
	}
	if r.ChargedAt != nil {
		record.ChargedAt = r.ChargedAt.UTC()
	}
	return record
}

// UpdateSystemConfigRequest replaces the system configuration.
type UpdateSystemConfigRequest struct {
	BonusEnabled bool            `json:"bonus_enabled"`
	BonusAmount  decimal.Decimal `json:"bonus_amount"`
	BonusDetail  string          `json:"bonus_detail"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateSystemConfigRequest) ToUseCaseInput() usecase.UpdateSystemConfigInput {
	return usecase.UpdateSystemConfigInput{
		BonusEnabled: r.BonusEnabled,
		BonusAmount:  r.BonusAmount,
		BonusDetail:  r.BonusDetail,
	}
}
