package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingRecord is a metered usage record owned by the billing collaborator.
// The ledger only reads its id and total cost.
type BillingRecord struct {
	ChargedAt     time.Time
	DeploymentID  *string
	ID            string
	OwnerID       string
	CPUMillicores int32
	MemoryMB      int32
	CostPerHour   decimal.Decimal
	HoursUsed     decimal.Decimal
}

// TotalCost is always derived from its inputs and never stored on its own.
func (r *BillingRecord) TotalCost() decimal.Decimal {
	return r.CostPerHour.Mul(r.HoursUsed)
}

// Validate checks the record before it is charged.
func (r *BillingRecord) Validate() error {
	if err := ValidateUUID(r.ID); err != nil {
		return err
	}
	if err := ValidateUUID(r.OwnerID); err != nil {
		return err
	}
	if r.CostPerHour.IsNegative() || r.HoursUsed.IsNegative() {
		return ErrInvalidBillingRecord
	}
	if r.CPUMillicores < 0 || r.MemoryMB < 0 {
		return ErrInvalidBillingRecord
	}
	return nil
}

// SameCharge reports whether other bills the same owner for the same usage.
func (r *BillingRecord) SameCharge(other *BillingRecord) bool {
	return r.ID == other.ID &&
		r.OwnerID == other.OwnerID &&
		r.CostPerHour.Equal(other.CostPerHour) &&
		r.HoursUsed.Equal(other.HoursUsed)
}

// ChargeStatus describes whether a billing record has been debited.
type ChargeStatus struct {
	RecordID string
	Paid     bool
	Entry    *TransactionEntry
}

// ChargeAmount is the total cost rounded up to the ledger's storage scale.
func (r *BillingRecord) ChargeAmount() decimal.Decimal {
	return r.TotalCost().RoundCeil(MaxAmountScale)
}
