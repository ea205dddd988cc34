package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SystemConfig is the process-wide singleton consulted by the bonus issuer.
type SystemConfig struct {
	BonusEnabled bool
	BonusAmount  decimal.Decimal
	BonusDetail  string
	UpdatedAt    time.Time
}

// GrantsBonus reports whether a new owner should receive a signup credit.
func (c *SystemConfig) GrantsBonus() bool {
	return c.BonusEnabled && c.BonusAmount.IsPositive()
}

// Validate checks the configuration before it is stored.
func (c *SystemConfig) Validate() error {
	if c.BonusAmount.IsNegative() {
		return ErrInvalidBonusAmount
	}
	if err := ValidateEntryAmount(c.BonusAmount); err != nil {
		return err
	}
	if len(c.BonusDetail) > MaxDetailLength {
		return ErrDetailTooLong
	}
	return nil
}
