package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidCurrency  = errors.New("invalid currency code")
	ErrAmountTooLarge   = errors.New("amount exceeds maximum allowed")
	ErrAmountPrecision  = errors.New("amount has too many decimal places")
	ErrDetailTooLong    = errors.New("detail exceeds maximum length")
	ErrInvalidIDFormat  = errors.New("invalid ID format")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// Validation constants
const (
	MaxDetailLength    = 1024
	MaxAmountScale     = 4
	MaxEntryAmount     = "1000000000" // 1 billion
	DefaultCurrency    = "USD"
	MaxPageSize        = 1000
	DefaultPageSize    = 50
	ReconcilePageLimit = 500
)

var maxEntryAmount = decimal.RequireFromString(MaxEntryAmount)

// Valid currency codes (ISO 4217)
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CNY": true, "AUD": true, "CAD": true, "CHF": true,
	"SEK": true, "NZD": true, "KRW": true, "SGD": true,
	"NOK": true, "MXN": true, "INR": true, "BRL": true,
	"ZAR": true, "TRY": true, "HKD": true, "XAF": true,
}

// NormalizeCurrency upper-cases and trims a currency code.
func NormalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}

// ValidateCurrency validates currency code
func ValidateCurrency(currency string) error {
	currency = NormalizeCurrency(currency)

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %s is not a valid ISO 4217 currency code", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateEntryAmount validates a signed entry amount. Zero is allowed.
func ValidateEntryAmount(amount decimal.Decimal) error {
	if amount.Abs().GreaterThan(maxEntryAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxEntryAmount)
	}

	return ValidateAmountPrecision(amount)
}

// ValidateAmountPrecision rejects amounts finer than the storage scale.
func ValidateAmountPrecision(amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(MaxAmountScale)) {
		return fmt.Errorf("%w: at most %d decimal places", ErrAmountPrecision, MaxAmountScale)
	}
	return nil
}

// ValidateDetail validates entry detail text.
func ValidateDetail(detail string) error {
	if len(detail) > MaxDetailLength {
		return fmt.Errorf("%w: %d characters", ErrDetailTooLong, MaxDetailLength)
	}
	return nil
}

// ValidateUUID checks that an external identifier is a UUID.
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidIDFormat, id)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
