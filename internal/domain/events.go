package domain

import "time"

// Event types
const (
	EventTypeWalletCreated       = "wallet.created"
	EventTypeTransactionApplied  = "wallet.transaction_applied"
	EventTypeChargeRejected      = "wallet.charge_rejected"
	EventTypeSystemConfigUpdated = "system_config.updated"
)

// Aggregate types
const (
	AggregateTypeWallet       = "wallet"
	AggregateTypeSystemConfig = "system_config"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// WalletCreatedPayload builds the payload for EventTypeWalletCreated.
func WalletCreatedPayload(w *Wallet) map[string]any {
	return map[string]any{
		"wallet_id": w.ID,
		"owner_id":  w.OwnerID,
		"currency":  w.Currency,
	}
}

// TransactionAppliedPayload builds the payload for EventTypeTransactionApplied.
func TransactionAppliedPayload(e *TransactionEntry) map[string]any {
	payload := map[string]any{
		"transaction_id": e.ID,
		"wallet_id":      e.WalletID,
		"amount":         e.Amount.String(),
		"kind":           string(e.Kind),
		"balance_after":  e.BalanceAfter.String(),
	}
	if e.BillingRef != nil {
		payload["billing_ref"] = *e.BillingRef
	}
	return payload
}

// ChargeRejectedPayload builds the payload for EventTypeChargeRejected.
func ChargeRejectedPayload(record *BillingRecord, insufficient *InsufficientFundsError) map[string]any {
	return map[string]any{
		"billing_record_id": record.ID,
		"owner_id":          record.OwnerID,
		"wallet_id":         insufficient.WalletID,
		"total_cost":        record.TotalCost().String(),
		"balance":           insufficient.Balance.String(),
	}
}
