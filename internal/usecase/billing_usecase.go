package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
)

// BillingUseCase debits owners' wallets for metered usage.
type BillingUseCase struct {
	txManager  TransactionManager
	recordRepo BillingRecordRepository
	txRepo     TransactionRepository
	outboxRepo OutboxRepository
	wallets    WalletProvisioner
	applier    EntryApplier
	idGen      IDGenerator
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewBillingUseCase creates a new BillingUseCase. m may be nil.
func NewBillingUseCase(
	txManager TransactionManager,
	recordRepo BillingRecordRepository,
	txRepo TransactionRepository,
	outboxRepo OutboxRepository,
	wallets WalletProvisioner,
	applier EntryApplier,
	idGen IDGenerator,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *BillingUseCase {
	return &BillingUseCase{
		txManager:  txManager,
		recordRepo: recordRepo,
		txRepo:     txRepo,
		outboxRepo: outboxRepo,
		wallets:    wallets,
		applier:    applier,
		idGen:      idGen,
		metrics:    m,
		logger:     logger.With().Str("component", "billing_charger").Logger(),
	}
}

// Charge debits the record's total cost from its owner's wallet. A record is
// charged at most once; on insufficient funds it stays unpaid and the error
// is returned.
func (uc *BillingUseCase) Charge(ctx context.Context, record *domain.BillingRecord) (*domain.TransactionEntry, error) {
	if record == nil {
		return nil, domain.ErrInvalidBillingRecord
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}
	if record.ChargedAt.IsZero() {
		record.ChargedAt = time.Now().UTC()
	}

	amount := record.ChargeAmount()
	if err := domain.ValidateEntryAmount(amount); err != nil {
		return nil, err
	}

	// The unique billing_ref constraint is the final guard; this reports a
	// repeat before the funds check can mask it.
	if _, err := uc.txRepo.GetByBillingRef(ctx, record.ID); err == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateCharge, record.ID)
	} else if !errors.Is(err, domain.ErrTransactionNotFound) {
		return nil, err
	}

	if err := uc.recordRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store billing record: %w", err)
	}

	// Create keeps the first copy of a record id; charge what was stored.
	stored, err := uc.recordRepo.GetByID(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load billing record: %w", err)
	}
	if !stored.SameCharge(record) {
		return nil, fmt.Errorf("%w: %s differs from the stored record", domain.ErrInvalidBillingRecord, record.ID)
	}
	record = stored

	wallet, err := uc.wallets.FindByOwner(ctx, record.OwnerID)
	if err != nil {
		return nil, err
	}

	ref := record.ID
	entry, err := uc.applier.Apply(ctx, ApplyInput{
		WalletID:   wallet.ID,
		Amount:     amount.Neg(),
		Kind:       domain.KindUsageCharge,
		Detail:     chargeDetail(record),
		BillingRef: &ref,
	})
	if err != nil {
		var insufficient *domain.InsufficientFundsError
		if errors.As(err, &insufficient) {
			uc.rejectCharge(ctx, record, insufficient)
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ChargesApplied.Inc()
	}

	uc.logger.Info().
		Str("billing_record_id", record.ID).
		Str("wallet_id", wallet.ID).
		Str("amount", amount.String()).
		Msg("usage charged")

	return entry, nil
}

// ChargeStatus reports whether a billing record has been debited.
func (uc *BillingUseCase) ChargeStatus(ctx context.Context, recordID string) (*domain.ChargeStatus, error) {
	if err := domain.ValidateUUID(recordID); err != nil {
		return nil, err
	}

	entry, err := uc.txRepo.GetByBillingRef(ctx, recordID)
	if err == nil {
		return &domain.ChargeStatus{RecordID: recordID, Paid: true, Entry: entry}, nil
	}
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		return nil, err
	}

	if _, err := uc.recordRepo.GetByID(ctx, recordID); err != nil {
		return nil, err
	}

	return &domain.ChargeStatus{RecordID: recordID, Paid: false}, nil
}

// rejectCharge records a charge_rejected event. Failures are logged only; the
// caller already receives the insufficient funds error.
func (uc *BillingUseCase) rejectCharge(ctx context.Context, record *domain.BillingRecord, insufficient *domain.InsufficientFundsError) {
	if uc.metrics != nil {
		uc.metrics.ChargesRejected.Inc()
	}

	uc.logger.Warn().
		Str("billing_record_id", record.ID).
		Str("wallet_id", insufficient.WalletID).
		Str("balance", insufficient.Balance.String()).
		Str("amount", insufficient.Amount.String()).
		Msg("charge rejected: insufficient funds")

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		uc.logger.Error().Err(err).Str("billing_record_id", record.ID).Msg("failed to begin charge_rejected event")
		return
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   insufficient.WalletID,
		AggregateType: domain.AggregateTypeWallet,
		EventType:     domain.EventTypeChargeRejected,
		Payload:       domain.ChargeRejectedPayload(record, insufficient),
		CreatedAt:     time.Now().UTC(),
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		uc.logger.Error().Err(err).Str("billing_record_id", record.ID).Msg("failed to store charge_rejected event")
		return
	}
	if err := tx.Commit(txCtx); err != nil {
		uc.logger.Error().Err(err).Str("billing_record_id", record.ID).Msg("failed to commit charge_rejected event")
	}
}

func chargeDetail(record *domain.BillingRecord) string {
	if record.DeploymentID != nil && *record.DeploymentID != "" {
		return fmt.Sprintf("usage charge for deployment %s (%s h at %s/h)",
			*record.DeploymentID, record.HoursUsed.String(), record.CostPerHour.String())
	}
	return fmt.Sprintf("usage charge %s (%s h at %s/h)",
		record.ID, record.HoursUsed.String(), record.CostPerHour.String())
}
