package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
)

// ApplierUseCase is the only component that mutates wallet balances.
type ApplierUseCase struct {
	txManager   TransactionManager
	walletRepo  WalletRepository
	txRepo      TransactionRepository
	outboxRepo  OutboxRepository
	locker      WalletLocker
	retrier     Retrier
	idGen       IDGenerator
	metrics     *metrics.Metrics
	logger      zerolog.Logger
	lockTimeout time.Duration
}

// NewApplierUseCase creates a new ApplierUseCase. retrier and m may be nil;
// a nil retrier runs each apply once.
func NewApplierUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	txRepo TransactionRepository,
	outboxRepo OutboxRepository,
	locker WalletLocker,
	retrier Retrier,
	idGen IDGenerator,
	m *metrics.Metrics,
	logger zerolog.Logger,
	lockTimeout time.Duration,
) *ApplierUseCase {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}

	return &ApplierUseCase{
		txManager:   txManager,
		walletRepo:  walletRepo,
		txRepo:      txRepo,
		outboxRepo:  outboxRepo,
		locker:      locker,
		retrier:     retrier,
		idGen:       idGen,
		metrics:     m,
		logger:      logger.With().Str("component", "applier").Logger(),
		lockTimeout: lockTimeout,
	}
}

// ApplyInput represents a single signed entry to apply.
type ApplyInput struct {
	WalletID   string
	Amount     decimal.Decimal
	Kind       domain.TransactionKind
	Detail     string
	BillingRef *string
}

// Apply appends an entry to the wallet's log and updates its balance as one
// atomic unit. Applies to the same wallet are serialized; an entry that would
// make the balance negative fails with *domain.InsufficientFundsError and
// leaves the wallet untouched.
func (uc *ApplierUseCase) Apply(ctx context.Context, input ApplyInput) (*domain.TransactionEntry, error) {
	if err := uc.validate(input); err != nil {
		uc.recordError(input.Kind, "invalid")
		return nil, err
	}

	if !input.Kind.MatchesSign(input.Amount) {
		uc.logger.Warn().
			Str("wallet_id", input.WalletID).
			Str("kind", string(input.Kind)).
			Str("amount", input.Amount.String()).
			Msg("amount sign does not match transaction kind")
	}

	start := time.Now()

	unlock, err := uc.lock(ctx, input.WalletID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var entry *domain.TransactionEntry
	operation := func() error {
		var applyErr error
		entry, applyErr = uc.applyLocked(ctx, input)
		return applyErr
	}

	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, operation)
	} else {
		err = operation()
	}

	if uc.metrics != nil {
		uc.metrics.ApplyDuration.Observe(time.Since(start).Seconds())
	}

	if err != nil {
		uc.recordError(input.Kind, errorReason(err))

		var insufficient *domain.InsufficientFundsError
		if errors.As(err, &insufficient) {
			uc.logger.Info().
				Str("wallet_id", input.WalletID).
				Str("kind", string(input.Kind)).
				Str("balance", insufficient.Balance.String()).
				Str("amount", insufficient.Amount.String()).
				Msg("apply rejected: insufficient funds")
		}

		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsApplied.WithLabelValues(string(entry.Kind)).Inc()
		uc.metrics.AppliedAmount.WithLabelValues(string(entry.Kind)).Observe(entry.Amount.Abs().InexactFloat64())
	}

	uc.logger.Info().
		Str("wallet_id", entry.WalletID).
		Str("transaction_id", entry.ID).
		Str("kind", string(entry.Kind)).
		Str("amount", entry.Amount.String()).
		Str("balance_after", entry.BalanceAfter.String()).
		Msg("transaction applied")

	return entry, nil
}

func (uc *ApplierUseCase) validate(input ApplyInput) error {
	if input.WalletID == "" {
		return domain.ErrWalletNotFound
	}
	if !input.Kind.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidKind, input.Kind)
	}
	if err := domain.ValidateEntryAmount(input.Amount); err != nil {
		return err
	}
	if input.BillingRef != nil {
		if err := domain.ValidateUUID(*input.BillingRef); err != nil {
			return err
		}
	}
	return domain.ValidateDetail(input.Detail)
}

// lock acquires the wallet lock within the configured timeout.
func (uc *ApplierUseCase) lock(ctx context.Context, walletID string) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, uc.lockTimeout)
	defer cancel()

	start := time.Now()
	unlock, err := uc.locker.Lock(lockCtx, walletID)
	if uc.metrics != nil {
		uc.metrics.LockWaitDuration.Observe(time.Since(start).Seconds())
	}

	if err != nil {
		// The caller gave up; report its own cancellation.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		if uc.metrics != nil {
			uc.metrics.LockTimeouts.Inc()
		}

		uc.logger.Warn().Err(err).Str("wallet_id", walletID).Dur("timeout", uc.lockTimeout).Msg("wallet lock not acquired")

		return nil, fmt.Errorf("%w: wallet %s", domain.ErrWalletBusy, walletID)
	}

	return unlock, nil
}

// applyLocked runs the read-check-write critical section inside one database
// transaction. The caller holds the wallet lock.
func (uc *ApplierUseCase) applyLocked(ctx context.Context, input ApplyInput) (*domain.TransactionEntry, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	wallet, err := uc.walletRepo.GetByIDForUpdate(txCtx, tx, input.WalletID)
	if err != nil {
		return nil, err
	}

	if err := wallet.ValidateApply(input.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	newBalance := wallet.ApplyAmount(input.Amount)

	entry := &domain.TransactionEntry{
		ID:           uc.idGen.Generate(),
		WalletID:     wallet.ID,
		Amount:       input.Amount,
		Kind:         input.Kind,
		Detail:       input.Detail,
		BillingRef:   input.BillingRef,
		BalanceAfter: newBalance,
		CreatedAt:    now,
	}

	if err := uc.txRepo.Create(txCtx, tx, entry); err != nil {
		return nil, err
	}

	if err := uc.walletRepo.UpdateBalance(txCtx, tx, wallet.ID, newBalance, now); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   wallet.ID,
		AggregateType: domain.AggregateTypeWallet,
		EventType:     domain.EventTypeTransactionApplied,
		Payload:       domain.TransactionAppliedPayload(entry),
		CreatedAt:     now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return entry, nil
}

func (uc *ApplierUseCase) recordError(kind domain.TransactionKind, reason string) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.TransactionErrors.WithLabelValues(string(kind), reason).Inc()
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrWalletNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrWalletBusy):
		return "busy"
	case errors.Is(err, domain.ErrDuplicateCharge):
		return "duplicate_charge"
	default:
		return "internal"
	}
}
