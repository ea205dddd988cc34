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

// ErrInconsistentLedger is returned when wallet balances disagree with the log.
var ErrInconsistentLedger = errors.New("ledger is inconsistent: balances do not match transaction log")

// ReconciliationUseCase audits wallet balances against their transaction logs.
type ReconciliationUseCase struct {
	walletRepo WalletRepository
	ledgerRepo LedgerRepository
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	walletRepo WalletRepository,
	ledgerRepo LedgerRepository,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		walletRepo: walletRepo,
		ledgerRepo: ledgerRepo,
		metrics:    m,
		logger:     logger.With().Str("component", "reconciliation").Logger(),
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	WalletID          string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileWallet compares the recorded balance with the sum of its entries.
// Both are read from one snapshot, so applies committing meanwhile never show
// up as a difference.
func (uc *ReconciliationUseCase) ReconcileWallet(ctx context.Context, walletID string) (*ReconciliationResult, error) {
	balance, sum, err := uc.ledgerRepo.WalletTotals(ctx, walletID)
	if err != nil {
		return nil, err
	}

	diff := balance.Sub(sum)

	return &ReconciliationResult{
		WalletID:          walletID,
		RecordedBalance:   balance,
		CalculatedBalance: sum,
		Difference:        diff,
		IsReconciled:      diff.IsZero(),
		LastChecked:       time.Now().UTC(),
	}, nil
}

// ReconcileAllWallets reconciles every wallet, page by page.
func (uc *ReconciliationUseCase) ReconcileAllWallets(ctx context.Context) ([]*ReconciliationResult, error) {
	results := make([]*ReconciliationResult, 0)

	for offset := 0; ; offset += domain.ReconcilePageLimit {
		wallets, err := uc.walletRepo.List(ctx, domain.ReconcilePageLimit, offset)
		if err != nil {
			return nil, err
		}

		for _, wallet := range wallets {
			result, err := uc.ReconcileWallet(ctx, wallet.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to reconcile wallet %s: %w", wallet.ID, err)
			}
			results = append(results, result)
		}

		if len(wallets) < domain.ReconcilePageLimit {
			break
		}
	}

	return results, nil
}

// LedgerConsistency summarizes a ledger-wide check.
type LedgerConsistency struct {
	TotalBalance    decimal.Decimal
	TotalAmount     decimal.Decimal
	NegativeWallets int64
	Consistent      bool
}

// CheckLedgerConsistency verifies that the sum of all balances equals the sum
// of all entries and that no wallet is negative.
func (uc *ReconciliationUseCase) CheckLedgerConsistency(ctx context.Context) (*LedgerConsistency, error) {
	totalBalance, totalAmount, negative, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return nil, err
	}

	result := &LedgerConsistency{
		TotalBalance:    totalBalance,
		TotalAmount:     totalAmount,
		NegativeWallets: negative,
		Consistent:      totalBalance.Equal(totalAmount) && negative == 0,
	}

	if !result.Consistent {
		return result, fmt.Errorf(
			"%w: balances=%s entries=%s negative_wallets=%d",
			ErrInconsistentLedger,
			totalBalance.String(),
			totalAmount.String(),
			negative,
		)
	}

	return result, nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalWallets      int
	ReconciledWallets int
	Discrepancies     []*ReconciliationResult
	LedgerConsistent  bool
	CheckedAt         time.Time
}

// GenerateReconciliationReport generates a comprehensive reconciliation report
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAllWallets(ctx)
	if err != nil {
		uc.recordRun("error")
		return nil, err
	}

	_, ledgerErr := uc.CheckLedgerConsistency(ctx)
	if ledgerErr != nil && !errors.Is(ledgerErr, ErrInconsistentLedger) {
		uc.recordRun("error")
		return nil, ledgerErr
	}

	report := &ReconciliationReport{
		TotalWallets:     len(results),
		Discrepancies:    make([]*ReconciliationResult, 0),
		LedgerConsistent: ledgerErr == nil,
		CheckedAt:        time.Now().UTC(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledWallets++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	if uc.metrics != nil {
		uc.metrics.ReconciliationDiscrepancies.Set(float64(len(report.Discrepancies)))
	}

	if len(report.Discrepancies) > 0 || !report.LedgerConsistent {
		uc.recordRun("discrepancy")
		uc.logger.Error().
			Int("wallets", report.TotalWallets).
			Int("discrepancies", len(report.Discrepancies)).
			Bool("ledger_consistent", report.LedgerConsistent).
			Msg("reconciliation found discrepancies")
	} else {
		uc.recordRun("ok")
		uc.logger.Info().Int("wallets", report.TotalWallets).Msg("reconciliation passed")
	}

	return report, nil
}

func (uc *ReconciliationUseCase) recordRun(result string) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.ReconciliationRuns.WithLabelValues(result).Inc()
}
