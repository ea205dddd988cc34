package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Wallet metrics
	WalletsCreated prometheus.Counter
	BonusesIssued  prometheus.Counter
	BonusAmount    prometheus.Histogram

	// Transaction metrics
	TransactionsApplied *prometheus.CounterVec
	TransactionErrors   *prometheus.CounterVec
	ApplyDuration       prometheus.Histogram
	AppliedAmount       *prometheus.HistogramVec

	// Lock metrics
	LockWaitDuration prometheus.Histogram
	LockTimeouts     prometheus.Counter

	// Billing metrics
	ChargesApplied  prometheus.Counter
	ChargesRejected prometheus.Counter

	// Reconciliation metrics
	ReconciliationRuns          *prometheus.CounterVec
	ReconciliationDiscrepancies prometheus.Gauge

	// Outbox metrics
	EventsPublished *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on reg.
// A nil reg registers on the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Wallet metrics
		WalletsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_wallets_created_total",
			Help: "Total number of wallets created",
		}),
		BonusesIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_bonuses_issued_total",
			Help: "Total number of signup bonuses credited",
		}),
		BonusAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gowallet_bonus_amount",
			Help:    "Signup bonus amounts",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 500},
		}),

		// Transaction metrics
		TransactionsApplied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_transactions_applied_total",
				Help: "Total number of transaction entries applied by kind",
			},
			[]string{"kind"},
		),
		TransactionErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_transaction_errors_total",
				Help: "Total number of rejected applies by kind and reason",
			},
			[]string{"kind", "reason"},
		),
		ApplyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gowallet_apply_duration_seconds",
			Help:    "Duration of apply operations including lock wait",
			Buckets: prometheus.DefBuckets,
		}),
		AppliedAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gowallet_applied_amount",
				Help:    "Absolute applied amounts by kind",
				Buckets: []float64{0.01, 0.1, 1, 10, 100, 1000, 10000, 100000},
			},
			[]string{"kind"},
		),

		// Lock metrics
		LockWaitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gowallet_lock_wait_seconds",
			Help:    "Time spent waiting for a wallet lock",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}),
		LockTimeouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_lock_timeouts_total",
			Help: "Total number of wallet lock acquisitions that timed out",
		}),

		// Billing metrics
		ChargesApplied: factory.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_charges_applied_total",
			Help: "Total number of usage charges debited",
		}),
		ChargesRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_charges_rejected_total",
			Help: "Total number of usage charges rejected for insufficient funds",
		}),

		// Reconciliation metrics
		ReconciliationRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_reconciliation_runs_total",
				Help: "Total reconciliation runs by result",
			},
			[]string{"result"},
		),
		ReconciliationDiscrepancies: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gowallet_reconciliation_discrepancies",
			Help: "Wallets whose balance differs from the sum of their entries in the last run",
		}),

		// Outbox metrics
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_events_published_total",
				Help: "Total outbox events published by type and result",
			},
			[]string{"event_type", "result"},
		),
	}
}
