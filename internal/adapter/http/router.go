package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/adapter/http/handler"
	"github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	WalletHandler       *handler.WalletHandler
	TransactionHandler  *handler.TransactionHandler
	OwnerHandler        *handler.OwnerHandler
	BillingHandler      *handler.BillingHandler
	SystemConfigHandler *handler.SystemConfigHandler
	LedgerHandler       *handler.LedgerHandler
	HealthHandler       *handler.HealthHandler

	// Optional
	MetricsHandler   http.Handler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Wallets
		r.Route("/wallets", func(r chi.Router) {
			r.Post("/", cfg.WalletHandler.Create)
			r.Get("/", cfg.WalletHandler.List)
			r.Get("/{id}", cfg.WalletHandler.Get)
			r.Get("/{id}/balance", cfg.WalletHandler.Balance)
			r.Get("/{id}/balance/history", cfg.TransactionHandler.BalanceHistory)
			r.Post("/{id}/transactions", cfg.TransactionHandler.Apply)
			r.Get("/{id}/transactions", cfg.TransactionHandler.ListByWallet)
			r.Get("/{id}/reconciliation", cfg.LedgerHandler.ReconcileWallet)
		})

		// Transaction log
		r.Get("/transactions/{id}", cfg.TransactionHandler.Get)

		// Owner lifecycle
		r.Route("/owners/{ownerID}", func(r chi.Router) {
			r.Get("/wallet", cfg.WalletHandler.FindByOwner)
			r.Post("/registered", cfg.OwnerHandler.Registered)
		})

		// Billing
		r.Route("/billing/charges", func(r chi.Router) {
			r.Post("/", cfg.BillingHandler.Charge)
			r.Get("/{recordID}", cfg.BillingHandler.Status)
		})

		// System configuration
		r.Route("/system/config", func(r chi.Router) {
			r.Get("/", cfg.SystemConfigHandler.Get)
			r.Put("/", cfg.SystemConfigHandler.Update)
		})

		// Ledger
		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
	})

	return r
}
