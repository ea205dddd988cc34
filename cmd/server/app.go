package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/gowallet/internal/adapter/http"
	"github.com/iho/gowallet/internal/adapter/http/handler"
	"github.com/iho/gowallet/internal/adapter/http/middleware"
	memoryRepo "github.com/iho/gowallet/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/gowallet/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gowallet/internal/adapter/repository/redis"
	"github.com/iho/gowallet/internal/infrastructure/config"
	"github.com/iho/gowallet/internal/infrastructure/eventpublisher"
	"github.com/iho/gowallet/internal/infrastructure/lock"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/infrastructure/postgres"
	"github.com/iho/gowallet/internal/infrastructure/redis"
	"github.com/iho/gowallet/internal/infrastructure/scheduler"
	"github.com/iho/gowallet/internal/usecase"
)

const rateLimiterIdle = time.Hour

// repositories groups one storage backend.
type repositories struct {
	txManager usecase.TransactionManager
	wallets   usecase.WalletRepository
	entries   usecase.TransactionRepository
	configs   usecase.SystemConfigRepository
	billing   usecase.BillingRecordRepository
	ledger    usecase.LedgerRepository
	outbox    usecase.OutboxRepository
	pool      *pgxpool.Pool
	closePool func()
}

// application holds the wired service.
type application struct {
	cfg    *config.Config
	logger zerolog.Logger

	repos       *repositories
	redisClient *goredis.Client

	walletUC         *usecase.WalletUseCase
	applierUC        *usecase.ApplierUseCase
	bonusUC          *usecase.BonusUseCase
	billingUC        *usecase.BillingUseCase
	transactionUC    *usecase.TransactionUseCase
	configUC         *usecase.SystemConfigUseCase
	reconciliationUC *usecase.ReconciliationUseCase

	publisher   *eventpublisher.EventPublisher
	scheduler   *scheduler.Scheduler
	rateLimiter *middleware.RateLimiter
	handler     http.Handler

	background sync.WaitGroup
}

func newApplication(ctx context.Context, cfg *config.Config, logger zerolog.Logger, reg prometheus.Registerer) (*application, error) {
	app := &application{cfg: cfg, logger: logger}

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	app.repos = repos

	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL, logger)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		app.redisClient = client
	}

	m := metrics.New(reg)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(logger)

	var (
		locker           usecase.WalletLocker = lock.NewKeyedMutex()
		cache            usecase.Cache
		idempotencyStore usecase.IdempotencyStore
		sink             eventpublisher.Publisher = eventpublisher.NewLogPublisher(logger)
	)
	if app.redisClient != nil {
		cache = redisRepo.NewCache(app.redisClient)
		idempotencyStore = redisRepo.NewIdempotencyStore(app.redisClient)
		sink = eventpublisher.NewRedisStreamPublisher(app.redisClient, cfg.EventStream, cfg.EventStreamLen)
		if cfg.LockBackend == config.LockBackendRedis {
			locker = lock.NewRedisLocker(app.redisClient, cfg.LockExpiry, logger)
		}
	}

	// Use cases
	app.walletUC = usecase.NewWalletUseCase(repos.txManager, repos.wallets, repos.outbox, cache, idGen, m, logger, cfg.DefaultCurrency)
	app.applierUC = usecase.NewApplierUseCase(repos.txManager, repos.wallets, repos.entries, repos.outbox, locker, retrier, idGen, m, logger, cfg.LockTimeout)
	app.bonusUC = usecase.NewBonusUseCase(app.walletUC, app.applierUC, repos.configs, repos.entries, m, logger)
	app.billingUC = usecase.NewBillingUseCase(repos.txManager, repos.billing, repos.entries, repos.outbox, app.walletUC, app.applierUC, idGen, m, logger)
	app.transactionUC = usecase.NewTransactionUseCase(repos.wallets, repos.entries)
	app.configUC = usecase.NewSystemConfigUseCase(repos.txManager, repos.configs, repos.outbox, idGen, logger)
	app.reconciliationUC = usecase.NewReconciliationUseCase(repos.wallets, repos.ledger, m, logger)

	if err := app.seedSystemConfig(ctx); err != nil {
		app.Close()
		return nil, err
	}

	app.publisher = eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: repos.outbox,
		Publisher:  sink,
		Metrics:    m,
		Logger:     logger,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
		Retention:  cfg.OutboxRetention,
	})

	if cfg.RateLimitRPS > 0 {
		app.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	app.scheduler = scheduler.New(logger, 0)
	if err := app.scheduleJobs(); err != nil {
		app.Close()
		return nil, err
	}

	// Handlers
	var healthRedis goredis.UniversalClient
	if app.redisClient != nil {
		healthRedis = app.redisClient
	}
	routerCfg := httpAdapter.RouterConfig{
		WalletHandler:       handler.NewWalletHandler(app.walletUC),
		TransactionHandler:  handler.NewTransactionHandler(app.applierUC, app.transactionUC),
		OwnerHandler:        handler.NewOwnerHandler(app.bonusUC),
		BillingHandler:      handler.NewBillingHandler(app.billingUC),
		SystemConfigHandler: handler.NewSystemConfigHandler(app.configUC),
		LedgerHandler:       handler.NewLedgerHandler(app.reconciliationUC),
		HealthHandler:       handler.NewHealthHandler(repos.pool, healthRedis),
		MetricsHandler:      promhttp.Handler(),
		IdempotencyStore:    idempotencyStore,
		IdempotencyTTL:      cfg.IdempotencyTTL,
		RateLimiter:         app.rateLimiter,
		Logger:              logger,
	}
	app.handler = httpAdapter.NewRouter(routerCfg)

	return app, nil
}

func openRepositories(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*repositories, error) {
	if cfg.StoreBackend == config.StoreBackendMemory {
		store := memoryRepo.NewStore()
		logger.Warn().Msg("using in-memory store; data is lost on restart")
		return &repositories{
			txManager: memoryRepo.NewTxManager(store),
			wallets:   memoryRepo.NewWalletRepository(store),
			entries:   memoryRepo.NewTransactionRepository(store),
			configs:   memoryRepo.NewSystemConfigRepository(store),
			billing:   memoryRepo.NewBillingRecordRepository(store),
			ledger:    memoryRepo.NewLedgerRepository(store),
			outbox:    memoryRepo.NewOutboxRepository(store),
			closePool: func() {},
		}, nil
	}

	if cfg.AutoMigrate {
		if err := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, logger).Up(); err != nil {
			return nil, err
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info().Msg("connected to postgres")

	return &repositories{
		txManager: postgresRepo.NewTxManager(pool),
		wallets:   postgresRepo.NewWalletRepository(pool),
		entries:   postgresRepo.NewTransactionRepository(pool),
		configs:   postgresRepo.NewSystemConfigRepository(pool),
		billing:   postgresRepo.NewBillingRecordRepository(pool),
		ledger:    postgresRepo.NewLedgerRepository(pool),
		outbox:    postgresRepo.NewOutboxRepository(pool),
		pool:      pool,
		closePool: pool.Close,
	}, nil
}

func (a *application) seedSystemConfig(ctx context.Context) error {
	amount, err := a.cfg.BonusAmountDecimal()
	if err != nil {
		return err
	}

	if err := a.configUC.Seed(ctx, usecase.UpdateSystemConfigInput{
		BonusEnabled: a.cfg.BonusEnabled,
		BonusAmount:  amount,
		BonusDetail:  a.cfg.BonusDetail,
	}); err != nil {
		return fmt.Errorf("seed system config: %w", err)
	}
	return nil
}

func (a *application) scheduleJobs() error {
	if err := a.scheduler.Add("reconciliation", a.cfg.ReconcileSchedule, func(ctx context.Context) error {
		_, err := a.reconciliationUC.GenerateReconciliationReport(ctx)
		return err
	}); err != nil {
		return err
	}

	if err := a.scheduler.Add("outbox_cleanup", a.cfg.OutboxCleanupSchedule, a.publisher.Cleanup); err != nil {
		return err
	}

	if a.rateLimiter != nil {
		return a.scheduler.Add("rate_limiter_cleanup", "0 */10 * * * *", func(ctx context.Context) error {
			removed := a.rateLimiter.CleanupLimiters(rateLimiterIdle)
			a.logger.Debug().Int("removed", removed).Msg("rate limiters cleaned up")
			return nil
		})
	}

	return nil
}

// Handler returns the HTTP handler.
func (a *application) Handler() http.Handler {
	return a.handler
}

// StartBackground starts the outbox relay and the scheduler.
func (a *application) StartBackground(ctx context.Context) {
	a.background.Add(1)
	go func() {
		defer a.background.Done()
		if err := a.publisher.Start(ctx); err != nil && ctx.Err() == nil {
			a.logger.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	a.scheduler.Start()
}

// StopBackground stops the scheduler and waits for the relay until ctx is done.
func (a *application) StopBackground(ctx context.Context) {
	if err := a.scheduler.Stop(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("scheduler did not stop in time")
	}

	done := make(chan struct{})
	go func() {
		a.background.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		a.logger.Warn().Msg("event publisher did not stop in time")
	}
}

// Close releases connections.
func (a *application) Close() {
	if a.redisClient != nil {
		_ = a.redisClient.Close()
	}
	if a.repos != nil {
		a.repos.closePool()
	}
}
