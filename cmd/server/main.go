package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/cofundable/cofundable/internal/adapter/http"
	"github.com/cofundable/cofundable/internal/adapter/http/handler"
	"github.com/cofundable/cofundable/internal/adapter/http/middleware"
	postgresRepo "github.com/cofundable/cofundable/internal/adapter/repository/postgres"
	redisRepo "github.com/cofundable/cofundable/internal/adapter/repository/redis"
	"github.com/cofundable/cofundable/internal/infrastructure/auth"
	"github.com/cofundable/cofundable/internal/infrastructure/config"
	"github.com/cofundable/cofundable/internal/infrastructure/eventpublisher"
	"github.com/cofundable/cofundable/internal/infrastructure/logger"
	"github.com/cofundable/cofundable/internal/infrastructure/metrics"
	"github.com/cofundable/cofundable/internal/infrastructure/postgres"
	"github.com/cofundable/cofundable/internal/infrastructure/redis"
	"github.com/cofundable/cofundable/internal/usecase"
)

const (
	limiterCleanupInterval = time.Minute
	limiterMaxIdle         = 10 * time.Minute
	outboxRetention        = 7 * 24 * time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	l := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger.SetGlobal(l)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, l); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, l zerolog.Logger) error {
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		return err
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	if err != nil {
		return err
	}
	defer pool.Close()
	l.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	l.Info().Msg("connected to redis")

	m := metrics.New(prometheus.DefaultRegisterer)

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	entryRepo := postgresRepo.NewTransactionRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	causeRepo := postgresRepo.NewCauseRepository(pool)
	tagRepo := postgresRepo.NewTagRepository(pool)
	bookmarkRepo := postgresRepo.NewBookmarkRepository(pool)
	outboxRepo := outboxRepository(cfg, pool)
	idGen := postgresRepo.NewULIDGenerator()

	cache := redisRepo.NewCache(redisClient, m)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Use cases
	ledgerUC := usecase.NewLedgerUseCase(accountRepo, entryRepo, ledgerRepo, idGen)
	accountUC := usecase.NewAccountUseCase(
		txManager, accountRepo, outboxRepo, ledgerUC, postgresRepo.NewRetrier(), idGen, m, cfg.TreasuryAccountID,
	)
	userUC := usecase.NewUserUseCase(txManager, userRepo, accountUC, outboxRepo, idGen)
	tagUC := usecase.NewTagUseCase(tagRepo, idGen)
	causeUC := usecase.NewCauseUseCase(txManager, causeRepo, tagUC, accountUC, outboxRepo, idGen, cache, cfg.CacheTTL)
	bookmarkUC := usecase.NewBookmarkUseCase(bookmarkRepo, causeUC, idGen)
	queryUC := usecase.NewTransactionQueryUseCase(entryRepo)
	reconciliationUC := usecase.NewReconciliationUseCase(accountRepo, entryRepo, ledgerUC)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)

	routerCfg := httpAdapter.RouterConfig{
		UserHandler:        handler.NewUserHandler(userUC, accountUC),
		CauseHandler:       handler.NewCauseHandler(causeUC),
		TagHandler:         handler.NewTagHandler(tagUC),
		BookmarkHandler:    handler.NewBookmarkHandler(bookmarkUC, userUC),
		TransactionHandler: handler.NewTransactionHandler(accountUC, queryUC, userUC, causeUC),
		AdminHandler:       handler.NewAdminHandler(accountUC, ledgerUC, reconciliationUC),
		HealthHandler:      handler.NewHealthHandler(healthDependencies(pool, redisClient)...),
		UserResolver:       userUC,
		IdempotencyStore:   idempotencyStore,
		RateLimiter:        rateLimiter,
		Metrics:            m,
		Gatherer:           prometheus.DefaultGatherer,
		Logger:             l,
	}
	if cfg.AuthEnabled {
		routerCfg.TokenVerifier = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	} else {
		l.Warn().Msg("authentication disabled: X-User-Handle selects the current user and admin routes are open")
	}

	if cfg.OutboxEnabled {
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  eventpublisher.NewLogPublisher(&l),
			Logger:     &l,
			Metrics:    m,
			Interval:   cfg.OutboxPollInterval,
			Retention:  outboxRetention,
		})
		go func() {
			if err := publisher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				l.Error().Err(err).Msg("event publisher stopped")
			}
		}()
	}

	go cleanupLimiters(ctx, rateLimiter, l)

	server := newHTTPServer(cfg, httpAdapter.NewRouter(routerCfg))

	errCh := make(chan error, 1)
	go func() {
		l.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	l.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	l.Info().Msg("server stopped")
	return nil
}

// outboxRepository discards events when the worker is disabled so they do not
// pile up unpublished.
func outboxRepository(cfg *config.Config, pool *pgxpool.Pool) usecase.OutboxRepository {
	if !cfg.OutboxEnabled {
		return postgresRepo.NewNullOutboxRepository()
	}
	return postgresRepo.NewOutboxRepository(pool)
}

func healthDependencies(pool *pgxpool.Pool, client goredis.UniversalClient) []handler.Dependency {
	return []handler.Dependency{
		{Name: "postgres", Ping: pool.Ping},
		{Name: "redis", Ping: func(ctx context.Context) error { return redis.Ping(ctx, client) }},
	}
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         net.JoinHostPort("", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

func cleanupLimiters(ctx context.Context, rl *middleware.RateLimiter, l zerolog.Logger) {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.CleanupLimiters(limiterMaxIdle); n > 0 {
				l.Debug().Int("removed", n).Msg("rate limiters cleaned up")
			}
		}
	}
}
