package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"finance-dashboard/config"
	httpLayer "finance-dashboard/http"
	"finance-dashboard/logger"
	"finance-dashboard/metrics"
	"finance-dashboard/repository"
	"finance-dashboard/service"
)

const cacheSweepInterval = time.Minute

func main() {
	configPath := flag.String("config", "", "path to a config file (default ./config.yaml if present)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	if _, err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSizeMB:  cfg.Logger.MaxSizeMB,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAgeDays: cfg.Logger.MaxAgeDays,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		slog.Error("init logger", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	slog.Info("server exited")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}

	recurringRepo, ledger, closeStore, err := openStore(cfg.Database)
	if err != nil {
		return err
	}
	defer closeStore()

	cache, closeCache := openCache(ctx, cfg.Redis)
	defer closeCache()

	debtService := service.NewDebtPlanService(service.NewDebtCalculator(), cache, m)
	recurringService := service.NewRecurringService(recurringRepo, ledger, m)
	accountService := service.NewAccountService(ledger)

	routerCfg := httpLayer.RouterConfig{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		RequestTimeout: cfg.HTTP.WriteTimeout,
		RateWindow:     cfg.RateLimit.Per,
	}
	if cfg.RateLimit.Enabled {
		routerCfg.RateLimiter = httpLayer.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Per)
		defer routerCfg.RateLimiter.Stop()
	}

	router := httpLayer.NewRouter(
		routerCfg,
		httpLayer.NewDebtPlanHandler(debtService),
		httpLayer.NewRecurringHandler(recurringService),
		httpLayer.NewAccountHandler(accountService),
		m,
	)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("http server listening", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		runRecurringProcessor(gctx, recurringService, cfg.Recurring.ProcessInterval)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStore returns the SQL store when a driver is configured and the
// in-memory repositories otherwise.
func openStore(cfg config.DatabaseConfig) (repository.RecurringRepository, repository.LedgerRepository, func(), error) {
	if cfg.Driver == "" {
		slog.Warn("no database configured, data is kept in memory only")
		return repository.NewRecurringRepositoryMemory(), repository.NewLedgerRepositoryMemory(), func() {}, nil
	}

	store, err := repository.OpenGormStore(repository.GormOptions{
		Driver:          cfg.Driver,
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		LogQueries:      cfg.LogQueries,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, nil, nil, err
	}

	slog.Info("database ready", "driver", cfg.Driver)
	return store, store, func() {
		if err := store.Close(); err != nil {
			slog.Warn("close database", "error", err)
		}
	}, nil
}

// openCache falls back to the in-process cache when Redis is absent or unreachable.
func openCache(ctx context.Context, cfg config.RedisConfig) (repository.CacheRepository, func()) {
	if cfg.Addr == "" {
		return newMemoryCache()
	}

	cache, err := repository.NewRedisCache(ctx, repository.RedisOptions{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err != nil {
		slog.Warn("redis unavailable, using in-memory cache", "addr", cfg.Addr, "error", err)
		return newMemoryCache()
	}

	return cache, func() {
		if err := cache.Close(); err != nil {
			slog.Warn("close redis", "error", err)
		}
	}
}

func newMemoryCache() (repository.CacheRepository, func()) {
	cache := repository.NewSweepingMemoryCache(cacheSweepInterval)
	return cache, cache.Stop
}

// runRecurringProcessor posts due recurring items once at startup and then
// on every tick until ctx is cancelled. A zero interval disables it.
func runRecurringProcessor(ctx context.Context, svc *service.RecurringService, interval time.Duration) {
	if interval <= 0 {
		return
	}

	process := func() {
		result, err := svc.ProcessDue(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "process recurring items", "error", err)
		}
		if result.CreatedTransactions > 0 || result.Deactivated > 0 {
			slog.InfoContext(ctx, "recurring items processed",
				"items", result.ProcessedItems,
				"transactions", result.CreatedTransactions,
				"deactivated", result.Deactivated,
			)
		}
	}

	process()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			process()
		}
	}
}
