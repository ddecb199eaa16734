package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/finance-tracker/internal/cache"
	"github.com/msomdec/finance-tracker/internal/config"
	"github.com/msomdec/finance-tracker/internal/domain"
	"github.com/msomdec/finance-tracker/internal/handler"
	"github.com/msomdec/finance-tracker/internal/repository/sqlite"
	"github.com/msomdec/finance-tracker/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied", "path", cfg.DatabasePath)

	principalCache, stopCache, err := newPrincipalCache(cfg)
	if err != nil {
		slog.Error("failed to set up principal cache", "error", err)
		os.Exit(1)
	}
	defer stopCache()

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL, nil)
	hasher := service.NewPasswordHasher(cfg.BcryptCost)

	router := handler.NewRouter(handler.Services{
		Auth:         service.NewAuthService(db.Users(), hasher, tokens),
		Categories:   service.NewCategoryService(db.Categories()),
		Transactions: service.NewTransactionService(db.Transactions(), db.Categories()),
		Budgets:      service.NewBudgetService(db.Budgets(), db.Categories()),
		Summary:      service.NewSummaryService(db.Transactions(), db.Budgets()),
		Resolver:     service.NewPrincipalResolver(tokens, db.Users(), principalCache),
		DB:           db,
	}, handler.RouterOptions{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		CookieSecure:   cfg.CookieSecure,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// newPrincipalCache picks Redis when REDIS_ADDR is set so several instances
// share lookups, and an in-process LRU otherwise. The returned func releases
// whatever was started.
func newPrincipalCache(cfg *config.Config) (cache.Cache[domain.Principal], func(), error) {
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		rdb, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("principal cache: redis", "addr", cfg.RedisAddr)
		return cache.NewRedis[domain.Principal](rdb, "principal:", cfg.PrincipalCacheTTL), func() { rdb.Close() }, nil
	}

	lru := cache.NewLRU[domain.Principal](cfg.PrincipalCacheSize, cfg.PrincipalCacheTTL)
	janitor := cache.NewJanitor(lru)
	janitor.Start(cfg.PrincipalCacheTTL)
	slog.Info("principal cache: in-process", "size", cfg.PrincipalCacheSize, "ttl", cfg.PrincipalCacheTTL)
	return lru, janitor.Stop, nil
}
