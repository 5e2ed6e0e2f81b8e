// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

// Command api is the entry point for the Bazaari HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Start the session resolver and wizard sweepers.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	"github.com/bazaari/bazaari/internal/admin"
	"github.com/bazaari/bazaari/internal/api"
	"github.com/bazaari/bazaari/internal/marketplace/ad"
	"github.com/bazaari/bazaari/internal/messaging"
	"github.com/bazaari/bazaari/internal/platform/backend"
	"github.com/bazaari/bazaari/internal/platform/config"
	"github.com/bazaari/bazaari/internal/platform/constants"
	"github.com/bazaari/bazaari/internal/platform/metrics"
	"github.com/bazaari/bazaari/internal/platform/migration"
	pgstore "github.com/bazaari/bazaari/internal/platform/postgres"
	redisstore "github.com/bazaari/bazaari/internal/platform/redis"
	"github.com/bazaari/bazaari/internal/platform/sec"
	"github.com/bazaari/bazaari/internal/users/account"
	"github.com/bazaari/bazaari/internal/users/auth"
	"github.com/bazaari/bazaari/internal/users/session"
	"github.com/bazaari/bazaari/internal/users/verification"
	"github.com/bazaari/bazaari/internal/wallet"
	"github.com/bazaari/bazaari/internal/wizard"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("assistant_enabled", cfg.AssistantEnabled()),
	)

	// Root context for background workers; cancelled on shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Startup deadline so misconfiguration is caught quickly.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Identity & Session ─────────────────────────────────────────────
	registry := metrics.New()

	verifier, err := sec.NewTokenVerifier(cfg.BackendJWTSecret, constants.TokenAudience)
	must(log, err, "initialize token verifier")

	provider := backend.NewClient(cfg.BackendURL, cfg.BackendAnonKey, log)
	profiles := account.NewProfileRepository(pool)
	state := session.NewState()
	resolver := session.NewResolver(state, profiles, provider, session.ResolverConfig{
		AdminEmail: cfg.AdminEmail,
		FreshFor:   cfg.SessionFreshFor,
	}, registry, log)

	bus := session.NewRedisEventBus(rdb, constants.RedisChannelSessionEvents, log)
	unsubscribe, err := resolver.Watch(rootCtx, bus)
	must(log, err, "subscribe to session events")
	defer unsubscribe()

	// ── 7. Wizards ────────────────────────────────────────────────────────
	clock := wizard.SystemClock{}
	otpFlows := wizard.NewRegistry[*auth.Flow](auth.FlowName, clock)
	upgradeFlows := wizard.NewRegistry[*verification.Flow](verification.FlowName, clock)
	deposits := wizard.NewRegistry[*wallet.Deposit](wallet.FlowName, clock)
	boosts := wizard.NewRegistry[*ad.Boost](ad.BoostFlowName, clock)

	go otpFlows.RunSweeper(rootCtx, constants.WizardSweepInterval, cfg.WizardIdleTTL, log)
	go upgradeFlows.RunSweeper(rootCtx, constants.WizardSweepInterval, cfg.WizardIdleTTL, log)
	go deposits.RunSweeper(rootCtx, constants.WizardSweepInterval, cfg.WizardIdleTTL, log)
	go boosts.RunSweeper(rootCtx, constants.WizardSweepInterval, cfg.WizardIdleTTL, log)

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers([]api.Check{
		{Name: "postgres", Probe: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }},
		{Name: "redis", Probe: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(provider, bus, otpFlows, clock, registry, auth.Config{
		CodeLength:     cfg.OTPLength,
		ResendCooldown: cfg.OTPResendCooldown,
	}, log)

	verificationService := verification.NewService(
		upgradeFlows,
		verification.NewPostgresStore(pool),
		verification.NewUploadCamera(),
		registry,
		cfg.BoostProcessingDelay,
		log,
	)

	walletService := wallet.NewService(deposits, wallet.NewPostgresStore(pool), registry, log)

	var assistant ad.DescriptionAssistant
	if cfg.AssistantEnabled() {
		assistant = ad.NewGeminiAssistant(cfg.AIEndpoint, cfg.AIModel, cfg.AIAPIKey)
	}
	adService := ad.NewService(ad.NewPostgresStore(pool), boosts, assistant, registry, cfg.BoostProcessingDelay, log)

	coordinator := account.NewCoordinator(state, profiles, bus, registry, log)
	directory := account.NewDirectory(profiles, cfg.AdminEmail)

	messagingService := messaging.NewService(messaging.NewPostgresStore(pool), messaging.NewRedisNotifier(rdb), log)
	adminService := admin.NewService(admin.NewPostgresStore(pool), log)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Auth:         auth.NewHandler(authService),
		Verification: verification.NewHandler(verificationService),
		Wallet:       wallet.NewHandler(walletService),
		Ads:          ad.NewHandler(adService),
		Account:      account.NewHandler(coordinator, directory, adService),
		Messages:     messaging.NewHandler(messagingService),
		Admin:        admin.NewHandler(adminService),
	}

	identity := api.Identity{Verifier: verifier, Binder: resolver}
	server := api.NewServer(rootCtx, cfg, log, identity, registry, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the process JSON logger tagged with the app name.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", "bazaari"))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
