package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"upbolis-market/config"
	httpHandler "upbolis-market/internal/adapter/http/handler"
	pgStorage "upbolis-market/internal/adapter/storage/postgres"
	redisStorage "upbolis-market/internal/adapter/storage/redis"
	"upbolis-market/internal/core/ports"
	"upbolis-market/internal/service"
	"upbolis-market/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Int("port", cfg.Server.Port).
		Msg("Starting UPBolis marketplace backend")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// Apply schema migrations
	if err := pgStorage.RunMigrations(pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	log.Info().Msg("Database migrations applied")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Initialize repositories
	walletRepo := pgStorage.NewWalletRepo(pool)
	productRepo := pgStorage.NewProductRepo(pool)
	orderRepo := pgStorage.NewOrderRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	idempotencyRepo := pgStorage.NewIdempotencyRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	idempotencyCache := redisStorage.NewIdempotencyCache(rdb)

	// Initialize business services
	settlementSvc := service.NewSettlementService(
		orderRepo,
		productRepo,
		walletRepo,
		txRepo,
		idempotencyRepo,
		idempotencyCache,
		transactor,
		log,
	)
	transferSvc := service.NewTransferService(walletRepo, txRepo, transactor, log)
	reportingSvc := service.NewReportingService(orderRepo, productRepo, walletRepo, txRepo, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		SettlementSvc:  settlementSvc,
		TransferSvc:    transferSvc,
		ReportingSvc:   reportingSvc,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
