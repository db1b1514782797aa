package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/veridoc/doc-custody/internal/adapter"
	"github.com/veridoc/doc-custody/internal/chain"
	"github.com/veridoc/doc-custody/internal/config"
	"github.com/veridoc/doc-custody/internal/logger"
	"github.com/veridoc/doc-custody/internal/reconcile"
	"github.com/veridoc/doc-custody/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadSweeperConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "sweeper",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting custody reconciliation sweeper")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	dataStore := store.NewPGStore(db)

	// Connect to the chain node; the sweeper only reads, so no operator key
	// is required
	clock := adapter.NewClock()
	dialer := adapter.NewEthClientDialer()
	ethClient, err := dialer.Dial(ctx, cfg.Chain.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to chain node", zap.Error(err), zap.String("url", cfg.Chain.RPCURL))
	}
	defer ethClient.Close()

	gateway, err := chain.NewGateway(chain.Config{
		ChainID:             cfg.Chain.ChainID,
		ContractAddress:     cfg.Chain.ContractAddress,
		OperatorAddress:     cfg.Chain.OperatorAddress,
		Confirmations:       cfg.Chain.Confirmations,
		ConfirmationTimeout: cfg.Chain.ConfirmationTimeout,
	}, ethClient, clock)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create chain gateway", zap.Error(err))
	}

	// Initialize the reconciler
	reconciler := reconcile.NewReconciler(&reconcile.Config{
		Interval:       cfg.Reconcile.Interval,
		BatchSize:      cfg.Reconcile.BatchSize,
		WorkerPoolSize: cfg.Reconcile.WorkerPoolSize,
	}, dataStore, gateway, clock)

	logger.InfoCtx(ctx, "Initialized custody reconciler",
		zap.Duration("interval", cfg.Reconcile.Interval),
		zap.Int("batch_size", cfg.Reconcile.BatchSize),
		zap.Int("worker_pool_size", cfg.Reconcile.WorkerPoolSize),
	)

	// Start the sweeper in a goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := reconciler.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.ErrorCtx(ctx, err)
	}

	cancel()

	// Give the sweeper time to shut down gracefully
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()

	if err := reconciler.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err)
	}

	logger.InfoCtx(shutdownCtx, "Sweeper stopped")
}
