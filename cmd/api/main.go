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
	"github.com/veridoc/doc-custody/internal/api/rest"
	"github.com/veridoc/doc-custody/internal/api/server"
	"github.com/veridoc/doc-custody/internal/audit"
	"github.com/veridoc/doc-custody/internal/auth"
	"github.com/veridoc/doc-custody/internal/chain"
	"github.com/veridoc/doc-custody/internal/config"
	"github.com/veridoc/doc-custody/internal/dashboard"
	"github.com/veridoc/doc-custody/internal/docs"
	"github.com/veridoc/doc-custody/internal/domain"
	"github.com/veridoc/doc-custody/internal/ingest"
	"github.com/veridoc/doc-custody/internal/ledger"
	"github.com/veridoc/doc-custody/internal/logger"
	"github.com/veridoc/doc-custody/internal/pullback"
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
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
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
			"service": "api-server",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting document custody API")

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
	if err := store.Migrate(db); err != nil {
		logger.FatalCtx(ctx, "Failed to run migrations", zap.Error(err))
	}

	// Connect to the chain node; the subscription feed needs the websocket
	// endpoint when one is configured
	clock := adapter.NewClock()
	dialer := adapter.NewEthClientDialer()
	nodeURL := cfg.Chain.WebSocketURL
	if nodeURL == "" {
		nodeURL = cfg.Chain.RPCURL
	}
	ethClient, err := dialer.Dial(ctx, nodeURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to chain node", zap.Error(err), zap.String("url", nodeURL))
	}
	defer ethClient.Close()

	gateway, err := chain.NewGateway(chain.Config{
		ChainID:             cfg.Chain.ChainID,
		ContractAddress:     cfg.Chain.ContractAddress,
		OperatorAddress:     cfg.Chain.OperatorAddress,
		OperatorPrivateKey:  cfg.Chain.OperatorPrivateKey,
		Confirmations:       cfg.Chain.Confirmations,
		ConfirmationTimeout: cfg.Chain.ConfirmationTimeout,
	}, ethClient, clock)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create chain gateway", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to chain node",
		zap.String("contract", cfg.Chain.ContractAddress),
		zap.Int64("chain_id", cfg.Chain.ChainID),
	)

	// Assemble services
	registry := domain.NewTokenRegistry(cfg.Tokens)
	auditLogger := audit.NewLogger(dataStore)

	authService := auth.NewService(auth.Config{
		JWTSecret:  cfg.Auth.JWTSecret,
		SessionTTL: cfg.Auth.SessionTTL,
		NonceTTL:   cfg.Auth.NonceTTL,
		SIWEDomain: cfg.Auth.SIWEDomain,
	}, auth.NewMemoryNonceStore(cfg.Auth.NonceTTL, clock), clock)

	httpClient := adapter.NewHTTPClient(cfg.Storage.HTTPTimeout)
	storage := docs.NewHTTPStorage(httpClient, cfg.Storage.PinURL, cfg.Storage.GatewayURL)

	ledgerService := ledger.NewService(dataStore, gateway, registry, auditLogger)
	docsService := docs.NewService(dataStore, gateway, storage, auditLogger, cfg.Storage.MaxDocumentSize)
	pullbackService := pullback.NewService(dataStore, gateway, registry, auditLogger)
	dashboardService := dashboard.NewService(dataStore, gateway, registry, cfg.Dashboard.WorkerPoolSize)
	reconciler := reconcile.NewReconciler(&reconcile.Config{
		Interval:       cfg.Reconcile.Interval,
		BatchSize:      cfg.Reconcile.BatchSize,
		WorkerPoolSize: cfg.Reconcile.WorkerPoolSize,
	}, dataStore, gateway, clock)
	ingestService := ingest.NewService(gateway, dataStore, auditLogger)

	// The event loop starts with the process; operators can stop and
	// restart it through the API
	if err := ingestService.Start(ctx); err != nil {
		logger.FatalCtx(ctx, "Failed to start event ingestion", zap.Error(err))
	}
	defer ingestService.Stop()

	serverConfig := server.Config{
		Debug:           cfg.Debug,
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:    time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:     time.Duration(cfg.Server.IdleTimeout) * time.Second,
		OperatorAddress: cfg.Chain.OperatorAddress,
	}

	srv := server.New(serverConfig, rest.Deps{
		Auth:       authService,
		Ledger:     ledgerService,
		Docs:       docsService,
		Pullback:   pullbackService,
		Dashboard:  dashboardService,
		Reconciler: reconciler,
		Ingest:     ingestService,
		Store:      dataStore,
		Gateway:    gateway,
		Registry:   registry,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("API server stopped")
}
