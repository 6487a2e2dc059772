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

	"github.com/archtools/modelsync/internal/adapter"
	"github.com/archtools/modelsync/internal/config"
	"github.com/archtools/modelsync/internal/logger"
	"github.com/archtools/modelsync/internal/poller"
	"github.com/archtools/modelsync/internal/providers/tandem"
	"github.com/archtools/modelsync/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadPollerConfig(*configFile, *envPath)
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
			"service": "platform-poller",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting ModelSync platform poller")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	clock := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	httpClient := adapter.NewHTTPClient(cfg.Tandem.HTTPTimeout)

	// Create platform client
	tokenSource := tandem.NewTokenSource(httpClient, jsonAdapter, clock, tandem.Config{
		TokenURL:     cfg.Tandem.TokenURL,
		APIURL:       cfg.Tandem.APIURL,
		ClientID:     cfg.Tandem.ClientID,
		ClientSecret: cfg.Tandem.ClientSecret,
		Scopes:       cfg.Tandem.Scopes,
	})
	platformClient := tandem.NewClient(httpClient, tokenSource, cfg.Tandem.APIURL)

	// Create poller
	p := poller.New(poller.Config{
		PollInterval:   cfg.PollInterval,
		WorkerPoolSize: cfg.Worker.PoolSize,
	}, dataStore, platformClient, clock)

	errCh := make(chan error, 1)
	go func() {
		if err := p.Run(ctx); err != nil && err != context.Canceled {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "poller"))
		cancel()
	}

	logger.Info("Platform poller stopped")
}
