package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/user/lifesim/config"
	"github.com/user/lifesim/internal/api"
	"github.com/user/lifesim/internal/game"
	"github.com/user/lifesim/internal/i18n"
	"github.com/user/lifesim/internal/storage"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "./config/config.json", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set up logger
	logger := setupLogger(cfg.Server.LogLevel)
	defer logger.Sync()

	// Load game data and text
	engine, bundle, err := loadEngine(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to load game data", zap.Error(err))
	}

	// Open session store
	store, err := storage.Open(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to open store", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer store.Close()

	service := game.NewService(store, engine, game.NewDiceRoller())
	service.SetLogger(logger)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: api.NewServer(service, bundle, logger).Router(),
	}

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	waitForShutdown(server, logger)
}

func setupLogger(level string) *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		config.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, _ := config.Build()
	return logger
}

func loadEngine(cfg config.Config, logger *zap.Logger) (*game.Engine, *i18n.Bundle, error) {
	catalog, err := game.NewDataLoader(cfg.Server.DataDir).LoadCatalog()
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Loaded catalog",
		zap.Int("items", len(catalog.Items)),
		zap.Int("events", len(catalog.Events)),
		zap.Int("vendors", len(catalog.Vendors)),
		zap.Int("locations", len(catalog.Locations)))

	bundle, err := i18n.LoadEmbedded()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load locales: %w", err)
	}

	engine, err := game.NewEngine(cfg.Game, catalog, bundle.Localizer())
	if err != nil {
		return nil, nil, err
	}
	return engine, bundle, nil
}

func waitForShutdown(server *http.Server, logger *zap.Logger) {
	// Set up channel for shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	sig := <-sigChan
	logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Failed to shut down HTTP server", zap.Error(err))
	}
	logger.Info("Shutting down")
}
