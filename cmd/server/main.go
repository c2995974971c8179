package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/symptom-analyzer/internal/api"
	"github.com/symptom-analyzer/internal/app"
	"github.com/symptom-analyzer/internal/config"
	"github.com/symptom-analyzer/internal/logging"
)

func main() {
	configFile := pflag.StringP("config", "c", "", "path to config file")
	pflag.Parse()

	// .env is optional
	_ = godotenv.Load()

	configManager, err := config.NewManager(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}
	cfg := configManager.GetConfig()

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Bootstrap(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize analyzer")
	}
	defer a.Close()

	server, err := api.NewServer(cfg.Server, logger, a.Analyzer, a.Catalog)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create server")
	}

	logger.WithField("port", cfg.Server.Port).Info("Starting symptom analyzer HTTP server")
	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Error("Server failed")
		a.Close()
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
