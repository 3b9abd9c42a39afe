package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/rappelscan/backend/config"
	"github.com/rappelscan/backend/internal/app"
	"github.com/rappelscan/backend/internal/logging"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logger := logging.New(cfg.Log)
	logger.WithFields(logrus.Fields{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"cache_type":  cfg.Cache.Type,
		"cache_ttl":   cfg.Cache.TTL.String(),
		"favorites":   cfg.Favorites.Driver,
		"watch_every": cfg.Watch.Interval.String(),
	}).Info("Starting RappelScan Backend v1.0.0")

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize application")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := application.Serve(ctx)
	if err := application.Close(); err != nil {
		logger.WithError(err).Error("Failed to close application")
	}
	if serveErr != nil {
		logger.WithError(serveErr).Error("Server stopped with error")
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
