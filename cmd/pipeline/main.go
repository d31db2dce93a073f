// Package main provides the entry point for the prediction pipeline daemon.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-edge/internal/config"
	"github.com/yourusername/prop-edge/internal/database"
	"github.com/yourusername/prop-edge/internal/ensemble"
	"github.com/yourusername/prop-edge/internal/health"
	"github.com/yourusername/prop-edge/internal/logger"
	"github.com/yourusername/prop-edge/internal/metrics"
	"github.com/yourusername/prop-edge/internal/repository"
	"github.com/yourusername/prop-edge/internal/scheduler"
	"github.com/yourusername/prop-edge/internal/service"
)

func main() {
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"interval":    cfg.RunInterval().String(),
	}).Info("Prop Edge prediction pipeline starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := database.InitSchema(ctx, db); err != nil {
		appLog.WithError(err).Fatal("Failed to initialize schema")
	}
	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create repositories")
	}

	plog := logger.NewPipelineLogger(appLog)
	registry := ensemble.NewRegistry(cfg.Models.Dir, plog)
	pm := metrics.NewPipelineMetrics()

	predictionService := service.NewPredictionService(repos, registry, cfg, pm, appLog)

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Port:        cfg.Health.Port,
		ModelDir:    cfg.Models.Dir,
		Logger:      appLog,
		DB:          db,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, appLog)
		go func() {
			if err := metricsServer.Start(); err != nil {
				appLog.WithError(err).Error("Metrics server stopped")
			}
		}()
	}

	sched := scheduler.New(predictionService, cfg.RunInterval(), cfg.RunTimeout(), appLog)
	if err := sched.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}
	healthServer.SetReady(true)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()
	sched.Stop()
	if metricsServer != nil {
		if err := metricsServer.Stop(context.Background()); err != nil {
			appLog.WithError(err).Error("Failed to stop metrics server")
		}
	}
	appLog.Info("Pipeline shut down")
}
