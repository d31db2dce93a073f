// Package main provides a one-shot prediction run for operators and cron-less
// environments.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/prop-edge/internal/config"
	"github.com/yourusername/prop-edge/internal/database"
	"github.com/yourusername/prop-edge/internal/ensemble"
	"github.com/yourusername/prop-edge/internal/logger"
	"github.com/yourusername/prop-edge/internal/metrics"
	"github.com/yourusername/prop-edge/internal/repository"
	"github.com/yourusername/prop-edge/internal/service"
)

var (
	configFile string
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run one prediction pass over open markets",
	Long:  `Scores every open prop line and upcoming match once, stores qualifying picks, and exits.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd.Context())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog = logger.NewLogger(cfg.App.LogLevel)

	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.InitSchema(ctx, db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to create repositories: %w", err)
	}
	return nil
}

func runOnce(ctx context.Context) error {
	defer db.Close()

	runCtx, cancel := context.WithTimeout(ctx, cfg.RunTimeout())
	defer cancel()

	plog := logger.NewPipelineLogger(appLog)
	registry := ensemble.NewRegistry(cfg.Models.Dir, plog)
	svc := service.NewPredictionService(repos, registry, cfg, metrics.NewPipelineMetrics(), appLog)

	report, err := svc.Run(runCtx)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s finished in %s\n", report.RunID, report.Duration.Round(time.Millisecond))
	fmt.Printf("  prop lines: %d\n", report.PropLines)
	fmt.Printf("  matches:    %d\n", report.Matches)
	fmt.Printf("  stored:     %d\n", report.PicksStored)
	fmt.Printf("  skipped:    %d\n", report.Skipped)
	fmt.Printf("  failed:     %d\n", report.Failed)
	return nil
}
