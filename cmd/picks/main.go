// Package main provides a CLI for browsing stored picks.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/prop-edge/internal/config"
	"github.com/yourusername/prop-edge/internal/database"
	"github.com/yourusername/prop-edge/internal/models"
	"github.com/yourusername/prop-edge/internal/repository"
)

var (
	configFile string
	dayFlag    string
	marketFlag string

	cfg   *config.Config
	db    *database.DB
	repos *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVarP(&dayFlag, "day", "d", "", "Day to list (YYYY-MM-DD, default today)")
	rootCmd.Flags().StringVarP(&marketFlag, "market", "m", "", "Filter by market key")
}

var rootCmd = &cobra.Command{
	Use:   "picks",
	Short: "List stored picks ranked by edge",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return listPicks(cmd.Context())
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

	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to create repositories: %w", err)
	}
	return nil
}

func listPicks(ctx context.Context) error {
	defer db.Close()

	day := time.Now().UTC()
	if dayFlag != "" {
		parsed, err := time.Parse("2006-01-02", dayFlag)
		if err != nil {
			return fmt.Errorf("invalid day %q: %w", dayFlag, err)
		}
		day = parsed
	}

	var market *models.MarketKey
	if marketFlag != "" {
		key, err := models.ParseMarketKey(marketFlag)
		if err != nil {
			return fmt.Errorf("invalid market %q: %w", marketFlag, err)
		}
		market = &key
	}

	picks, err := repos.Pick.ListForDay(ctx, day, market)
	if err != nil {
		return fmt.Errorf("failed to list picks: %w", err)
	}

	if len(picks) == 0 {
		fmt.Printf("No picks for %s\n", day.Format("2006-01-02"))
		return nil
	}

	fmt.Printf("%-16s %-6s %-8s %-10s %8s %8s\n", "MARKET", "LINE", "SIDE", "CONF", "PROB", "EDGE%")
	for _, p := range picks {
		line := "-"
		if p.Line != nil {
			line = fmt.Sprintf("%.1f", *p.Line)
		}
		fmt.Printf("%-16s %-6s %-8s %-10s %7.1f%% %7.2f%%\n",
			p.Market, line, p.Recommendation, p.Confidence, p.ModelProb*100, p.EdgePercent)
	}
	return nil
}
