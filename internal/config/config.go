// Package config provides configuration management for the Prop Edge pipeline.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Models   ModelsConfig   `mapstructure:"models" validate:"required"`
	Pipeline PipelineConfig `mapstructure:"pipeline" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
	Health   HealthConfig   `mapstructure:"health"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// ModelsConfig locates the model artifacts consumed by the ensemble
type ModelsConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

// PipelineConfig represents prediction pipeline configuration
type PipelineConfig struct {
	IntervalHours     int             `mapstructure:"interval_hours" validate:"required,gt=0"`
	RunTimeoutMinutes int             `mapstructure:"run_timeout_minutes" validate:"required,gt=0"`
	Markets           []string        `mapstructure:"markets" validate:"required,min=1,markets"`
	Thresholds        ThresholdConfig `mapstructure:"thresholds" validate:"required"`
}

// ThresholdConfig holds the pick decision constants. The defaults are the
// tuned production values; change them only alongside model recalibration.
type ThresholdConfig struct {
	MinEdgeOverProp      float64 `mapstructure:"min_edge_over_prop" validate:"gte=0"`
	MinEdgeUnderProp     float64 `mapstructure:"min_edge_under_prop" validate:"gte=0"`
	MinEdgeMatch         float64 `mapstructure:"min_edge_match" validate:"gte=0"`
	HighConfidenceEdge   float64 `mapstructure:"high_confidence_edge" validate:"gte=0"`
	UnderEvalMinOverOdds float64 `mapstructure:"under_eval_min_over_odds" validate:"gte=1"`
	UnderInferenceVig    float64 `mapstructure:"under_inference_vig" validate:"gt=1"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// HealthConfig represents the health endpoint configuration
type HealthConfig struct {
	Port string `mapstructure:"port"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// RunInterval returns the scheduler trigger interval
func (c *Config) RunInterval() time.Duration {
	return time.Duration(c.Pipeline.IntervalHours) * time.Hour
}

// RunTimeout returns the per-run deadline
func (c *Config) RunTimeout() time.Duration {
	return time.Duration(c.Pipeline.RunTimeoutMinutes) * time.Minute
}
