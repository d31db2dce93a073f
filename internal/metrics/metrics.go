// Package metrics exposes Prometheus instrumentation for the prediction
// pipeline.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const namespace = "prop_edge"

// PipelineMetrics holds the pipeline's Prometheus collectors.
type PipelineMetrics struct {
	RunsTotal       *prometheus.CounterVec
	RunDuration     prometheus.Histogram
	PicksStored     *prometheus.CounterVec
	ItemsSkipped    *prometheus.CounterVec
	ItemsFailed     prometheus.Counter
	ModelLoadsTotal *prometheus.CounterVec
	OpenPropLines   prometheus.Gauge
	UpcomingMatches prometheus.Gauge
}

// NewPipelineMetrics registers the pipeline collectors on the default
// registry.
func NewPipelineMetrics() *PipelineMetrics {
	return &PipelineMetrics{
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Prediction runs by outcome",
		}, []string{"status"}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Prediction run duration",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
		PicksStored: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "picks_stored_total",
			Help:      "Picks stored by market",
		}, []string{"market"}),
		ItemsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_skipped_total",
			Help:      "Scoring items skipped by reason",
		}, []string{"reason"}),
		ItemsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_failed_total",
			Help:      "Scoring items that errored",
		}),
		ModelLoadsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_loads_total",
			Help:      "Model artifact loads by market",
		}, []string{"market"}),
		OpenPropLines: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_prop_lines",
			Help:      "Prop lines considered in the latest run",
		}),
		UpcomingMatches: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "upcoming_matches",
			Help:      "Upcoming matches considered in the latest run",
		}),
	}
}

// Server exposes the metrics endpoint over HTTP.
type Server struct {
	server *http.Server
	logger *logrus.Logger
}

// NewServer creates the metrics HTTP server.
func NewServer(port int, path string, log *logrus.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	return &Server{
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
		logger: log,
	}
}

// Start serves metrics until the server is shut down.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.server.Addr).Info("Starting metrics server")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("metrics server failed: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
