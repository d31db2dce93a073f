// Package logger provides pipeline-specific logging.
package logger

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PipelineLogger provides dedicated logging for prediction pipeline runs.
type PipelineLogger struct {
	*logrus.Entry
}

// NewPipelineLogger creates a new pipeline logger.
func NewPipelineLogger(baseLogger *logrus.Logger) *PipelineLogger {
	return &PipelineLogger{
		Entry: baseLogger.WithField("component", "pipeline"),
	}
}

// LogRunStarted logs the start of a scheduled prediction run.
func (pl *PipelineLogger) LogRunStarted(runID uuid.UUID, propLines, matches int) {
	pl.WithFields(logrus.Fields{
		"run_id":     runID,
		"prop_lines": propLines,
		"matches":    matches,
	}).Info("Prediction run started")
}

// LogRunCompleted logs the outcome of a prediction run.
func (pl *PipelineLogger) LogRunCompleted(runID uuid.UUID, picksStored, skipped, failed int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"run_id":       runID,
		"picks_stored": picksStored,
		"skipped":      skipped,
		"failed":       failed,
		"duration_ms":  durationMs,
	}).Info("Prediction run completed")
}

// LogPickStored logs a stored pick with enough context to trace it back.
func (pl *PipelineLogger) LogPickStored(runID uuid.UUID, subject, market string, line float64, recommendation string, edgePercent float64) {
	pl.WithFields(logrus.Fields{
		"run_id":         runID,
		"subject":        subject,
		"market":         market,
		"line":           line,
		"recommendation": recommendation,
		"edge_percent":   edgePercent,
	}).Info("Pick stored")
}

// LogItemFailed logs a per-item scoring failure. The run continues.
func (pl *PipelineLogger) LogItemFailed(runID uuid.UUID, subject, market, reason string) {
	pl.WithFields(logrus.Fields{
		"run_id":  runID,
		"subject": subject,
		"market":  market,
		"reason":  reason,
	}).Error("Scoring failed for item")
}

// LogModelLoaded logs a lazy model artifact load.
func (pl *PipelineLogger) LogModelLoaded(market, composition string) {
	pl.WithFields(logrus.Fields{
		"market":      market,
		"composition": composition,
	}).Info("Ensemble model loaded")
}
