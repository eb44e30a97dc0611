// Package observability provides production-grade observability features
// for fieldflow: structured logging, metrics, and distributed tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds fieldflow context to a logger.
// Returns a new logger with session_id, turn_id, and node_id fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "sess-1", "turn-123", "field_extraction")
//	enriched.Info("doing work") // includes session_id, turn_id, node_id
func EnrichLogger(logger *slog.Logger, sessionID, turnID, nodeID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("session_id", sessionID),
		slog.String("turn_id", turnID),
		slog.String("node_id", nodeID),
	)
}

// LogTurnStart logs the start of a turn traversal.
func LogTurnStart(logger *slog.Logger, turnID, entryNode string) {
	if logger == nil {
		return
	}
	logger.Info("turn starting",
		slog.String("turn_id", turnID),
		slog.String("entry_node", entryNode),
	)
}

// LogTurnComplete logs successful turn completion.
func LogTurnComplete(logger *slog.Logger, turnID string, durationMs float64, nodeCount int) {
	if logger == nil {
		return
	}
	logger.Info("turn completed",
		slog.String("turn_id", turnID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("nodes_executed", nodeCount),
	)
}

// LogTurnError logs turn failure.
func LogTurnError(logger *slog.Logger, turnID string, err error, durationMs float64, lastNode string) {
	if logger == nil {
		return
	}
	logger.Error("turn failed",
		slog.String("turn_id", turnID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
		slog.String("last_node", lastNode),
	)
}

// LogNodeStart logs node execution start.
func LogNodeStart(logger *slog.Logger, nodeID string) {
	if logger == nil {
		return
	}
	logger.Debug("node starting",
		slog.String("node_id", nodeID),
	)
}

// LogNodeComplete logs successful node completion.
func LogNodeComplete(logger *slog.Logger, nodeID string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("node completed",
		slog.String("node_id", nodeID),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogNodeError logs node execution error.
func LogNodeError(logger *slog.Logger, nodeID string, err error) {
	if logger == nil {
		return
	}
	logger.Error("node failed",
		slog.String("node_id", nodeID),
		slog.String("error", err.Error()),
	)
}

// LogRoute logs the transition chosen after a node.
func LogRoute(logger *slog.Logger, from, to string) {
	if logger == nil {
		return
	}
	logger.Debug("routing",
		slog.String("from", from),
		slog.String("to", to),
	)
}

// LogGeneration logs a language model call made by a node.
// Fallback indicates the heuristic path was used instead of the model.
func LogGeneration(logger *slog.Logger, purpose string, durationMs float64, err error) {
	if logger == nil {
		return
	}
	if err != nil {
		logger.Warn("generation failed",
			slog.String("purpose", purpose),
			slog.Float64("duration_ms", durationMs),
			slog.String("error", err.Error()),
		)
		return
	}
	logger.Debug("generation completed",
		slog.String("purpose", purpose),
		slog.Float64("duration_ms", durationMs),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
