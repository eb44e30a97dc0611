package fieldflow

import (
	"log/slog"

	"github.com/randalmurphal/fieldflow/pkg/fieldflow/observability"
)

// runConfig holds configuration for graph execution.
type runConfig struct {
	maxIterations  int
	logger         *slog.Logger
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	tracingEnabled bool
}

// defaultRunConfig returns the default execution configuration.
func defaultRunConfig() runConfig {
	return runConfig{
		maxIterations: 50,
		metrics:       observability.NoopMetrics{},
		spans:         observability.NoopSpanManager{},
	}
}

// RunOption configures execution behavior.
type RunOption func(*runConfig)

// WithMaxIterations sets the maximum number of node executions per turn.
// Default: 50
//
// This prevents routing cycles from hanging forever. If a traversal
// exceeds this limit, Run returns a MaxIterationsError.
//
// Example:
//
//	result, err := compiled.Run(ctx, state, fieldflow.WithMaxIterations(20))
func WithMaxIterations(n int) RunOption {
	return func(c *runConfig) {
		if n > 0 {
			c.maxIterations = n
		}
	}
}

// WithRunLogger sets the logger used for turn-level and node-level log
// records. When unset, the logger from the execution Context is used.
func WithRunLogger(logger *slog.Logger) RunOption {
	return func(c *runConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder for node execution and turn metrics.
// Default: no-op.
//
// Example:
//
//	result, err := compiled.Run(ctx, state,
//	    fieldflow.WithMetrics(observability.NewMetricsRecorder()))
func WithMetrics(m observability.MetricsRecorder) RunOption {
	return func(c *runConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracing enables distributed tracing using the given span manager.
// Each turn produces a root span with a child span per executed node.
//
// Example:
//
//	result, err := compiled.Run(ctx, state,
//	    fieldflow.WithTracing(observability.NewSpanManager()))
func WithTracing(s observability.SpanManager) RunOption {
	return func(c *runConfig) {
		if s != nil {
			c.spans = s
			c.tracingEnabled = true
		}
	}
}
