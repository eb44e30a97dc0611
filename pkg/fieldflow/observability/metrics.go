package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records fieldflow metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordNodeExecution records a node execution with its duration and error status.
	RecordNodeExecution(ctx context.Context, nodeID string, duration time.Duration, err error)

	// RecordTurn records a completed turn traversal.
	RecordTurn(ctx context.Context, success bool, duration time.Duration)

	// RecordGeneration records a language model call made during a turn.
	// Purpose identifies the call site (extraction, classification, bypass,
	// confirmation).
	RecordGeneration(ctx context.Context, purpose string, duration time.Duration, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	nodeExecutions metric.Int64Counter
	nodeLatency    metric.Float64Histogram
	nodeErrors     metric.Int64Counter
	turns          metric.Int64Counter
	turnLatency    metric.Float64Histogram
	generations    metric.Int64Counter
	genLatency     metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("fieldflow")

	nodeExecutions, err := meter.Int64Counter("fieldflow.node.executions",
		metric.WithDescription("Number of node executions"),
	)
	if err != nil {
		return nil, err
	}

	nodeLatency, err := meter.Float64Histogram("fieldflow.node.latency_ms",
		metric.WithDescription("Node execution latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	nodeErrors, err := meter.Int64Counter("fieldflow.node.errors",
		metric.WithDescription("Number of node execution errors"),
	)
	if err != nil {
		return nil, err
	}

	turns, err := meter.Int64Counter("fieldflow.turns",
		metric.WithDescription("Number of turn traversals"),
	)
	if err != nil {
		return nil, err
	}

	turnLatency, err := meter.Float64Histogram("fieldflow.turn.latency_ms",
		metric.WithDescription("Turn traversal latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	generations, err := meter.Int64Counter("fieldflow.generation.calls",
		metric.WithDescription("Number of language model calls"),
	)
	if err != nil {
		return nil, err
	}

	genLatency, err := meter.Float64Histogram("fieldflow.generation.latency_ms",
		metric.WithDescription("Language model call latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		nodeExecutions: nodeExecutions,
		nodeLatency:    nodeLatency,
		nodeErrors:     nodeErrors,
		turns:          turns,
		turnLatency:    turnLatency,
		generations:    generations,
		genLatency:     genLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordNodeExecution records a node execution.
func (m *otelMetrics) RecordNodeExecution(ctx context.Context, nodeID string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("node_id", nodeID),
	}

	m.nodeExecutions.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.nodeLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.nodeErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordTurn records a turn traversal.
func (m *otelMetrics) RecordTurn(ctx context.Context, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
	}
	m.turns.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.turnLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordGeneration records a language model call.
func (m *otelMetrics) RecordGeneration(ctx context.Context, purpose string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("purpose", purpose),
		attribute.Bool("success", err == nil),
	}
	m.generations.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.genLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}
