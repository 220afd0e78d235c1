package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records lifecycle and health-check metrics for services.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLifecycle records a lifecycle phase with duration and error status.
	RecordLifecycle(ctx context.Context, meta ServiceMeta, phase Phase, duration time.Duration, err error)

	// RecordCheck records a single health check result.
	RecordCheck(ctx context.Context, componentID, checkType, status string, duration time.Duration)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter         metric.Meter
	lifecycleHist metric.Float64Histogram
	phaseCount    metric.Int64Counter
	phaseErrors   metric.Int64Counter
	checkCount    metric.Int64Counter
	checkHist     metric.Float64Histogram
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	phaseCount, err := meter.Int64Counter(
		"svc.lifecycle.total",
		metric.WithDescription("Total number of lifecycle phase executions"),
		metric.WithUnit("{phase}"),
	)
	if err != nil {
		return nil, err
	}

	phaseErrors, err := meter.Int64Counter(
		"svc.lifecycle.errors",
		metric.WithDescription("Total number of lifecycle phase failures"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	lifecycleHist, err := meter.Float64Histogram(
		"svc.lifecycle.duration_ms",
		metric.WithDescription("Lifecycle phase duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	checkCount, err := meter.Int64Counter(
		"svc.check.total",
		metric.WithDescription("Total number of health check executions"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	checkHist, err := meter.Float64Histogram(
		"svc.check.duration_ms",
		metric.WithDescription("Health check duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:         meter,
		lifecycleHist: lifecycleHist,
		phaseCount:    phaseCount,
		phaseErrors:   phaseErrors,
		checkCount:    checkCount,
		checkHist:     checkHist,
	}, nil
}

// RecordLifecycle records metrics for a lifecycle phase execution.
func (m *metricsImpl) RecordLifecycle(ctx context.Context, meta ServiceMeta, phase Phase, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("svc.id", meta.ServiceID()),
		attribute.String("svc.name", meta.Name),
		attribute.String("svc.phase", string(phase)),
	}

	opt := metric.WithAttributes(attrs...)

	// Always increment total counter
	m.phaseCount.Add(ctx, 1, opt)

	// Increment error counter on failure
	if err != nil {
		m.phaseErrors.Add(ctx, 1, opt)
	}

	// Record duration in milliseconds
	durationMs := float64(duration.Milliseconds())
	m.lifecycleHist.Record(ctx, durationMs, opt)
}

// RecordCheck records metrics for a single health check execution.
func (m *metricsImpl) RecordCheck(ctx context.Context, componentID, checkType, status string, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("svc.component", componentID),
		attribute.String("svc.check_type", checkType),
		attribute.String("svc.status", status),
	}

	opt := metric.WithAttributes(attrs...)

	m.checkCount.Add(ctx, 1, opt)
	m.checkHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// NopMetrics returns a Metrics that discards everything. It is the
// default wherever a Metrics is optional.
func NopMetrics() Metrics { return &noopMetrics{} }

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordLifecycle(ctx context.Context, meta ServiceMeta, phase Phase, duration time.Duration, err error) {
}

func (m *noopMetrics) RecordCheck(ctx context.Context, componentID, checkType, status string, duration time.Duration) {
}
