package observe

import (
	"context"
	"time"
)

// PhaseFunc is the signature for lifecycle phase functions.
// This is the standard function signature that Instrument wraps.
type PhaseFunc func(ctx context.Context) error

// Instrument wraps lifecycle phases with observability (tracing, metrics, logging).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe PhaseFunc.
//   - Context: Propagates context through tracing spans.
//   - Errors: Errors from wrapped function are recorded and propagated unchanged.
type Instrument struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewInstrument creates a new Instrument with the given observability components.
func NewInstrument(tracer Tracer, metrics Metrics, logger Logger) *Instrument {
	return &Instrument{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps a PhaseFunc with tracing, metrics, and logging.
func (in *Instrument) Wrap(meta ServiceMeta, phase Phase, fn PhaseFunc) PhaseFunc {
	return func(ctx context.Context) error {
		// Start span
		ctx, span := in.tracer.StartPhase(ctx, meta, phase)

		// Record start time
		start := time.Now()

		// Execute the phase
		err := fn(ctx)

		// Calculate duration
		duration := time.Since(start)

		// End span (records error status if err != nil)
		in.tracer.EndPhase(span, err)

		// Record metrics
		in.metrics.RecordLifecycle(ctx, meta, phase, duration, err)

		// Log the phase
		svcLogger := in.logger.WithComponent(meta.ServiceID())
		fields := []Field{
			{Key: "phase", Value: string(phase)},
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}

		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			svcLogger.Error(ctx, "lifecycle phase failed", fields...)
		} else {
			svcLogger.Info(ctx, "lifecycle phase completed", fields...)
		}

		return err
	}
}

// InstrumentFromObserver creates an Instrument from an Observer.
// This is a convenience function for common use cases.
func InstrumentFromObserver(obs Observer) (*Instrument, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	tracer := newTracer(obs.Tracer())

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewInstrument(tracer, metrics, obs.Logger()), nil
}
