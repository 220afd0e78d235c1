package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Phase identifies a lifecycle phase for telemetry purposes.
type Phase string

const (
	// PhaseInitialize covers service initialization.
	PhaseInitialize Phase = "init"
	// PhaseShutdown covers service shutdown.
	PhaseShutdown Phase = "shutdown"
	// PhaseCheck covers a health check pass.
	PhaseCheck Phase = "check"
)

// ServiceMeta contains metadata about a service for telemetry purposes.
type ServiceMeta struct {
	ID      string // Stable service ID (falls back to Name)
	Name    string // Service name (required)
	Version string // Service version (optional)
}

// ServiceID returns the stable service identifier.
// If ID is set, returns it. Otherwise falls back to Name.
func (m ServiceMeta) ServiceID() string {
	if m.ID != "" {
		return m.ID
	}
	return m.Name
}

// SpanName returns the deterministic span name for a lifecycle phase.
// Format: svc.<phase>.<id>
func (m ServiceMeta) SpanName(phase Phase) string {
	return "svc." + string(phase) + "." + m.ServiceID()
}

// Validate checks that the metadata identifies a service.
func (m ServiceMeta) Validate() error {
	if m.ID == "" && m.Name == "" {
		return ErrMissingServiceID
	}
	return nil
}

// Tracer wraps OpenTelemetry tracing with lifecycle-phase span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartPhase must honor cancellation/deadlines and return ctx.Err() when canceled.
// - Errors: EndPhase must be best-effort and must not panic.
type Tracer interface {
	// StartPhase starts a new span for a lifecycle phase.
	StartPhase(ctx context.Context, meta ServiceMeta, phase Phase) (context.Context, trace.Span)

	// EndPhase ends the span, recording any error.
	EndPhase(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartPhase starts a new span with service metadata as attributes.
func (t *tracerImpl) StartPhase(ctx context.Context, meta ServiceMeta, phase Phase) (context.Context, trace.Span) {
	spanName := meta.SpanName(phase)

	// Build attributes
	attrs := []attribute.KeyValue{
		attribute.String("svc.id", meta.ServiceID()),
		attribute.String("svc.name", meta.Name),
		attribute.String("svc.phase", string(phase)),
		attribute.Bool("svc.error", false), // Will be updated in EndPhase if error
	}

	if meta.Version != "" {
		attrs = append(attrs, attribute.String("svc.version", meta.Version))
	}

	ctx, span := t.tracer.Start(ctx, spanName,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	return ctx, span
}

// EndPhase ends the span and records the error status if present.
func (t *tracerImpl) EndPhase(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("svc.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// newNoopTracer creates a no-op tracer.
func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartPhase(ctx context.Context, meta ServiceMeta, phase Phase) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName(phase))
}

func (t *noopTracer) EndPhase(span trace.Span, err error) {
	span.End()
}
