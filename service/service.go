package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonwraymond/svcops/observe"
)

// Hooks are the extension points a concrete service provides. All hooks are
// optional; a nil hook is a no-op.
type Hooks struct {
	// OnInitialize acquires the service's resources. Called once per
	// successful Initialize, before the service becomes active.
	OnInitialize func(ctx context.Context) error

	// OnShutdown releases the service's resources. Called once per
	// Shutdown of an active service.
	OnShutdown func(ctx context.Context) error

	// OnHealthCheck reports service-specific health details. A returned
	// error (or panic) marks the check failed without touching the
	// lifecycle state.
	OnHealthCheck func(ctx context.Context) (map[string]any, error)
}

// Snapshot is the result of one HealthCheck call.
type Snapshot struct {
	// ServiceID identifies the service.
	ServiceID string

	// ServiceName is the human-readable name.
	ServiceName string

	// Status is the lifecycle state observed by the check, or StatusError
	// when the health hook itself failed.
	Status Status

	// Healthy is true when the service is active and the health hook
	// succeeded.
	Healthy bool

	// Uptime is the time since the service last began initializing.
	Uptime time.Duration

	// Requests and Errors are the counter values at snapshot time.
	Requests uint64
	Errors   uint64

	// LastError is the most recently recorded error text.
	LastError string

	// Details is the service-specific sub-map from the health hook.
	Details map[string]any

	// Error is the health hook's failure text, empty on success.
	Error string
}

// Service is a managed lifecycle component.
//
// Contract: Initialize and Shutdown are idempotent and safe for concurrent
// use. HealthCheck never fails; hook errors surface inside the returned
// snapshot. A service belongs to at most one registry at a time.
type Service interface {
	// ID returns the unique service ID.
	ID() string

	// Name returns the human-readable name.
	Name() string

	// Config returns the service's immutable config.
	Config() Config

	// Status returns the current lifecycle state.
	Status() Status

	// Initialize transitions the service to active, running its
	// initialization hook. Initializing an active service is a no-op.
	Initialize(ctx context.Context) error

	// Shutdown transitions the service to stopped, running its shutdown
	// hook and releasing registered cleanups. Shutting down a service
	// that never initialized is a no-op.
	Shutdown(ctx context.Context) error

	// HealthCheck probes the service and returns a snapshot. It never
	// returns an error; failures are reported inside the snapshot.
	HealthCheck(ctx context.Context) Snapshot
}

// Base implements Service. Concrete services embed *Base and supply their
// behavior through Hooks.
type Base struct {
	cfg    Config
	hooks  Hooks
	logger observe.Logger

	mu     sync.Mutex // Serializes lifecycle transitions
	status atomic.Int32

	metrics Metrics

	cleanupMu sync.Mutex
	cleanups  []func() error

	stop chan struct{}
	done chan struct{}
}

// New creates a service from a config and hooks. The config's Name defaults
// to its ID and its Logger defaults to a no-op logger.
func New(cfg Config, hooks Hooks) *Base {
	if cfg.Name == "" {
		cfg.Name = cfg.ID
	}
	logger := cfg.Logger
	if logger == nil {
		logger = observe.NopLogger()
	}

	return &Base{
		cfg:    cfg,
		hooks:  hooks,
		logger: logger,
	}
}

// ID returns the unique service ID.
func (b *Base) ID() string {
	return b.cfg.ID
}

// Name returns the human-readable name.
func (b *Base) Name() string {
	return b.cfg.Name
}

// Config returns the service's config.
func (b *Base) Config() Config {
	return b.cfg
}

// Status returns the current lifecycle state. Safe to call from any
// goroutine, including while a transition is in progress.
func (b *Base) Status() Status {
	return Status(b.status.Load())
}

func (b *Base) setStatus(s Status) {
	b.status.Store(int32(s))
}

// Metrics returns the service's metrics.
func (b *Base) Metrics() *Metrics {
	return &b.metrics
}

// IncrementRequests bumps the handled-request counter.
func (b *Base) IncrementRequests() {
	b.metrics.IncrementRequests()
}

// RecordError bumps the error counter and overwrites the last error text.
func (b *Base) RecordError(msg string) {
	b.metrics.RecordError(msg)
}

// SetCustom stores a free-form metric value.
func (b *Base) SetCustom(key string, value any) {
	b.metrics.SetCustom(key, value)
}

// Custom returns a free-form metric value.
func (b *Base) Custom(key string) (any, bool) {
	return b.metrics.Custom(key)
}

// RegisterCleanup adds a cleanup function released during Shutdown, after
// the shutdown hook, in reverse registration order. Safe to call from
// OnInitialize.
func (b *Base) RegisterCleanup(fn func() error) {
	b.cleanupMu.Lock()
	b.cleanups = append(b.cleanups, fn)
	b.cleanupMu.Unlock()
}

// Initialize transitions the service to active. Idempotent: an already
// active service returns nil without re-running the hook. On hook failure
// the service lands in StatusError and the error is returned; callers
// orchestrating a batch should continue with the remaining services.
func (b *Base) Initialize(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Status() == StatusActive {
		return nil
	}

	b.setStatus(StatusInitializing)
	b.metrics.setInitialized(time.Now())

	if b.hooks.OnInitialize != nil {
		if err := b.hooks.OnInitialize(ctx); err != nil {
			b.setStatus(StatusError)
			b.metrics.RecordError(err.Error())
			b.logger.Error(ctx, "service initialization failed",
				observe.Field{Key: "service", Value: b.cfg.ID},
				observe.Field{Key: "error", Value: err.Error()},
			)
			return fmt.Errorf("initialize %s: %w", b.cfg.ID, err)
		}
	}

	if b.cfg.HealthCheckInterval > 0 {
		b.startSelfCheck()
	}

	b.setStatus(StatusActive)
	b.logger.Info(ctx, "service initialized",
		observe.Field{Key: "service", Value: b.cfg.ID},
	)
	return nil
}

// Shutdown transitions the service to stopped. Idempotent: a service that
// is inactive, already stopping or already stopped returns nil without
// invoking the hook. Registered cleanups run after the hook in LIFO order;
// their errors are logged, not propagated. A hook failure leaves the
// service in StatusError and is returned; callers shutting down a batch
// should continue with the remaining services.
func (b *Base) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.Status() {
	case StatusInactive, StatusStopping, StatusStopped:
		return nil
	}

	b.setStatus(StatusStopping)
	b.stopSelfCheck()

	var hookErr error
	if b.hooks.OnShutdown != nil {
		if err := b.hooks.OnShutdown(ctx); err != nil {
			b.setStatus(StatusError)
			b.metrics.RecordError(err.Error())
			b.logger.Error(ctx, "service shutdown failed",
				observe.Field{Key: "service", Value: b.cfg.ID},
				observe.Field{Key: "error", Value: err.Error()},
			)
			hookErr = fmt.Errorf("shutdown %s: %w", b.cfg.ID, err)
		}
	}

	b.runCleanups(ctx)

	if hookErr != nil {
		return hookErr
	}

	b.setStatus(StatusStopped)
	b.logger.Info(ctx, "service stopped",
		observe.Field{Key: "service", Value: b.cfg.ID},
	)
	return nil
}

func (b *Base) runCleanups(ctx context.Context) {
	b.cleanupMu.Lock()
	cleanups := b.cleanups
	b.cleanups = nil
	b.cleanupMu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		if err := cleanups[i](); err != nil {
			b.logger.Warn(ctx, "cleanup failed",
				observe.Field{Key: "service", Value: b.cfg.ID},
				observe.Field{Key: "error", Value: err.Error()},
			)
		}
	}
}

// HealthCheck probes the service. It never fails: a hook error or panic
// yields a snapshot with StatusError and the failure text, increments the
// error counter, and leaves the lifecycle state untouched.
func (b *Base) HealthCheck(ctx context.Context) Snapshot {
	snap := Snapshot{
		ServiceID:   b.cfg.ID,
		ServiceName: b.cfg.Name,
		Status:      b.Status(),
		Requests:    b.metrics.Requests(),
		Errors:      b.metrics.Errors(),
		LastError:   b.metrics.LastError(),
	}
	if t := b.metrics.InitializedAt(); !t.IsZero() {
		snap.Uptime = time.Since(t)
	}

	details, err := b.runHealthHook(ctx)
	if err != nil {
		b.metrics.RecordError(err.Error())
		snap.Status = StatusError
		snap.Error = err.Error()
		snap.Errors = b.metrics.Errors()
		snap.LastError = b.metrics.LastError()
		return snap
	}

	snap.Details = details
	snap.Healthy = snap.Status == StatusActive
	return snap
}

func (b *Base) runHealthHook(ctx context.Context) (details map[string]any, err error) {
	if b.hooks.OnHealthCheck == nil {
		return nil, nil
	}

	defer func() {
		if v := recover(); v != nil {
			details = nil
			err = fmt.Errorf("%w: %v", ErrHealthCheckPanic, v)
		}
	}()

	if b.cfg.HealthCheckTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.HealthCheckTimeout)
		defer cancel()
	}

	return b.hooks.OnHealthCheck(ctx)
}

// startSelfCheck and stopSelfCheck are called with b.mu held.
func (b *Base) startSelfCheck() {
	b.stop = make(chan struct{})
	b.done = make(chan struct{})
	go b.selfCheck(b.stop, b.done)
}

func (b *Base) stopSelfCheck() {
	if b.stop == nil {
		return
	}
	close(b.stop)
	<-b.done
	b.stop = nil
	b.done = nil
}

func (b *Base) selfCheck(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(b.cfg.HealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			snap := b.HealthCheck(context.Background())
			if !snap.Healthy {
				b.logger.Warn(context.Background(), "self check unhealthy",
					observe.Field{Key: "service", Value: b.cfg.ID},
					observe.Field{Key: "status", Value: snap.Status.String()},
					observe.Field{Key: "error", Value: snap.Error},
				)
			}
		}
	}
}

var _ Service = (*Base)(nil)
