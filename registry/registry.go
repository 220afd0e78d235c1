package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jonwraymond/svcops/observe"
	"github.com/jonwraymond/svcops/service"
)

// Config holds optional settings for a Registry.
type Config struct {
	// Logger receives orchestration events: computed startup order,
	// replaced registrations, and per-service lifecycle failures.
	// Default: no logging.
	Logger observe.Logger

	// Instrument wraps each service's initialize and shutdown phase with
	// tracing, metrics, and logging. Default: no instrumentation.
	Instrument *observe.Instrument
}

// Health is an aggregate snapshot of every registered service.
type Health struct {
	// Healthy is true when every registered service reports healthy.
	// An empty registry is healthy.
	Healthy bool `json:"healthy"`

	// HealthyCount is the number of services reporting healthy.
	HealthyCount int `json:"healthy_count"`

	// Total is the number of registered services.
	Total int `json:"total"`

	// Services maps service ID to its health snapshot.
	Services map[string]service.Snapshot `json:"services"`

	// Errors lists failures encountered during the sweep, one
	// "id: message" entry per service whose check reported an error,
	// sorted by service ID.
	Errors []string `json:"errors,omitempty"`
}

// Registry tracks services and orchestrates their lifecycle as a group.
//
// Startup order is computed once per initialization pass from the
// registered services' priorities and declared dependencies; shutdown
// replays that exact order in reverse, even if registrations changed in
// between. Services registered after InitializeAll are not part of the
// frozen order and must be initialized individually.
//
// Contract:
//   - Concurrency: all methods are safe for concurrent use.
//     InitializeAll and ShutdownAll serialize with each other.
//   - Context: lifecycle methods pass ctx through to every service.
//   - Errors: batch operations are best-effort. A failing service is
//     logged and the batch continues; it never aborts siblings.
type Registry struct {
	logger     observe.Logger
	instrument *observe.Instrument

	// batchMu serializes InitializeAll and ShutdownAll so two batch
	// passes never interleave.
	batchMu sync.Mutex

	mu          sync.RWMutex
	services    map[string]service.Service
	configs     map[string]service.Config
	ids         []string // registration order
	order       []string // frozen startup order, set by InitializeAll
	initialized bool
}

// New creates a Registry. Pass a Config to attach a logger or lifecycle
// instrumentation; with no arguments the registry runs silently.
func New(config ...Config) *Registry {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}
	return &Registry{
		logger:     cfg.Logger.WithComponent("registry"),
		instrument: cfg.Instrument,
		services:   make(map[string]service.Service),
		configs:    make(map[string]service.Config),
	}
}

// Register stores a service under its configured ID. The service's own
// Config is used unless an explicit one is supplied. Registering an ID
// that already exists replaces the previous entry with a warning and
// removes the stale ID from any frozen startup order, so a later
// ShutdownAll does not touch the replaced instance.
func (r *Registry) Register(svc service.Service, config ...service.Config) error {
	cfg := svc.Config()
	if len(config) > 0 {
		cfg = config[0]
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := cfg.ID
	if _, exists := r.services[id]; exists {
		r.logger.Warn(context.Background(), "replacing registered service",
			observe.Field{Key: "service", Value: id})
		r.order = removeID(r.order, id)
	} else {
		r.ids = append(r.ids, id)
	}
	r.services[id] = svc
	r.configs[id] = cfg
	return nil
}

// Unregister removes a service and shuts it down on a best-effort
// basis. Shutdown failures are logged, not returned; the caller asked
// for removal and removal succeeded. Returns ErrServiceNotFound if the
// ID is not registered.
func (r *Registry) Unregister(ctx context.Context, id string) error {
	r.mu.Lock()
	svc, ok := r.services[id]
	if !ok {
		r.mu.Unlock()
		return ErrServiceNotFound
	}
	delete(r.services, id)
	delete(r.configs, id)
	r.ids = removeID(r.ids, id)
	r.order = removeID(r.order, id)
	r.mu.Unlock()

	if err := svc.Shutdown(ctx); err != nil {
		r.logger.Warn(ctx, "shutdown during unregister failed",
			observe.Field{Key: "service", Value: id},
			observe.Field{Key: "error", Value: err.Error()})
	}
	return nil
}

// Get returns the registered service with the given ID.
func (r *Registry) Get(id string) (service.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	svc, ok := r.services[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

// GetConfig returns the effective configuration for the given service
// ID. This is the config the service was registered with, which may
// differ from its own Config() when an explicit one was supplied.
func (r *Registry) GetConfig(id string) (service.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.configs[id]
	if !ok {
		return service.Config{}, ErrConfigNotFound
	}
	return cfg, nil
}

// List returns the registered service IDs in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.ids))
	copy(ids, r.ids)
	return ids
}

// ByStatus returns the services currently in the given lifecycle
// status, in registration order.
func (r *Registry) ByStatus(status service.Status) []service.Service {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []service.Service
	for _, id := range r.ids {
		if svc := r.services[id]; svc.Status() == status {
			matched = append(matched, svc)
		}
	}
	return matched
}

// InitializeAll starts every registered service in dependency order.
//
// The order is computed once per pass and frozen so ShutdownAll can
// replay it in reverse. Initialization is sequential and best-effort: a
// failing service is logged and left in its error state while the rest
// still start. The registry is marked initialized even when some
// services failed, so a repeat call is a logged no-op; retry a failed
// service by calling its Initialize directly.
func (r *Registry) InitializeAll(ctx context.Context) error {
	r.batchMu.Lock()
	defer r.batchMu.Unlock()

	r.mu.Lock()
	if r.initialized {
		r.mu.Unlock()
		r.logger.Info(ctx, "services already initialized")
		return nil
	}
	order := computeOrder(r.ids, r.configs, r.logger)
	// Keep a private copy: removeID edits r.order in place when a
	// service is replaced or unregistered mid-pass.
	r.order = append([]string(nil), order...)
	svcs, cfgs := r.snapshotLocked(order)
	r.mu.Unlock()

	r.logger.Info(ctx, "initializing services",
		observe.Field{Key: "order", Value: strings.Join(order, ", ")})

	failed := 0
	for _, id := range order {
		if err := r.runPhase(ctx, cfgs[id], observe.PhaseInitialize, svcs[id].Initialize); err != nil {
			failed++
			r.logger.Error(ctx, "service initialization failed",
				observe.Field{Key: "service", Value: id},
				observe.Field{Key: "error", Value: err.Error()})
		}
	}

	r.mu.Lock()
	r.initialized = true
	r.mu.Unlock()

	r.logger.Info(ctx, "services initialized",
		observe.Field{Key: "total", Value: len(order)},
		observe.Field{Key: "failed", Value: failed})
	return nil
}

// ShutdownAll stops the services started by InitializeAll in exact
// reverse startup order. It is a no-op when the registry was never
// initialized. Shutdown is best-effort; failures are logged and the
// pass continues. Afterwards the registry returns to its uninitialized
// state, so InitializeAll may run again.
func (r *Registry) ShutdownAll(ctx context.Context) error {
	r.batchMu.Lock()
	defer r.batchMu.Unlock()

	r.mu.Lock()
	if !r.initialized {
		r.mu.Unlock()
		return nil
	}
	order := append([]string(nil), r.order...)
	svcs, cfgs := r.snapshotLocked(order)
	r.mu.Unlock()

	failed := 0
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		svc, ok := svcs[id]
		if !ok {
			// Unregistered since the order was frozen.
			continue
		}
		if err := r.runPhase(ctx, cfgs[id], observe.PhaseShutdown, svc.Shutdown); err != nil {
			failed++
			r.logger.Error(ctx, "service shutdown failed",
				observe.Field{Key: "service", Value: id},
				observe.Field{Key: "error", Value: err.Error()})
		}
	}

	r.mu.Lock()
	r.initialized = false
	r.order = nil
	r.mu.Unlock()

	r.logger.Info(ctx, "services shut down",
		observe.Field{Key: "total", Value: len(order)},
		observe.Field{Key: "failed", Value: failed})
	return nil
}

// HealthStatus checks every registered service concurrently and returns
// the aggregate. A service whose HealthCheck panics is reported as an
// errored snapshot instead of crashing the sweep. Healthy is true only
// when every service reports healthy.
func (r *Registry) HealthStatus(ctx context.Context) Health {
	r.mu.RLock()
	svcs := make(map[string]service.Service, len(r.services))
	for id, svc := range r.services {
		svcs[id] = svc
	}
	r.mu.RUnlock()

	health := Health{
		Total:    len(svcs),
		Services: make(map[string]service.Snapshot, len(svcs)),
	}

	var wg sync.WaitGroup
	var resMu sync.Mutex
	for id, svc := range svcs {
		wg.Add(1)
		go func(id string, svc service.Service) {
			defer wg.Done()
			snap := checkService(ctx, id, svc)

			resMu.Lock()
			defer resMu.Unlock()
			health.Services[id] = snap
			if snap.Healthy {
				health.HealthyCount++
			}
			if snap.Error != "" {
				health.Errors = append(health.Errors, id+": "+snap.Error)
			}
		}(id, svc)
	}
	wg.Wait()

	sort.Strings(health.Errors)
	health.Healthy = health.HealthyCount == health.Total
	return health
}

// checkService runs one service's health check, converting a panic into
// an errored snapshot.
func checkService(ctx context.Context, id string, svc service.Service) (snap service.Snapshot) {
	defer func() {
		if v := recover(); v != nil {
			snap = service.Snapshot{
				ServiceID: id,
				Status:    service.StatusError,
				Error:     fmt.Sprintf("health check panicked: %v", v),
			}
		}
	}()
	return svc.HealthCheck(ctx)
}

// snapshotLocked copies the service and config entries for the given
// IDs. Callers must hold r.mu.
func (r *Registry) snapshotLocked(ids []string) (map[string]service.Service, map[string]service.Config) {
	svcs := make(map[string]service.Service, len(ids))
	cfgs := make(map[string]service.Config, len(ids))
	for _, id := range ids {
		if svc, ok := r.services[id]; ok {
			svcs[id] = svc
			cfgs[id] = r.configs[id]
		}
	}
	return svcs, cfgs
}

// runPhase executes a lifecycle phase, wrapped with instrumentation
// when configured.
func (r *Registry) runPhase(ctx context.Context, cfg service.Config, phase observe.Phase, fn observe.PhaseFunc) error {
	if r.instrument == nil {
		return fn(ctx)
	}
	meta := observe.ServiceMeta{ID: cfg.ID, Name: cfg.Name, Version: cfg.Version}
	return r.instrument.Wrap(meta, phase, fn)(ctx)
}

// removeID returns ids with the first occurrence of id removed.
func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
