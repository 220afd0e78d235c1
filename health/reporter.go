package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/svcops/observe"
)

// Reporter defaults.
const (
	// DefaultHistoryLimit bounds the per-component result history.
	DefaultHistoryLimit = 100

	// DefaultRollupWindow is how many recent results feed a rollup.
	DefaultRollupWindow = 5

	// DefaultDegradedThreshold is the failure count marking a component degraded.
	DefaultDegradedThreshold = 1

	// DefaultCriticalThreshold is the failure count marking a component critical.
	DefaultCriticalThreshold = 3

	// DefaultUnhealthyMajority is the failing fraction above which the system
	// is unhealthy.
	DefaultUnhealthyMajority = 0.5

	// DefaultCheckInterval is the monitoring loop period.
	DefaultCheckInterval = 30 * time.Second
)

// ReporterConfig configures the health reporter.
type ReporterConfig struct {
	// HistoryLimit is the maximum retained results per component, oldest
	// evicted first.
	// Default: 100
	HistoryLimit int

	// RollupWindow is how many recent results a component rollup inspects.
	// Default: 5
	RollupWindow int

	// DegradedThreshold is the failed-check count within the rollup window
	// at which a component rolls up degraded.
	// Default: 1
	DegradedThreshold int

	// CriticalThreshold is the failed-check count within the rollup window
	// at which a component rolls up critical.
	// Default: 3
	CriticalThreshold int

	// UnhealthyMajority is the fraction of failing components above which
	// the whole system reports unhealthy.
	// Default: 0.5
	UnhealthyMajority float64

	// CheckInterval is the background monitoring period.
	// Default: 30 seconds
	CheckInterval time.Duration

	// ProbeTimeout is the default hard bound per component check, applied to
	// probes registered without an explicit timeout.
	// Default: 10 seconds
	ProbeTimeout time.Duration

	// Logger receives monitoring events. Default: no logging.
	Logger observe.Logger

	// Metrics records every probe outcome. Default: no metrics.
	Metrics observe.Metrics
}

// Reporter tracks component health over time. It owns a probe per registered
// component, a bounded result history per component, rollup classification
// over a recent window, and a system-wide summary. An optional background
// loop re-probes all components periodically.
type Reporter struct {
	config  ReporterConfig
	logger  observe.Logger
	metrics observe.Metrics

	mu         sync.RWMutex
	components map[string]*Probe
	order      []string // Maintains registration order
	history    map[string][]Result

	group singleflight.Group

	loopMu sync.Mutex
	stop   chan struct{}
	done   chan struct{}
}

// NewReporter creates a new health reporter.
func NewReporter(config ...ReporterConfig) *Reporter {
	cfg := ReporterConfig{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	if cfg.RollupWindow <= 0 {
		cfg.RollupWindow = DefaultRollupWindow
	}
	if cfg.DegradedThreshold <= 0 {
		cfg.DegradedThreshold = DefaultDegradedThreshold
	}
	if cfg.CriticalThreshold <= 0 {
		cfg.CriticalThreshold = DefaultCriticalThreshold
	}
	if cfg.UnhealthyMajority <= 0 || cfg.UnhealthyMajority >= 1 {
		cfg.UnhealthyMajority = DefaultUnhealthyMajority
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = DefaultCheckInterval
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observe.NopMetrics()
	}

	return &Reporter{
		config:     cfg,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		components: make(map[string]*Probe),
		order:      make([]string, 0),
		history:    make(map[string][]Result),
	}
}

// Register adds a component. The probe's ID (config ID, defaulting to the
// checker's name) is the component key and is returned. Re-registering an
// existing ID replaces the probe; accumulated history is retained.
func (r *Reporter) Register(c Checker, config ...ProbeConfig) string {
	cfg := ProbeConfig{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = r.config.ProbeTimeout
	}
	probe := NewProbe(c, cfg)

	r.mu.Lock()
	defer r.mu.Unlock()

	id := probe.ID()
	if _, exists := r.components[id]; !exists {
		r.order = append(r.order, id)
	}
	r.components[id] = probe
	return id
}

// Unregister removes a component. Its history is retained: past results
// outlive the registration.
func (r *Reporter) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.components, id)

	// Remove from order
	for i, n := range r.order {
		if n == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Components returns the IDs of all registered components in registration order.
func (r *Reporter) Components() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Probe returns the registered probe for a component.
func (r *Reporter) Probe(id string) (*Probe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	probe, ok := r.components[id]
	if !ok {
		return nil, ErrComponentNotFound
	}
	return probe, nil
}

// Check runs a single component's check and records the result.
func (r *Reporter) Check(ctx context.Context, id string, kind CheckType) (Result, error) {
	r.mu.RLock()
	probe, ok := r.components[id]
	r.mu.RUnlock()

	if !ok {
		return Result{}, ErrComponentNotFound
	}

	result := probe.Run(ctx, kind)
	r.observeResult(ctx, id, result)
	r.record(map[string]Result{id: result})
	return result, nil
}

// CheckAll probes every registered component concurrently and records the
// results. A failing, timing-out or panicking probe contributes its critical
// result; the fan-out never aborts. Concurrent CheckAll calls for the same
// check type are coalesced into one fan-out; every caller receives its own
// copy of the result map.
func (r *Reporter) CheckAll(ctx context.Context, kind CheckType) map[string]Result {
	v, _, _ := r.group.Do(kind.String(), func() (any, error) {
		return r.checkAll(ctx, kind), nil
	})
	shared := v.(map[string]Result)

	results := make(map[string]Result, len(shared))
	for id, result := range shared {
		results[id] = result
	}
	return results
}

func (r *Reporter) checkAll(ctx context.Context, kind CheckType) map[string]Result {
	r.mu.RLock()
	probes := make(map[string]*Probe, len(r.components))
	for id, probe := range r.components {
		probes[id] = probe
	}
	r.mu.RUnlock()

	results := make(map[string]Result, len(probes))
	if len(probes) == 0 {
		return results
	}

	var wg sync.WaitGroup
	var resMu sync.Mutex

	for id, probe := range probes {
		wg.Add(1)
		go func(id string, probe *Probe) {
			defer wg.Done()
			result := probe.Run(ctx, kind)
			r.observeResult(ctx, id, result)
			resMu.Lock()
			results[id] = result
			resMu.Unlock()
		}(id, probe)
	}

	wg.Wait()

	r.record(results)
	return results
}

// observeResult emits one probe outcome to the configured metrics.
func (r *Reporter) observeResult(ctx context.Context, id string, result Result) {
	r.metrics.RecordCheck(ctx, id, result.Type.String(), result.Status.String(), result.Duration)
}

// record appends results to the bounded per-component history.
func (r *Reporter) record(results map[string]Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, result := range results {
		h := append(r.history[id], result)
		if over := len(h) - r.config.HistoryLimit; over > 0 {
			h = h[over:]
		}
		r.history[id] = h
	}
}

// History returns up to limit most recent results for a component in
// chronological order. limit <= 0 returns the full retained history.
func (r *Reporter) History(id string, limit int) []Result {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h := r.history[id]
	if limit <= 0 || limit > len(h) {
		limit = len(h)
	}
	out := make([]Result, limit)
	copy(out, h[len(h)-limit:])
	return out
}

// Rollup classifies a component from its recent history: at least
// CriticalThreshold failures in the window is critical, at least
// DegradedThreshold is degraded, none is healthy. A component with no
// history is unknown.
func (r *Reporter) Rollup(id string) Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rollupLocked(id)
}

func (r *Reporter) rollupLocked(id string) Status {
	h := r.history[id]
	if len(h) == 0 {
		return StatusUnknown
	}

	window := h
	if len(window) > r.config.RollupWindow {
		window = window[len(window)-r.config.RollupWindow:]
	}

	failures := 0
	for _, result := range window {
		if !result.IsHealthy() {
			failures++
		}
	}

	switch {
	case failures >= r.config.CriticalThreshold:
		return StatusCritical
	case failures >= r.config.DegradedThreshold:
		return StatusDegraded
	default:
		return StatusHealthy
	}
}

// ComponentHealth is one component's entry in a system summary.
type ComponentHealth struct {
	// Status is the component's status: the fresh result's status when the
	// summary was built from fresh results, the rollup otherwise.
	Status Status

	// LastCheck is when the component was last probed.
	LastCheck time.Time
}

// Summary is the aggregated health of the whole system.
type Summary struct {
	// Status is the system-wide classification.
	Status Status

	// Healthy is true when no component is unhealthy or critical.
	Healthy bool

	// Total is the number of components tallied.
	Total int

	// Per-status component counts.
	HealthyCount   int
	DegradedCount  int
	UnhealthyCount int
	CriticalCount  int
	UnknownCount   int

	// Components maps component ID to its status and last check time.
	Components map[string]ComponentHealth

	// Timestamp is when the summary was computed.
	Timestamp time.Time
}

// SystemHealth aggregates component statuses into one system summary.
// With fresh results it tallies those directly; otherwise it derives each
// registered component's rollup from history without probing anything.
//
// Classification, in priority order: any critical component makes the system
// critical; failing components (unhealthy plus critical) above the
// UnhealthyMajority fraction make it unhealthy; any degraded or failing
// component makes it degraded; otherwise healthy. No components is healthy
// with zero counts.
func (r *Reporter) SystemHealth(fresh ...map[string]Result) Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	components := make(map[string]ComponentHealth)
	if len(fresh) > 0 && fresh[0] != nil {
		for id, result := range fresh[0] {
			components[id] = ComponentHealth{
				Status:    result.Status,
				LastCheck: result.Timestamp,
			}
		}
	} else {
		for _, id := range r.order {
			var last time.Time
			if h := r.history[id]; len(h) > 0 {
				last = h[len(h)-1].Timestamp
			}
			components[id] = ComponentHealth{
				Status:    r.rollupLocked(id),
				LastCheck: last,
			}
		}
	}

	summary := Summary{
		Total:      len(components),
		Components: components,
		Timestamp:  time.Now(),
	}

	for _, ch := range components {
		switch ch.Status {
		case StatusHealthy:
			summary.HealthyCount++
		case StatusDegraded:
			summary.DegradedCount++
		case StatusUnhealthy:
			summary.UnhealthyCount++
		case StatusCritical:
			summary.CriticalCount++
		default:
			summary.UnknownCount++
		}
	}

	failing := summary.UnhealthyCount + summary.CriticalCount

	switch {
	case summary.CriticalCount > 0:
		summary.Status = StatusCritical
	case summary.Total > 0 && float64(failing) > r.config.UnhealthyMajority*float64(summary.Total):
		summary.Status = StatusUnhealthy
	case summary.DegradedCount > 0 || failing > 0:
		summary.Status = StatusDegraded
	default:
		summary.Status = StatusHealthy
	}

	summary.Healthy = failing == 0
	return summary
}

// StartMonitoring starts the background loop probing all components with a
// liveness check every CheckInterval. Idempotent while running.
func (r *Reporter) StartMonitoring() {
	r.loopMu.Lock()
	defer r.loopMu.Unlock()

	if r.stop != nil {
		return
	}
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	go r.monitor(r.stop, r.done)
}

// StopMonitoring stops the background loop and waits for the in-flight
// iteration to finish. Idempotent when not running.
func (r *Reporter) StopMonitoring() {
	r.loopMu.Lock()
	defer r.loopMu.Unlock()

	if r.stop == nil {
		return
	}
	close(r.stop)
	<-r.done
	r.stop = nil
	r.done = nil
}

// Cleanup releases the reporter's background resources. Safe to call
// repeatedly and on a reporter that never monitored.
func (r *Reporter) Cleanup() {
	r.StopMonitoring()
}

func (r *Reporter) monitor(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			results := r.CheckAll(context.Background(), CheckLiveness)
			for id, result := range results {
				if !result.IsHealthy() {
					r.logger.Warn(context.Background(), "component check failed",
						observe.Field{Key: "component", Value: id},
						observe.Field{Key: "status", Value: result.Status.String()},
						observe.Field{Key: "message", Value: result.Message},
					)
				}
			}
		}
	}
}

// Checker returns a Checker view of the reporter so one reporter can be
// registered as a single component of another.
func (r *Reporter) Checker() Checker {
	return &reporterChecker{rep: r}
}

type reporterChecker struct {
	rep *Reporter
}

func (c *reporterChecker) Name() string {
	return "aggregate"
}

func (c *reporterChecker) Check(ctx context.Context, kind CheckType) Result {
	results := c.rep.CheckAll(ctx, kind)
	summary := c.rep.SystemHealth(results)

	details := make(map[string]any, len(results))
	for id, result := range results {
		details[id] = map[string]any{
			"status":   result.Status.String(),
			"message":  result.Message,
			"duration": result.Duration.String(),
		}
	}

	var message string
	switch summary.Status {
	case StatusHealthy:
		message = "all components healthy"
	case StatusDegraded:
		message = "some components degraded"
	case StatusUnhealthy:
		message = "components failing"
	case StatusCritical:
		message = "components critical"
	default:
		message = "component status unknown"
	}

	return Result{
		Status:    summary.Status,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}
