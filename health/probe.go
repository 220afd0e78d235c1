package health

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultProbeTimeout bounds a single probe run unless configured otherwise.
const DefaultProbeTimeout = 10 * time.Second

// ProbeConfig configures a Probe.
type ProbeConfig struct {
	// ID uniquely identifies the component.
	// Default: the checker's name.
	ID string

	// Name is the human-readable component name.
	// Default: ID.
	Name string

	// Timeout is the hard bound on a single check run.
	// Default: 10 seconds
	Timeout time.Duration
}

// Probe wraps a Checker with the hardening every component check needs:
// at most one in-flight run per instance, a hard timeout, panic recovery,
// wall-clock duration stamping, and identity stamping on every Result.
// A timed-out or panicking check yields a critical result; Run never
// propagates a failure.
type Probe struct {
	checker Checker
	id      string
	name    string
	timeout time.Duration

	runMu sync.Mutex // serializes runs

	lastMu  sync.RWMutex
	last    Result
	hasLast bool
}

// NewProbe creates a probe around the given checker.
func NewProbe(c Checker, config ...ProbeConfig) *Probe {
	cfg := ProbeConfig{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.ID == "" {
		cfg.ID = c.Name()
	}
	if cfg.Name == "" {
		cfg.Name = cfg.ID
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultProbeTimeout
	}

	return &Probe{
		checker: c,
		id:      cfg.ID,
		name:    cfg.Name,
		timeout: cfg.Timeout,
	}
}

// ID returns the component ID.
func (p *Probe) ID() string {
	return p.id
}

// Name returns the component name.
func (p *Probe) Name() string {
	return p.name
}

// Timeout returns the per-run hard bound.
func (p *Probe) Timeout() time.Duration {
	return p.timeout
}

// Run executes one check of the given kind. Concurrent calls on the same
// probe serialize. On timeout the check goroutine is abandoned and a critical
// result with ErrCheckTimeout is synthesized; a panicking check likewise
// becomes a critical result.
func (p *Probe) Run(ctx context.Context, kind CheckType) Result {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resultCh := make(chan Result, 1)

	go func() {
		defer func() {
			if v := recover(); v != nil {
				resultCh <- Critical(
					fmt.Sprintf("check panicked: %v", v),
					fmt.Errorf("%w: %v", ErrCheckPanic, v),
				)
			}
		}()
		resultCh <- p.checker.Check(ctx, kind)
	}()

	var result Result
	select {
	case result = <-resultCh:
	case <-ctx.Done():
		result = Critical("check timed out", ErrCheckTimeout)
	}

	result.ComponentID = p.id
	result.ComponentName = p.name
	result.Type = kind
	result.Duration = time.Since(start)
	if result.Timestamp.IsZero() {
		result.Timestamp = start
	}

	p.lastMu.Lock()
	p.last = result
	p.hasLast = true
	p.lastMu.Unlock()

	return result
}

// Last returns the most recent result without running a new check.
// The second return is false until the probe has run at least once.
func (p *Probe) Last() (Result, bool) {
	p.lastMu.RLock()
	defer p.lastMu.RUnlock()
	return p.last, p.hasLast
}
