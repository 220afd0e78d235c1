package service

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters for one service. Counters are atomics:
// the self-check loop and health probes read them concurrently with
// lifecycle and request-path writers.
type Metrics struct {
	requests atomic.Uint64
	errors   atomic.Uint64

	mu            sync.RWMutex
	initializedAt time.Time
	lastError     string
	custom        map[string]any
}

// IncrementRequests bumps the handled-request counter.
func (m *Metrics) IncrementRequests() {
	m.requests.Add(1)
}

// Requests returns the handled-request count.
func (m *Metrics) Requests() uint64 {
	return m.requests.Load()
}

// RecordError bumps the error counter and overwrites the last error text.
func (m *Metrics) RecordError(msg string) {
	m.errors.Add(1)
	m.mu.Lock()
	m.lastError = msg
	m.mu.Unlock()
}

// Errors returns the error count.
func (m *Metrics) Errors() uint64 {
	return m.errors.Load()
}

// LastError returns the most recently recorded error text.
func (m *Metrics) LastError() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastError
}

// SetCustom stores a free-form metric value.
func (m *Metrics) SetCustom(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.custom == nil {
		m.custom = make(map[string]any)
	}
	m.custom[key] = value
}

// Custom returns a free-form metric value.
func (m *Metrics) Custom(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.custom[key]
	return v, ok
}

// CustomSnapshot returns a copy of all free-form metrics.
func (m *Metrics) CustomSnapshot() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.custom) == 0 {
		return nil
	}
	out := make(map[string]any, len(m.custom))
	for k, v := range m.custom {
		out[k] = v
	}
	return out
}

// InitializedAt returns when the service last began initializing, or the
// zero time if it never has.
func (m *Metrics) InitializedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initializedAt
}

func (m *Metrics) setInitialized(t time.Time) {
	m.mu.Lock()
	m.initializedAt = t
	m.mu.Unlock()
}
