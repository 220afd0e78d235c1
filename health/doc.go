// Package health provides health checking and reporting for long-running
// services.
//
// This package implements a generic health framework for monitoring the
// components of a service system over time. It provides interfaces for
// defining typed health checks, a probe wrapper that hardens checks against
// hangs and panics, a reporter that keeps per-component history and rolls it
// up into component and system classifications, and HTTP handlers for the
// usual probe endpoints.
//
// # Core Concepts
//
// A Checker is any component that can report its health status. The Status
// type represents the health state: Healthy, Degraded, Unhealthy, Critical,
// or Unknown. A status counts as healthy only when it is Healthy or
// Degraded. Checks carry a CheckType (liveness, readiness, startup,
// dependency, resource) so one checker can answer different probes at
// different depths.
//
// # Basic Usage
//
//	// Create a memory checker
//	memCheck := health.NewMemoryChecker(health.MemoryCheckerConfig{
//	    WarningThreshold:  0.80,
//	    CriticalThreshold: 0.95,
//	})
//
//	// Check resource health
//	result := memCheck.Check(ctx, health.CheckResource)
//	if !result.IsHealthy() {
//	    log.Printf("Memory failing: %s", result.Message)
//	}
//
// # Tracking Health Over Time
//
// Use Reporter to probe many components, record bounded per-component
// history, and classify components from their recent results:
//
//	rep := health.NewReporter()
//	rep.Register(memChecker)
//	rep.Register(dbChecker, health.ProbeConfig{ID: "database", Timeout: 2 * time.Second})
//
//	// Check all components concurrently
//	results := rep.CheckAll(ctx, health.CheckLiveness)
//	summary := rep.SystemHealth(results)
//
//	// Classify one component from its recent history
//	status := rep.Rollup("database")
//
// StartMonitoring runs the checks on an interval in the background;
// StopMonitoring or Cleanup shuts the loop down.
//
// # HTTP Endpoints
//
// The package provides HTTP handlers for common health check patterns:
//
//	// Liveness probe (for Kubernetes)
//	http.Handle("/healthz", health.LivenessHandler())
//
//	// Readiness probe with component checks
//	http.Handle("/readyz", health.ReadinessHandler(reporter))
//
//	// Detailed health status and recorded history
//	http.Handle("/health", health.DetailedHandler(reporter))
//	http.Handle("/health/history", health.HistoryHandler(reporter))
package health
