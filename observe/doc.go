// Package observe provides observability primitives for service lifecycle
// management: structured logging, lifecycle phase tracing, and metrics for
// initialization, shutdown, and health checks.
//
// It is a pure instrumentation library: no orchestration, no transport, no I/O
// beyond exporter setup. Consumers wire the observer into a registry or
// health reporter at the application root.
package observe
