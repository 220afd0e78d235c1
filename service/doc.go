// Package service provides a lifecycle state machine for long-running
// service components.
//
// A service moves through Inactive, Initializing, Active, Stopping and
// Stopped, with a parallel Error state reached when an initialization or
// shutdown hook fails. Concrete services embed *Base and supply behavior
// through three optional hooks: OnInitialize, OnShutdown and OnHealthCheck.
//
//	svc := service.New(service.Config{
//	    ID:       "cache",
//	    Priority: 10,
//	}, service.Hooks{
//	    OnInitialize: func(ctx context.Context) error {
//	        return openConnections(ctx)
//	    },
//	    OnShutdown: func(ctx context.Context) error {
//	        return closeConnections(ctx)
//	    },
//	})
//
//	if err := svc.Initialize(ctx); err != nil {
//	    // svc.Status() == service.StatusError; other services keep going
//	}
//
// Initialize and Shutdown are idempotent and serialized per instance, so
// concurrent callers cannot race the state transitions. Shutting down a
// service that never initialized is a no-op.
//
// HealthCheck never returns an error: hook failures and panics are folded
// into the returned Snapshot, leaving the lifecycle state untouched. With
// HealthCheckInterval set, an active service probes itself periodically and
// logs unhealthy snapshots. Checker adapts a Service to health.Checker for
// registration with a health.Reporter.
package service
