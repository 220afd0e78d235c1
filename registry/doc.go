// Package registry orchestrates the lifecycle of a group of services.
//
// Services register with declared dependencies and an integer priority
// (lower starts earlier). InitializeAll computes a startup order once,
// honoring dependencies with priority as the tie-break, then initializes
// each service sequentially. ShutdownAll replays the frozen order in
// reverse. Both passes are best-effort: one failing service is logged
// and skipped, never blocking its siblings.
//
//	reg := registry.New(registry.Config{Logger: logger})
//
//	reg.Register(database)
//	reg.Register(cache)   // Dependencies: ["database"]
//	reg.Register(api)     // Dependencies: ["cache"]
//
//	if err := reg.InitializeAll(ctx); err != nil {
//	    return err
//	}
//	defer reg.ShutdownAll(context.Background())
//
// Dependency cycles do not deadlock startup: the services stuck in the
// cycle are appended to the order after an error log, so every service
// is still initialized exactly once. Dependencies on unregistered IDs
// are warned about and ignored.
//
// HealthStatus fans out over all registered services concurrently and
// aggregates their snapshots; a panicking health check is contained and
// reported as an errored entry. There is no package-level default
// registry. Construct one at the application root and pass it down.
package registry
