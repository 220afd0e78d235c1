package service

// Status is the lifecycle state of a single service.
//
// The happy path runs Inactive, Initializing, Active, Stopping, Stopped.
// Error is reachable from Initializing, Active and Stopping on unhandled
// failure and is not terminal: a later Initialize attempt may be made.
type Status int

const (
	// StatusInactive is a constructed service that has never initialized.
	StatusInactive Status = iota

	// StatusInitializing is a service running its initialization hook.
	StatusInitializing

	// StatusActive is a fully initialized, running service.
	StatusActive

	// StatusStopping is a service running its shutdown hook.
	StatusStopping

	// StatusStopped is a service that completed shutdown.
	StatusStopped

	// StatusError is a service whose initialization or shutdown failed.
	StatusError
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusInactive:
		return "inactive"
	case StatusInitializing:
		return "initializing"
	case StatusActive:
		return "active"
	case StatusStopping:
		return "stopping"
	case StatusStopped:
		return "stopped"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}
