package health

import "errors"

var (
	// ErrCheckFailed indicates a health check failed.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout indicates a health check timed out.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckPanic indicates a health check panicked.
	ErrCheckPanic = errors.New("health: check panicked")

	// ErrComponentNotFound indicates a component was not found.
	ErrComponentNotFound = errors.New("health: component not found")

	// ErrNoComponents indicates no components are registered.
	ErrNoComponents = errors.New("health: no components registered")
)
