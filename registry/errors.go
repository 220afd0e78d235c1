package registry

import "errors"

var (
	// ErrServiceNotFound is returned when a service ID is not registered.
	ErrServiceNotFound = errors.New("registry: service not found")

	// ErrConfigNotFound is returned when no configuration is stored for a
	// service ID.
	ErrConfigNotFound = errors.New("registry: config not found")
)
