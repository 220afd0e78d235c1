package service

import (
	"time"

	"github.com/jonwraymond/svcops/observe"
)

// Config describes a service. It is immutable once the service is
// registered with a registry.
type Config struct {
	// ID uniquely identifies the service within one registry.
	ID string

	// Name is the human-readable service name. Default: ID
	Name string

	// Version is the service version string.
	Version string

	// Description explains what the service does.
	Description string

	// Dependencies lists the IDs of services that must initialize before
	// this one.
	Dependencies []string

	// Priority orders services with no dependency relation; lower
	// initializes earlier. Default: 0
	Priority int

	// HealthCheckInterval enables a periodic self check while the service
	// is active. Default: 0 (disabled)
	HealthCheckInterval time.Duration

	// HealthCheckTimeout bounds each self check via context deadline.
	// Default: 0 (no deadline)
	HealthCheckTimeout time.Duration

	// Logger receives lifecycle events. Default: no logging.
	Logger observe.Logger
}

// Validate checks the config for structural problems.
func (c Config) Validate() error {
	if c.ID == "" {
		return ErrMissingID
	}
	if c.HealthCheckInterval < 0 || c.HealthCheckTimeout < 0 {
		return ErrInvalidInterval
	}
	return nil
}
