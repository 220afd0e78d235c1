package service

import "errors"

var (
	// ErrMissingID indicates a service config without an ID.
	ErrMissingID = errors.New("service: id is required")

	// ErrInvalidInterval indicates a negative health check interval or timeout.
	ErrInvalidInterval = errors.New("service: health check interval must not be negative")

	// ErrHealthCheckPanic indicates a health check hook panicked.
	ErrHealthCheckPanic = errors.New("service: health check panicked")
)
