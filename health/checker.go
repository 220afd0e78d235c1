package health

import (
	"context"
	"time"
)

// Status represents the health status of a component, ordered by severity.
type Status int

const (
	// StatusHealthy indicates the component is functioning normally.
	StatusHealthy Status = iota
	// StatusDegraded indicates the component is functioning but with issues.
	StatusDegraded
	// StatusUnhealthy indicates the component is not functioning properly.
	StatusUnhealthy
	// StatusCritical indicates the component has failed hard: probe error,
	// timeout, or panic.
	StatusCritical
	// StatusUnknown indicates the status cannot be determined.
	StatusUnknown
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	case StatusCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// IsHealthy reports whether the status counts as healthy in boolean
// contexts. Healthy and Degraded do; Unhealthy, Critical and Unknown do not.
func (s Status) IsHealthy() bool {
	return s == StatusHealthy || s == StatusDegraded
}

// CheckType identifies what a health check verifies.
type CheckType int

const (
	// CheckLiveness verifies the component is running at all.
	CheckLiveness CheckType = iota
	// CheckReadiness verifies the component can serve work.
	CheckReadiness
	// CheckStartup verifies one-time startup completion.
	CheckStartup
	// CheckDependency verifies a downstream dependency.
	CheckDependency
	// CheckResource verifies resource headroom (memory, disk, handles).
	CheckResource
)

// String returns the string representation of the check type.
func (t CheckType) String() string {
	switch t {
	case CheckLiveness:
		return "liveness"
	case CheckReadiness:
		return "readiness"
	case CheckStartup:
		return "startup"
	case CheckDependency:
		return "dependency"
	case CheckResource:
		return "resource"
	default:
		return "unknown"
	}
}

// Result contains the outcome of a single health check run. Results are
// immutable values: one per probe execution.
type Result struct {
	// ComponentID identifies the probed component.
	ComponentID string

	// ComponentName is the human-readable component name.
	ComponentName string

	// Status is the health status.
	Status Status

	// Type is what kind of check produced this result.
	Type CheckType

	// Message provides additional context about the status.
	Message string

	// Details contains arbitrary metadata about the check.
	Details map[string]any

	// Duration is how long the check took.
	Duration time.Duration

	// Timestamp is when the check was performed.
	Timestamp time.Time

	// Err is the error if the check failed.
	Err error
}

// IsHealthy reports whether the result's status counts as healthy.
func (r Result) IsHealthy() bool {
	return r.Status.IsHealthy()
}

// Healthy creates a healthy result.
func Healthy(message string) Result {
	return Result{
		Status:    StatusHealthy,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Degraded creates a degraded result.
func Degraded(message string) Result {
	return Result{
		Status:    StatusDegraded,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Unhealthy creates an unhealthy result.
func Unhealthy(message string, err error) Result {
	return Result{
		Status:    StatusUnhealthy,
		Message:   message,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// Critical creates a critical result.
func Critical(message string, err error) Result {
	return Result{
		Status:    StatusCritical,
		Message:   message,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// Unknown creates a result whose status cannot be determined.
func Unknown(message string) Result {
	return Result{
		Status:    StatusUnknown,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithDetails adds details to a result.
func (r Result) WithDetails(details map[string]any) Result {
	r.Details = details
	return r
}

// WithDuration sets the duration on a result.
func (r Result) WithDuration(d time.Duration) Result {
	r.Duration = d
	return r
}

// Checker is the interface components implement to report their health.
type Checker interface {
	// Name returns the name of this checker.
	Name() string

	// Check performs a health check of the given kind and returns the result.
	Check(ctx context.Context, kind CheckType) Result
}

// CheckerFunc is an adapter to allow ordinary functions to be used as Checkers.
type CheckerFunc struct {
	name string
	fn   func(context.Context, CheckType) Result
}

// NewCheckerFunc creates a new CheckerFunc.
func NewCheckerFunc(name string, fn func(context.Context, CheckType) Result) *CheckerFunc {
	return &CheckerFunc{name: name, fn: fn}
}

// Name returns the name of this checker.
func (f *CheckerFunc) Name() string {
	return f.name
}

// Check performs the health check.
func (f *CheckerFunc) Check(ctx context.Context, kind CheckType) Result {
	return f.fn(ctx, kind)
}
