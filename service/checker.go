package service

import (
	"context"
	"errors"

	"github.com/jonwraymond/svcops/health"
)

// Checker adapts a service to the health.Checker interface so it can be
// registered as a component of a health.Reporter. The snapshot's outcome
// maps onto the five-state health model: an active service with a passing
// hook is healthy, a failed hook is critical, and any other lifecycle state
// is unhealthy.
func Checker(s Service) health.Checker {
	return health.NewCheckerFunc(s.ID(), func(ctx context.Context, kind health.CheckType) health.Result {
		snap := s.HealthCheck(ctx)

		details := make(map[string]any, len(snap.Details)+4)
		for k, v := range snap.Details {
			details[k] = v
		}
		details["status"] = snap.Status.String()
		details["uptime"] = snap.Uptime.String()
		details["requests"] = snap.Requests
		details["errors"] = snap.Errors

		switch {
		case snap.Error != "":
			return health.Critical("health hook failed: "+snap.Error,
				errors.New(snap.Error)).WithDetails(details)
		case snap.Healthy:
			return health.Healthy("service active").WithDetails(details)
		default:
			return health.Unhealthy("service not active: "+snap.Status.String(),
				health.ErrCheckFailed).WithDetails(details)
		}
	})
}
