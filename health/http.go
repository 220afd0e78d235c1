package health

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// LivenessHandler returns an HTTP handler for liveness probes.
// This is a simple check that the service is running.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// ReadinessHandler returns an HTTP handler for readiness probes.
// This runs a readiness check across all registered components.
func ReadinessHandler(rep *Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		results := rep.CheckAll(ctx, CheckReadiness)
		summary := rep.SystemHealth(results)

		w.Header().Set("Content-Type", "text/plain")

		switch summary.Status {
		case StatusHealthy:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
		case StatusDegraded:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("DEGRADED"))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(strings.ToUpper(summary.Status.String())))
		}
	}
}

// HealthResponse is the JSON response for the detailed health endpoint.
type HealthResponse struct {
	Status    string                   `json:"status"`
	Healthy   bool                     `json:"healthy"`
	Timestamp string                   `json:"timestamp"`
	Checks    map[string]CheckResponse `json:"checks,omitempty"`
}

// CheckResponse is the JSON response for a single health check.
type CheckResponse struct {
	Status   string         `json:"status"`
	Type     string         `json:"type,omitempty"`
	Message  string         `json:"message,omitempty"`
	Rollup   string         `json:"rollup,omitempty"`
	Duration string         `json:"duration,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// DetailedHandler returns an HTTP handler that provides detailed health
// information: a fresh liveness check per component plus its rollup over
// recent history.
func DetailedHandler(rep *Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		results := rep.CheckAll(ctx, CheckLiveness)
		summary := rep.SystemHealth(results)

		response := HealthResponse{
			Status:    summary.Status.String(),
			Healthy:   summary.Healthy,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    make(map[string]CheckResponse, len(results)),
		}

		for id, result := range results {
			check := CheckResponse{
				Status:   result.Status.String(),
				Type:     result.Type.String(),
				Message:  result.Message,
				Rollup:   rep.Rollup(id).String(),
				Duration: result.Duration.String(),
				Details:  result.Details,
			}
			if result.Err != nil {
				check.Error = result.Err.Error()
			}
			response.Checks[id] = check
		}

		w.Header().Set("Content-Type", "application/json")

		switch summary.Status {
		case StatusHealthy, StatusDegraded:
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		_ = json.NewEncoder(w).Encode(response)
	}
}

// SingleCheckHandler returns an HTTP handler for checking a single component.
func SingleCheckHandler(rep *Reporter, id string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		result, err := rep.Check(ctx, id, CheckLiveness)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error": err.Error(),
			})
			return
		}

		response := CheckResponse{
			Status:   result.Status.String(),
			Type:     result.Type.String(),
			Message:  result.Message,
			Rollup:   rep.Rollup(id).String(),
			Duration: result.Duration.String(),
			Details:  result.Details,
		}
		if result.Err != nil {
			response.Error = result.Err.Error()
		}

		w.Header().Set("Content-Type", "application/json")

		switch result.Status {
		case StatusHealthy, StatusDegraded:
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		_ = json.NewEncoder(w).Encode(response)
	}
}

// HistoryResponse is the JSON response for the history endpoint.
type HistoryResponse struct {
	Component string                 `json:"component"`
	Rollup    string                 `json:"rollup"`
	Results   []HistoryEntryResponse `json:"results"`
}

// HistoryEntryResponse is one recorded result in a history response.
type HistoryEntryResponse struct {
	Status    string `json:"status"`
	Type      string `json:"type,omitempty"`
	Message   string `json:"message,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Timestamp string `json:"timestamp"`
	Error     string `json:"error,omitempty"`
}

// HistoryHandler returns an HTTP handler serving a component's recorded
// results in chronological order. The component is selected with the
// "component" query parameter; "limit" caps how many recent results are
// returned. Unknown components with no recorded history get a 404.
func HistoryHandler(rep *Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("component")

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "invalid limit: " + raw,
				})
				return
			}
			limit = n
		}

		history := rep.History(id, limit)
		if len(history) == 0 {
			if _, err := rep.Probe(id); err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusNotFound)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": ErrComponentNotFound.Error(),
				})
				return
			}
		}

		response := HistoryResponse{
			Component: id,
			Rollup:    rep.Rollup(id).String(),
			Results:   make([]HistoryEntryResponse, 0, len(history)),
		}
		for _, result := range history {
			entry := HistoryEntryResponse{
				Status:    result.Status.String(),
				Type:      result.Type.String(),
				Message:   result.Message,
				Duration:  result.Duration.String(),
				Timestamp: result.Timestamp.UTC().Format(time.RFC3339Nano),
			}
			if result.Err != nil {
				entry.Error = result.Err.Error()
			}
			response.Results = append(response.Results, entry)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// RegisterHandlers registers all health check handlers on the given mux.
func RegisterHandlers(mux *http.ServeMux, rep *Reporter) {
	mux.HandleFunc("/healthz", LivenessHandler())
	mux.HandleFunc("/readyz", ReadinessHandler(rep))
	mux.HandleFunc("/health", DetailedHandler(rep))
	mux.HandleFunc("/health/history", HistoryHandler(rep))
}
