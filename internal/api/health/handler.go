package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"sentiguard/pkg/logger"
)

// CheckFunc probes one dependency
type CheckFunc func(ctx context.Context) error

// Check is a named dependency probe. Optional checks degrade the service
// instead of failing readiness.
type Check struct {
	Name     string
	Probe    CheckFunc
	Optional bool
}

// Handler provides health check endpoints
type Handler struct {
	log         *logger.Logger
	checks      []Check
	startTime   time.Time
	serviceName string
	version     string
}

// New creates a new health check handler
func New(log *logger.Logger, serviceName, version string, checks ...Check) *Handler {
	return &Handler{
		log:         log,
		checks:      checks,
		startTime:   time.Now(),
		serviceName: serviceName,
		version:     version,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string                     `json:"status"` // "healthy", "degraded", "unhealthy"
	Service   string                     `json:"service"`
	Version   string                     `json:"version"`
	Uptime    string                     `json:"uptime"`
	Timestamp string                     `json:"timestamp"`
	Checks    map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth represents health of a single component
type ComponentHealth struct {
	Status       string `json:"status"`
	Optional     bool   `json:"optional,omitempty"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

// HandleLiveness returns 200 OK if service is running
func (h *Handler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "alive",
	})
}

// HandleReadiness fails when any required dependency is unhealthy
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, statusCode := h.evaluate(ctx)
	if statusCode != http.StatusOK {
		h.log.Warnw("Readiness check failed", "checks", status.Checks)
	}
	writeJSON(w, statusCode, status)
}

// HandleHealth returns detailed health status. Failing optional checks
// report "degraded" with 200.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status, statusCode := h.evaluate(ctx)
	writeJSON(w, statusCode, status)
}

func (h *Handler) evaluate(ctx context.Context) (HealthStatus, int) {
	checks := make(map[string]ComponentHealth, len(h.checks))
	requiredFailed, optionalFailed := false, false

	for _, check := range h.checks {
		result := h.run(ctx, check)
		checks[check.Name] = result
		if result.Status == "healthy" {
			continue
		}
		if check.Optional {
			optionalFailed = true
		} else {
			requiredFailed = true
		}
	}

	status := HealthStatus{
		Status:    "healthy",
		Service:   h.serviceName,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().Format(time.RFC3339),
		Checks:    checks,
	}

	switch {
	case requiredFailed:
		status.Status = "unhealthy"
		return status, http.StatusServiceUnavailable
	case optionalFailed:
		status.Status = "degraded"
	}
	return status, http.StatusOK
}

func (h *Handler) run(ctx context.Context, check Check) ComponentHealth {
	start := time.Now()
	err := check.Probe(ctx)
	elapsed := time.Since(start)

	if err != nil {
		h.log.Warnw("Health check failed", "check", check.Name, "error", err, "elapsed", elapsed)
		return ComponentHealth{
			Status:       "unhealthy",
			Optional:     check.Optional,
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
		}
	}

	return ComponentHealth{
		Status:       "healthy",
		Optional:     check.Optional,
		ResponseTime: elapsed.String(),
	}
}

// Names lists the registered checks, sorted
func (h *Handler) Names() []string {
	names := make([]string, 0, len(h.checks))
	for _, c := range h.checks {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
