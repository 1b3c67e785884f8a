package handler

import (
	"context"
	"net/http"
	"time"
)

const readinessTimeout = 5 * time.Second

// Dependency is something the service needs to be reachable before it takes
// traffic.
type Dependency struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	deps []Dependency
}

// NewHealthHandler creates a new HealthHandler. Dependencies are checked in order.
func NewHealthHandler(deps ...Dependency) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// Root greets API clients.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the Cofundable API"})
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 if every dependency answers a ping.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	body := map[string]string{"status": "ready"}
	for _, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, dep.Name+" unhealthy", err.Error())
			return
		}
		body[dep.Name] = "ok"
	}

	writeJSON(w, http.StatusOK, body)
}
