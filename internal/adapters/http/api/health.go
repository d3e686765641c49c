package api

import (
	"net/http"
)

// ReadinessProvider reports whether a dataset is loaded.
type ReadinessProvider interface {
	Ready() (int, bool)
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	deps ReadinessProvider
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps ReadinessProvider) *HealthHandler {
	return &HealthHandler{deps: deps}
}

type healthResponse struct {
	Status string `json:"status"`
	Cards  int    `json:"cards"`
}

// HandleHealth handles GET /healthz requests. It answers 503 until a
// dataset has been loaded.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	n, ready := h.deps.Ready()
	if !ready {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Cards: n})
}
