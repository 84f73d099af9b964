package handler

import (
	"context"
	"net/http"
	"time"
)

// ReadinessProbe reports whether a backing dependency can serve requests.
type ReadinessProbe interface {
	Ready(ctx context.Context) error
}

// HealthHandler serves liveness and readiness endpoints.
type HealthHandler struct {
	probe ReadinessProbe
}

func NewHealthHandler(probe ReadinessProbe) *HealthHandler {
	return &HealthHandler{probe: probe}
}

// Live answers as long as the process is up.
func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

// Ready checks the storage backend before answering.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.probe.Ready(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	writeMessage(w, http.StatusOK, "ready")
}
