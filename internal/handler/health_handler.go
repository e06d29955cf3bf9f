package handler

import (
	"context"
	"log/slog"
	"net/http"
)

type HealthChecker func(ctx context.Context) error

type HealthHandler struct {
	check HealthChecker
}

// NewHealthHandler reports the process as up. A non-nil check, usually the
// database ping, is also consulted.
func NewHealthHandler(check HealthChecker) *HealthHandler {
	return &HealthHandler{check: check}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.check != nil {
		if err := h.check(r.Context()); err != nil {
			slog.Warn("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
