package handler

import (
	"context"
	"net/http"
)

// DBPinger reports whether the database connection is alive.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness checks.
type HealthHandler struct {
	db DBPinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db DBPinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// HandleHealthz reports service health.
// GET /healthz
func (h *HealthHandler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
