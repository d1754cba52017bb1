package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/todamoon/terminal/internal/services"
)

const healthCheckTimeout = 2 * time.Second

type Pinger interface {
	PingContext(ctx context.Context) error
}

type StatusHandler struct {
	db     Pinger
	status *services.StatusRecorder
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(db Pinger, status *services.StatusRecorder) *StatusHandler {
	return &StatusHandler{
		db:     db,
		status: status,
	}
}

// Health reports whether the record store answers.
// @Summary Health check
// @Tags Status
// @Produce json
// @Success 200 {object} object{status=string}
// @Failure 503 {object} object{status=string,error=string}
// @Router /health [get]
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		services.SendJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}

	services.SendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Status returns the last scan and counters for this terminal.
// @Summary Terminal status
// @Tags Status
// @Produce json
// @Success 200 {object} services.TerminalStatus
// @Router /status [get]
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	services.SendJSON(w, http.StatusOK, h.status.Snapshot())
}
