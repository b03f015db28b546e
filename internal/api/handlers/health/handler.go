package health

import (
	"context"
	"net/http"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
)

const checkTimeout = 2 * time.Second

// Pinger a dependency that can report its reachability
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) PingContext(ctx context.Context) error {
	return f(ctx)
}

type Logger interface {
	Warn(format string, v ...interface{})
}

// Handler liveness and readiness checks
type Handler struct {
	checks map[string]Pinger
	logger Logger
}

// NewHandler checks maps a dependency name to its health check
func NewHandler(checks map[string]Pinger, logger Logger) *Handler {
	return &Handler{
		checks: checks,
		logger: logger,
	}
}

// StatusResponse body of both endpoints
type StatusResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Live GET /healthz
func (h *Handler) Live(w http.ResponseWriter, _ *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// Ready GET /readyz, 503 while any dependency is unreachable
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	resp := StatusResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	for name, check := range h.checks {
		if err := check.PingContext(ctx); err != nil {
			h.logger.Warn("GET /readyz - %s is not ready: %v", name, err)
			resp.Status = "unavailable"
			resp.Checks[name] = err.Error()
			continue
		}
		resp.Checks[name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	handlers.RespondJSON(w, status, resp)
}
