package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"remit835/internal/store"
	"remit835/internal/websocket"
	"remit835/pkg/contracts"
)

var startedAt = time.Now()

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	store  *store.Store
	hub    *websocket.Hub
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(st *store.Store, hub *websocket.Hub, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		store:  st,
		hub:    hub,
		logger: logger.With(slog.String("handler", "health")),
	}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	checks := map[string]string{}

	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			status = "degraded"
			checks["database"] = err.Error()
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "disabled"
	}

	clients := 0
	if h.hub != nil {
		clients = h.hub.ClientCount()
	}

	render.JSON(w, r, map[string]any{
		"status":            status,
		"version":           contracts.Version,
		"uptime":            time.Since(startedAt).String(),
		"websocket_clients": clients,
		"checks":            checks,
	})
}

// LivenessCheck handles GET /api/health/live
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{"status": "alive"})
}

// ReadinessCheck handles GET /api/health/ready
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			h.logger.ErrorContext(r.Context(), "Readiness check failed",
				slog.String("error", err.Error()))
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, map[string]any{"status": "not_ready", "error": err.Error()})
			return
		}
	}
	render.JSON(w, r, map[string]any{"status": "ready"})
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, contracts.GetVersionInfo())
}
