// Package server exposes the remittance processor over HTTP. It serves
// run control and reporting endpoints under /api, pushes run progress
// over a WebSocket at /ws, and publishes Prometheus metrics at
// /metrics.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/gorilla/websocket"

	"remit835/internal/config"
	apperrors "remit835/internal/errors"
	"remit835/internal/infrastructure"
	customMiddleware "remit835/internal/middleware"
	"remit835/internal/store"
	ws "remit835/internal/websocket"
)

// Server is the HTTP report server
type Server struct {
	cfg    *config.Config
	paths  *config.Paths
	store  *store.Store
	runs   *RunManager
	hub    *ws.Hub
	otel   *infrastructure.OTelProviders
	logger *slog.Logger
	errs   *apperrors.ErrorHandler

	router *chi.Mux
	http   *http.Server
}

// New creates a report server. The store may be nil when the processor
// runs without a database; the endpoints that need it return 503.
func New(cfg *config.Config, paths *config.Paths, st *store.Store, runs *RunManager, hub *ws.Hub, otelProviders *infrastructure.OTelProviders, logger *slog.Logger) *Server {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	s := &Server{
		cfg:    cfg,
		paths:  paths,
		store:  st,
		runs:   runs,
		hub:    hub,
		otel:   otelProviders,
		logger: logger,
		errs:   apperrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	s.setupRouter()

	s.http = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return s
}

// Router returns the configured router, used by tests
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// RequestID and RealIP do not wrap the ResponseWriter, so they are
	// safe ahead of the WebSocket upgrade.
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.NotFound(s.errs.NotFound)
	r.MethodNotAllowed(s.errs.MethodNotAllowed)

	r.With(customMiddleware.WebSocketTraceMiddleware(s.logger)).HandleFunc("/ws", s.handleWebSocket)

	r.Group(func(r chi.Router) {
		if s.otel != nil {
			otelMiddleware, err := customMiddleware.NewOTelMiddleware(s.otel)
			if err != nil {
				s.logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
			} else {
				r.Use(otelMiddleware.Handler)
			}
		}

		r.Use(customMiddleware.StructuredLogger(s.logger))
		r.Use(s.errs.Middleware)
		r.Use(customMiddleware.SecurityHeaders)

		if s.cfg.Security.EnableCORS {
			r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
				AllowedOrigins: s.cfg.Security.AllowedOrigins,
				ExposedHeaders: []string{"X-Request-ID"},
				Logger:         s.logger,
			}))
		}

		if s.cfg.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				s.cfg.Security.RateLimit.RPS,
				s.cfg.Security.RateLimit.Burst,
				s.logger,
			).Handler)
		}

		s.setupAPIRoutes(r)
	})

	if s.otel != nil && s.otel.PrometheusHTTP != nil {
		r.Handle("/metrics", s.otel.PrometheusHTTP)
	}

	s.router = r
}

func (s *Server) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(s.cfg.Server.ReadTimeout, s.logger))

		healthHandler := NewHealthHandler(s.store, s.hub, s.logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/version", healthHandler.Version)

		runsHandler := NewRunsHandler(s.runs, s.errs, s.logger)
		r.Mount("/runs", runsHandler.Routes())

		filesHandler := NewFilesHandler(s.store, s.errs, s.logger)
		r.Get("/files", filesHandler.List)
		r.Get("/stats", filesHandler.Stats)
		r.Get("/claims/{claimNumber}", filesHandler.Claim)

		reportsHandler := NewReportsHandler(s.paths, s.errs, s.logger)
		r.Mount("/reports", reportsHandler.Routes())
	})
}

// Start runs the HTTP server until the context is cancelled
func (s *Server) Start(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Report server starting",
		slog.Int("port", s.cfg.Server.Port),
		slog.String("address", fmt.Sprintf("http://localhost:%d", s.cfg.Server.Port)))

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Report server shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

// handleWebSocket upgrades the connection and hands it to the hub
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.logger.InfoContext(ctx, "WebSocket upgrade request",
		slog.String("remote_addr", r.RemoteAddr),
		slog.String("origin", r.Header.Get("Origin")))

	upgrader := websocket.Upgrader{
		ReadBufferSize:  s.cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: s.cfg.WebSocket.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			// Same-origin and file:// requests carry no Origin header.
			if origin == "" {
				return true
			}
			for _, allowed := range s.cfg.Security.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			s.logger.WarnContext(ctx, "WebSocket origin not allowed",
				slog.String("origin", origin))
			return false
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "WebSocket upgrade failed",
			slog.String("error", err.Error()))
		return
	}

	ws.ServeWS(s.hub, conn, s.logger)
}
