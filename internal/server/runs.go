package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	apperrors "remit835/internal/errors"
	"remit835/internal/pipeline"
)

// ErrRunInProgress is returned when a run is requested while another is
// still active. Runs are serialized because they share the input folder
// and the output artifacts.
var ErrRunInProgress = errors.New("a processing run is already in progress")

// RunManager serializes processing runs and retains the latest result
type RunManager struct {
	runner  *pipeline.Runner
	timeout time.Duration
	logger  *slog.Logger

	mu          sync.Mutex
	running     bool
	activeRunID string
	lastResult  *pipeline.Result
	lastError   string
}

// RunStatus describes the manager state for the API
type RunStatus struct {
	Running     bool             `json:"running"`
	ActiveRunID string           `json:"active_run_id,omitempty"`
	LastResult  *pipeline.Result `json:"last_result,omitempty"`
	LastError   string           `json:"last_error,omitempty"`
}

// NewRunManager creates a run manager around the given runner
func NewRunManager(runner *pipeline.Runner, timeout time.Duration, logger *slog.Logger) *RunManager {
	if timeout <= 0 {
		timeout = 2 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RunManager{
		runner:  runner,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "run_manager")),
	}
}

// Start launches a run in the background and returns its ID.
// Returns ErrRunInProgress when another run is active.
func (m *RunManager) Start(opts pipeline.Options) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return "", ErrRunInProgress
	}

	if opts.RunID == "" {
		opts.RunID = uuid.New().String()
	}
	m.running = true
	m.activeRunID = opts.RunID

	go m.execute(opts)

	return opts.RunID, nil
}

func (m *RunManager) execute(opts pipeline.Options) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	result, err := m.runner.Run(ctx, opts)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
	m.activeRunID = ""
	m.lastResult = result
	if err != nil {
		m.lastError = err.Error()
		m.logger.Error("Run failed",
			slog.String("run_id", opts.RunID),
			slog.String("error", err.Error()))
	} else {
		m.lastError = ""
	}
}

// Status returns the current manager state
func (m *RunManager) Status() RunStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return RunStatus{
		Running:     m.running,
		ActiveRunID: m.activeRunID,
		LastResult:  m.lastResult,
		LastError:   m.lastError,
	}
}

// Wait blocks until no run is active, used by tests
func (m *RunManager) Wait(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		m.mu.Lock()
		running := m.running
		m.mu.Unlock()
		if !running {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// startRunRequest is the body of POST /api/runs
type startRunRequest struct {
	Redact bool `json:"redact"`
}

// RunsHandler exposes run control endpoints
type RunsHandler struct {
	runs   *RunManager
	errs   *apperrors.ErrorHandler
	logger *slog.Logger
}

// NewRunsHandler creates a runs handler
func NewRunsHandler(runs *RunManager, errs *apperrors.ErrorHandler, logger *slog.Logger) *RunsHandler {
	return &RunsHandler{
		runs:   runs,
		errs:   errs,
		logger: logger.With(slog.String("handler", "runs")),
	}
}

// Routes returns the runs router
func (h *RunsHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.Start)
	r.Get("/latest", h.Latest)
	return r
}

// Start handles POST /api/runs
func (h *RunsHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRunRequest
	if r.ContentLength > 0 {
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			h.errs.HandleError(w, r, apperrors.InvalidRequestWithError(err))
			return
		}
	}

	runID, err := h.runs.Start(pipeline.Options{Redact: req.Redact})
	if err != nil {
		if errors.Is(err, ErrRunInProgress) {
			h.errs.HandleError(w, r, apperrors.ErrRunActive)
			return
		}
		h.errs.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Run started via API",
		slog.String("run_id", runID),
		slog.Bool("redact", req.Redact))

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]any{"run_id": runID, "status": "started"})
}

// Latest handles GET /api/runs/latest
func (h *RunsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.runs.Status())
}
