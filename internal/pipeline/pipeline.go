// Package pipeline drives a full remittance processing run: discover input
// files, parse each with skip-and-log error handling, enrich, validate,
// export the CSV artifacts and validation reports, and persist rows in the
// store. Record processing is single threaded; a bad file never aborts the
// run.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"remit835/internal/config"
	"remit835/internal/edi"
	"remit835/internal/enrich"
	"remit835/internal/exporter"
	"remit835/internal/files"
	"remit835/internal/infrastructure"
	"remit835/internal/redact"
	"remit835/internal/store"
	"remit835/internal/validation"
	"remit835/pkg/contracts/domain"
)

// Progress is a pipeline progress event.
type Progress struct {
	Stage    string `json:"stage"`
	Filename string `json:"filename,omitempty"`
	Current  int    `json:"current"`
	Total    int    `json:"total"`
	Message  string `json:"message,omitempty"`
}

// ProgressFunc receives progress events during a run.
type ProgressFunc func(Progress)

// Options configures a run.
type Options struct {
	// Redact masks patient identity columns in the CSV artifacts and claim
	// identifiers in the validation reports.
	Redact bool

	// RunID identifies the run; one is generated when empty.
	RunID string
}

// Result summarizes a completed run.
type Result struct {
	RunID        string             `json:"run_id"`
	StartedAt    time.Time          `json:"started_at"`
	Duration     time.Duration      `json:"duration"`
	FilesFound   int                `json:"files_found"`
	FilesParsed  int                `json:"files_parsed"`
	FilesSkipped int                `json:"files_skipped"`
	FilesFailed  int                `json:"files_failed"`
	RowsEmitted  int                `json:"rows_emitted"`
	RowsStored   int                `json:"rows_stored"`
	RowsDup      int                `json:"rows_duplicate"`
	Passed       bool               `json:"passed"`
	Validation   *validation.Result `json:"-"`
}

// Runner executes processing runs.
type Runner struct {
	paths    *config.Paths
	store    *store.Store
	metrics  *infrastructure.BusinessMetrics
	logger   *slog.Logger
	progress ProgressFunc
	tracer   trace.Tracer
}

// NewRunner builds a Runner. The store and metrics may be nil when
// persistence or instrumentation is disabled.
func NewRunner(paths *config.Paths, st *store.Store, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		paths:   paths,
		store:   st,
		metrics: metrics,
		logger:  logger,
		tracer:  otel.Tracer("remit835/pipeline"),
	}
}

// OnProgress registers a progress callback. Must be set before Run.
func (r *Runner) OnProgress(fn ProgressFunc) {
	r.progress = fn
}

func (r *Runner) emit(p Progress) {
	if r.progress != nil {
		r.progress(p)
	}
}

// Run processes every remittance file in the input folder.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	runID := opts.RunID
	if runID == "" {
		runID = uuid.New().String()
	}
	started := time.Now()

	ctx, span := r.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(attribute.String("run.id", runID)))
	defer span.End()

	result := &Result{RunID: runID, StartedAt: started}
	logger := r.logger.With(slog.String("run_id", runID))

	if r.metrics != nil {
		infrastructure.RecordActiveRunChange(ctx, r.metrics, 1)
		defer infrastructure.RecordActiveRunChange(ctx, r.metrics, -1)
	}

	fv := validation.NewFileValidator(logger)
	if err := fv.ValidateInputDirectory(r.paths.InputDir); err != nil {
		r.finishRun(ctx, result, started, err)
		return nil, err
	}
	for _, dir := range []string{r.paths.OutputDir, r.paths.ReportsDir} {
		if err := fv.ValidateOutputDirectory(dir); err != nil {
			r.finishRun(ctx, result, started, err)
			return nil, err
		}
	}

	discovery := files.NewDiscovery(r.paths.DataDir)
	found, err := discovery.Find835Files(r.paths.InputDir)
	if err != nil {
		r.finishRun(ctx, result, started, err)
		return nil, err
	}
	result.FilesFound = len(found)
	logger.Info("Discovered remittance files", slog.Int("count", len(found)))
	r.emit(Progress{Stage: "discover", Total: len(found)})

	var (
		parseResults []*edi.ParseResult
		rows         []domain.Row
	)

	for i, file := range found {
		if err := ctx.Err(); err != nil {
			r.finishRun(ctx, result, started, err)
			return nil, err
		}
		r.emit(Progress{Stage: "parse", Filename: file.Name, Current: i + 1, Total: len(found)})

		res, skipped := r.processFile(ctx, logger, file, result)
		if skipped || res == nil {
			continue
		}
		parseResults = append(parseResults, res)
		rows = append(rows, res.Rows...)
	}
	result.RowsEmitted = len(rows)

	r.emit(Progress{Stage: "enrich", Total: len(rows)})
	r.enrichRows(ctx, logger, rows)

	r.emit(Progress{Stage: "validate", Total: len(rows)})
	result.Validation = validation.New().Validate(parseResults, rows)
	result.Passed = result.Validation.Passed()

	if r.metrics != nil {
		errorsByType := make(map[string]int)
		for _, issue := range result.Validation.Issues {
			if issue.Severity == validation.SeverityError {
				errorsByType[issue.Type]++
			}
		}
		infrastructure.RecordValidationMetrics(ctx, r.metrics, errorsByType, result.Validation.WarningCount())
	}

	r.emit(Progress{Stage: "export", Total: len(rows)})
	if err := r.export(logger, rows, result.Validation, opts); err != nil {
		r.finishRun(ctx, result, started, err)
		return nil, err
	}

	r.finishRun(ctx, result, started, nil)
	logger.Info("Run complete",
		slog.Int("files_parsed", result.FilesParsed),
		slog.Int("files_skipped", result.FilesSkipped),
		slog.Int("files_failed", result.FilesFailed),
		slog.Int("rows", result.RowsEmitted),
		slog.Bool("passed", result.Passed),
		slog.Duration("duration", result.Duration))
	r.emit(Progress{Stage: "done", Current: len(found), Total: len(found)})

	return result, nil
}

// processFile parses one file, recording dedupe skips and parse failures on
// the result. Returns (parseResult, skipped).
func (r *Runner) processFile(ctx context.Context, logger *slog.Logger, file files.FileInfo, result *Result) (*edi.ParseResult, bool) {
	ctx, span := r.tracer.Start(ctx, "pipeline.file",
		trace.WithAttributes(attribute.String("file.name", file.Name)))
	defer span.End()

	started := time.Now()

	var hash string
	if r.store != nil {
		var err error
		hash, err = store.HashFile(file.Path)
		if err != nil {
			logger.Warn("Failed to hash file, skipping dedupe check",
				slog.String("file", file.Name), slog.String("error", err.Error()))
		} else if prev, done, err := r.store.IsFileProcessed(hash); err != nil {
			logger.Warn("Dedupe check failed",
				slog.String("file", file.Name), slog.String("error", err.Error()))
		} else if done {
			logger.Info("Skipping already-processed file",
				slog.String("file", file.Name),
				slog.Time("first_processed", prev.ProcessedAt))
			result.FilesSkipped++
			return nil, true
		}
	}

	data, err := os.ReadFile(file.Path)
	if err != nil {
		r.fileFailed(ctx, logger, file, result, started, err)
		return nil, false
	}

	res, err := edi.Parse(file.Name, data)
	if err != nil {
		r.fileFailed(ctx, logger, file, result, started, err)
		return nil, false
	}

	result.FilesParsed++
	if r.metrics != nil {
		infrastructure.RecordFileMetrics(ctx, r.metrics, file.Name, file.Size,
			len(res.Rows), time.Since(started), true)
	}

	if r.store != nil && hash != "" {
		fileID, err := r.store.RegisterFile(store.FileInfo{
			Filename:      file.Name,
			Hash:          hash,
			ControlNumber: res.Interchange.ISA.ControlNumber,
			SizeBytes:     file.Size,
			RecordCount:   len(res.Rows),
			SourceFolder:  r.paths.InputDir,
		})
		if err != nil {
			logger.Warn("Failed to register file",
				slog.String("file", file.Name), slog.String("error", err.Error()))
		} else if inserted, dup, err := r.store.InsertRows(res.Rows, fileID); err != nil {
			logger.Warn("Failed to store rows",
				slog.String("file", file.Name), slog.String("error", err.Error()))
		} else {
			result.RowsStored += inserted
			result.RowsDup += dup
		}
	}

	return res, false
}

// fileFailed logs a skip-and-log parse failure. The run continues.
func (r *Runner) fileFailed(ctx context.Context, logger *slog.Logger, file files.FileInfo, result *Result, started time.Time, err error) {
	result.FilesFailed++
	infrastructure.RecordError(ctx, err)
	logger.Error("Failed to process file, continuing",
		slog.String("file", file.Name),
		slog.String("error", err.Error()))
	if r.metrics != nil {
		infrastructure.RecordFileMetrics(ctx, r.metrics, file.Name, file.Size, 0,
			time.Since(started), false)
	}
}

// enrichRows loads the trip and rate references when present and fills the
// enrichment columns. A missing reference file disables that lookup only.
func (r *Runner) enrichRows(ctx context.Context, logger *slog.Logger, rows []domain.Row) {
	_, span := r.tracer.Start(ctx, "pipeline.enrich")
	defer span.End()

	var trips map[string]string
	if config.FileExists(r.paths.TripsFile) {
		var err error
		trips, err = enrich.LoadTrips(r.paths.TripsFile)
		if err != nil {
			logger.Warn("Failed to load trips, ZIP enrichment disabled",
				slog.String("error", err.Error()))
		} else {
			logger.Info("Loaded trips", slog.Int("count", len(trips)))
		}
	} else {
		logger.Info("Trips file not present, ZIP enrichment disabled",
			slog.String("path", r.paths.TripsFile))
	}

	var rates *enrich.RateTable
	if config.FileExists(r.paths.RatesFile) {
		var err error
		rates, err = enrich.LoadRates(r.paths.RatesFile)
		if err != nil {
			logger.Warn("Failed to load rate table, benchmark enrichment disabled",
				slog.String("error", err.Error()))
		} else {
			logger.Info("Loaded rate table",
				slog.Int("rows_processed", rates.RowsProcessed),
				slog.Int("rows_skipped", rates.RowsSkipped))
		}
	} else {
		logger.Info("Rates file not present, benchmark enrichment disabled",
			slog.String("path", r.paths.RatesFile))
	}

	enrich.New(trips, rates, logger).Enrich(rows)
}

// export writes the CSV artifacts and validation reports. Output rows are
// normalized for display and, under redact mode, PHI-masked; validation has
// already run against the raw values. The artifacts are independent files,
// so they are written concurrently.
func (r *Runner) export(logger *slog.Logger, rows []domain.Row, vr *validation.Result, opts Options) error {
	outRows := redact.NormalizeRows(rows)
	if opts.Redact {
		outRows = redact.Rows(outRows)
	}

	remit := exporter.NewRemitExporter(r.paths)
	summary := exporter.NewSummaryExporter(r.paths)
	reportOpts := validation.ReportOptions{Redact: opts.Redact}

	var g errgroup.Group
	g.Go(func() error {
		return remit.ExportConsolidated(outRows, r.paths.ConsolidatedCSV)
	})
	g.Go(func() error {
		return remit.ExportCompact(outRows, r.paths.CompactCSV)
	})
	g.Go(func() error {
		// Summary aggregation parses raw amounts and CCYYMMDD dates, so it
		// runs on the rows before display normalization.
		return summary.ExportPayerSummary(summary.GeneratePayerSummaries(rows), "payer_summary.csv")
	})
	g.Go(func() error {
		return os.WriteFile(r.paths.ValidationReportText,
			[]byte(validation.TextReport(vr, reportOpts)), 0644)
	})
	g.Go(func() error {
		html, err := validation.HTMLReport(vr, reportOpts)
		if err != nil {
			return err
		}
		return os.WriteFile(r.paths.ValidationReportHTML, []byte(html), 0644)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("Exported artifacts",
		slog.String("consolidated", r.paths.ConsolidatedCSV),
		slog.String("compact", r.paths.CompactCSV),
		slog.String("validation_report", r.paths.ValidationReportText))
	return nil
}

func (r *Runner) finishRun(ctx context.Context, result *Result, started time.Time, err error) {
	result.Duration = time.Since(started)
	if r.metrics != nil {
		infrastructure.RecordRunMetrics(ctx, r.metrics, result.RunID, result.Duration, err == nil, err)
	}
}
