// Command processor consolidates EDI 835 remittance files into CSV
// reports. By default it processes the input folder once and exits;
// with -serve it also starts the report server and waits for runs to be
// triggered over the API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"remit835/internal/config"
	"remit835/internal/infrastructure"
	"remit835/internal/pipeline"
	"remit835/internal/server"
	"remit835/internal/store"
	"remit835/internal/websocket"
	"remit835/pkg/contracts"
)

func main() {
	inDir := flag.String("in", "", "input directory for .835 files (defaults to data/input relative to executable)")
	outDir := flag.String("out", "", "output directory for CSV files (defaults to data/output relative to executable)")
	serve := flag.Bool("serve", false, "start the report server instead of exiting after the run")
	redact := flag.Bool("redact", false, "mask claim identifiers in validation reports")
	noDB := flag.Bool("no-db", false, "disable the database (no duplicate-file detection)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	logger.Info("Processor starting",
		slog.String("version", contracts.Version),
		slog.Bool("serve", *serve))

	paths, err := config.GetPaths()
	if err != nil {
		logger.Error("Failed to resolve paths", "error", err)
		os.Exit(1)
	}
	if *inDir != "" {
		paths.InputDir = *inDir
	}
	if *outDir != "" {
		paths.OutputDir = *outDir
		paths.ConsolidatedCSV = paths.GetOutputPath("remittance_consolidated.csv")
		paths.CompactCSV = paths.GetOutputPath("remittance_compact.csv")
	}

	if err := paths.EnsureDirectories(); err != nil {
		logger.Error("Failed to create directories", "error", err)
		os.Exit(1)
	}
	paths.LogPathResolution()

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		logger.Error("Failed to initialize OpenTelemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := otelProviders.Shutdown(context.Background()); err != nil {
			logger.Error("Error shutting down OpenTelemetry", "error", err)
		}
	}()

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		logger.Error("Failed to create metrics", "error", err)
		os.Exit(1)
	}

	var st *store.Store
	if !*noDB {
		st, err = store.Open(paths.DatabaseFile)
		if err != nil {
			logger.Error("Failed to open database", "error", err, "path", paths.DatabaseFile)
			os.Exit(1)
		}
		defer st.Close()
	} else {
		logger.Warn("Database disabled, duplicate files will be reprocessed")
	}

	runner := pipeline.NewRunner(paths, st, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *serve {
		if err := runServer(ctx, cfg, paths, st, runner, otelProviders, logger); err != nil {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	result, err := runner.Run(ctx, pipeline.Options{Redact: *redact})
	if err != nil {
		logger.Error("Run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Run finished",
		slog.String("run_id", result.RunID),
		slog.Int("files_parsed", result.FilesParsed),
		slog.Int("files_skipped", result.FilesSkipped),
		slog.Int("files_failed", result.FilesFailed),
		slog.Int("rows", result.RowsEmitted),
		slog.Bool("validation_passed", result.Passed))

	if !result.Passed {
		// The run completed and its artifacts were written; the exit
		// code signals that the validation report needs attention.
		os.Exit(2)
	}
}

func runServer(ctx context.Context, cfg *config.Config, paths *config.Paths, st *store.Store, runner *pipeline.Runner, otelProviders *infrastructure.OTelProviders, logger *slog.Logger) error {
	hub := websocket.NewHub(logger)
	hub.Start()
	defer hub.Stop()

	runner.OnProgress(func(p pipeline.Progress) {
		hub.BroadcastProgress(p.Stage, p.Filename, p.Current, p.Total, p.Message)
	})

	runs := server.NewRunManager(runner, cfg.Server.RunTimeout, logger)
	srv := server.New(cfg, paths, st, runs, hub, otelProviders, logger)

	return srv.Start(ctx)
}
