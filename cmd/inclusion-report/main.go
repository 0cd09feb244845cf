package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"finclusion/internal/bench"
	"finclusion/internal/config"
	"finclusion/internal/dataset"
	"finclusion/internal/exporter"
	"finclusion/internal/infrastructure"
	"finclusion/internal/pipeline"
	"finclusion/internal/report"
)

func main() {
	inFile := flag.String("in", "", "survey file to analyze (.csv or .xlsx, required)")
	lookupFile := flag.String("lookup", "", "optional two-column lookup file renaming column codes")
	configFile := flag.String("config", "", "optional YAML configuration file")
	metricsFile := flag.String("metrics", "model_metrics.csv", "metrics CSV (relative paths land in the reports directory)")
	flag.Parse()

	if *inFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	if err := cfg.Paths.EnsureDirectories(); err != nil {
		logger.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	ctx := infrastructure.WithTraceID(context.Background(), uuid.NewString())
	start := time.Now()

	logger.InfoContext(ctx, "Starting inclusion analysis",
		slog.String("input_file", *inFile),
		slog.String("metrics_file", *metricsFile))

	table, err := dataset.Load(*inFile)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load survey file", "error", err)
		os.Exit(1)
	}
	logger.InfoContext(ctx, "Loaded survey table",
		slog.Int("rows", table.Rows()),
		slog.Int("columns", table.Cols()))

	if *lookupFile != "" {
		lookup, err := dataset.LoadLookup(*lookupFile)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to load lookup file", "error", err)
			os.Exit(1)
		}
		if err := table.ApplyLookup(lookup); err != nil {
			logger.ErrorContext(ctx, "Failed to apply column lookup", "error", err)
			os.Exit(1)
		}
		logger.InfoContext(ctx, "Applied column lookup", slog.Int("entries", len(lookup)))
	}

	state := pipeline.NewState(table)
	runner := pipeline.NewRunner(logger, pipeline.DefaultStages(cfg)...)
	if err := runner.Run(ctx, state); err != nil {
		logger.ErrorContext(ctx, "Pipeline failed", "error", err)
		os.Exit(1)
	}

	b := bench.New(cfg.Bench, bench.DefaultModels(cfg.Bench)...)
	results, err := b.Run(ctx, state.Processed.RowSlices(), state.Processed.Names, state.Excluded)
	if err != nil {
		logger.ErrorContext(ctx, "Model bench failed", "error", err)
		os.Exit(1)
	}

	if err := report.Write(os.Stdout, state, results); err != nil {
		logger.ErrorContext(ctx, "Failed to render report", "error", err)
		os.Exit(1)
	}

	metricsExporter := exporter.NewMetricsExporter(cfg.Paths)
	if err := metricsExporter.ExportMetrics(results, *metricsFile); err != nil {
		logger.ErrorContext(ctx, "Failed to export metrics", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Inclusion analysis completed",
		slog.Int("respondents", table.Rows()),
		slog.Int("models", len(results)),
		slog.Duration("duration", time.Since(start)))
}
