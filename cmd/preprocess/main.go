package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"finclusion/internal/config"
	"finclusion/internal/dataset"
	"finclusion/internal/exporter"
	"finclusion/internal/infrastructure"
	"finclusion/internal/pipeline"
)

func main() {
	inFile := flag.String("in", "", "survey file to process (.csv or .xlsx, required)")
	lookupFile := flag.String("lookup", "", "optional two-column lookup file renaming column codes")
	configFile := flag.String("config", "", "optional YAML configuration file")
	outFile := flag.String("out", "processed.csv", "output CSV (relative paths land in the reports directory)")
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

	logger.InfoContext(ctx, "Starting survey preprocessing",
		slog.String("input_file", *inFile),
		slog.String("output_file", *outFile))

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

	processedExporter := exporter.NewProcessedExporter(cfg.Paths)
	if err := processedExporter.ExportProcessed(state, *outFile); err != nil {
		logger.ErrorContext(ctx, "Failed to export processed table", "error", err)
		os.Exit(1)
	}

	excluded := 0
	for _, label := range state.Excluded {
		if label {
			excluded++
		}
	}
	logger.InfoContext(ctx, "Preprocessing completed",
		slog.Int("respondents", table.Rows()),
		slog.Int("components", state.Reduced.Cols()),
		slog.Int("excluded", excluded),
		slog.Duration("duration", time.Since(start)))
}
