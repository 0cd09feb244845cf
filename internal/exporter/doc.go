// Package exporter provides CSV export for the financial-inclusion
// pipeline.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for Excel compatibility. Relative paths
// resolve against the configured reports directory.
//
// ProcessedExporter: Streams the processed respondent table (principal
// components, composite scores, cluster ids, exclusion labels) row by
// row.
//
// MetricsExporter: Writes per-model bench metrics, including top feature
// attributions for the models that provide them.
//
// Example usage:
//
//	processed := exporter.NewProcessedExporter(cfg.Paths)
//	err := processed.ExportProcessed(state, "processed.csv")
//
//	metrics := exporter.NewMetricsExporter(cfg.Paths)
//	err = metrics.ExportMetrics(results, "model_metrics.csv")
package exporter
