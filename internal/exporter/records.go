package exporter

import (
	"fmt"
	"strings"

	"finclusion/internal/bench"
	"finclusion/internal/config"
	"finclusion/internal/model"
	"finclusion/internal/pipeline"
)

// ProcessedExporter writes the processed respondent table to CSV.
type ProcessedExporter struct {
	csvWriter *CSVWriter
}

// NewProcessedExporter creates a new processed-table exporter
func NewProcessedExporter(paths config.PathsConfig) *ProcessedExporter {
	return &ProcessedExporter{
		csvWriter: NewCSVWriter(paths),
	}
}

// ExportProcessed writes one row per respondent: the retained principal
// components, both composite scores, the cluster id, and the exclusion
// label. Rows stream out in respondent order so large surveys never
// materialize a second copy in memory.
func (p *ProcessedExporter) ExportProcessed(state *pipeline.State, filePath string) error {
	if state == nil || state.Processed == nil {
		return fmt.Errorf("processed table not available; run the pipeline first")
	}
	rows := state.Processed.Rows()
	if len(state.Assignments) != rows || len(state.Excluded) != rows {
		return fmt.Errorf("cluster artifacts cover %d of %d rows", len(state.Assignments), rows)
	}

	stream, err := p.csvWriter.CreateStreamWriter(filePath, p.getHeaders(state))
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	for i := 0; i < rows; i++ {
		if err := stream.WriteRecord(p.rowToCSVRow(state, i)); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write respondent %d: %w", i, err)
		}
	}

	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to close stream: %w", err)
	}
	return nil
}

// getHeaders returns the CSV headers for the processed table
func (p *ProcessedExporter) getHeaders(state *pipeline.State) []string {
	headers := make([]string, 0, len(state.Processed.Names)+3)
	headers = append(headers, "respondent")
	headers = append(headers, state.Processed.Names...)
	headers = append(headers, "cluster", "excluded")
	return headers
}

// rowToCSVRow converts one respondent to a CSV row
func (p *ProcessedExporter) rowToCSVRow(state *pipeline.State, i int) []string {
	values := state.Processed.Row(i)
	row := make([]string, 0, len(values)+3)
	row = append(row, formatInt(i))
	for _, v := range values {
		row = append(row, formatFloat(v))
	}
	row = append(row, formatInt(state.Assignments[i]), formatBool(state.Excluded[i]))
	return row
}

// MetricsExporter writes per-model bench results to CSV.
type MetricsExporter struct {
	csvWriter *CSVWriter
}

// NewMetricsExporter creates a new metrics exporter
func NewMetricsExporter(paths config.PathsConfig) *MetricsExporter {
	return &MetricsExporter{
		csvWriter: NewCSVWriter(paths),
	}
}

// ExportMetrics writes one row per model in bench order. A model whose
// training failed keeps its row, with the error message in the last
// column and zeroed metrics.
func (m *MetricsExporter) ExportMetrics(results []bench.Result, filePath string) error {
	records := make([][]string, 0, len(results))
	for _, result := range results {
		records = append(records, m.resultToCSVRow(result))
	}
	return m.csvWriter.WriteSimpleCSV(filePath, m.getHeaders(), records)
}

// getHeaders returns the CSV headers for bench results
func (m *MetricsExporter) getHeaders() []string {
	return []string{
		"model", "accuracy", "precision", "recall", "f1", "top_features", "error",
	}
}

// resultToCSVRow converts a bench result to a CSV row
func (m *MetricsExporter) resultToCSVRow(result bench.Result) []string {
	errMsg := ""
	if result.Err != nil {
		errMsg = result.Err.Error()
	}
	return []string{
		result.Model,
		formatFloat(result.Metrics.Accuracy),
		formatFloat(result.Metrics.Precision),
		formatFloat(result.Metrics.Recall),
		formatFloat(result.Metrics.F1),
		formatAttributions(result.TopFeatures),
		errMsg,
	}
}

// formatAttributions renders attributions as "feature:score" pairs joined
// by "; " so the list stays inside one CSV cell.
func formatAttributions(attrs []model.Attribution) string {
	if len(attrs) == 0 {
		return ""
	}
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = a.Feature + ":" + formatFloat(a.Score)
	}
	return strings.Join(parts, "; ")
}
