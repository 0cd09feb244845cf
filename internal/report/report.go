// Package report renders the run outcome as a human-readable text report:
// a run overview, the per-model bench metrics, and top feature
// attributions for the models that expose them.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"finclusion/internal/bench"
	"finclusion/internal/pipeline"
)

// Write renders the full report. Either part may be absent: a nil state
// skips the run overview, empty results skip the bench tables. Both
// absent is an error.
func Write(w io.Writer, state *pipeline.State, results []bench.Result) error {
	if state == nil && len(results) == 0 {
		return fmt.Errorf("nothing to report")
	}

	fmt.Fprintf(w, "Financial Inclusion Survey Analysis\n")
	fmt.Fprintf(w, "===================================\n\n")
	fmt.Fprintf(w, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	if state != nil {
		writeOverview(w, state)
	}
	if len(results) > 0 {
		writeBench(w, results)
		writeAttributions(w, results)
	}
	return nil
}

func writeOverview(w io.Writer, state *pipeline.State) {
	fmt.Fprintf(w, "RUN OVERVIEW\n")
	fmt.Fprintf(w, "------------\n")
	fmt.Fprintf(w, "Respondents: %d\n", state.Raw.Rows())

	if len(state.ExplainedVariance) > 0 {
		cumulative := 0.0
		for _, ratio := range state.ExplainedVariance {
			cumulative += ratio
		}
		fmt.Fprintf(w, "Retained Components: %d (%.1f%% variance explained)\n",
			len(state.ExplainedVariance), cumulative*100)
	}

	if len(state.Excluded) > 0 {
		excluded := 0
		for _, label := range state.Excluded {
			if label {
				excluded++
			}
		}
		percentage := float64(excluded) / float64(len(state.Excluded)) * 100
		fmt.Fprintf(w, "Excluded Cluster: %d\n", state.ExcludedCluster)
		fmt.Fprintf(w, "Excluded Respondents: %d (%.1f%%)\n", excluded, percentage)
	}
	fmt.Fprintf(w, "\n")
}

func writeBench(w io.Writer, results []bench.Result) {
	fmt.Fprintf(w, "MODEL BENCH\n")
	fmt.Fprintf(w, "-----------\n")
	fmt.Fprintf(w, "Model               | Accuracy | Precision |   Recall |       F1\n")
	fmt.Fprintf(w, "--------------------|----------|-----------|----------|---------\n")

	for _, result := range results {
		if result.Err != nil {
			fmt.Fprintf(w, "%-19s | failed: %v\n", result.Model, result.Err)
			continue
		}
		fmt.Fprintf(w, "%-19s | %8.4f | %9.4f | %8.4f | %8.4f\n",
			result.Model,
			result.Metrics.Accuracy,
			result.Metrics.Precision,
			result.Metrics.Recall,
			result.Metrics.F1)
	}
	fmt.Fprintf(w, "\n")
}

func writeAttributions(w io.Writer, results []bench.Result) {
	for _, result := range results {
		if len(result.TopFeatures) == 0 {
			continue
		}

		title := fmt.Sprintf("TOP FEATURES: %s", result.Model)
		fmt.Fprintf(w, "%s\n%s\n", title, strings.Repeat("-", len(title)))

		for rank, attr := range result.TopFeatures {
			fmt.Fprintf(w, "%2d. %-24s %8.4f\n", rank+1, attr.Feature, attr.Score)
		}
		fmt.Fprintf(w, "\n")
	}
}
