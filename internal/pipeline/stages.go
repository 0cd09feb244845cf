package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"finclusion/internal/cluster"
	"finclusion/internal/config"
	"finclusion/internal/scores"
	"finclusion/internal/stats"
)

// Names of the score columns appended to the reduced matrix.
const (
	EngagementColumn = "engagement_score"
	LiteracyColumn   = "literacy_score"
)

// ScoresStage computes the engagement and literacy composites from the
// imputed raw table and appends both to the reduced matrix, producing the
// processed matrix the clusterer and the bench consume.
type ScoresStage struct {
	EducationColumn string
	WealthColumn    string
	Policy          stats.DegeneratePolicy
}

// NewScoresStage creates the score computation stage.
func NewScoresStage(educationColumn, wealthColumn string, policy stats.DegeneratePolicy) *ScoresStage {
	return &ScoresStage{
		EducationColumn: educationColumn,
		WealthColumn:    wealthColumn,
		Policy:          policy,
	}
}

// ID implements Stage
func (s *ScoresStage) ID() string { return "scores" }

// Name implements Stage
func (s *ScoresStage) Name() string { return "composite score computation" }

// Validate implements Stage
func (s *ScoresStage) Validate(state *State) error {
	if state.Raw == nil {
		return fmt.Errorf("no table loaded")
	}
	if state.Reduced == nil {
		return fmt.Errorf("no reduced matrix; reduction must run first")
	}
	if !s.Policy.Valid() {
		return fmt.Errorf("unknown degenerate policy %q", s.Policy)
	}
	if s.EducationColumn == "" || s.WealthColumn == "" {
		return fmt.Errorf("education and wealth column names must be set")
	}
	return nil
}

// Execute implements Stage
func (s *ScoresStage) Execute(ctx context.Context, state *State) error {
	engagement, err := scores.NewEngagementCalculator(s.Policy).Compute(ctx, state.Raw)
	if err != nil {
		return err
	}
	literacy, err := scores.NewLiteracyCalculator(s.EducationColumn, s.WealthColumn, s.Policy).Compute(ctx, state.Raw)
	if err != nil {
		return err
	}

	processed, err := state.Reduced.AppendColumns(
		[]string{EngagementColumn, LiteracyColumn},
		[][]float64{engagement, literacy},
	)
	if err != nil {
		return fmt.Errorf("append score columns: %w", err)
	}

	state.Engagement = engagement
	state.Literacy = literacy
	state.Processed = processed

	slog.Default().InfoContext(ctx, "score computation complete",
		"columns", processed.Cols(),
	)
	return nil
}

// ClusterStage splits the processed rows into two groups and labels the
// one holding the globally least engaged respondent as excluded. The rule
// is swappable; a nil Rule uses MinEngagementRule.
type ClusterStage struct {
	Config cluster.Config
	Rule   cluster.ExcludedRule
}

// NewClusterStage creates the exclusion clustering stage.
func NewClusterStage(cfg cluster.Config) *ClusterStage {
	return &ClusterStage{Config: cfg}
}

// ID implements Stage
func (s *ClusterStage) ID() string { return "cluster" }

// Name implements Stage
func (s *ClusterStage) Name() string { return "exclusion clustering" }

// Validate implements Stage
func (s *ClusterStage) Validate(state *State) error {
	if state.Processed == nil {
		return fmt.Errorf("no processed matrix; scores must run first")
	}
	if state.Engagement == nil {
		return fmt.Errorf("no engagement scores; scores must run first")
	}
	return nil
}

// Execute implements Stage
func (s *ClusterStage) Execute(ctx context.Context, state *State) error {
	// Exactly two groups: excluded and included.
	km := cluster.NewKMeans(2, s.Config)
	X := state.Processed.RowSlices()

	assignments, err := km.Fit(X)
	if err != nil {
		return fmt.Errorf("fit clusterer: %w", err)
	}

	rule := s.Rule
	if rule == nil {
		rule = cluster.MinEngagementRule
	}
	excluded, err := rule(km, X, state.Engagement)
	if err != nil {
		return fmt.Errorf("resolve excluded cluster: %w", err)
	}

	state.Assignments = assignments
	state.ExcludedCluster = excluded
	state.Excluded = cluster.Labels(assignments, excluded)

	excludedCount := 0
	for _, label := range state.Excluded {
		if label {
			excludedCount++
		}
	}

	slog.Default().InfoContext(ctx, "clustering complete",
		"excluded_cluster", excluded,
		"excluded_respondents", excludedCount,
		"included_respondents", len(state.Excluded)-excludedCount,
		"inertia", km.Inertia(),
	)
	return nil
}

// DefaultStages assembles the standard preprocessing chain from the run
// configuration.
func DefaultStages(cfg *config.Config) []Stage {
	return []Stage{
		NewImputeStage(),
		NewEncodeStage(cfg.Pipeline.CardinalityThreshold),
		NewNormalizeStage(stats.DegeneratePolicy(cfg.Pipeline.DegeneratePolicy)),
		NewReduceStage(cfg.Pipeline.VarianceTarget),
		NewScoresStage(cfg.Scores.EducationColumn, cfg.Scores.WealthColumn, stats.DegeneratePolicy(cfg.Pipeline.DegeneratePolicy)),
		NewClusterStage(cluster.Config{
			Seed:          cfg.Cluster.Seed,
			MaxIterations: cfg.Cluster.MaxIterations,
			Tolerance:     cfg.Cluster.Tolerance,
		}),
	}
}
