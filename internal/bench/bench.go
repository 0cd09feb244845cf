// Package bench trains and evaluates the exclusion classifiers on a fixed
// train/test split. Models run independently: one model failing to train
// marks its own result and never blocks the others.
package bench

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"finclusion/internal/config"
	apperrors "finclusion/internal/errors"
	"finclusion/internal/infrastructure"
	"finclusion/internal/model"
	"finclusion/internal/stats"
)

// Result is one model's bench outcome. Err carries a contained training
// or evaluation failure; when it is set the metrics are zero and
// TopFeatures is empty.
type Result struct {
	Model       string              `json:"model"`
	Metrics     Metrics             `json:"metrics"`
	TopFeatures []model.Attribution `json:"top_features,omitempty"`
	Err         error               `json:"-"`
}

// Bench runs the configured classifiers over one standardized split.
type Bench struct {
	cfg    config.BenchConfig
	models []model.Classifier
	logger *slog.Logger
}

// New creates a bench over the given models. Result order follows model
// registration order regardless of parallelism.
func New(cfg config.BenchConfig, models ...model.Classifier) *Bench {
	return &Bench{
		cfg:    cfg,
		models: models,
		logger: infrastructure.GetLogger(),
	}
}

// DefaultModels builds the standard four classifiers with seeds derived
// from the bench seed, so one configuration value pins the whole bench.
func DefaultModels(cfg config.BenchConfig) []model.Classifier {
	return []model.Classifier{
		model.NewLogisticRegression(cfg.Seed),
		model.NewRandomForest(cfg.Seed + 1),
		model.NewGradientBoosting(cfg.Seed + 2),
		model.NewSVM(cfg.Seed + 3),
	}
}

// Run splits the labeled rows, standardizes features on the training side
// only, then trains and evaluates every model on the identical split.
// Split or scaling failures abort the run; per-model failures are
// contained in that model's Result.
func (b *Bench) Run(ctx context.Context, X [][]float64, featureNames []string, labels []bool) ([]Result, error) {
	start := time.Now()

	if len(b.models) == 0 {
		return nil, fmt.Errorf("no models registered")
	}
	if len(X) != len(labels) {
		return nil, apperrors.NewShapeMismatch("bench", len(X), len(labels))
	}
	if len(X) > 0 && len(featureNames) != len(X[0]) {
		return nil, fmt.Errorf("%d feature names for %d features", len(featureNames), len(X[0]))
	}

	y := make([]int, len(labels))
	for i, excluded := range labels {
		if excluded {
			y[i] = 1
		}
	}

	trainIdx, testIdx, err := Split(len(X), b.cfg.TestFraction, b.cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("split rows: %w", err)
	}

	scaler := stats.NewStandardScaler()
	trainX, err := scaler.FitTransform(Select(X, trainIdx))
	if err != nil {
		return nil, fmt.Errorf("standardize train split: %w", err)
	}
	testX, err := scaler.Transform(Select(X, testIdx))
	if err != nil {
		return nil, fmt.Errorf("standardize test split: %w", err)
	}
	trainY := SelectLabels(y, trainIdx)
	testY := SelectLabels(y, testIdx)

	b.logger.InfoContext(ctx, "bench split ready",
		slog.Int("train_rows", len(trainX)),
		slog.Int("test_rows", len(testX)),
		slog.Int("features", len(featureNames)),
		slog.Int("models", len(b.models)))

	results := make([]Result, len(b.models))

	g, gctx := errgroup.WithContext(ctx)
	limit := 1
	if b.cfg.Parallel && b.cfg.MaxConcurrency > 1 {
		limit = b.cfg.MaxConcurrency
	}
	g.SetLimit(limit)

	for i, m := range b.models {
		i, m := i, m
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = b.runModel(gctx, m, trainX, trainY, testX, testY, featureNames)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b.logger.InfoContext(ctx, "bench completed",
		slog.Int("models", len(results)),
		slog.Duration("duration", time.Since(start)))
	return results, nil
}

// runModel trains and evaluates a single model, containing any failure in
// the returned Result.
func (b *Bench) runModel(ctx context.Context, m model.Classifier, trainX [][]float64, trainY []int, testX [][]float64, testY []int, featureNames []string) Result {
	start := time.Now()
	result := Result{Model: m.Name()}

	fail := func(err error) Result {
		result.Err = apperrors.NewModelTraining(m.Name(), err)
		b.logger.WarnContext(ctx, "model failed, continuing bench",
			slog.String("model", m.Name()),
			slog.String("error", err.Error()))
		return result
	}

	if err := m.Fit(trainX, trainY); err != nil {
		return fail(err)
	}

	pred, err := m.Predict(testX)
	if err != nil {
		return fail(err)
	}

	metrics, err := Evaluate(testY, pred)
	if err != nil {
		return fail(err)
	}
	result.Metrics = metrics

	if attributor, ok := m.(model.Attributor); ok {
		attrs, err := attributor.Attributions(featureNames)
		if err != nil {
			return fail(err)
		}
		result.TopFeatures = model.TopAttributions(attrs, b.cfg.TopFeatures)
	}

	b.logger.InfoContext(ctx, "model evaluated",
		slog.String("model", m.Name()),
		slog.Float64("accuracy", metrics.Accuracy),
		slog.Float64("f1", metrics.F1),
		slog.Duration("duration", time.Since(start)))
	return result
}
