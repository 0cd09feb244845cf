// Package config holds the run configuration: file paths, logging, and the
// tunable pipeline parameters. Values load from an optional YAML file and
// FINCL_* environment variables (environment wins), then validate before
// any stage runs so a bad run fails fast with field-level messages.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix is the prefix for configuration environment variables,
// e.g. FINCL_PIPELINE_CARDINALITY_THRESHOLD.
const envPrefix = "FINCL"

// Config is the complete application configuration.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Scores   ScoresConfig   `yaml:"scores" envconfig:"SCORES"`
	Cluster  ClusterConfig  `yaml:"cluster" envconfig:"CLUSTER"`
	Bench    BenchConfig    `yaml:"bench" envconfig:"BENCH"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains the output directories.
type PathsConfig struct {
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// PipelineConfig holds the preprocessing parameters.
type PipelineConfig struct {
	// CardinalityThreshold is the largest distinct-value count a
	// categorical column may have and still be one-hot encoded; above it
	// the column is integer-coded instead.
	CardinalityThreshold int `yaml:"cardinality_threshold" envconfig:"CARDINALITY_THRESHOLD" validate:"gte=2"`
	// VarianceTarget is the cumulative explained-variance ratio the
	// reducer must retain.
	VarianceTarget float64 `yaml:"variance_target" envconfig:"VARIANCE_TARGET" validate:"gt=0,lte=1"`
	// DegeneratePolicy decides what normalization does with a constant
	// column: "fail" rejects the run, "zero" maps the column to zeros.
	DegeneratePolicy string `yaml:"degenerate_policy" envconfig:"DEGENERATE_POLICY" validate:"oneof=fail zero"`
}

// ScoresConfig names the raw columns the literacy score reads. The
// engagement score selects its columns by substring match instead, so it
// has no entries here.
type ScoresConfig struct {
	EducationColumn string `yaml:"education_column" envconfig:"EDUCATION_COLUMN" validate:"required"`
	WealthColumn    string `yaml:"wealth_column" envconfig:"WEALTH_COLUMN" validate:"required"`
}

// ClusterConfig holds the exclusion clustering parameters.
type ClusterConfig struct {
	Seed          int64   `yaml:"seed" envconfig:"SEED"`
	MaxIterations int     `yaml:"max_iterations" envconfig:"MAX_ITERATIONS" validate:"gte=1"`
	Tolerance     float64 `yaml:"tolerance" envconfig:"TOLERANCE" validate:"gte=0"`
}

// BenchConfig holds the model bench parameters.
type BenchConfig struct {
	Seed           int64   `yaml:"seed" envconfig:"SEED"`
	TestFraction   float64 `yaml:"test_fraction" envconfig:"TEST_FRACTION" validate:"gt=0,lt=1"`
	Parallel       bool    `yaml:"parallel" envconfig:"PARALLEL"`
	MaxConcurrency int     `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY" validate:"gte=1"`
	TopFeatures    int     `yaml:"top_features" envconfig:"TOP_FEATURES" validate:"gte=1"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/finclusion.log",
		},
		Paths: PathsConfig{
			ReportsDir: "reports",
			LogsDir:    "logs",
		},
		Pipeline: PipelineConfig{
			CardinalityThreshold: 10,
			VarianceTarget:       0.95,
			DegeneratePolicy:     "fail",
		},
		Scores: ScoresConfig{
			EducationColumn: "education_level",
			WealthColumn:    "wealth_quintile",
		},
		Cluster: ClusterConfig{
			Seed:          42,
			MaxIterations: 300,
			Tolerance:     1e-6,
		},
		Bench: BenchConfig{
			Seed:           42,
			TestFraction:   0.2,
			Parallel:       true,
			MaxConcurrency: 4,
			TopFeatures:    5,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is empty, a missing file is not an error), then environment
// variables, then validation.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks every field against its constraints and reports the
// first offending field with its rule.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("field %s fails rule %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}
	return nil
}

// EnsureDirectories creates the configured output directories.
func (p PathsConfig) EnsureDirectories() error {
	for _, dir := range []string{p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
