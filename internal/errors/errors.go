// Package errors defines the structured error taxonomy for the analysis
// pipeline. Preprocessing failures (DataQualityError, ShapeMismatchError)
// are fatal to a run because every downstream stage depends on a consistent
// processed table; model training failures (ModelTrainingError) are
// contained per model so the rest of the bench can still report.
package errors

import (
	"fmt"
)

// Error codes for classifying pipeline failures
const (
	CodeDataQuality   = "DATA_QUALITY"
	CodeShapeMismatch = "SHAPE_MISMATCH"
	CodeModelTraining = "MODEL_TRAINING"
)

// Common data-quality reasons. Stages reuse these so tests and callers can
// match on them without parsing messages.
const (
	ReasonAllMissing      = "column has no non-missing values"
	ReasonConstantColumn  = "column is constant; min equals max"
	ReasonUnmappedValue   = "value not present in the ordinal lookup"
	ReasonNoMatchingGroup = "no columns match the indicator group"
	ReasonNotNumeric      = "column is not numeric"
	ReasonNotCategorical  = "column is not categorical"
	ReasonMissingColumn   = "column not present in the table"
)

// DataQualityError reports a defect in the input data discovered by a
// pipeline stage: an all-missing column, an unmapped categorical value in a
// fixed lookup, a degenerate constant column during normalization, or a
// missing indicator group. Data-quality errors abort the run.
type DataQualityError struct {
	Stage  string `json:"stage"`
	Column string `json:"column"`
	Reason string `json:"reason"`
	Value  string `json:"value,omitempty"` // offending cell value, when one exists
}

// Error implements the error interface
func (e *DataQualityError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("data quality [%s]: column %q: %s (value %q)", e.Stage, e.Column, e.Reason, e.Value)
	}
	if e.Column != "" {
		return fmt.Sprintf("data quality [%s]: column %q: %s", e.Stage, e.Column, e.Reason)
	}
	return fmt.Sprintf("data quality [%s]: %s", e.Stage, e.Reason)
}

// Code returns the error classification code
func (e *DataQualityError) Code() string { return CodeDataQuality }

// NewDataQuality creates a data-quality error for a stage and column
func NewDataQuality(stage, column, reason string) *DataQualityError {
	return &DataQualityError{Stage: stage, Column: column, Reason: reason}
}

// NewDataQualityValue creates a data-quality error carrying the offending value
func NewDataQualityValue(stage, column, reason, value string) *DataQualityError {
	return &DataQualityError{Stage: stage, Column: column, Reason: reason, Value: value}
}

// ShapeMismatchError reports a row-count disagreement between the raw table
// and a stage output. Row alignment is the invariant that lets row i in
// every derived table refer to the same respondent, so a mismatch is a
// programming defect and always fatal.
type ShapeMismatchError struct {
	Stage    string `json:"stage"`
	WantRows int    `json:"want_rows"`
	GotRows  int    `json:"got_rows"`
}

// Error implements the error interface
func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch [%s]: want %d rows, got %d", e.Stage, e.WantRows, e.GotRows)
}

// Code returns the error classification code
func (e *ShapeMismatchError) Code() string { return CodeShapeMismatch }

// NewShapeMismatch creates a shape-mismatch error for a stage
func NewShapeMismatch(stage string, wantRows, gotRows int) *ShapeMismatchError {
	return &ShapeMismatchError{Stage: stage, WantRows: wantRows, GotRows: gotRows}
}

// ModelTrainingError reports a failure while fitting one classifier in the
// model bench. Models are mutually independent, so the bench records the
// error on the model's result and keeps going.
type ModelTrainingError struct {
	Model string `json:"model"`
	Err   error  `json:"-"`
}

// Error implements the error interface
func (e *ModelTrainingError) Error() string {
	return fmt.Sprintf("model training [%s]: %v", e.Model, e.Err)
}

// Unwrap exposes the underlying training failure
func (e *ModelTrainingError) Unwrap() error { return e.Err }

// Code returns the error classification code
func (e *ModelTrainingError) Code() string { return CodeModelTraining }

// NewModelTraining wraps a training failure with the model's name
func NewModelTraining(model string, err error) *ModelTrainingError {
	return &ModelTrainingError{Model: model, Err: err}
}

// Coder is implemented by all pipeline errors so callers can classify a
// failure without enumerating concrete types.
type Coder interface {
	error
	Code() string
}
