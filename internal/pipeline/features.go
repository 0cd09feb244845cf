package pipeline

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// FeatureMatrix is a dense numeric matrix with named columns. The encoder
// produces one from the raw table; every later stage reads or derives one,
// keeping row i aligned with respondent i of the raw table.
type FeatureMatrix struct {
	Names []string
	M     *mat.Dense
}

// FromColumns builds a feature matrix from column-major data. Every column
// must have the same length.
func FromColumns(names []string, cols [][]float64) (*FeatureMatrix, error) {
	if len(names) != len(cols) {
		return nil, fmt.Errorf("%d names for %d columns", len(names), len(cols))
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no columns")
	}

	rows := len(cols[0])
	if rows == 0 {
		return nil, fmt.Errorf("no rows")
	}
	for j, col := range cols {
		if len(col) != rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", names[j], len(col), rows)
		}
	}

	m := mat.NewDense(rows, len(cols), nil)
	for j, col := range cols {
		m.SetCol(j, col)
	}
	return &FeatureMatrix{Names: names, M: m}, nil
}

// Rows returns the row count.
func (f *FeatureMatrix) Rows() int {
	r, _ := f.M.Dims()
	return r
}

// Cols returns the column count.
func (f *FeatureMatrix) Cols() int {
	_, c := f.M.Dims()
	return c
}

// Col returns a copy of column j.
func (f *FeatureMatrix) Col(j int) []float64 {
	return mat.Col(nil, j, f.M)
}

// SetCol replaces column j.
func (f *FeatureMatrix) SetCol(j int, values []float64) {
	f.M.SetCol(j, values)
}

// Row returns a copy of row i.
func (f *FeatureMatrix) Row(i int) []float64 {
	return mat.Row(nil, i, f.M)
}

// RowSlices returns the matrix as per-row slices, the shape the clusterer
// and the model bench consume.
func (f *FeatureMatrix) RowSlices() [][]float64 {
	rows := f.Rows()
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = f.Row(i)
	}
	return out
}

// AppendColumns returns a new matrix with extra named columns on the
// right. The receiver is not modified.
func (f *FeatureMatrix) AppendColumns(names []string, cols [][]float64) (*FeatureMatrix, error) {
	extra, err := FromColumns(names, cols)
	if err != nil {
		return nil, err
	}
	if extra.Rows() != f.Rows() {
		return nil, fmt.Errorf("appending %d rows to %d rows", extra.Rows(), f.Rows())
	}

	var joined mat.Dense
	joined.Augment(f.M, extra.M)

	allNames := make([]string, 0, len(f.Names)+len(names))
	allNames = append(allNames, f.Names...)
	allNames = append(allNames, names...)
	return &FeatureMatrix{Names: allNames, M: &joined}, nil
}
