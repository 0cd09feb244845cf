// Package dataset holds the in-memory survey table: loading from CSV or
// XLSX, column-kind classification, and the optional code-to-label column
// renaming consumed once before the pipeline runs.
//
// Every column is classified exactly once at load time as numeric or
// categorical, and the classification stays fixed for the life of the run.
// Numeric columns store float64 values with NaN marking a missing cell;
// categorical columns store strings with "" marking a missing cell.
package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind classifies a column's value treatment.
type Kind int

const (
	KindNumeric Kind = iota
	KindCategorical
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// Column is a single named survey field. Exactly one of Nums or Cats is
// populated, selected by Kind.
type Column struct {
	Name string
	Kind Kind
	Nums []float64 // numeric payload; NaN marks missing
	Cats []string  // categorical payload; "" marks missing
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	if c.Kind == KindNumeric {
		return len(c.Nums)
	}
	return len(c.Cats)
}

// IsMissing reports whether row i holds a missing value.
func (c *Column) IsMissing(i int) bool {
	if c.Kind == KindNumeric {
		return math.IsNaN(c.Nums[i])
	}
	return c.Cats[i] == ""
}

// MissingCount returns the number of missing cells in the column.
func (c *Column) MissingCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			n++
		}
	}
	return n
}

// NonMissingNums returns the numeric values excluding missing cells.
func (c *Column) NonMissingNums() []float64 {
	out := make([]float64, 0, len(c.Nums))
	for _, v := range c.Nums {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// NonMissingCats returns the categorical values excluding missing cells,
// in row order.
func (c *Column) NonMissingCats() []string {
	out := make([]string, 0, len(c.Cats))
	for _, v := range c.Cats {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Distinct returns the sorted distinct non-missing categories. The sorted
// order is what makes one-hot column order and integer code assignment
// deterministic under row reordering.
func (c *Column) Distinct() []string {
	seen := make(map[string]struct{})
	for _, v := range c.Cats {
		if v != "" {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Cardinality returns the count of distinct non-missing values.
func (c *Column) Cardinality() int {
	return len(c.Distinct())
}

// Table is the raw survey table: one entry per column, shared row count,
// row order aligned with the source file. The table identity is stable for
// a run; imputation mutates cell values in place but never adds, removes,
// or re-kinds columns.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// Missing cell tokens accepted on load, compared case-insensitively after
// trimming whitespace.
var missingTokens = map[string]struct{}{
	"":    {},
	"na":  {},
	"n/a": {},
	"nan": {},
}

// IsMissingToken reports whether a raw cell represents a missing value.
func IsMissingToken(cell string) bool {
	_, ok := missingTokens[strings.ToLower(strings.TrimSpace(cell))]
	return ok
}

// FromCells builds a table from a header row and raw string cells,
// classifying each column as numeric iff it has at least one non-missing
// cell and every non-missing cell parses as a float. Columns whose cells
// are entirely missing classify as categorical; the imputer rejects them
// with a data-quality error rather than the loader guessing a kind.
func FromCells(header []string, cells [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("no data rows")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("blank column name at position %d", i)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		header[i] = name
		index[name] = i
	}

	for i, row := range cells {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d", i+1, len(row), len(header))
		}
	}

	t := &Table{
		columns: make([]*Column, len(header)),
		index:   index,
		rows:    len(cells),
	}

	for j, name := range header {
		raw := make([]string, len(cells))
		for i := range cells {
			raw[i] = strings.TrimSpace(cells[i][j])
		}
		t.columns[j] = classify(name, raw)
	}

	return t, nil
}

// classify decides a column's kind from its raw cells and builds the
// typed payload.
func classify(name string, raw []string) *Column {
	numeric := false
	for _, cell := range raw {
		if IsMissingToken(cell) {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return categoricalColumn(name, raw)
		}
		numeric = true
	}
	if !numeric {
		// All cells missing: no evidence of a numeric kind.
		return categoricalColumn(name, raw)
	}

	nums := make([]float64, len(raw))
	for i, cell := range raw {
		if IsMissingToken(cell) {
			nums[i] = math.NaN()
			continue
		}
		v, _ := strconv.ParseFloat(cell, 64)
		nums[i] = v
	}
	return &Column{Name: name, Kind: KindNumeric, Nums: nums}
}

func categoricalColumn(name string, raw []string) *Column {
	cats := make([]string, len(raw))
	for i, cell := range raw {
		if IsMissingToken(cell) {
			cats[i] = ""
			continue
		}
		cats[i] = cell
	}
	return &Column{Name: name, Kind: KindCategorical, Cats: cats}
}

// Rows returns the row count.
func (t *Table) Rows() int { return t.rows }

// Cols returns the column count.
func (t *Table) Cols() int { return len(t.columns) }

// Columns returns the columns in source order.
func (t *Table) Columns() []*Column { return t.columns }

// Column looks a column up by name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Names returns the column names in source order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// NumericColumns returns the numeric columns in source order.
func (t *Table) NumericColumns() []*Column {
	var out []*Column
	for _, c := range t.columns {
		if c.Kind == KindNumeric {
			out = append(out, c)
		}
	}
	return out
}

// CategoricalColumns returns the categorical columns in source order.
func (t *Table) CategoricalColumns() []*Column {
	var out []*Column
	for _, c := range t.columns {
		if c.Kind == KindCategorical {
			out = append(out, c)
		}
	}
	return out
}

// Rename changes a column's name, failing if the source is absent or the
// target already exists.
func (t *Table) Rename(from, to string) error {
	i, ok := t.index[from]
	if !ok {
		return fmt.Errorf("column %q not present", from)
	}
	if from == to {
		return nil
	}
	if _, exists := t.index[to]; exists {
		return fmt.Errorf("column %q already exists", to)
	}
	delete(t.index, from)
	t.index[to] = i
	t.columns[i].Name = to
	return nil
}
