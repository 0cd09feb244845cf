package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadLookup reads a two-column code-to-label file (CSV or XLSX, header
// row required). Rows with a blank code or label are skipped; a code that
// appears twice with different labels is an error.
func LoadLookup(path string) (map[string]string, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readLookupCSV(path)
	case ".xlsx", ".xlsm":
		rows, err = readLookupXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported lookup file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: need a header row and at least one mapping row", path)
	}

	lookup := make(map[string]string, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}
		code := strings.TrimSpace(row[0])
		label := strings.TrimSpace(row[1])
		if code == "" || label == "" {
			continue
		}
		if existing, ok := lookup[code]; ok && existing != label {
			return nil, fmt.Errorf("%s: row %d: code %q maps to both %q and %q", path, i+2, code, existing, label)
		}
		lookup[code] = label
	}
	if len(lookup) == 0 {
		return nil, fmt.Errorf("%s: no usable code/label rows", path)
	}
	return lookup, nil
}

func readLookupCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // lookup sheets are often ragged past column two
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

func readLookupXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err == nil && len(rows) >= 2 {
			return rows, nil
		}
	}
	return nil, fmt.Errorf("%s: no sheet with mapping rows", path)
}

// ApplyLookup renames every column whose name appears as a code in the
// lookup. Columns without a mapping keep their original name. Renaming is
// applied in source column order; a rename that collides with an existing
// name is an error.
func (t *Table) ApplyLookup(lookup map[string]string) error {
	for _, name := range t.Names() {
		label, ok := lookup[name]
		if !ok {
			continue
		}
		if err := t.Rename(name, label); err != nil {
			return fmt.Errorf("rename %q to %q: %w", name, label, err)
		}
	}
	return nil
}
