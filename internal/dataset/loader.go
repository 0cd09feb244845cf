package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Load reads a survey file into a table, dispatching on the file
// extension: .csv for delimited text, .xlsx/.xlsm for spreadsheets.
func Load(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".xlsx", ".xlsm":
		return LoadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}

// LoadCSV reads a CSV file with a header row into a table. Rows whose
// width differs from the header are rejected by the reader.
func LoadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: need a header row and at least one data row", path)
	}

	t, err := FromCells(rows[0], rows[1:])
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return t, nil
}

// LoadXLSX reads the first populated sheet of a spreadsheet into a table.
// Short rows are padded with missing cells (trailing blanks are trimmed by
// the spreadsheet format); rows wider than the header are rejected.
func LoadXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var header []string
	var cells [][]string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			continue
		}
		header = rows[0]
		cells = rows[1:]
		break
	}
	if header == nil {
		return nil, fmt.Errorf("%s: no sheet with a header row and data rows", path)
	}

	padded := make([][]string, len(cells))
	for i, row := range cells {
		if len(row) > len(header) {
			return nil, fmt.Errorf("%s: row %d has %d cells, header has %d", path, i+1, len(row), len(header))
		}
		if len(row) < len(header) {
			p := make([]string, len(header))
			copy(p, row)
			row = p
		}
		padded[i] = row
	}

	t, err := FromCells(header, padded)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return t, nil
}
