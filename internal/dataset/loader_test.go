package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "survey.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	t.Run("loads and classifies", func(t *testing.T) {
		path := writeTempCSV(t, "txn_amt,education\n10,Primary\n,Secondary\n40,\n")

		table, err := LoadCSV(path)
		require.NoError(t, err)
		assert.Equal(t, 3, table.Rows())

		txn, ok := table.Column("txn_amt")
		require.True(t, ok)
		assert.Equal(t, KindNumeric, txn.Kind)

		edu, ok := table.Column("education")
		require.True(t, ok)
		assert.Equal(t, KindCategorical, edu.Kind)
	})

	t.Run("ragged row is rejected", func(t *testing.T) {
		path := writeTempCSV(t, "a,b\n1,2\n3\n")
		_, err := LoadCSV(path)
		assert.Error(t, err)
	})

	t.Run("header only is rejected", func(t *testing.T) {
		path := writeTempCSV(t, "a,b\n")
		_, err := LoadCSV(path)
		assert.ErrorContains(t, err, "at least one data row")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCSV(filepath.Join(t.TempDir(), "absent.csv"))
		assert.Error(t, err)
	})
}

func writeTempXLSX(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "survey.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadXLSX(t *testing.T) {
	t.Run("loads first populated sheet", func(t *testing.T) {
		path := writeTempXLSX(t, [][]interface{}{
			{"savings_amt", "region"},
			{100, "north"},
			{250, "south"},
		})

		table, err := LoadXLSX(path)
		require.NoError(t, err)
		assert.Equal(t, 2, table.Rows())

		col, ok := table.Column("savings_amt")
		require.True(t, ok)
		assert.Equal(t, KindNumeric, col.Kind)
	})

	t.Run("short rows pad as missing", func(t *testing.T) {
		path := writeTempXLSX(t, [][]interface{}{
			{"a", "b"},
			{"1", "x"},
			{"2"}, // trailing blank cell trimmed by the format
		})

		table, err := LoadXLSX(path)
		require.NoError(t, err)

		col, ok := table.Column("b")
		require.True(t, ok)
		assert.True(t, col.IsMissing(1))
	})

	t.Run("workbook without data rows is rejected", func(t *testing.T) {
		path := writeTempXLSX(t, [][]interface{}{{"only", "header"}})
		_, err := LoadXLSX(path)
		assert.ErrorContains(t, err, "no sheet")
	})
}

func TestLoadDispatch(t *testing.T) {
	t.Run("csv extension", func(t *testing.T) {
		path := writeTempCSV(t, "a\n1\n")
		table, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 1, table.Rows())
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := Load("survey.parquet")
		assert.ErrorContains(t, err, "unsupported file type")
	})
}

func TestLoadLookupAndApply(t *testing.T) {
	lookupCSV := "code,label\nq1,transaction_count\nq2,education_level\n,\nq9,unused_label\n"
	path := filepath.Join(t.TempDir(), "lookup.csv")
	require.NoError(t, os.WriteFile(path, []byte(lookupCSV), 0o644))

	lookup, err := LoadLookup(path)
	require.NoError(t, err)
	assert.Len(t, lookup, 3)
	assert.Equal(t, "transaction_count", lookup["q1"])

	t.Run("renames mapped columns and keeps the rest", func(t *testing.T) {
		table, err := FromCells([]string{"q1", "q2", "q3"}, [][]string{{"1", "Primary", "x"}})
		require.NoError(t, err)

		require.NoError(t, table.ApplyLookup(lookup))
		assert.Equal(t, []string{"transaction_count", "education_level", "q3"}, table.Names())
	})

	t.Run("rename collision is surfaced", func(t *testing.T) {
		table, err := FromCells([]string{"q1", "transaction_count"}, [][]string{{"1", "2"}})
		require.NoError(t, err)

		assert.ErrorContains(t, table.ApplyLookup(lookup), "already exists")
	})

	t.Run("conflicting duplicate code is rejected", func(t *testing.T) {
		dupPath := filepath.Join(t.TempDir(), "dup.csv")
		require.NoError(t, os.WriteFile(dupPath, []byte("code,label\nq1,first\nq1,second\n"), 0o644))

		_, err := LoadLookup(dupPath)
		assert.ErrorContains(t, err, "maps to both")
	})
}
