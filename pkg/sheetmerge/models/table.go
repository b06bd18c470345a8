// Package models defines data structures shared by the merge and inspection pipelines.
package models

import "path/filepath"

// Value is a single cell value: nil, string, int64, float64, bool or time.Time.
type Value = any

// Record maps a cleaned column header to the cell value of one row.
type Record map[string]Value

// RawTable is one sheet's worth of data from one workbook.
type RawTable struct {
	// File is the workbook path as handed to the loader.
	File string `json:"file"`
	// Sheet is the sheet name.
	Sheet string `json:"sheet"`
	// Columns holds the cleaned header names in sheet order.
	Columns []string `json:"columns"`
	// Rows holds the data records in sheet order.
	Rows []Record `json:"rows"`
}

// RowCount returns the number of data rows.
func (t RawTable) RowCount() int {
	return len(t.Rows)
}

// FileName returns the workbook file name without its directory.
func (t RawTable) FileName() string {
	return filepath.Base(t.File)
}

// HasColumn reports whether the table has a column with exactly this name.
func (t RawTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns the values of one column, nil where a row has no value.
func (t RawTable) Column(name string) []Value {
	values := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[name]
	}
	return values
}

// LoadFailure records a workbook or sheet that was skipped while loading.
type LoadFailure struct {
	// File is the workbook path.
	File string `json:"file"`
	// Sheet is empty when the whole workbook could not be opened.
	Sheet string `json:"sheet,omitempty"`
	// Error is the failure message.
	Error string `json:"error"`
}
