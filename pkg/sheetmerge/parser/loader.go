package parser

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/models"
	"github.com/xuri/excelize/v2"
)

// Load reads every sheet of every workbook in paths, in order.
// A workbook or sheet that cannot be read is logged and reported as a
// failure; loading continues with the next sheet or file.
// Sheets without data rows produce no table.
func Load(paths []string, logger *log.Logger) ([]models.RawTable, []models.LoadFailure) {
	if logger == nil {
		logger = log.Default()
	}

	var tables []models.RawTable
	var failures []models.LoadFailure
	for _, path := range paths {
		t, errs := LoadWorkbook(path, logger)
		tables = append(tables, t...)
		for _, e := range errs {
			failures = append(failures, e.Failure())
		}
	}
	return tables, failures
}

// LoadWorkbook reads all non-empty sheets of one workbook.
// The file is closed before LoadWorkbook returns.
func LoadWorkbook(path string, logger *log.Logger) ([]models.RawTable, []*LoadError) {
	if logger == nil {
		logger = log.Default()
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		logger.Printf("[Loader] error processing file %s: %v", path, err)
		return nil, []*LoadError{NewLoadError(path, "", err)}
	}
	defer f.Close()

	var tables []models.RawTable
	var errs []*LoadError
	for _, sheet := range f.GetSheetList() {
		table, err := ReadSheet(f, path, sheet)
		if err != nil {
			logger.Printf("[Loader] error reading sheet %q in %s: %v", sheet, path, err)
			errs = append(errs, NewLoadError(path, sheet, err))
			continue
		}
		if table.RowCount() == 0 {
			continue
		}
		logger.Printf("[Loader] loaded %s - sheet %q (%d rows)", filepath.Base(path), sheet, table.RowCount())
		tables = append(tables, table)
	}
	return tables, errs
}

// ReadSheet reads one sheet as a table: the first non-empty row is the
// header and every following non-empty row is a record.
func ReadSheet(f *excelize.File, path, sheet string) (models.RawTable, error) {
	table := models.RawTable{File: path, Sheet: sheet}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return table, err
	}

	cr := newCellReader(f, sheet)
	var typed [][]models.Value
	for rowIdx, row := range rows {
		values := make([]models.Value, len(row))
		hasData := false
		for colIdx, raw := range row {
			v, err := cr.value(colIdx+1, rowIdx+1, raw)
			if err != nil {
				return table, fmt.Errorf("row %d column %d: %w", rowIdx+1, colIdx+1, err)
			}
			values[colIdx] = v
			if v != nil {
				hasData = true
			}
		}
		if hasData {
			typed = append(typed, values)
		}
	}

	if len(typed) == 0 {
		return table, nil
	}

	width := 0
	for _, values := range typed {
		if len(values) > width {
			width = len(values)
		}
	}
	table.Columns = CleanHeaders(typed[0], width)

	for _, values := range typed[1:] {
		record := make(models.Record, len(table.Columns))
		for i, col := range table.Columns {
			if i < len(values) {
				record[col] = values[i]
			} else {
				record[col] = nil
			}
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}

// CleanHeaders turns a header row into unique, trimmed column names of the given width.
// Blank headers become "Unnamed: <index>" and repeats get ".1", ".2", ... suffixes.
func CleanHeaders(header []models.Value, width int) []string {
	if width < len(header) {
		width = len(header)
	}

	names := make([]string, width)
	seen := make(map[string]bool, width)
	next := make(map[string]int, width)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(header) {
			name = headerString(header[i])
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if seen[name] {
			base := name
			for {
				next[base]++
				candidate := fmt.Sprintf("%s.%d", base, next[base])
				if !seen[candidate] {
					name = candidate
					break
				}
			}
		}
		seen[name] = true
		names[i] = name
	}
	return names
}
