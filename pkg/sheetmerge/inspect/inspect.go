// Package inspect writes JSON documents describing the sheets, column
// types and sample rows of spreadsheet workbooks.
package inspect

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/models"
	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/parser"
	"github.com/xuri/excelize/v2"
)

// DefaultSampleRows is the number of sample rows kept per sheet.
const DefaultSampleRows = 3

// Options configures an inspection run.
type Options struct {
	// OutDir receives the JSON documents. Defaults to DefaultOutDir(time.Now()).
	OutDir string
	// SampleRows is the number of leading rows copied into each sheet document.
	SampleRows int
	// Logger defaults to log.Default().
	Logger *log.Logger
}

// DefaultOptions returns default inspection options.
func DefaultOptions() Options {
	return Options{SampleRows: DefaultSampleRows}
}

// DefaultOutDir names a timestamped output directory.
func DefaultOutDir(now time.Time) string {
	return "excel_json_output_" + now.Format("20060102_150405")
}

// Workbook inspects one workbook. A sheet that cannot be read is reported
// through its Error field; only a workbook that cannot be opened returns an error.
func Workbook(path string, sampleRows int) (*models.WorkbookInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	info := &models.WorkbookInfo{
		Filename:     filepath.Base(path),
		FileSize:     stat.Size(),
		LastModified: stat.ModTime().Format(time.RFC3339),
		TotalSheets:  len(sheets),
		Sheets:       make([]models.SheetInfo, 0, len(sheets)),
	}
	printAreas := parser.PrintAreas(f)
	for _, sheet := range sheets {
		sheetInfo := inspectSheet(f, path, sheet, sampleRows)
		sheetInfo.PrintAreas = printAreas[sheet]
		info.Sheets = append(info.Sheets, sheetInfo)
	}
	return info, nil
}

func inspectSheet(f *excelize.File, path, sheet string, sampleRows int) models.SheetInfo {
	info := models.SheetInfo{Name: sheet}

	table, err := parser.ReadSheet(f, path, sheet)
	if err != nil {
		info.Error = fmt.Sprintf("failed to process sheet: %v", err)
		return info
	}
	grid, err := f.GetRows(sheet)
	if err != nil {
		info.Error = fmt.Sprintf("failed to process sheet: %v", err)
		return info
	}

	info.TotalRows = table.RowCount()
	info.TotalColumns = len(table.Columns)
	info.TableCandidates = parser.DetectTables(grid, parser.DefaultTableParams())
	for _, col := range table.Columns {
		info.Columns = append(info.Columns, describeColumn(col, table.Column(col)))
	}
	info.SampleData = sample(table, sampleRows)
	return info
}

// sample returns the first n rows with times rendered as RFC 3339 strings.
func sample(table models.RawTable, n int) []map[string]any {
	if n > len(table.Rows) {
		n = len(table.Rows)
	}
	out := make([]map[string]any, 0, n)
	for _, record := range table.Rows[:n] {
		row := make(map[string]any, len(table.Columns))
		for _, col := range table.Columns {
			v := record[col]
			if t, ok := v.(time.Time); ok {
				v = t.Format(time.RFC3339)
			}
			row[col] = v
		}
		out = append(out, row)
	}
	return out
}
