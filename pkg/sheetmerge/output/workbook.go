package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/models"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the merged workbook.
const (
	SheetMasterData    = "Master_Data"
	SheetMergeSummary  = "Merge_Summary"
	SheetColumnMapping = "Column_Mapping"
	SheetFileDetails   = "File_Details"
	SheetLoadErrors    = "Load_Errors"
)

// TimestampLayout is the text layout of the summary merge timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// SummaryColumns are the column headers of the Merge_Summary sheet.
var SummaryColumns = []string{
	"run_id",
	"total_files_processed",
	"total_sheets_processed",
	"total_rows_before_merge",
	"total_rows_after_merge",
	"duplicates_removed",
	"unique_columns_found",
	"merge_timestamp",
	"failures",
}

// sheetData is one sheet of the output workbook.
type sheetData struct {
	name   string
	header []string
	rows   [][]interface{}
}

// WriteWorkbook writes the merged table and its metadata sheets to path.
// Master_Data is omitted for an empty table; Load_Errors only appears when
// files or sheets were skipped.
func WriteWorkbook(path string, merged *models.MergedTable, mapping models.ColumnMapping, summary models.Summary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return NewExportError(path, "xlsx", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 22})
	if err != nil {
		return NewExportError(path, "xlsx", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return NewExportError(path, "xlsx", err)
	}

	var sheets []sheetData
	if !merged.Empty() {
		sheets = append(sheets, masterSheet(merged, dateStyle))
	}
	sheets = append(sheets, summarySheet(summary), mappingSheet(mapping), detailsSheet(summary))
	if len(summary.Failures) > 0 {
		sheets = append(sheets, failuresSheet(summary.Failures))
	}

	for i, sheet := range sheets {
		if i == 0 {
			err = f.SetSheetName(f.GetSheetName(0), sheet.name)
		} else {
			_, err = f.NewSheet(sheet.name)
		}
		if err != nil {
			return NewExportError(path, "xlsx", err)
		}
		if err := writeSheet(f, sheet, headerStyle); err != nil {
			return NewExportError(path, "xlsx", fmt.Errorf("sheet %s: %w", sheet.name, err))
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return NewExportError(path, "xlsx", err)
	}
	return nil
}

// writeSheet streams a header row followed by the data rows.
func writeSheet(f *excelize.File, sheet sheetData, headerStyle int) error {
	sw, err := f.NewStreamWriter(sheet.name)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(sheet.header))
	for i, h := range sheet.header {
		header[i] = excelize.Cell{Value: h, StyleID: headerStyle}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for r, row := range sheet.rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func masterSheet(merged *models.MergedTable, dateStyle int) sheetData {
	rows := make([][]interface{}, len(merged.Rows))
	for i, row := range merged.Rows {
		fields := row.Fields()
		cells := make([]interface{}, len(fields))
		for j, v := range fields {
			if t, ok := v.(time.Time); ok {
				cells[j] = excelize.Cell{Value: t, StyleID: dateStyle}
				continue
			}
			cells[j] = v
		}
		rows[i] = cells
	}
	return sheetData{name: SheetMasterData, header: merged.Columns, rows: rows}
}

func summarySheet(s models.Summary) sheetData {
	return sheetData{
		name:   SheetMergeSummary,
		header: SummaryColumns,
		rows: [][]interface{}{{
			s.RunID,
			s.FilesProcessed,
			s.SheetsProcessed,
			s.RowsBeforeMerge,
			s.RowsAfterMerge,
			s.DuplicatesRemoved,
			s.UniqueColumns,
			s.MergedAt.Format(TimestampLayout),
			len(s.Failures),
		}},
	}
}

func mappingSheet(mapping models.ColumnMapping) sheetData {
	var rows [][]interface{}
	for _, e := range mapping.Entries() {
		rows = append(rows, []interface{}{e.Key, e.Original})
	}
	return sheetData{name: SheetColumnMapping, header: []string{"Standardized_Name", "Original_Name"}, rows: rows}
}

func detailsSheet(s models.Summary) sheetData {
	var rows [][]interface{}
	for _, d := range s.FileDetails {
		rows = append(rows, []interface{}{d.FileName, strings.Join(d.Sheets, ", "), d.TotalRows})
	}
	return sheetData{name: SheetFileDetails, header: []string{"File_Name", "Sheets", "Total_Rows"}, rows: rows}
}

func failuresSheet(failures []models.LoadFailure) sheetData {
	rows := make([][]interface{}, len(failures))
	for i, fl := range failures {
		rows[i] = []interface{}{fl.File, fl.Sheet, fl.Error}
	}
	return sheetData{name: SheetLoadErrors, header: []string{"File", "Sheet", "Error"}, rows: rows}
}
