package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/models"
)

// Summarize computes the report of one merge run.
func Summarize(tables []models.RawTable, merged *models.MergedTable, failures []models.LoadFailure, mergedAt time.Time) models.Summary {
	summary := models.Summary{
		RunID:           uuid.NewString(),
		SheetsProcessed: len(tables),
		MergedAt:        mergedAt,
		FileDetails:     []models.FileDetail{},
		Failures:        failures,
	}

	files := make(map[string]struct{})
	details := make(map[string]int)
	for _, table := range tables {
		files[table.File] = struct{}{}
		summary.RowsBeforeMerge += table.RowCount()

		name := table.FileName()
		idx, ok := details[name]
		if !ok {
			idx = len(summary.FileDetails)
			details[name] = idx
			summary.FileDetails = append(summary.FileDetails, models.FileDetail{FileName: name})
		}
		summary.FileDetails[idx].Sheets = append(summary.FileDetails[idx].Sheets, table.Sheet)
		summary.FileDetails[idx].TotalRows += table.RowCount()
	}
	summary.FilesProcessed = len(files)

	if !merged.Empty() {
		summary.RowsAfterMerge = len(merged.Rows)
		summary.UniqueColumns = len(merged.Columns)
	}
	summary.DuplicatesRemoved = summary.RowsBeforeMerge - summary.RowsAfterMerge

	return summary
}
