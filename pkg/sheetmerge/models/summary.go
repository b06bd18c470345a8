package models

import "time"

// FileDetail is the per-workbook breakdown of a merge run.
type FileDetail struct {
	FileName  string   `json:"file_name"`
	Sheets    []string `json:"sheets"`
	TotalRows int      `json:"total_rows"`
}

// Summary is the aggregate report of one merge run.
type Summary struct {
	RunID             string        `json:"run_id"`
	FilesProcessed    int           `json:"total_files_processed"`
	SheetsProcessed   int           `json:"total_sheets_processed"`
	RowsBeforeMerge   int           `json:"total_rows_before_merge"`
	RowsAfterMerge    int           `json:"total_rows_after_merge"`
	DuplicatesRemoved int           `json:"duplicates_removed"`
	UniqueColumns     int           `json:"unique_columns_found"`
	MergedAt          time.Time     `json:"merge_timestamp"`
	FileDetails       []FileDetail  `json:"file_details"`
	Failures          []LoadFailure `json:"failures,omitempty"`
}
