package models

// WorkbookInfo is the inspection document written for one workbook.
type WorkbookInfo struct {
	// Filename is the workbook file name (no path).
	Filename string `json:"filename"`
	// FileSize is the size in bytes.
	FileSize int64 `json:"file_size"`
	// LastModified is the modification time in RFC 3339.
	LastModified string `json:"last_modified"`
	// TotalSheets is the number of sheets in the workbook.
	TotalSheets int `json:"total_sheets"`
	// Sheets holds one entry per sheet in workbook order.
	Sheets []SheetInfo `json:"sheets"`
}

// SheetInfo describes the schema and a sample of one sheet.
type SheetInfo struct {
	Name         string           `json:"name"`
	TotalRows    int              `json:"total_rows"`
	TotalColumns int              `json:"total_columns"`
	Columns      []ColumnInfo     `json:"columns,omitempty"`
	SampleData   []map[string]any `json:"sample_data,omitempty"`
	// TableCandidates and PrintAreas extend the column/sample document
	// with layout hints: the dense filled region of the sheet and its
	// defined print ranges, as A1-style references.
	TableCandidates []string `json:"table_candidates,omitempty"`
	PrintAreas      []string `json:"print_areas,omitempty"`
	// Error is set when the sheet could not be read.
	Error string `json:"error,omitempty"`
}

// ColumnInfo describes one column of a sheet.
type ColumnInfo struct {
	Name         string          `json:"name"`
	Dtype        string          `json:"dtype"`
	NonNullCount int             `json:"non_null_count"`
	Numeric      *NumericSummary `json:"numeric,omitempty"`
}

// NumericSummary holds basic statistics for a numeric column.
type NumericSummary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// WorkbookError is the document written when a workbook cannot be opened.
type WorkbookError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// InspectionSummary aggregates every inspection document of a run.
type InspectionSummary struct {
	TotalFiles  int             `json:"total_files"`
	TotalSheets int             `json:"total_sheets"`
	Files       []InspectedFile `json:"files"`
}

// InspectedFile is one entry of InspectionSummary.
type InspectedFile struct {
	Filename string `json:"filename"`
	Sheets   int    `json:"sheets"`
	JSONFile string `json:"json_file"`
}
