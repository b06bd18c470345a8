package models

import "time"

// Provenance column names appended to every merged row.
const (
	ColumnSourceFile     = "source_file"
	ColumnSourceSheet    = "source_sheet"
	ColumnMergeTimestamp = "merge_timestamp"
)

// ProvenanceColumns lists the provenance columns in output order.
var ProvenanceColumns = []string{ColumnSourceFile, ColumnSourceSheet, ColumnMergeTimestamp}

// MergedRow is one source row projected onto the canonical columns.
type MergedRow struct {
	// Values is aligned with the mapping keys.
	Values []Value
	// SourceFile is the workbook file name (no path).
	SourceFile string
	// SourceSheet is the sheet the row came from.
	SourceSheet string
	// MergedAt is the run timestamp, identical for every row of a run.
	MergedAt time.Time
}

// Fields returns the data values followed by the provenance fields.
func (r MergedRow) Fields() []Value {
	fields := make([]Value, 0, len(r.Values)+len(ProvenanceColumns))
	fields = append(fields, r.Values...)
	return append(fields, r.SourceFile, r.SourceSheet, r.MergedAt)
}

// MergedTable is the concatenated, de-duplicated result of a merge run.
type MergedTable struct {
	// Columns holds the canonical keys followed by ProvenanceColumns.
	Columns []string
	// Rows holds the surviving rows in load order.
	Rows []MergedRow
	// RowsBeforeDedup is the row count after concatenation.
	RowsBeforeDedup int
	// DuplicatesRemoved is the number of rows dropped as exact duplicates.
	DuplicatesRemoved int
}

// Empty reports whether the table has no rows.
func (t *MergedTable) Empty() bool {
	return t == nil || len(t.Rows) == 0
}
