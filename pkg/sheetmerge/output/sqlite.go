package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/models"
	_ "modernc.org/sqlite"
)

type summaryRecord struct {
	RunID             string `db:"run_id"`
	FilesProcessed    int    `db:"total_files_processed"`
	SheetsProcessed   int    `db:"total_sheets_processed"`
	RowsBeforeMerge   int    `db:"total_rows_before_merge"`
	RowsAfterMerge    int    `db:"total_rows_after_merge"`
	DuplicatesRemoved int    `db:"duplicates_removed"`
	UniqueColumns     int    `db:"unique_columns_found"`
	MergedAt          string `db:"merge_timestamp"`
	Failures          int    `db:"failures"`
}

type fileDetailRecord struct {
	FileName  string `db:"file_name"`
	Sheets    string `db:"sheets"`
	TotalRows int    `db:"total_rows"`
}

const sqliteSchema = `
CREATE TABLE merge_summary (
	run_id TEXT, total_files_processed INTEGER, total_sheets_processed INTEGER,
	total_rows_before_merge INTEGER, total_rows_after_merge INTEGER,
	duplicates_removed INTEGER, unique_columns_found INTEGER,
	merge_timestamp TEXT, failures INTEGER
);
CREATE TABLE column_mapping (standardized_name TEXT PRIMARY KEY, original_name TEXT);
CREATE TABLE file_details (file_name TEXT, sheets TEXT, total_rows INTEGER);
CREATE TABLE load_errors (file TEXT, sheet TEXT, error TEXT);
`

// WriteSQLite writes the merge result into a fresh SQLite database at path.
// Any existing file at path is replaced. All tables are written in one transaction.
func WriteSQLite(path string, merged *models.MergedTable, mapping models.ColumnMapping, summary models.Summary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return NewExportError(path, "sqlite", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return NewExportError(path, "sqlite", err)
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return NewExportError(path, "sqlite", err)
	}
	defer db.Close()

	tx, err := db.Beginx()
	if err != nil {
		return NewExportError(path, "sqlite", err)
	}
	if err := writeSQLiteTables(tx, merged, mapping, summary); err != nil {
		_ = tx.Rollback()
		return NewExportError(path, "sqlite", err)
	}
	if err := tx.Commit(); err != nil {
		return NewExportError(path, "sqlite", err)
	}
	return nil
}

func writeSQLiteTables(tx *sqlx.Tx, merged *models.MergedTable, mapping models.ColumnMapping, summary models.Summary) error {
	for _, stmt := range strings.Split(sqliteSchema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	if err := writeMasterData(tx, merged); err != nil {
		return fmt.Errorf("master_data: %w", err)
	}

	_, err := tx.NamedExec(`INSERT INTO merge_summary VALUES (
		:run_id, :total_files_processed, :total_sheets_processed,
		:total_rows_before_merge, :total_rows_after_merge,
		:duplicates_removed, :unique_columns_found, :merge_timestamp, :failures)`,
		summaryRecord{
			RunID:             summary.RunID,
			FilesProcessed:    summary.FilesProcessed,
			SheetsProcessed:   summary.SheetsProcessed,
			RowsBeforeMerge:   summary.RowsBeforeMerge,
			RowsAfterMerge:    summary.RowsAfterMerge,
			DuplicatesRemoved: summary.DuplicatesRemoved,
			UniqueColumns:     summary.UniqueColumns,
			MergedAt:          summary.MergedAt.Format(TimestampLayout),
			Failures:          len(summary.Failures),
		})
	if err != nil {
		return fmt.Errorf("merge_summary: %w", err)
	}

	for _, e := range mapping.Entries() {
		if _, err := tx.NamedExec(`INSERT INTO column_mapping (standardized_name, original_name) VALUES (:key, :original)`, e); err != nil {
			return fmt.Errorf("column_mapping: %w", err)
		}
	}

	for _, d := range summary.FileDetails {
		rec := fileDetailRecord{FileName: d.FileName, Sheets: strings.Join(d.Sheets, ", "), TotalRows: d.TotalRows}
		if _, err := tx.NamedExec(`INSERT INTO file_details (file_name, sheets, total_rows) VALUES (:file_name, :sheets, :total_rows)`, rec); err != nil {
			return fmt.Errorf("file_details: %w", err)
		}
	}

	for _, fl := range summary.Failures {
		if _, err := tx.Exec(`INSERT INTO load_errors (file, sheet, error) VALUES (?, ?, ?)`, fl.File, fl.Sheet, fl.Error); err != nil {
			return fmt.Errorf("load_errors: %w", err)
		}
	}
	return nil
}

// writeMasterData creates master_data with one column per merged column and inserts every row.
func writeMasterData(tx *sqlx.Tx, merged *models.MergedTable) error {
	if merged.Empty() {
		return nil
	}

	cols := uniqueColumnNames(merged.Columns)
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}
	if _, err := tx.Exec(`CREATE TABLE master_data (` + strings.Join(quoted, ", ") + `)`); err != nil {
		return err
	}

	ph := strings.TrimRight(strings.Repeat("?,", len(cols)), ",")
	stmt, err := tx.Preparex(`INSERT INTO master_data (` + strings.Join(quoted, ", ") + `) VALUES (` + ph + `)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range merged.Rows {
		fields := row.Fields()
		args := make([]interface{}, len(fields))
		for i, v := range fields {
			args[i] = sqliteValue(v)
		}
		if _, err := stmt.Exec(args...); err != nil {
			return err
		}
	}
	return nil
}

// uniqueColumnNames suffixes names that repeat case-insensitively, since
// SQLite column names are case-insensitive.
func uniqueColumnNames(cols []string) []string {
	out := make([]string, len(cols))
	used := make(map[string]bool, len(cols))
	for i, c := range cols {
		name := c
		for n := 1; used[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s_%d", c, n)
		}
		used[strings.ToLower(name)] = true
		out[i] = name
	}
	return out
}

// quoteIdent quotes a column name as an SQL identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func sqliteValue(v models.Value) interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case bool:
		if t {
			return 1
		}
		return 0
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return t
	}
}
