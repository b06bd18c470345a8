package sheetmerge

import (
	"context"
	"fmt"

	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/engine"
	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/models"
	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/output"
	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/parser"
)

// Outcome is the result kind of a merge run.
type Outcome string

const (
	// OutcomeMerged means a merged workbook was written.
	OutcomeMerged Outcome = "merged"
	// OutcomeNothingToMerge means no table or no column survived loading.
	OutcomeNothingToMerge Outcome = "nothing_to_merge"
)

// Result is the outcome of Merge.
type Result struct {
	Outcome    Outcome              `json:"outcome"`
	Summary    models.Summary       `json:"summary"`
	Mapping    models.ColumnMapping `json:"column_mapping"`
	Table      *models.MergedTable  `json:"-"`
	OutputPath string               `json:"output_path,omitempty"`
	SQLitePath string               `json:"sqlite_path,omitempty"`
}

// Merge loads every workbook in paths, standardizes their columns, merges
// all sheets into one de-duplicated table and exports it.
//
// Unreadable files and sheets are skipped and listed in the summary. When
// there are no inputs or nothing survives loading the result has
// OutcomeNothingToMerge and no file is written. Only export failures
// return errors; when the SQLite sink fails after the workbook was saved,
// the partial result is returned with the error. ctx is checked between stages.
func Merge(ctx context.Context, paths []string, opts Options) (*Result, error) {
	logger := opts.logger()
	if len(paths) == 0 {
		logger.Printf("[Merge] no input files")
	}

	opts.progress(10, "loading workbooks")
	tables, failures := parser.Load(paths, logger)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts.progress(20, "building column mapping")
	mapping := engine.BuildMapping(tables)
	logger.Printf("[Merge] %d standardized columns from %d tables", mapping.Len(), len(tables))

	opts.progress(40, "merging tables")
	mergedAt := opts.now()
	merged := engine.Merge(tables, mapping, mergedAt)
	summary := engine.Summarize(tables, merged, failures, mergedAt)

	result := &Result{
		Summary: summary,
		Mapping: mapping,
		Table:   merged,
	}

	if merged.Empty() {
		logger.Printf("[Merge] no data to merge")
		opts.progress(100, "nothing to merge")
		result.Outcome = OutcomeNothingToMerge
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts.progress(80, "writing output")
	path := opts.outputPath()
	if err := output.WriteWorkbook(path, merged, mapping, summary); err != nil {
		logger.Printf("[Export] %v", err)
		return nil, err
	}
	result.OutputPath = path

	if opts.SQLitePath != "" {
		if err := output.WriteSQLite(opts.SQLitePath, merged, mapping, summary); err != nil {
			logger.Printf("[Export] %v", err)
			return result, err
		}
		result.SQLitePath = opts.SQLitePath
	}

	logger.Printf("[Merge] %d rows after merge (%d duplicates removed) -> %s",
		summary.RowsAfterMerge, summary.DuplicatesRemoved, path)
	opts.progress(100, "merge complete")
	result.Outcome = OutcomeMerged
	return result, nil
}

// MergeDir discovers the workbooks in dir and merges them. A directory
// without workbooks yields OutcomeNothingToMerge.
func MergeDir(ctx context.Context, dir string, opts Options) (*Result, error) {
	paths, err := Discover(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("discover workbooks: %w", err)
	}
	return Merge(ctx, paths, opts)
}
