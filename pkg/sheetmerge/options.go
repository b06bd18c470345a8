// Package sheetmerge standardizes column names across spreadsheet
// workbooks and merges their sheets into one master table.
package sheetmerge

import (
	"io"
	"log"
	"time"
)

// DefaultOutputPath is the merged workbook written when no path is set.
const DefaultOutputPath = "master_file.xlsx"

// ProgressFunc receives coarse progress milestones (0-100) of a run.
type ProgressFunc func(percent int, message string)

// Options configures a merge run.
type Options struct {
	// OutputPath is the merged workbook path. Defaults to DefaultOutputPath.
	OutputPath string
	// SQLitePath, when set, also writes the result to a SQLite database.
	SQLitePath string
	// Logger receives skip and progress messages. Defaults to log.Default().
	Logger *log.Logger
	// Progress is called at each pipeline milestone.
	Progress ProgressFunc
	// Now supplies the merge timestamp. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns default merge options.
func DefaultOptions() Options {
	return Options{
		OutputPath: DefaultOutputPath,
	}
}

func (o Options) outputPath() string {
	if o.OutputPath == "" {
		return DefaultOutputPath
	}
	return o.OutputPath
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.Default()
	}
	return o.Logger
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

func (o Options) progress(percent int, message string) {
	o.logger().Printf("[Merge] %d%% %s", percent, message)
	if o.Progress != nil {
		o.Progress(percent, message)
	}
}

// DiscardLogger returns a logger that drops every message.
func DiscardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
