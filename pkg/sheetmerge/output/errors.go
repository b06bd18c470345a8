// Package output writes merge results and inspection documents.
package output

import "fmt"

// ExportError represents a failure writing an output artifact.
type ExportError struct {
	Path string
	Sink string // "xlsx", "sqlite", "json"
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error writing %s (%s): %v", e.Path, e.Sink, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// NewExportError creates a new ExportError.
func NewExportError(path, sink string, err error) *ExportError {
	return &ExportError{
		Path: path,
		Sink: sink,
		Err:  err,
	}
}
