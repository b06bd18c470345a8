package parser

import (
	"fmt"

	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/models"
)

// LoadError represents a workbook or sheet that could not be loaded.
type LoadError struct {
	File  string
	Sheet string // empty when the workbook itself failed to open
	Err   error
}

func (e *LoadError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("load error in %s: %v", e.File, e.Err)
	}
	return fmt.Sprintf("load error in %s sheet %q: %v", e.File, e.Sheet, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Failure converts the error into the record kept in a merge summary.
func (e *LoadError) Failure() models.LoadFailure {
	return models.LoadFailure{
		File:  e.File,
		Sheet: e.Sheet,
		Error: e.Err.Error(),
	}
}

// NewLoadError creates a new LoadError.
func NewLoadError(file, sheet string, err error) *LoadError {
	return &LoadError{
		File:  file,
		Sheet: sheet,
		Err:   err,
	}
}
