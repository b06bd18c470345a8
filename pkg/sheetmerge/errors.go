package sheetmerge

import (
	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/output"
	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/parser"
)

// LoadError represents a workbook or sheet that could not be read.
type LoadError = parser.LoadError

// ExportError represents a failure writing an output artifact.
type ExportError = output.ExportError
