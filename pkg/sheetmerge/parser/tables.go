package parser

import (
	"github.com/xuri/excelize/v2"
)

// TableDetectionParams holds the thresholds a region must meet to be reported.
type TableDetectionParams struct {
	// DensityMin is the minimum share of filled cells in the region.
	DensityMin float64
	// CoverageMin is the minimum share of region rows holding any value.
	CoverageMin float64
	// MinNonemptyCells is the minimum number of filled cells.
	MinNonemptyCells int
}

// DefaultTableParams returns default table detection parameters.
func DefaultTableParams() TableDetectionParams {
	return TableDetectionParams{
		DensityMin:       0.04,
		CoverageMin:      0.2,
		MinNonemptyCells: 3,
	}
}

// region is the 0-based bounding box of the filled cells of a grid.
type region struct {
	top, bottom, left, right int
	cells                    int
	filledRows               int
}

func (r region) height() int { return r.bottom - r.top + 1 }
func (r region) width() int  { return r.right - r.left + 1 }

// ref renders the region as an A1-style range.
func (r region) ref() string {
	start, _ := excelize.CoordinatesToCellName(r.left+1, r.top+1)
	end, _ := excelize.CoordinatesToCellName(r.right+1, r.bottom+1)
	return start + ":" + end
}

// scanRegion bounds the filled cells of rows in one pass.
func scanRegion(rows [][]string) (region, bool) {
	reg := region{top: -1, left: -1}
	for r, row := range rows {
		filled := false
		for c, cell := range row {
			if cell == "" {
				continue
			}
			filled = true
			reg.cells++
			if reg.left < 0 || c < reg.left {
				reg.left = c
			}
			if c > reg.right {
				reg.right = c
			}
		}
		if !filled {
			continue
		}
		if reg.top < 0 {
			reg.top = r
		}
		reg.bottom = r
		reg.filledRows++
	}
	return reg, reg.top >= 0
}

// DetectTables reports the filled region of a sheet grid, as returned by
// GetRows, when it is dense enough to read as a table.
func DetectTables(rows [][]string, params TableDetectionParams) []string {
	reg, ok := scanRegion(rows)
	if !ok || reg.cells < params.MinNonemptyCells {
		return nil
	}
	if float64(reg.cells)/float64(reg.height()*reg.width()) < params.DensityMin {
		return nil
	}
	if float64(reg.filledRows)/float64(reg.height()) < params.CoverageMin {
		return nil
	}
	return []string{reg.ref()}
}
