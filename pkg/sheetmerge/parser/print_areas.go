package parser

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// PrintAreas returns the print ranges defined in a workbook, keyed by sheet
// name, normalized to plain "A1:D10" references.
func PrintAreas(f *excelize.File) map[string][]string {
	result := make(map[string][]string)
	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, "_xlnm.Print_Area") {
			continue
		}
		for _, part := range strings.Split(dn.RefersTo, ",") {
			sheet, ref, ok := splitSheetRef(strings.TrimSpace(part))
			if !ok {
				continue
			}
			result[sheet] = append(result[sheet], ref)
		}
	}
	return result
}

// splitSheetRef splits 'Sheet Name'!$A$1:$D$10 into its sheet and range.
func splitSheetRef(s string) (sheet, ref string, ok bool) {
	idx := strings.LastIndex(s, "!")
	if idx < 0 {
		return "", "", false
	}
	sheet = strings.ReplaceAll(strings.Trim(s[:idx], "'"), "''", "'")

	cells := strings.Split(strings.ReplaceAll(s[idx+1:], "$", ""), ":")
	if len(cells) != 2 {
		return "", "", false
	}
	for _, c := range cells {
		if _, _, err := excelize.CellNameToCoordinates(c); err != nil {
			return "", "", false
		}
	}
	return sheet, cells[0] + ":" + cells[1], true
}
