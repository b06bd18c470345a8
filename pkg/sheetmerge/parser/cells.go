package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/models"
	"github.com/xuri/excelize/v2"
)

// naValues are cell strings read as missing values.
var naValues = map[string]bool{
	"#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true, "-1.#QNAN": true,
	"-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true, "<NA>": true,
	"N/A": true, "NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

// cellReader converts raw cell strings of one sheet into typed values.
type cellReader struct {
	f          *excelize.File
	sheet      string
	date1904   bool
	dateStyles map[int]bool
}

func newCellReader(f *excelize.File, sheet string) *cellReader {
	cr := &cellReader{
		f:          f,
		sheet:      sheet,
		dateStyles: make(map[int]bool),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		cr.date1904 = *props.Date1904
	}
	return cr
}

// value returns the typed value of the cell at 1-based coordinates.
// Empty cells and missing-value markers yield nil.
func (cr *cellReader) value(col, row int, raw string) (models.Value, error) {
	if raw == "" {
		return nil, nil
	}

	cellRef, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	cellType, err := cr.f.GetCellType(cr.sheet, cellRef)
	if err != nil {
		return nil, err
	}

	switch cellType {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true"), nil
	case excelize.CellTypeError:
		return nil, nil
	case excelize.CellTypeDate:
		if t, ok := parseISODate(raw); ok {
			return t, nil
		}
		return raw, nil
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if naValues[raw] {
			return nil, nil
		}
		v := parseValue(raw)
		if _, isString := v.(string); isString {
			return stringValue(raw), nil
		}
		isDate, err := cr.isDateCell(cellRef)
		if err != nil {
			return nil, err
		}
		if isDate {
			serial, _ := strconv.ParseFloat(raw, 64)
			if t, err := excelize.ExcelDateToTime(serial, cr.date1904); err == nil {
				return t, nil
			}
		}
		return v, nil
	default:
		return stringValue(raw), nil
	}
}

// isDateCell reports whether the cell's number format displays a date or time.
func (cr *cellReader) isDateCell(cellRef string) (bool, error) {
	styleID, err := cr.f.GetCellStyle(cr.sheet, cellRef)
	if err != nil {
		return false, err
	}
	if cached, ok := cr.dateStyles[styleID]; ok {
		return cached, nil
	}
	style, err := cr.f.GetStyle(styleID)
	if err != nil {
		return false, err
	}
	isDate := isDateFormat(style.NumFmt)
	if !isDate && style.CustomNumFmt != nil {
		isDate = isDateFormatCode(*style.CustomNumFmt)
	}
	cr.dateStyles[styleID] = isDate
	return isDate, nil
}

// isDateFormat reports whether a built-in number format id is a date or time format.
func isDateFormat(fmtID int) bool {
	switch fmtID {
	case 14, 15, 16, 17, 18, 19, 20, 21, 22, 27, 30, 36, 45, 46, 47, 50, 57:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom number format code renders a date or time.
// Quoted literals, bracketed sections and escaped characters are ignored.
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket, escaped := false, false, false
	for _, r := range code {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	s := strings.ToLower(b.String())
	if strings.ContainsAny(s, "0#?") && !strings.Contains(s, ":") {
		return false
	}
	return strings.ContainsAny(s, "ydh") || strings.Contains(s, "mm:") || strings.Contains(s, ":ss")
}

// parseISODate parses the ISO 8601 text stored in date-typed cells.
func parseISODate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// stringValue returns nil for missing-value markers and the string otherwise.
func stringValue(s string) models.Value {
	if naValues[s] {
		return nil
	}
	return s
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) interface{} {
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	// Return as string
	return s
}

// headerString renders a typed header value as a column name.
func headerString(v models.Value) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case bool:
		if t {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}
