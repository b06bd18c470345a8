package inspect

import (
	"time"

	"github.com/montanaflynn/stats"
	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/models"
)

// Column dtype names, as written into inspection documents.
const (
	DtypeInt      = "int64"
	DtypeFloat    = "float64"
	DtypeBool     = "bool"
	DtypeDatetime = "datetime64[ns]"
	DtypeObject   = "object"
)

func describeColumn(name string, values []models.Value) models.ColumnInfo {
	info := models.ColumnInfo{Name: name, Dtype: Dtype(values)}
	for _, v := range values {
		if v != nil {
			info.NonNullCount++
		}
	}
	if info.Dtype == DtypeInt || info.Dtype == DtypeFloat {
		info.Numeric = numericSummary(values)
	}
	return info
}

// Dtype infers the column type from its values.
// Integers mixed with missing values widen to float64, and a column with
// no values at all is float64.
func Dtype(values []models.Value) string {
	var ints, floats, bools, times, others, nulls int
	for _, v := range values {
		switch v.(type) {
		case nil:
			nulls++
		case int64:
			ints++
		case float64:
			floats++
		case bool:
			bools++
		case time.Time:
			times++
		default:
			others++
		}
	}

	switch {
	case others > 0:
		return DtypeObject
	case ints+floats+bools+times == 0:
		return DtypeFloat
	case bools > 0:
		if ints+floats+times == 0 && nulls == 0 {
			return DtypeBool
		}
		return DtypeObject
	case times > 0:
		if ints+floats == 0 {
			return DtypeDatetime
		}
		return DtypeObject
	case floats > 0 || nulls > 0:
		return DtypeFloat
	default:
		return DtypeInt
	}
}

func numericSummary(values []models.Value) *models.NumericSummary {
	var data stats.Float64Data
	for _, v := range values {
		switch n := v.(type) {
		case int64:
			data = append(data, float64(n))
		case float64:
			data = append(data, n)
		}
	}
	if len(data) == 0 {
		return nil
	}

	min, err := data.Min()
	if err != nil {
		return nil
	}
	max, _ := data.Max()
	mean, _ := data.Mean()
	median, _ := data.Median()
	return &models.NumericSummary{Min: min, Max: max, Mean: mean, Median: median}
}
