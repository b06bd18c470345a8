package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/models"
	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/normalize"
)

// Merge projects every table onto the mapping, concatenates the results in
// load order and drops rows whose data values repeat an earlier row.
// Provenance fields are ignored when comparing rows.
//
// With no tables or an empty mapping the returned table is empty.
func Merge(tables []models.RawTable, mapping models.ColumnMapping, mergedAt time.Time) *models.MergedTable {
	merged := &models.MergedTable{}
	if len(tables) == 0 || mapping.Len() == 0 {
		return merged
	}

	merged.Columns = append(mapping.Keys(), models.ProvenanceColumns...)

	seen := make(map[string]struct{})
	for _, table := range tables {
		for _, row := range Project(table, mapping, mergedAt) {
			merged.RowsBeforeDedup++
			key := rowKey(row.Values)
			if _, dup := seen[key]; dup {
				merged.DuplicatesRemoved++
				continue
			}
			seen[key] = struct{}{}
			merged.Rows = append(merged.Rows, row)
		}
	}

	return merged
}

// Project maps every row of table onto the mapping keys.
// A key with no matching column is nil for every row.
func Project(table models.RawTable, mapping models.ColumnMapping, mergedAt time.Time) []models.MergedRow {
	keys := mapping.Keys()

	sources := make([]string, len(keys))
	found := make([]bool, len(keys))
	for i, key := range keys {
		original, _ := mapping.Original(key)
		sources[i], found[i] = resolveColumn(table, key, original)
	}

	rows := make([]models.MergedRow, len(table.Rows))
	fileName := table.FileName()
	for r, record := range table.Rows {
		values := make([]models.Value, len(keys))
		for i := range keys {
			if found[i] {
				values[i] = record[sources[i]]
			}
		}
		rows[r] = models.MergedRow{
			Values:      values,
			SourceFile:  fileName,
			SourceSheet: table.Sheet,
			MergedAt:    mergedAt,
		}
	}
	return rows
}

// resolveColumn finds the table column feeding a canonical key: the chosen
// original name if present, else the first column normalizing to the key.
func resolveColumn(table models.RawTable, key, original string) (string, bool) {
	if table.HasColumn(original) {
		return original, true
	}
	for _, col := range table.Columns {
		if normalize.Normalize(col) == key {
			return col, true
		}
	}
	return "", false
}

// rowKey encodes data values so that equal rows produce equal keys.
// Numbers compare by value across int64 and float64; other types never
// compare equal to each other.
func rowKey(values []models.Value) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(valueKey(v))
	}
	return b.String()
}

func valueKey(v models.Value) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return "s:" + strconv.Quote(t)
	case bool:
		return "b:" + strconv.FormatBool(t)
	case int64:
		return "n:" + strconv.FormatInt(t, 10)
	case int:
		return "n:" + strconv.Itoa(t)
	case float64:
		if math.IsNaN(t) {
			return "null"
		}
		if t == math.Trunc(t) && math.Abs(t) < 1<<63 {
			return "n:" + strconv.FormatInt(int64(t), 10)
		}
		return "n:" + strconv.FormatFloat(t, 'g', -1, 64)
	case time.Time:
		return "t:" + t.UTC().Format(time.RFC3339Nano)
	default:
		return "s:" + strconv.Quote(fmt.Sprint(t))
	}
}
