// Package engine builds the column mapping for a set of loaded tables and
// merges them into one de-duplicated table.
package engine

import (
	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/models"
	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/normalize"
)

// BuildMapping picks one original column name per canonical key across all tables.
//
// Keys appear in the order they are first seen, scanning tables in load order
// and columns in sheet order. Each key maps to its most frequent original
// spelling; on a tie the spelling whose count reaches the maximum first wins.
func BuildMapping(tables []models.RawTable) models.ColumnMapping {
	var keys []string
	occurrences := make(map[string][]string)

	for _, table := range tables {
		for _, col := range table.Columns {
			key := normalize.Normalize(col)
			if key == "" {
				continue
			}
			if _, ok := occurrences[key]; !ok {
				keys = append(keys, key)
			}
			occurrences[key] = append(occurrences[key], col)
		}
	}

	entries := make([]models.MappingEntry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, models.MappingEntry{
			Key:      key,
			Original: mostFrequent(occurrences[key]),
		})
	}
	return models.NewColumnMapping(entries)
}

// mostFrequent returns the name with the highest count.
// Ties go to the name that reaches the maximum count first in scan order.
func mostFrequent(names []string) string {
	counts := make(map[string]int, len(names))
	max := 0
	for _, n := range names {
		counts[n]++
		if counts[n] > max {
			max = counts[n]
		}
	}

	running := make(map[string]int, len(counts))
	for _, n := range names {
		running[n]++
		if running[n] == max {
			return n
		}
	}
	return ""
}
