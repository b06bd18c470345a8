package models

import "encoding/json"

// MappingEntry pairs a canonical key with the original column name chosen for it.
type MappingEntry struct {
	Key      string `json:"standardized_name"`
	Original string `json:"original_name"`
}

// ColumnMapping is an ordered, read-only mapping from canonical key to original column name.
type ColumnMapping struct {
	entries []MappingEntry
	index   map[string]int
}

// NewColumnMapping builds a mapping from entries in order.
// A repeated key keeps its first entry.
func NewColumnMapping(entries []MappingEntry) ColumnMapping {
	m := ColumnMapping{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		if _, ok := m.index[e.Key]; ok {
			continue
		}
		m.index[e.Key] = len(m.entries)
		m.entries = append(m.entries, e)
	}
	return m
}

// Len returns the number of canonical keys.
func (m ColumnMapping) Len() int {
	return len(m.entries)
}

// Keys returns the canonical keys in mapping order.
func (m ColumnMapping) Keys() []string {
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}
	return keys
}

// Original returns the original column name chosen for key.
func (m ColumnMapping) Original(key string) (string, bool) {
	i, ok := m.index[key]
	if !ok {
		return "", false
	}
	return m.entries[i].Original, true
}

// Entries returns a copy of the mapping entries in order.
func (m ColumnMapping) Entries() []MappingEntry {
	out := make([]MappingEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// MarshalJSON encodes the mapping as an ordered list of entries.
func (m ColumnMapping) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Entries())
}
