package output

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ToJSON serializes v to JSON, indented when pretty is set.
func ToJSON(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// WriteJSONFile writes v as indented JSON to path.
func WriteJSONFile(path string, v interface{}) error {
	data, err := ToJSON(v, true)
	if err != nil {
		return NewExportError(path, "json", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return NewExportError(path, "json", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return NewExportError(path, "json", err)
	}
	return nil
}
