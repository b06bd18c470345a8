package sheetmerge

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions are the workbook file extensions picked up by Discover.
var DefaultExtensions = []string{".xlsx", ".xls", ".xlsm", ".xlsb"}

// Discover lists the workbook files directly inside dir, sorted by name.
// Extensions are matched case-insensitively; nil exts means DefaultExtensions.
// A directory without workbooks yields an empty list; only an unreadable
// directory is an error.
func Discover(dir string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	allowed := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		allowed[e] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if allowed[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Restrict keeps the paths whose base name is listed in names, in path
// order. Listed names with no matching path are logged.
func Restrict(paths, names []string, logger *log.Logger) []string {
	if logger == nil {
		logger = log.Default()
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var kept []string
	found := make(map[string]bool, len(names))
	for _, p := range paths {
		base := filepath.Base(p)
		if wanted[base] {
			kept = append(kept, p)
			found[base] = true
		}
	}
	for _, n := range names {
		if !found[n] {
			logger.Printf("[Merge] file not found: %s", n)
		}
	}
	return kept
}
