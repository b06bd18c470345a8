package inspect

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/models"
	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/output"
)

// SummaryFile is the aggregate document written by Run.
const SummaryFile = "summary.json"

const (
	infoSuffix  = "_info.json"
	errorSuffix = "_error.json"
)

// Run inspects every workbook in paths, writing <stem>_info.json for each
// readable workbook and <stem>_error.json for each unreadable one, then
// aggregates the output directory into summary.json.
// Only failures writing the documents return an error.
func Run(paths []string, opts Options) (*models.InspectionSummary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	outDir := opts.OutDir
	if outDir == "" {
		outDir = DefaultOutDir(time.Now())
	}
	sampleRows := opts.SampleRows
	if sampleRows <= 0 {
		sampleRows = DefaultSampleRows
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, output.NewExportError(outDir, "json", err)
	}

	logger.Printf("[Inspect] found %d workbook(s)", len(paths))
	for _, path := range paths {
		name := filepath.Base(path)
		stem := strings.TrimSuffix(name, filepath.Ext(name))

		info, err := Workbook(path, sampleRows)
		if err != nil {
			logger.Printf("[Inspect] error processing file %s: %v", name, err)
			doc := models.WorkbookError{Filename: name, Error: fmt.Sprintf("failed to process file: %v", err)}
			if err := output.WriteJSONFile(filepath.Join(outDir, stem+errorSuffix), doc); err != nil {
				return nil, err
			}
			continue
		}

		for _, sheet := range info.Sheets {
			if sheet.Error != "" {
				logger.Printf("[Inspect] error processing sheet %q in %s: %s", sheet.Name, name, sheet.Error)
			}
		}
		if err := output.WriteJSONFile(filepath.Join(outDir, stem+infoSuffix), info); err != nil {
			return nil, err
		}
		logger.Printf("[Inspect] saved %s%s", stem, infoSuffix)
	}

	summary, err := Summarize(outDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteJSONFile(filepath.Join(outDir, SummaryFile), summary); err != nil {
		return nil, err
	}
	logger.Printf("[Inspect] summary saved to %s", filepath.Join(outDir, SummaryFile))
	return summary, nil
}

// Summarize aggregates every *_info.json document in dir.
// Documents that cannot be read or are not valid JSON are skipped.
func Summarize(dir string) (*models.InspectionSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), infoSuffix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	summary := &models.InspectionSummary{Files: []models.InspectedFile{}}
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil || !gjson.ValidBytes(data) {
			continue
		}
		doc := gjson.ParseBytes(data)
		sheets := int(doc.Get("total_sheets").Int())
		summary.Files = append(summary.Files, models.InspectedFile{
			Filename: doc.Get("filename").String(),
			Sheets:   sheets,
			JSONFile: name,
		})
		summary.TotalFiles++
		summary.TotalSheets += sheets
	}
	return summary, nil
}
