package inspect

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/models"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, path string, sheets map[string][][]interface{}, order []string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, sheet := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", sheet))
		} else {
			_, err := f.NewSheet(sheet)
			require.NoError(t, err)
		}
		for r, row := range sheets[sheet] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheet, cell, &row))
		}
	}
	require.NoError(t, f.SaveAs(path))
}

func fleetWorkbook(t *testing.T, dir string) string {
	path := filepath.Join(dir, "fleet.xlsx")
	writeWorkbook(t, path, map[string][][]interface{}{
		"Trucks": {
			{"Truck", "Miles", "Speed", "Note"},
			{"T1", 100, 55.5, "ok"},
			{"T2", 300, 60.5, nil},
			{"T3", 200, nil, "late"},
			{"T4", 400, 70, "ok"},
		},
		"Blank": {},
	}, []string{"Trucks", "Blank"})
	return path
}

func TestWorkbook(t *testing.T) {
	path := fleetWorkbook(t, t.TempDir())

	info, err := Workbook(path, 2)
	require.NoError(t, err)

	assert.Equal(t, "fleet.xlsx", info.Filename)
	assert.Equal(t, 2, info.TotalSheets)
	assert.Positive(t, info.FileSize)
	require.Len(t, info.Sheets, 2)

	trucks := info.Sheets[0]
	assert.Equal(t, "Trucks", trucks.Name)
	assert.Equal(t, 4, trucks.TotalRows)
	assert.Equal(t, 4, trucks.TotalColumns)
	assert.Equal(t, []string{"A1:D5"}, trucks.TableCandidates)
	require.Len(t, trucks.Columns, 4)

	assert.Equal(t, models.ColumnInfo{Name: "Truck", Dtype: DtypeObject, NonNullCount: 4}, trucks.Columns[0])

	miles := trucks.Columns[1]
	assert.Equal(t, DtypeInt, miles.Dtype)
	require.NotNil(t, miles.Numeric)
	assert.Equal(t, models.NumericSummary{Min: 100, Max: 400, Mean: 250, Median: 250}, *miles.Numeric)

	speed := trucks.Columns[2]
	assert.Equal(t, DtypeFloat, speed.Dtype)
	assert.Equal(t, 3, speed.NonNullCount)

	require.Len(t, trucks.SampleData, 2)
	assert.Equal(t, "T1", trucks.SampleData[0]["Truck"])
	assert.Nil(t, trucks.SampleData[1]["Note"])

	blank := info.Sheets[1]
	assert.Equal(t, "Blank", blank.Name)
	assert.Zero(t, blank.TotalRows)
	assert.Empty(t, blank.Columns)
	assert.Empty(t, blank.SampleData)
}

func TestWorkbookMissingFile(t *testing.T) {
	_, err := Workbook(filepath.Join(t.TempDir(), "missing.xlsx"), 3)
	assert.Error(t, err)
}

func TestSampleFormatsTimes(t *testing.T) {
	when := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	table := models.RawTable{
		Columns: []string{"date"},
		Rows:    []models.Record{{"date": when}, {"date": nil}},
	}

	rows := sample(table, 5)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-05-01T08:00:00Z", rows[0]["date"])
	assert.Nil(t, rows[1]["date"])
}

func TestDtype(t *testing.T) {
	when := time.Now()
	tests := []struct {
		name   string
		values []models.Value
		want   string
	}{
		{"ints", []models.Value{int64(1), int64(2)}, DtypeInt},
		{"ints with gap", []models.Value{int64(1), nil}, DtypeFloat},
		{"mixed numbers", []models.Value{int64(1), 2.5}, DtypeFloat},
		{"all empty", []models.Value{nil, nil}, DtypeFloat},
		{"bools", []models.Value{true, false}, DtypeBool},
		{"bools with gap", []models.Value{true, nil}, DtypeObject},
		{"dates", []models.Value{when, nil}, DtypeDatetime},
		{"strings", []models.Value{"a", int64(1)}, DtypeObject},
		{"dates and numbers", []models.Value{when, int64(1)}, DtypeObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dtype(tt.values); got != tt.want {
				t.Errorf("Dtype() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRun(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "json")
	good := fleetWorkbook(t, in)
	bad := filepath.Join(in, "broken.xlsx")
	require.NoError(t, os.WriteFile(bad, []byte("not a workbook"), 0644))

	opts := DefaultOptions()
	opts.OutDir = out
	opts.Logger = log.New(io.Discard, "", 0)

	summary, err := Run([]string{good, bad}, opts)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TotalFiles)
	assert.Equal(t, 2, summary.TotalSheets)
	assert.Equal(t, []models.InspectedFile{{Filename: "fleet.xlsx", Sheets: 2, JSONFile: "fleet_info.json"}}, summary.Files)

	assert.FileExists(t, filepath.Join(out, "fleet_info.json"))
	assert.FileExists(t, filepath.Join(out, SummaryFile))

	data, err := os.ReadFile(filepath.Join(out, "broken_error.json"))
	require.NoError(t, err)
	var doc models.WorkbookError
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "broken.xlsx", doc.Filename)
	assert.Contains(t, doc.Error, "failed to process file")

	data, err = os.ReadFile(filepath.Join(out, "fleet_info.json"))
	require.NoError(t, err)
	var info models.WorkbookInfo
	require.NoError(t, json.Unmarshal(data, &info))
	assert.Len(t, info.Sheets[0].SampleData, DefaultSampleRows)
}

func TestSummarizeSkipsInvalidDocuments(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_info.json"), []byte(`{"filename":"a.xlsx","total_sheets":3}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_info.json"), []byte(`{not json`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c_error.json"), []byte(`{"filename":"c.xlsx"}`), 0644))

	summary, err := Summarize(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalFiles)
	assert.Equal(t, 3, summary.TotalSheets)
	assert.Equal(t, "a.xlsx", summary.Files[0].Filename)
}

func TestDefaultOutDir(t *testing.T) {
	now := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	assert.Equal(t, "excel_json_output_20260203_040506", DefaultOutDir(now))
}
