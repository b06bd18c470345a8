package sheetmerge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var fixedNow = time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)

func writeWorkbook(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func testOptions(dir string) Options {
	return Options{
		OutputPath: filepath.Join(dir, "out", "master_file.xlsx"),
		Logger:     DiscardLogger(),
		Now:        func() time.Time { return fixedNow },
	}
}

func fleetInputs(t *testing.T, dir string) []string {
	a := filepath.Join(dir, "a.xlsx")
	b := filepath.Join(dir, "b.xlsx")
	writeWorkbook(t, a, [][]interface{}{
		{"Truck#", "GPS Location", "Status"},
		{"T1", "A", "OK"},
	})
	writeWorkbook(t, b, [][]interface{}{
		{"vehicle", "position", "condition"},
		{"T1", "A", "OK"},
		{"T2", "B", "LATE"},
	})
	return []string{a, b}
}

func TestMergeWritesWorkbook(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir)
	var milestones []int
	opts.Progress = func(percent int, _ string) { milestones = append(milestones, percent) }

	result, err := Merge(context.Background(), fleetInputs(t, dir), opts)
	require.NoError(t, err)

	assert.Equal(t, OutcomeMerged, result.Outcome)
	assert.Equal(t, []int{10, 20, 40, 80, 100}, milestones)
	assert.Equal(t, []string{"truck", "location", "status"}, result.Mapping.Keys())
	assert.Equal(t, 2, result.Summary.FilesProcessed)
	assert.Equal(t, 3, result.Summary.RowsBeforeMerge)
	assert.Equal(t, 2, result.Summary.RowsAfterMerge)
	assert.Equal(t, 1, result.Summary.DuplicatesRemoved)
	assert.Equal(t, 6, result.Summary.UniqueColumns)
	assert.Equal(t, fixedNow, result.Summary.MergedAt)
	assert.Equal(t, opts.OutputPath, result.OutputPath)

	f, err := excelize.OpenFile(result.OutputPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Master_Data")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"T1", "A", "OK", "a.xlsx", "Sheet1"}, rows[1][:5])
	assert.Equal(t, []string{"T2", "B", "LATE", "b.xlsx", "Sheet1"}, rows[2][:5])
}

func TestMergeWritesSQLite(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir)
	opts.SQLitePath = filepath.Join(dir, "out", "merged.sqlite")

	result, err := Merge(context.Background(), fleetInputs(t, dir), opts)
	require.NoError(t, err)
	assert.Equal(t, opts.SQLitePath, result.SQLitePath)
	assert.FileExists(t, opts.SQLitePath)
}

func TestMergeSkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "broken.xlsx")
	require.NoError(t, os.WriteFile(bad, []byte("not a workbook"), 0644))
	paths := append([]string{bad}, fleetInputs(t, dir)...)

	result, err := Merge(context.Background(), paths, testOptions(dir))
	require.NoError(t, err)

	assert.Equal(t, OutcomeMerged, result.Outcome)
	require.Len(t, result.Summary.Failures, 1)
	assert.Equal(t, bad, result.Summary.Failures[0].File)
	assert.Equal(t, 2, result.Summary.FilesProcessed)
}

func TestMergeNothingToMerge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "header_only.xlsx")
	writeWorkbook(t, path, [][]interface{}{{"Truck", "Status"}})
	opts := testOptions(dir)

	result, err := Merge(context.Background(), []string{path}, opts)
	require.NoError(t, err)

	assert.Equal(t, OutcomeNothingToMerge, result.Outcome)
	assert.True(t, result.Table.Empty())
	assert.Empty(t, result.OutputPath)
	assert.NoFileExists(t, opts.OutputPath)
}

func TestMergeNoInputs(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir)
	var milestones []int
	opts.Progress = func(percent int, _ string) { milestones = append(milestones, percent) }

	result, err := Merge(context.Background(), nil, opts)
	require.NoError(t, err)

	assert.Equal(t, OutcomeNothingToMerge, result.Outcome)
	assert.True(t, result.Table.Empty())
	assert.Zero(t, result.Summary.FilesProcessed)
	assert.Zero(t, result.Mapping.Len())
	assert.Equal(t, 100, milestones[len(milestones)-1])
	assert.NoFileExists(t, opts.OutputPath)
}

func TestMergeExportFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	opts := testOptions(dir)
	opts.OutputPath = filepath.Join(blocker, "master_file.xlsx")

	_, err := Merge(context.Background(), fleetInputs(t, dir), opts)
	require.Error(t, err)

	var exportErr *ExportError
	require.True(t, errors.As(err, &exportErr))
	assert.Equal(t, opts.OutputPath, exportErr.Path)
}

func TestMergeCanceled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Merge(ctx, fleetInputs(t, dir), testOptions(dir))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.xls", "a.XLSX", "c.txt", "d.xlsb", "e.xlsm"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.xlsx"), 0755))

	paths, err := Discover(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.XLSX"),
		filepath.Join(dir, "b.xls"),
		filepath.Join(dir, "d.xlsb"),
		filepath.Join(dir, "e.xlsm"),
	}, paths)

	paths, err = Discover(dir, []string{"xlsm"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "e.xlsm")}, paths)
}

func TestDiscoverEmptyDirectory(t *testing.T) {
	paths, err := Discover(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Empty(t, paths)

	_, err = Discover(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}

func TestRestrict(t *testing.T) {
	paths := []string{"/in/a.xlsx", "/in/b.xlsx", "/in/c.xlsx"}

	got := Restrict(paths, []string{"c.xlsx", "a.xlsx", "gone.xlsx"}, DiscardLogger())
	assert.Equal(t, []string{"/in/a.xlsx", "/in/c.xlsx"}, got)
}

func TestMergeDir(t *testing.T) {
	dir := t.TempDir()
	fleetInputs(t, dir)
	opts := testOptions(t.TempDir())

	result, err := MergeDir(context.Background(), dir, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Summary.FilesProcessed)

	result, err = MergeDir(context.Background(), t.TempDir(), opts)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNothingToMerge, result.Outcome)
	assert.Empty(t, result.OutputPath)

	_, err = MergeDir(context.Background(), filepath.Join(t.TempDir(), "missing"), opts)
	assert.Error(t, err)
}

func TestMergeRestrictedToNothing(t *testing.T) {
	dir := t.TempDir()
	paths := Restrict(fleetInputs(t, dir), []string{"other.xlsx"}, DiscardLogger())

	result, err := Merge(context.Background(), paths, testOptions(dir))
	require.NoError(t, err)
	assert.Equal(t, OutcomeNothingToMerge, result.Outcome)
}

func TestMergeSQLiteFailureKeepsWorkbook(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	opts := testOptions(dir)
	opts.SQLitePath = filepath.Join(blocker, "merged.sqlite")

	result, err := Merge(context.Background(), fleetInputs(t, dir), opts)
	require.Error(t, err)

	var exportErr *ExportError
	require.True(t, errors.As(err, &exportErr))
	assert.Equal(t, "sqlite", exportErr.Sink)

	require.NotNil(t, result)
	assert.Equal(t, opts.OutputPath, result.OutputPath)
	assert.Empty(t, result.SQLitePath)
	assert.FileExists(t, result.OutputPath)
}
