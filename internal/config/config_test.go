package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdirForTest(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "master_file.xlsx", cfg.Merge.OutputPath)
	assert.Equal(t, []string{".xlsx", ".xls", ".xlsm", ".xlsb"}, cfg.Merge.Extensions)
	assert.Equal(t, 3, cfg.Inspect.SampleRows)
}

func TestLoadYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte(`
merge:
  input_dir: /data/fleet
  only: [a.xlsx, b.xlsx]
  output_path: out/master.xlsx
inspect:
  sample_rows: 5
server:
  addr: ":9000"
`), 0644))
	t.Setenv("SHEETMERGE_SQLITE", "out/master.sqlite")
	t.Setenv("SHEETMERGE_ADDR", "127.0.0.1:9100")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/data/fleet", cfg.Merge.InputDir)
	assert.Equal(t, []string{"a.xlsx", "b.xlsx"}, cfg.Merge.Only)
	assert.Equal(t, "out/master.xlsx", cfg.Merge.OutputPath)
	assert.Equal(t, "out/master.sqlite", cfg.Merge.SQLitePath)
	assert.Equal(t, 5, cfg.Inspect.SampleRows)
	assert.Equal(t, "127.0.0.1:9100", cfg.Server.Addr)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SHEETMERGE_ONLY=x.xlsx, y.xlsx\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("SHEETMERGE_ONLY") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"x.xlsx", "y.xlsx"}, cfg.Merge.Only)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("merge: [unterminated"), 0644))
	_, err = Load(bad)
	assert.Error(t, err)

	t.Setenv("SHEETMERGE_SAMPLE_ROWS", "many")
	_, err = Load("")
	assert.ErrorContains(t, err, "SAMPLE_ROWS")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Merge.OutputPath = ""
	cfg.Inspect.SampleRows = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output_path")
	assert.Contains(t, err.Error(), "sample_rows")
}
