// Package config loads sheetmerge settings from defaults, a .env file,
// an optional YAML file and SHEETMERGE_* environment variables, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge"
	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/inspect"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the YAML file read when no path is given.
const DefaultFile = "sheetmerge.yaml"

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SHEETMERGE_"

// Config holds all runtime settings.
type Config struct {
	Merge   MergeConfig   `yaml:"merge"`
	Inspect InspectConfig `yaml:"inspect"`
	Server  ServerConfig  `yaml:"server"`
}

// MergeConfig configures merge runs.
type MergeConfig struct {
	InputDir   string   `yaml:"input_dir"`
	Only       []string `yaml:"only"`
	Extensions []string `yaml:"extensions"`
	OutputPath string   `yaml:"output_path"`
	SQLitePath string   `yaml:"sqlite_path"`
}

// InspectConfig configures inspection runs.
type InspectConfig struct {
	OutDir     string `yaml:"out_dir"`
	SampleRows int    `yaml:"sample_rows"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Merge: MergeConfig{
			InputDir:   ".",
			Extensions: append([]string(nil), sheetmerge.DefaultExtensions...),
			OutputPath: sheetmerge.DefaultOutputPath,
		},
		Inspect: InspectConfig{
			SampleRows: inspect.DefaultSampleRows,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load builds the configuration. An empty path reads DefaultFile when it
// exists; an explicit path that cannot be read is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v, ok := lookup("INPUT_DIR"); ok {
		c.Merge.InputDir = v
	}
	if v, ok := lookup("ONLY"); ok {
		c.Merge.Only = splitList(v)
	}
	if v, ok := lookup("EXTENSIONS"); ok {
		c.Merge.Extensions = splitList(v)
	}
	if v, ok := lookup("OUTPUT"); ok {
		c.Merge.OutputPath = v
	}
	if v, ok := lookup("SQLITE"); ok {
		c.Merge.SQLitePath = v
	}
	if v, ok := lookup("INSPECT_OUT_DIR"); ok {
		c.Inspect.OutDir = v
	}
	if v, ok := lookup("SAMPLE_ROWS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sSAMPLE_ROWS: %w", EnvPrefix, err)
		}
		c.Inspect.SampleRows = n
	}
	if v, ok := lookup("ADDR"); ok {
		c.Server.Addr = v
	}
	return nil
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	var errs []error
	if c.Merge.OutputPath == "" {
		errs = append(errs, errors.New("merge.output_path must not be empty"))
	}
	if len(c.Merge.Extensions) == 0 {
		errs = append(errs, errors.New("merge.extensions must not be empty"))
	}
	if c.Inspect.SampleRows < 1 {
		errs = append(errs, fmt.Errorf("inspect.sample_rows must be positive, got %d", c.Inspect.SampleRows))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	return errors.Join(errs...)
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
