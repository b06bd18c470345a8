// Package main provides the CLI entry point for sheetmerge-go.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetmerge-go/internal/config"
	"github.com/ukaji3/sheetmerge-go/internal/jobs"
	"github.com/ukaji3/sheetmerge-go/internal/server"
	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge"
	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/inspect"
	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/output"
)

var (
	configPath string
	inputDir   string
	only       []string
	pretty     bool
	outputPath string
	sqlitePath string
	outDir     string
	sampleRows int
	addr       string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sheetmerge",
		Short: "Standardize and merge spreadsheet workbooks",
		Long: `sheetmerge-go standardizes column names across Excel workbooks, merges
every sheet into one de-duplicated master workbook and writes JSON
inspection documents.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: sheetmerge.yaml if present)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	mergeCmd := &cobra.Command{
		Use:   "merge [input.xlsx ...]",
		Short: "Merge workbooks into one master workbook",
		RunE:  runMerge,
	}
	mergeCmd.Flags().StringVarP(&inputDir, "dir", "d", "", "Directory scanned for workbooks when no files are given")
	mergeCmd.Flags().StringSliceVar(&only, "only", nil, "Process only these file names")
	mergeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Merged workbook path (default: master_file.xlsx)")
	mergeCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "Also write the result to this SQLite database")

	inspectCmd := &cobra.Command{
		Use:   "inspect [input.xlsx ...]",
		Short: "Write JSON documents describing workbook sheets",
		RunE:  runInspect,
	}
	inspectCmd.Flags().StringVarP(&inputDir, "dir", "d", "", "Directory scanned for workbooks when no files are given")
	inspectCmd.Flags().StringSliceVar(&only, "only", nil, "Process only these file names")
	inspectCmd.Flags().StringVar(&outDir, "out-dir", "", "Output directory (default: excel_json_output_<timestamp>)")
	inspectCmd.Flags().IntVar(&sampleRows, "sample", 0, "Sample rows per sheet")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the merge API over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: :8080)")

	rootCmd.AddCommand(mergeCmd, inspectCmd, serveCmd)
	return rootCmd
}

// loadConfig reads the config layers and applies explicitly set flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Merge.InputDir = inputDir
	}
	if flags.Changed("only") {
		cfg.Merge.Only = only
	}
	if flags.Changed("output") {
		cfg.Merge.OutputPath = outputPath
	}
	if flags.Changed("sqlite") {
		cfg.Merge.SQLitePath = sqlitePath
	}
	if flags.Changed("out-dir") {
		cfg.Inspect.OutDir = outDir
	}
	if flags.Changed("sample") {
		cfg.Inspect.SampleRows = sampleRows
	}
	if flags.Changed("addr") {
		cfg.Server.Addr = addr
	}
	return cfg, cfg.Validate()
}

// inputs returns the explicit file arguments or the workbooks discovered
// in the configured directory, restricted to the --only names.
func inputs(cfg config.Config, args []string, logger *log.Logger) ([]string, error) {
	paths := args
	if len(paths) == 0 {
		var err error
		paths, err = sheetmerge.Discover(cfg.Merge.InputDir, cfg.Merge.Extensions)
		if err != nil {
			return nil, err
		}
	}
	if len(cfg.Merge.Only) > 0 {
		paths = sheetmerge.Restrict(paths, cfg.Merge.Only, logger)
	}
	return paths, nil
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := log.New(os.Stderr, "", log.LstdFlags)

	paths, err := inputs(cfg, args, logger)
	if err != nil {
		return err
	}

	opts := sheetmerge.DefaultOptions()
	opts.OutputPath = cfg.Merge.OutputPath
	opts.SQLitePath = cfg.Merge.SQLitePath
	opts.Logger = logger

	result, err := sheetmerge.Merge(cmd.Context(), paths, opts)
	if err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}
	return printJSON(cmd, result)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := log.New(os.Stderr, "", log.LstdFlags)

	paths, err := inputs(cfg, args, logger)
	if err != nil {
		return err
	}

	summary, err := inspect.Run(paths, inspect.Options{
		OutDir:     cfg.Inspect.OutDir,
		SampleRows: cfg.Inspect.SampleRows,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}
	return printJSON(cmd, summary)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := log.New(os.Stderr, "", log.LstdFlags)

	opts := sheetmerge.DefaultOptions()
	opts.OutputPath = cfg.Merge.OutputPath
	opts.SQLitePath = cfg.Merge.SQLitePath
	runner := jobs.NewRunner(opts, cfg.Merge.Extensions, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(runner, logger).ListenAndServe(ctx, cfg.Server.Addr)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := output.ToJSON(v, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
