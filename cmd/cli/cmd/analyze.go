// Package cmd - analyze command
package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"price-tiers/adapters/charts"
	"price-tiers/adapters/report"
	"price-tiers/core/engine"
	"price-tiers/core/output"
	"price-tiers/core/tier"
	"price-tiers/core/types"
	"price-tiers/core/ui"
	"price-tiers/internal/config"
	"price-tiers/internal/errors"
	"price-tiers/internal/logging"
)

var (
	outputFormat string
	outputFile   string
	tiersFile    string
	sortOrder    string
	chartDir     string
	sheetName    string
	workers      int
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Summarize an order dataset by price tier",
	Long: `Load order records from a CSV or XLSX file, bucket them by unit price
and report per-tier totals, margins and shares.

The file must provide the columns order_id, unit_price, quantity, revenue
and profit. Header names are matched case-insensitively; other columns are
ignored.

Examples:
  price-tiers analyze orders.csv
  price-tiers analyze --format markdown --output report.md orders.csv
  price-tiers analyze --format xlsx --output segments.xlsx --sheet Orders orders.xlsx
  price-tiers analyze --sort tier --charts ./charts orders.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json, csv, markdown, xlsx)")
	analyzeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the report to a file instead of stdout")
	analyzeCmd.Flags().StringVar(&tiersFile, "tiers", "", "HCL file defining a custom tier table")
	analyzeCmd.Flags().StringVar(&sortOrder, "sort", "", "row order (profit, revenue, tier)")
	analyzeCmd.Flags().StringVar(&chartDir, "charts", "", "directory to write PNG charts to")
	analyzeCmd.Flags().StringVar(&sheetName, "sheet", "", "sheet to read from an XLSX input (default first sheet)")
	analyzeCmd.Flags().IntVar(&workers, "workers", 0, "goroutines used to bin large inputs (default from config)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := config.Get()
	path := args[0]

	// Flags override the config file
	format := output.Format(firstNonEmpty(outputFormat, cfg.Output.DefaultFormat))
	order := types.SortOrder(firstNonEmpty(sortOrder, cfg.Output.Sort))
	binWorkers := cfg.Analysis.Workers
	if workers > 0 {
		binWorkers = workers
	}
	chartsDir := firstNonEmpty(chartDir, cfg.Chart.Directory)

	formatters := report.NewRegistry(report.Options{
		NoColor: cfg.Output.NoColor,
		Sheet:   cfg.Output.XLSXSheet,
	})
	formatter, err := formatters.MustGet(format)
	if err != nil {
		return err
	}
	if format == output.FormatXLSX && outputFile == "" {
		return errors.Input("xlsx output is binary, use --output to name the workbook")
	}

	table, err := loadTierTable(firstNonEmpty(tiersFile, cfg.Tiers.File))
	if err != nil {
		return err
	}

	eng, err := engine.NewEngine(table, engine.EngineConfig{
		Workers:           binWorkers,
		ParallelThreshold: cfg.Analysis.ParallelThreshold,
		Order:             order,
		Sheet:             sheetName,
		Version:           Version,
	})
	if err != nil {
		return err
	}

	result, err := eng.Analyze(ctx, path)
	if err != nil {
		return err
	}

	status := ui.NewWriter(cmd.ErrOrStderr(), cfg.Output.NoColor)
	if result.Table.IsEmpty() {
		status.Warning("No records found in %s, nothing to aggregate", path)
	}

	if err := writeReport(cmd.OutOrStdout(), formatter, result); err != nil {
		return err
	}
	if outputFile != "" {
		status.Success("Report written to %s", outputFile)
	}

	if chartsDir != "" && !result.Table.IsEmpty() {
		renderer := charts.New(cfg.Chart.Width, cfg.Chart.Height)
		written, err := renderer.WriteAll(chartsDir, result.Table)
		if err != nil {
			return err
		}
		for _, p := range written {
			status.Success("Chart written to %s", p)
		}
	}

	return nil
}

// writeReport renders to --output when set, else to stdout
func writeReport(stdout io.Writer, formatter output.Formatter, result *output.Report) error {
	if outputFile == "" {
		return formatter.Render(stdout, result)
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return errors.Wrapf(errors.TypeRender, err, "failed to create %s", outputFile)
	}
	if err := formatter.Render(f, result); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(errors.TypeRender, err, "failed to write %s", outputFile)
	}
	return nil
}

// loadTierTable reads a custom table, or returns nil for the built-in one
func loadTierTable(path string) (*tier.Table, error) {
	if path == "" {
		return nil, nil
	}
	table, err := tier.LoadHCL(path)
	if err != nil {
		return nil, err
	}
	logging.Info("Using custom tier table",
		zap.String("path", path),
		zap.String("name", table.Name()),
		zap.Int("tiers", table.Len()),
	)
	return table, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
