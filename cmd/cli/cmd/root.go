// Package cmd provides the CLI commands for price-tiers.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"price-tiers/internal/config"
	"price-tiers/internal/logging"
)

// Version is set at build time with -ldflags "-X price-tiers/cmd/cli/cmd.Version=..."
var Version = "0.1.0"

var (
	cfgFile string
	verbose bool
	noColor bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "price-tiers",
	Short: "Summarize order profitability by unit-price tier",
	Long: `price-tiers buckets order records into unit-price tiers and reports
per-tier volume, revenue, profit, margin and share of the total.

Results are reproducible: the same records in any order give the same
table and the same input digest.

Examples:
  price-tiers analyze orders.csv
  price-tiers analyze --format json --sort revenue orders.xlsx
  price-tiers analyze --tiers tiers.hcl --charts ./charts orders.csv
  price-tiers tiers --tiers tiers.hcl`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file, JSON or YAML (default is $HOME/.price-tiers.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Add subcommands
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(tiersCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if noColor {
		cfg.Output.NoColor = true
	}
	config.Set(cfg)

	// Initialize logging
	logCfg := cfg.Logging
	if verbose {
		logCfg.Level = "debug"
	}
	if err := logging.Initialize(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "price-tiers version %s\n", Version)
	},
}
