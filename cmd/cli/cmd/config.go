// Package cmd - config commands
package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"price-tiers/core/ui"
	"price-tiers/internal/config"
	"price-tiers/internal/errors"
)

var (
	showYAML  bool
	forceInit bool
)

// configCmd manages configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Inspect or create the configuration file.

Settings are read from the config file and then overridden by environment
variables prefixed with PRICE_TIERS_, e.g. PRICE_TIERS_OUTPUT_FORMAT=json or
PRICE_TIERS_ANALYSIS_WORKERS=8.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// configShowCmd prints the effective configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if showYAML {
			data, err = yaml.Marshal(config.Get())
		} else {
			data, err = json.MarshalIndent(config.Get(), "", "  ")
			data = append(data, '\n')
		}
		if err != nil {
			return errors.Internal("failed to encode config", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

// configInitCmd writes a default configuration file
var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Long: `Write the default configuration to path (default $HOME/.price-tiers.json).
A .yaml or .yml extension writes YAML.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultPath()
		if len(args) > 0 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil && !forceInit {
			return errors.Newf(errors.TypeConfig, "%s already exists, use --force to overwrite", path)
		}
		if err := config.Default().Save(path); err != nil {
			return errors.Wrapf(errors.TypeConfig, err, "failed to write %s", path)
		}

		ui.NewWriter(cmd.OutOrStdout(), config.Get().Output.NoColor).Success("Wrote %s", path)
		return nil
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&showYAML, "yaml", false, "print YAML instead of JSON")
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
