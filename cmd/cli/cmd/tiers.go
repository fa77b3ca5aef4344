// Package cmd - tiers command
package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"price-tiers/core/tier"
	"price-tiers/core/ui"
	"price-tiers/internal/config"
)

var tiersListFile string

// tiersCmd prints the active tier table
var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "Show the price tier table",
	Long: `Print the tier table that analyze would use: the built-in eight tiers,
or the table from --tiers (or tiers.file in the config).

A custom table is an HCL file:

  name = "coarse"

  tier "< $50"   { high = 50 }
  tier "$50–100" { high = 100 }
  tier "$100+"   {}

low defaults to the previous tier's high; omitting high makes the tier
open-ended, which only the last tier may be.`,
	Args: cobra.NoArgs,
	RunE: runTiers,
}

func init() {
	tiersCmd.Flags().StringVar(&tiersListFile, "tiers", "", "HCL file defining a custom tier table")
}

func runTiers(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	table, err := loadTierTable(firstNonEmpty(tiersListFile, cfg.Tiers.File))
	if err != nil {
		return err
	}
	if table == nil {
		table = tier.Default()
	}

	w := ui.NewWriter(cmd.OutOrStdout(), cfg.Output.NoColor)
	w.Header("Tier table: " + table.Name())

	t := w.NewTable("#", "Tier", "Prices").AlignRight(0)
	for i, iv := range table.Intervals() {
		t.AddRow(strconv.Itoa(i), iv.Label, iv.String())
	}
	t.Render()
	return nil
}
