// Package report renders analysis reports in every supported output format.
package report

import (
	"strconv"

	"github.com/samber/lo"

	"price-tiers/core/output"
	"price-tiers/core/types"
)

// Column headers shared by the tabular formats
var columns = []string{
	"tier",
	"orders",
	"total_units",
	"avg_unit_price",
	"total_revenue",
	"total_profit",
	"profit_per_unit",
	"margin_pct",
	"profit_share_pct",
	"revenue_share_pct",
}

// Options configures the built-in formatters
type Options struct {
	// NoColor disables ANSI colors in the CLI table
	NoColor bool

	// Sheet names the XLSX result sheet
	Sheet string
}

// NewRegistry returns a registry holding every built-in formatter
func NewRegistry(opts Options) *output.Registry {
	r := output.NewRegistry()
	for _, f := range []output.Formatter{
		&CLIFormatter{NoColor: opts.NoColor},
		&JSONFormatter{Indent: "  "},
		&CSVFormatter{},
		&MarkdownFormatter{},
		&XLSXFormatter{Sheet: opts.Sheet},
	} {
		// formats are distinct, Register cannot fail here
		_ = r.Register(f)
	}
	return r
}

// cells formats a row for text output; undefined ratios use na
func cells(row types.TierSummary, na string) []string {
	ratio := func(r types.Ratio, places int32) string {
		if !r.Defined {
			return na
		}
		return r.Value.StringFixed(places)
	}
	return []string{
		row.Tier.Label,
		strconv.Itoa(row.Orders),
		strconv.FormatInt(row.TotalUnits, 10),
		row.AvgUnitPrice.StringFixed(types.MoneyPlaces),
		row.TotalRevenue.StringFixed(types.MoneyPlaces),
		row.TotalProfit.StringFixed(types.MoneyPlaces),
		ratio(row.ProfitPerUnit, types.MoneyPlaces),
		ratio(row.MarginPct, types.MoneyPlaces),
		ratio(row.ProfitSharePct, types.SharePlaces),
		ratio(row.RevenueSharePct, types.SharePlaces),
	}
}

func rowCells(report *output.Report, na string) [][]string {
	return lo.Map(report.Rows(), func(row types.TierSummary, _ int) []string {
		return cells(row, na)
	})
}
