package report

import (
	"io"

	"price-tiers/core/output"
	"price-tiers/core/types"
	"price-tiers/core/ui"
)

// CLIFormatter renders a colored terminal table
type CLIFormatter struct {
	NoColor bool
}

// Format implements output.Formatter
func (f *CLIFormatter) Format() output.Format {
	return output.FormatCLI
}

// Render implements output.Formatter
func (f *CLIFormatter) Render(w io.Writer, report *output.Report) error {
	uw := ui.NewWriter(w, f.NoColor)
	uw.Header("Price Tier Analysis")

	if report.Table == nil || report.Table.IsEmpty() {
		uw.Warning("No records to analyze")
		return nil
	}

	table := uw.NewTable(
		"Tier", "Orders", "Units", "Avg Price", "Revenue", "Profit",
		"Profit/Unit", "Margin %", "Profit Share %", "Revenue Share %",
	).AlignRight(1, 2, 3, 4, 5, 6, 7, 8, 9)
	for _, c := range rowCells(report, "n/a") {
		table.AddRow(c...)
	}
	table.Render()
	uw.Println("")

	summary := uw.NewSummary()
	summary.TotalProfit = "$" + report.Table.TotalProfit.StringFixed(types.MoneyPlaces)
	summary.TotalRevenue = "$" + report.Table.TotalRevenue.StringFixed(types.MoneyPlaces)
	summary.Records = report.Metadata.Records
	summary.Tiers = report.Table.Len()
	summary.Duration = report.Metadata.Duration
	summary.Notes = undefinedNotes(report.Table)
	summary.Render()

	return nil
}

// undefinedNotes explains which ratios could not be computed
func undefinedNotes(table *types.ResultTable) []string {
	var notes []string
	if table.TotalProfit.IsZero() {
		notes = append(notes, "Total profit is zero, profit shares are undefined")
	}
	if table.TotalRevenue.IsZero() {
		notes = append(notes, "Total revenue is zero, revenue shares are undefined")
	}
	for _, row := range table.Rows {
		if !row.MarginPct.Defined {
			notes = append(notes, row.Tier.Label+" has zero revenue, margin is undefined")
		}
		if !row.ProfitPerUnit.Defined {
			notes = append(notes, row.Tier.Label+" has zero units, profit per unit is undefined")
		}
	}
	return notes
}
