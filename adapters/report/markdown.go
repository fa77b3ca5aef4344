package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"price-tiers/core/output"
	"price-tiers/core/types"
	"price-tiers/internal/errors"
)

// MarkdownFormatter renders a GitHub-flavored markdown report
type MarkdownFormatter struct{}

// Format implements output.Formatter
func (f *MarkdownFormatter) Format() output.Format {
	return output.FormatMarkdown
}

var markdownHeaders = []string{
	"Tier", "Orders", "Units", "Avg Price", "Revenue", "Profit",
	"Profit/Unit", "Margin %", "Profit Share %", "Revenue Share %",
}

// Render implements output.Formatter
func (f *MarkdownFormatter) Render(w io.Writer, report *output.Report) error {
	bw := bufio.NewWriter(w)
	meta := report.Metadata

	fmt.Fprintln(bw, "## Price Tier Analysis")
	fmt.Fprintln(bw)
	if meta.Source != "" {
		fmt.Fprintf(bw, "- **Source:** `%s`\n", meta.Source)
	}
	fmt.Fprintf(bw, "- **Records:** %d\n", meta.Records)
	if meta.TierTable != "" {
		fmt.Fprintf(bw, "- **Tier table:** %s\n", meta.TierTable)
	}
	if !meta.Timestamp.IsZero() {
		fmt.Fprintf(bw, "- **Generated:** %s\n", meta.Timestamp.UTC().Format(time.RFC3339))
	}
	if meta.InputDigest != "" {
		fmt.Fprintf(bw, "- **Input digest:** `%s`\n", meta.InputDigest)
	}
	fmt.Fprintln(bw)

	if report.Table == nil || report.Table.IsEmpty() {
		fmt.Fprintln(bw, "_No records to analyze._")
		return flush(bw)
	}

	fmt.Fprintln(bw, markdownRow(markdownHeaders))
	align := make([]string, len(markdownHeaders))
	for i := range align {
		align[i] = "---:"
	}
	align[0] = "---"
	fmt.Fprintln(bw, markdownRow(align))
	for _, c := range rowCells(report, "n/a") {
		fmt.Fprintln(bw, markdownRow(c))
	}
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "**Total profit:** $%s · **Total revenue:** $%s\n",
		report.Table.TotalProfit.StringFixed(types.MoneyPlaces),
		report.Table.TotalRevenue.StringFixed(types.MoneyPlaces))

	return flush(bw)
}

func markdownRow(cells []string) string {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return "| " + strings.Join(escaped, " | ") + " |"
}

func flush(bw *bufio.Writer) error {
	if err := bw.Flush(); err != nil {
		return errors.Render("failed to write markdown report", err)
	}
	return nil
}
