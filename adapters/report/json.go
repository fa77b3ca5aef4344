package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/samber/lo"

	"price-tiers/core/output"
	"price-tiers/core/types"
	"price-tiers/internal/errors"
)

// JSONFormatter renders machine-readable JSON.
// Money values are fixed-point numbers; undefined ratios are null.
type JSONFormatter struct {
	Indent string
}

// Format implements output.Formatter
func (f *JSONFormatter) Format() output.Format {
	return output.FormatJSON
}

type jsonReport struct {
	Metadata     jsonMetadata `json:"metadata"`
	Order        string       `json:"order"`
	TotalRevenue json.Number  `json:"total_revenue"`
	TotalProfit  json.Number  `json:"total_profit"`
	Tiers        []jsonTier   `json:"tiers"`
}

type jsonMetadata struct {
	RunID       string `json:"run_id,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Source      string `json:"source,omitempty"`
	Records     int    `json:"records"`
	TierTable   string `json:"tier_table,omitempty"`
	InputDigest string `json:"input_digest,omitempty"`
	Version     string `json:"version,omitempty"`
}

type jsonTier struct {
	Tier            string      `json:"tier"`
	Ordinal         int         `json:"ordinal"`
	Orders          int         `json:"orders"`
	TotalUnits      int64       `json:"total_units"`
	AvgUnitPrice    json.Number `json:"avg_unit_price"`
	TotalRevenue    json.Number `json:"total_revenue"`
	TotalProfit     json.Number `json:"total_profit"`
	ProfitPerUnit   types.Ratio `json:"profit_per_unit"`
	MarginPct       types.Ratio `json:"margin_pct"`
	ProfitSharePct  types.Ratio `json:"profit_share_pct"`
	RevenueSharePct types.Ratio `json:"revenue_share_pct"`
}

func money(s string) json.Number {
	return json.Number(s)
}

// Render implements output.Formatter
func (f *JSONFormatter) Render(w io.Writer, report *output.Report) error {
	doc := jsonReport{
		Metadata: jsonMetadata{
			RunID:       report.Metadata.RunID,
			Source:      report.Metadata.Source,
			Records:     report.Metadata.Records,
			TierTable:   report.Metadata.TierTable,
			InputDigest: report.Metadata.InputDigest,
			Version:     report.Metadata.Version,
		},
		Order:        string(report.Order),
		TotalRevenue: money("0.00"),
		TotalProfit:  money("0.00"),
		Tiers: lo.Map(report.Rows(), func(row types.TierSummary, _ int) jsonTier {
			return jsonTier{
				Tier:            row.Tier.Label,
				Ordinal:         row.Tier.Ordinal,
				Orders:          row.Orders,
				TotalUnits:      row.TotalUnits,
				AvgUnitPrice:    money(row.AvgUnitPrice.StringFixed(types.MoneyPlaces)),
				TotalRevenue:    money(row.TotalRevenue.StringFixed(types.MoneyPlaces)),
				TotalProfit:     money(row.TotalProfit.StringFixed(types.MoneyPlaces)),
				ProfitPerUnit:   row.ProfitPerUnit,
				MarginPct:       row.MarginPct,
				ProfitSharePct:  row.ProfitSharePct,
				RevenueSharePct: row.RevenueSharePct,
			}
		}),
	}
	if doc.Order == "" {
		doc.Order = string(types.SortByProfit)
	}
	if !report.Metadata.Timestamp.IsZero() {
		doc.Metadata.Timestamp = report.Metadata.Timestamp.UTC().Format(time.RFC3339)
	}
	if report.Metadata.Duration > 0 {
		doc.Metadata.Duration = report.Metadata.Duration.String()
	}
	if report.Table != nil {
		doc.TotalRevenue = money(report.Table.TotalRevenue.StringFixed(types.MoneyPlaces))
		doc.TotalProfit = money(report.Table.TotalProfit.StringFixed(types.MoneyPlaces))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", f.Indent)
	if err := enc.Encode(doc); err != nil {
		return errors.Render("failed to encode JSON report", err)
	}
	return nil
}
