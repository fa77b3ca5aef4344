package report

import (
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"price-tiers/core/output"
	"price-tiers/core/types"
	"price-tiers/internal/errors"
)

// DefaultSheet is the result sheet name when none is configured
const DefaultSheet = "Price Segments"

const metadataSheet = "Run"

// XLSXFormatter renders an Excel workbook with a result sheet and a run sheet.
// Numbers are written as numeric cells; undefined ratios are left blank.
type XLSXFormatter struct {
	Sheet string
}

// Format implements output.Formatter
func (f *XLSXFormatter) Format() output.Format {
	return output.FormatXLSX
}

// Render implements output.Formatter
func (f *XLSXFormatter) Render(w io.Writer, report *output.Report) error {
	sheet := f.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}
	// Excel compares sheet names case-insensitively
	if strings.EqualFold(sheet, metadataSheet) {
		return errors.Newf(errors.TypeConfig, "sheet name %q is reserved for run metadata", sheet)
	}

	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName(book.GetSheetName(0), sheet); err != nil {
		return errors.Render("invalid sheet name "+sheet, err)
	}
	if err := writeResultSheet(book, sheet, report); err != nil {
		return err
	}
	if err := writeMetadataSheet(book, report.Metadata); err != nil {
		return err
	}

	if err := book.Write(w); err != nil {
		return errors.Render("failed to write workbook", err)
	}
	return nil
}

func writeResultSheet(book *excelize.File, sheet string, report *output.Report) error {
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := book.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.Render("failed to write header", err)
	}

	bold, err := book.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Render("failed to create header style", err)
	}
	last, _ := excelize.ColumnNumberToName(len(columns))
	if err := book.SetCellStyle(sheet, "A1", last+"1", bold); err != nil {
		return errors.Render("failed to style header", err)
	}

	for i, row := range report.Rows() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Render("invalid cell", err)
		}
		values := []interface{}{
			row.Tier.Label,
			row.Orders,
			row.TotalUnits,
			number(row.AvgUnitPrice),
			number(row.TotalRevenue),
			number(row.TotalProfit),
			ratioCell(row.ProfitPerUnit),
			ratioCell(row.MarginPct),
			ratioCell(row.ProfitSharePct),
			ratioCell(row.RevenueSharePct),
		}
		if err := book.SetSheetRow(sheet, cell, &values); err != nil {
			return errors.Render("failed to write row", err)
		}
	}

	if err := book.SetColWidth(sheet, "A", "A", 14); err != nil {
		return errors.Render("failed to size columns", err)
	}
	return book.SetColWidth(sheet, "B", last, 16)
}

func writeMetadataSheet(book *excelize.File, meta output.Metadata) error {
	if _, err := book.NewSheet(metadataSheet); err != nil {
		return errors.Render("failed to add run sheet", err)
	}
	rows := [][]interface{}{
		{"run_id", meta.RunID},
		{"source", meta.Source},
		{"records", meta.Records},
		{"tier_table", meta.TierTable},
		{"input_digest", meta.InputDigest},
		{"version", meta.Version},
	}
	if !meta.Timestamp.IsZero() {
		rows = append(rows, []interface{}{"timestamp", meta.Timestamp.UTC().Format(time.RFC3339)})
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := book.SetSheetRow(metadataSheet, cell, &rows[i]); err != nil {
			return errors.Render("failed to write run sheet", err)
		}
	}
	return nil
}

func number(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// ratioCell returns nil for undefined ratios, which excelize leaves empty
func ratioCell(r types.Ratio) interface{} {
	if !r.Defined {
		return nil
	}
	return r.Value.InexactFloat64()
}
