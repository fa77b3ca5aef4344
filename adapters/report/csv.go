package report

import (
	"encoding/csv"
	"io"

	"price-tiers/core/output"
	"price-tiers/internal/errors"
)

// CSVFormatter renders one header row and one row per tier.
// Undefined ratios are empty cells.
type CSVFormatter struct{}

// Format implements output.Formatter
func (f *CSVFormatter) Format() output.Format {
	return output.FormatCSV
}

// Render implements output.Formatter
func (f *CSVFormatter) Render(w io.Writer, report *output.Report) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return errors.Render("failed to write CSV header", err)
	}
	if err := writer.WriteAll(rowCells(report, "")); err != nil {
		return errors.Render("failed to write CSV rows", err)
	}
	return nil
}
