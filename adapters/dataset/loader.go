// Package dataset loads order records from tabular files.
// It is a thin input adapter: the column contract and row parsing live here,
// all computation lives in the core.
package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"price-tiers/core/types"
	"price-tiers/internal/errors"
	"price-tiers/internal/logging"
)

// Format is a supported input file format
type Format string

const (
	// FormatCSV is comma-separated text with a header row
	FormatCSV Format = "csv"

	// FormatXLSX is an Excel workbook with a header row
	FormatXLSX Format = "xlsx"
)

// DetectFormat picks the format from a file extension
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", errors.NotSupported(fmt.Sprintf("input format %q", filepath.Ext(path)))
	}
}

// Options controls loading
type Options struct {
	// Sheet is the workbook sheet to read; empty means the first sheet
	Sheet string
}

// Loader parses and validates records
type Loader struct {
	validate *validator.Validate
}

// NewLoader creates a loader
func NewLoader() *Loader {
	return &Loader{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// LoadFile loads records from a CSV or XLSX file
func (l *Loader) LoadFile(path string, opts Options) ([]types.Record, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	logging.Info("Loading dataset", zap.String("path", path), zap.String("format", string(format)))

	switch format {
	case FormatXLSX:
		return l.LoadXLSX(path, opts.Sheet)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(errors.TypeInput, err, "failed to open %s", path)
		}
		defer f.Close()
		return l.LoadCSV(f)
	}
}

// columnIndex maps each required column to its position in the header.
// Every missing column is reported at once, before any row is read.
func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}

	missing := lo.Filter(types.RequiredColumns, func(col string, _ int) bool {
		_, ok := idx[col]
		return !ok
	})
	if len(missing) > 0 {
		return nil, errors.MissingColumn(missing...)
	}
	return idx, nil
}

// parseRow converts one data row. line is the 1-based line/row number in the source.
func (l *Loader) parseRow(idx map[string]int, row []string, line int) (types.Record, error) {
	cell := func(col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rec types.Record
	var err error
	rec.OrderID = cell(types.ColumnOrderID)

	if rec.UnitPrice, err = parseAmount(cell(types.ColumnUnitPrice)); err != nil {
		return rec, cellError(line, types.ColumnUnitPrice, err)
	}
	if rec.Quantity, err = parseQuantity(cell(types.ColumnQuantity)); err != nil {
		return rec, cellError(line, types.ColumnQuantity, err)
	}
	if rec.Revenue, err = parseAmount(cell(types.ColumnRevenue)); err != nil {
		return rec, cellError(line, types.ColumnRevenue, err)
	}
	if rec.Profit, err = parseAmount(cell(types.ColumnProfit)); err != nil {
		return rec, cellError(line, types.ColumnProfit, err)
	}

	if err := l.validate.Struct(rec); err != nil {
		return rec, validationError(line, err)
	}
	return rec, nil
}

// parseAmount accepts plain decimals, optionally with a leading "$" and
// thousands separators
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.Replace(s, "$", "", 1)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty value")
	}
	return decimal.NewFromString(s)
}

// parseQuantity accepts integers and integral decimals such as "2.0"
func parseQuantity(s string) (int64, error) {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	if q, err := strconv.ParseInt(s, 10, 64); err == nil {
		return q, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%s is not a whole number", s)
	}
	return d.IntPart(), nil
}

func cellError(line int, column string, cause error) error {
	return errors.Wrapf(errors.TypeParsing, cause, "row %d: invalid %s", line, column).
		WithContext("row", line).
		WithContext("column", column)
}

func validationError(line int, err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrapf(errors.TypeInput, err, "row %d: validation failed", line)
	}

	msgs := lo.Map(verrs, func(fe validator.FieldError, _ int) string {
		return formatFieldError(fe)
	})
	return errors.Newf(errors.TypeInput, "row %d: %s", line, strings.Join(msgs, "; ")).
		WithContext("row", line)
}

func formatFieldError(fe validator.FieldError) string {
	field := jsonName(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func jsonName(field string) string {
	switch field {
	case "OrderID":
		return types.ColumnOrderID
	case "Quantity":
		return types.ColumnQuantity
	default:
		return strings.ToLower(field)
	}
}
