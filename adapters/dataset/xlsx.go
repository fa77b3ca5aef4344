package dataset

import (
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"price-tiers/core/types"
	"price-tiers/internal/errors"
	"price-tiers/internal/logging"
)

// LoadXLSX reads records from a workbook sheet whose first row is the header.
// An empty sheet name selects the first sheet.
func (l *Loader) LoadXLSX(path, sheet string) ([]types.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeInput, err, "failed to open workbook %s", path)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.MissingColumn(types.RequiredColumns...)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeInput, err, "failed to read sheet %q", sheet)
	}
	if len(rows) == 0 {
		return nil, errors.MissingColumn(types.RequiredColumns...)
	}

	idx, err := columnIndex(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]types.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		// sheet rows are 1-based and the header is row 1
		rec, err := l.parseRow(idx, row, i+2)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	logging.Debug("Loaded workbook records",
		zap.String("sheet", sheet),
		zap.Int("records", len(records)))
	return records, nil
}
