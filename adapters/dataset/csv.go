package dataset

import (
	"encoding/csv"
	"io"
	"strings"

	"go.uber.org/zap"

	"price-tiers/core/types"
	"price-tiers/internal/errors"
	"price-tiers/internal/logging"
)

// LoadCSV reads records from CSV text with a header row. Extra columns are
// ignored; blank lines are skipped.
func (l *Loader) LoadCSV(r io.Reader) ([]types.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.MissingColumn(types.RequiredColumns...)
	}
	if err != nil {
		return nil, errors.Parsing("failed to read CSV header", err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []types.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Parsing("failed to read CSV", err)
		}
		if isBlank(row) {
			continue
		}

		line, _ := reader.FieldPos(0)
		rec, err := l.parseRow(idx, row, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	logging.Debug("Loaded CSV records", zap.Int("records", len(records)))
	return records, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
