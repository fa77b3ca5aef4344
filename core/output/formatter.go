// Package output provides output formatting interfaces.
// This package produces human and machine-readable outputs.
package output

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"price-tiers/core/types"
	"price-tiers/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatCSV is a flat CSV table
	FormatCSV Format = "csv"

	// FormatMarkdown is a markdown report
	FormatMarkdown Format = "markdown"

	// FormatXLSX is an Excel workbook
	FormatXLSX Format = "xlsx"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given report
	Render(w io.Writer, report *Report) error
}

// Report contains the complete analysis output
type Report struct {
	// Table is the aggregated result
	Table *types.ResultTable `json:"table"`

	// Order is the row order formatters render
	Order types.SortOrder `json:"order"`

	// Metadata contains execution context
	Metadata Metadata `json:"metadata"`
}

// Rows returns the table rows in the report's order
func (r *Report) Rows() []types.TierSummary {
	if r.Table == nil {
		return nil
	}
	return r.Table.View(r.Order)
}

// Metadata contains execution context
type Metadata struct {
	// RunID identifies this run
	RunID string `json:"run_id"`

	// Timestamp is when the analysis was performed
	Timestamp time.Time `json:"timestamp"`

	// Duration is how long the analysis took
	Duration time.Duration `json:"duration"`

	// Source is the input path
	Source string `json:"source"`

	// Records is the number of records aggregated
	Records int `json:"records"`

	// TierTable is the name of the tier table used
	TierTable string `json:"tier_table"`

	// InputDigest is an order-independent hash of the input records
	InputDigest string `json:"input_digest"`

	// Version is the tool version
	Version string `json:"version"`
}

// Registry manages formatter registration
type Registry struct {
	mu         sync.RWMutex
	formatters map[Format]Formatter
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{formatters: make(map[Format]Formatter)}
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[formatter.Format()]; exists {
		return errors.Newf(errors.TypeConfig, "formatter %q already registered", formatter.Format())
	}
	r.formatters[formatter.Format()] = formatter
	return nil
}

// GetFormatter returns a formatter for a format type
func (r *Registry) GetFormatter(format Format) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[format]
	return f, ok
}

// MustGet returns a formatter or a NotSupported error listing the known formats
func (r *Registry) MustGet(format Format) (Formatter, error) {
	if f, ok := r.GetFormatter(format); ok {
		return f, nil
	}
	return nil, errors.NotSupported(fmt.Sprintf("output format %q (available: %v)", format, r.Formats()))
}

// GetAll returns all registered formatters
func (r *Registry) GetAll() []Formatter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]Formatter, 0, len(r.formatters))
	for _, f := range r.formatters {
		all = append(all, f)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Format() < all[j].Format() })
	return all
}

// Formats returns the registered format names in sorted order
func (r *Registry) Formats() []Format {
	all := r.GetAll()
	formats := make([]Format, len(all))
	for i, f := range all {
		formats[i] = f.Format()
	}
	return formats
}
