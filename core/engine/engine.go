// Package engine provides the API-primary analysis engine.
// CLI is a thin wrapper around this engine.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"price-tiers/adapters/dataset"
	"price-tiers/core/aggregate"
	"price-tiers/core/determinism"
	"price-tiers/core/output"
	"price-tiers/core/tier"
	"price-tiers/core/types"
	"price-tiers/internal/errors"
	"price-tiers/internal/logging"
)

// RecordLoader reads records from a dataset file
type RecordLoader interface {
	LoadFile(path string, opts dataset.Options) ([]types.Record, error)
}

// EngineConfig configures the analysis engine
type EngineConfig struct {
	// Parallel binning; Workers <= 1 bins sequentially
	Workers           int
	ParallelThreshold int

	// Order is the row order of produced reports
	Order types.SortOrder

	// Sheet selects the workbook sheet for XLSX inputs
	Sheet string

	// Version is stamped into report metadata
	Version string
}

// Engine is the primary API for tier analysis.
// All other interfaces are thin wrappers.
type Engine struct {
	loader     RecordLoader
	aggregator *aggregate.Aggregator
	config     EngineConfig
	now        func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithLoader replaces the dataset loader
func WithLoader(l RecordLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithClock replaces the time source
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine over a tier table; nil means the default table
func NewEngine(table *tier.Table, config EngineConfig, opts ...Option) (*Engine, error) {
	if config.Order == "" {
		config.Order = types.SortByProfit
	}
	if !config.Order.IsValid() {
		return nil, errors.Newf(errors.TypeConfig, "unknown sort order %q (use profit, revenue or tier)", config.Order)
	}

	var aggOpts []aggregate.Option
	if config.Workers > 1 {
		aggOpts = append(aggOpts, aggregate.WithParallelBinning(config.Workers, config.ParallelThreshold))
	}

	e := &Engine{
		loader:     dataset.NewLoader(),
		aggregator: aggregate.New(table, aggOpts...),
		config:     config,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// TierTable returns the tier table in use
func (e *Engine) TierTable() *tier.Table {
	return e.aggregator.Table()
}

// Analyze loads a dataset file and aggregates it
func (e *Engine) Analyze(ctx context.Context, path string) (*output.Report, error) {
	start := e.now()

	records, err := e.loader.LoadFile(path, dataset.Options{Sheet: e.config.Sheet})
	if err != nil {
		return nil, err
	}
	logging.Debug("Loaded records", zap.String("path", path), zap.Int("records", len(records)))

	return e.analyze(ctx, start, path, records)
}

// AnalyzeRecords aggregates records that are already loaded
func (e *Engine) AnalyzeRecords(ctx context.Context, source string, records []types.Record) (*output.Report, error) {
	return e.analyze(ctx, e.now(), source, records)
}

func (e *Engine) analyze(ctx context.Context, start time.Time, source string, records []types.Record) (*output.Report, error) {
	table, err := e.aggregator.Aggregate(ctx, records)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, errors.Internal("aggregation failed", err)
	}

	report := &output.Report{
		Table: table,
		Order: e.config.Order,
		Metadata: output.Metadata{
			RunID:       uuid.NewString(),
			Timestamp:   start.UTC(),
			Duration:    e.now().Sub(start),
			Source:      source,
			Records:     len(records),
			TierTable:   e.aggregator.Table().Name(),
			InputDigest: determinism.InputDigest(records).Hex(),
			Version:     e.config.Version,
		},
	}

	logging.Info("Analysis complete",
		zap.String("run_id", report.Metadata.RunID),
		zap.Int("records", len(records)),
		zap.Int("tiers", table.Len()),
		zap.Duration("duration", report.Metadata.Duration),
	)
	return report, nil
}
