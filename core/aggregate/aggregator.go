// Package aggregate turns order records into per-tier summaries.
//
// The computation is a two-phase fold. Records are first reduced into one
// accumulator per populated tier and each accumulator is rounded into its base
// statistics. Only once every tier is reduced are the grand totals taken and
// the share-of-total ratios applied.
package aggregate

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"price-tiers/core/tier"
	"price-tiers/core/types"
	"price-tiers/internal/logging"
)

var hundred = decimal.NewFromInt(100)

// Aggregator groups records by tier and derives the tier metrics
type Aggregator struct {
	table *tier.Table

	// workers and threshold control parallel binning
	workers   int
	threshold int
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithParallelBinning bins inputs of at least threshold records on up to workers goroutines
func WithParallelBinning(workers, threshold int) Option {
	return func(a *Aggregator) {
		a.workers = workers
		a.threshold = threshold
	}
}

// New creates an aggregator over a tier table; nil means the default table
func New(table *tier.Table, opts ...Option) *Aggregator {
	if table == nil {
		table = tier.Default()
	}
	a := &Aggregator{table: table, workers: 1}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Table returns the tier table in use
func (a *Aggregator) Table() *tier.Table {
	return a.table
}

// accumulator holds the unrounded sums of one tier
type accumulator struct {
	orders    int
	units     int64
	priceSum  decimal.Decimal
	revenue   decimal.Decimal
	profit    decimal.Decimal
	populated bool
}

func (acc *accumulator) add(r *types.Record) {
	acc.orders++
	acc.units += r.Quantity
	acc.priceSum = acc.priceSum.Add(r.UnitPrice)
	acc.revenue = acc.revenue.Add(r.Revenue)
	acc.profit = acc.profit.Add(r.Profit)
	acc.populated = true
}

// summarize rounds the sums once and derives the per-tier ratios from the
// rounded values.
func (acc *accumulator) summarize(t types.Tier) types.TierSummary {
	revenue := acc.revenue.RoundBank(types.MoneyPlaces)
	profit := acc.profit.RoundBank(types.MoneyPlaces)
	units := decimal.NewFromInt(acc.units)

	return types.TierSummary{
		Tier:          t,
		Orders:        acc.orders,
		TotalUnits:    acc.units,
		AvgUnitPrice:  acc.priceSum.Div(decimal.NewFromInt(int64(acc.orders))).RoundBank(types.MoneyPlaces),
		TotalRevenue:  revenue,
		TotalProfit:   profit,
		ProfitPerUnit: types.Divide(profit, units, decimal.NewFromInt(1), types.MoneyPlaces),
		MarginPct:     types.Divide(profit, revenue, hundred, types.MoneyPlaces),
	}
}

// Aggregate computes the result table. Empty input yields an empty table.
// The result depends only on the multiset of records, not their order.
func (a *Aggregator) Aggregate(ctx context.Context, records []types.Record) (*types.ResultTable, error) {
	tiers, err := a.bin(ctx, records)
	if err != nil {
		return nil, err
	}

	// phase 1: reduce each tier
	accs := make([]accumulator, a.table.Len())
	for i := range records {
		accs[tiers[i].Ordinal].add(&records[i])
	}

	rows := make([]types.TierSummary, 0, len(accs))
	for i, tr := range a.table.Tiers() {
		if !accs[i].populated {
			continue
		}
		rows = append(rows, accs[i].summarize(tr))
	}

	// phase 2: grand totals, then shares
	result := &types.ResultTable{
		TotalProfit:  decimal.Zero,
		TotalRevenue: decimal.Zero,
	}
	for _, row := range rows {
		result.TotalProfit = result.TotalProfit.Add(row.TotalProfit)
		result.TotalRevenue = result.TotalRevenue.Add(row.TotalRevenue)
	}
	for i := range rows {
		rows[i].ProfitSharePct = types.Divide(rows[i].TotalProfit, result.TotalProfit, hundred, types.SharePlaces)
		rows[i].RevenueSharePct = types.Divide(rows[i].TotalRevenue, result.TotalRevenue, hundred, types.SharePlaces)
	}

	sortByProfit(rows)
	result.Rows = rows

	logging.Debug("Aggregated records",
		zap.Int("records", len(records)),
		zap.Int("tiers", len(rows)),
		zap.String("table", a.table.Name()),
		zap.String("total_profit", result.TotalProfit.StringFixed(types.MoneyPlaces)),
	)

	return result, nil
}

func (a *Aggregator) bin(ctx context.Context, records []types.Record) ([]types.Tier, error) {
	if a.workers > 1 && len(records) >= a.threshold {
		return a.table.AssignAll(ctx, records, a.workers)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tiers := make([]types.Tier, len(records))
	for i := range records {
		tiers[i] = a.table.Assign(records[i].UnitPrice)
	}
	return tiers, nil
}

// sortByProfit orders rows by TotalProfit descending, then by tier order
func sortByProfit(rows []types.TierSummary) {
	sort.SliceStable(rows, func(i, j int) bool {
		if c := rows[i].TotalProfit.Cmp(rows[j].TotalProfit); c != 0 {
			return c > 0
		}
		return rows[i].Tier.Ordinal < rows[j].Tier.Ordinal
	})
}
