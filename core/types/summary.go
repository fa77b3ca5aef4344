// Package types - Tier summary and result table types
package types

import (
	"sort"

	"github.com/shopspring/decimal"
)

// TierSummary holds the metrics of one populated tier
type TierSummary struct {
	// Tier is the price bucket
	Tier Tier `json:"tier"`

	// Orders is the number of records in the tier
	Orders int `json:"orders"`

	// TotalUnits is the sum of quantity
	TotalUnits int64 `json:"total_units"`

	// AvgUnitPrice is the mean unit price
	AvgUnitPrice decimal.Decimal `json:"avg_unit_price"`

	// TotalRevenue is the sum of revenue
	TotalRevenue decimal.Decimal `json:"total_revenue"`

	// TotalProfit is the sum of profit
	TotalProfit decimal.Decimal `json:"total_profit"`

	// ProfitPerUnit is TotalProfit / TotalUnits
	ProfitPerUnit Ratio `json:"profit_per_unit"`

	// MarginPct is TotalProfit / TotalRevenue * 100
	MarginPct Ratio `json:"margin_pct"`

	// ProfitSharePct is this tier's percentage of all tiers' profit
	ProfitSharePct Ratio `json:"profit_share_pct"`

	// RevenueSharePct is this tier's percentage of all tiers' revenue
	RevenueSharePct Ratio `json:"revenue_share_pct"`
}

// ResultTable is the ordered set of tier summaries, most profitable first
type ResultTable struct {
	// Rows are sorted by TotalProfit descending
	Rows []TierSummary `json:"rows"`

	// TotalProfit is the sum of the rows' rounded profit
	TotalProfit decimal.Decimal `json:"total_profit"`

	// TotalRevenue is the sum of the rows' rounded revenue
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// Len returns the number of rows
func (t *ResultTable) Len() int {
	return len(t.Rows)
}

// IsEmpty reports whether no tier was populated
func (t *ResultTable) IsEmpty() bool {
	return len(t.Rows) == 0
}

// Get returns the summary for a tier label
func (t *ResultTable) Get(label string) (TierSummary, bool) {
	for _, row := range t.Rows {
		if row.Tier.Label == label {
			return row, true
		}
	}
	return TierSummary{}, false
}

// ByProfitDescending returns a copy of the rows in primary order
func (t *ResultTable) ByProfitDescending() []TierSummary {
	rows := make([]TierSummary, len(t.Rows))
	copy(rows, t.Rows)
	return rows
}

// ByRevenueAscending returns a copy of the rows sorted by TotalRevenue ascending
func (t *ResultTable) ByRevenueAscending() []TierSummary {
	return t.sorted(func(a, b TierSummary) bool {
		if c := a.TotalRevenue.Cmp(b.TotalRevenue); c != 0 {
			return c < 0
		}
		return a.Tier.Ordinal < b.Tier.Ordinal
	})
}

// ByTierOrder returns a copy of the rows in price order
func (t *ResultTable) ByTierOrder() []TierSummary {
	return t.sorted(func(a, b TierSummary) bool {
		return a.Tier.Ordinal < b.Tier.Ordinal
	})
}

func (t *ResultTable) sorted(less func(a, b TierSummary) bool) []TierSummary {
	rows := t.ByProfitDescending()
	sort.SliceStable(rows, func(i, j int) bool {
		return less(rows[i], rows[j])
	})
	return rows
}

// SortOrder names a row ordering
type SortOrder string

const (
	// SortByProfit is TotalProfit descending
	SortByProfit SortOrder = "profit"

	// SortByRevenue is TotalRevenue ascending
	SortByRevenue SortOrder = "revenue"

	// SortByTier is price order
	SortByTier SortOrder = "tier"
)

// IsValid checks if the sort order is known
func (s SortOrder) IsValid() bool {
	switch s {
	case SortByProfit, SortByRevenue, SortByTier:
		return true
	default:
		return false
	}
}

// View returns the rows in the requested order
func (t *ResultTable) View(order SortOrder) []TierSummary {
	switch order {
	case SortByRevenue:
		return t.ByRevenueAscending()
	case SortByTier:
		return t.ByTierOrder()
	default:
		return t.ByProfitDescending()
	}
}
