// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions and
// their accessors.
package types

import "github.com/shopspring/decimal"

// Rounding precision applied once to each reported field
const (
	// MoneyPlaces is the precision of totals, averages and per-unit/margin ratios
	MoneyPlaces int32 = 2

	// SharePlaces is the precision of share-of-total percentages
	SharePlaces int32 = 1
)

// Required input columns, in canonical order
const (
	ColumnOrderID   = "order_id"
	ColumnUnitPrice = "unit_price"
	ColumnQuantity  = "quantity"
	ColumnRevenue   = "revenue"
	ColumnProfit    = "profit"
)

// RequiredColumns lists every column a dataset must provide
var RequiredColumns = []string{
	ColumnOrderID,
	ColumnUnitPrice,
	ColumnQuantity,
	ColumnRevenue,
	ColumnProfit,
}

// Record is one order row. Records are read-only once loaded.
type Record struct {
	// OrderID uniquely identifies the order
	OrderID string `json:"order_id" validate:"required"`

	// UnitPrice is the price of a single unit
	UnitPrice decimal.Decimal `json:"unit_price"`

	// Quantity is the number of units ordered
	Quantity int64 `json:"quantity" validate:"gte=0"`

	// Revenue is taken as given, not re-derived from price and quantity
	Revenue decimal.Decimal `json:"revenue"`

	// Profit may be negative
	Profit decimal.Decimal `json:"profit"`
}

// Tier is a named price bucket
type Tier struct {
	// Label is the display name, e.g. "$100–150"
	Label string `json:"label"`

	// Ordinal is the tier's position in its table, starting at 0
	Ordinal int `json:"ordinal"`
}

// String returns the label
func (t Tier) String() string {
	return t.Label
}
