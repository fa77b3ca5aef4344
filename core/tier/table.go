// Package tier assigns prices to named tiers.
// A Table is an explicit ordered list of half-open [low, high) intervals
// covering [lowest edge, +inf). Values below the lowest edge are clamped
// into the first interval.
package tier

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"price-tiers/core/types"
	"price-tiers/internal/errors"
)

// Interval is one [Low, High) bucket. The last interval of a table has no upper bound.
type Interval struct {
	Label string          `json:"label"`
	Low   decimal.Decimal `json:"low"`
	High  decimal.Decimal `json:"high"`

	// Unbounded marks the final interval, whose High is +inf
	Unbounded bool `json:"unbounded,omitempty"`
}

// Contains reports whether v lies in [Low, High)
func (i Interval) Contains(v decimal.Decimal) bool {
	if v.LessThan(i.Low) {
		return false
	}
	return i.Unbounded || v.LessThan(i.High)
}

// String renders the interval in bracket notation
func (i Interval) String() string {
	if i.Unbounded {
		return fmt.Sprintf("[%s, inf)", i.Low)
	}
	return fmt.Sprintf("[%s, %s)", i.Low, i.High)
}

// Table is an ordered, gap-free set of intervals
type Table struct {
	name      string
	intervals []Interval
}

// defaultEdges are the finite boundaries of the built-in table
var defaultEdges = []int64{0, 100, 150, 200, 250, 300, 350, 400}

// defaultLabels match defaultEdges; the last one is open-ended
var defaultLabels = []string{
	"< $100",
	"$100–150",
	"$150–200",
	"$200–250",
	"$250–300",
	"$300–350",
	"$350–400",
	"$400+",
}

// DefaultName identifies the built-in table
const DefaultName = "default"

// Default returns the built-in 8-tier table
func Default() *Table {
	intervals := make([]Interval, len(defaultEdges))
	for i, low := range defaultEdges {
		intervals[i] = Interval{
			Label: defaultLabels[i],
			Low:   decimal.NewFromInt(low),
		}
		if i+1 < len(defaultEdges) {
			intervals[i].High = decimal.NewFromInt(defaultEdges[i+1])
		} else {
			intervals[i].Unbounded = true
		}
	}
	return &Table{name: DefaultName, intervals: intervals}
}

// NewTable validates intervals and builds a table
func NewTable(name string, intervals []Interval) (*Table, error) {
	if len(intervals) == 0 {
		return nil, errors.Config("tier table has no intervals")
	}

	seen := make(map[string]bool, len(intervals))
	last := len(intervals) - 1
	for i, iv := range intervals {
		if iv.Label == "" {
			return nil, errors.Newf(errors.TypeConfig, "tier %d has an empty label", i)
		}
		if seen[iv.Label] {
			return nil, errors.Newf(errors.TypeConfig, "duplicate tier label %q", iv.Label)
		}
		seen[iv.Label] = true

		if i > 0 && !iv.Low.Equal(intervals[i-1].High) {
			return nil, errors.Newf(errors.TypeConfig,
				"tier %q starts at %s but previous tier ends at %s", iv.Label, iv.Low, intervals[i-1].High).
				WithContext("tier", iv.Label)
		}

		switch {
		case i == last && !iv.Unbounded:
			return nil, errors.Newf(errors.TypeConfig, "last tier %q must be open-ended", iv.Label)
		case i < last && iv.Unbounded:
			return nil, errors.Newf(errors.TypeConfig, "only the last tier may be open-ended, not %q", iv.Label)
		case i < last && !iv.High.GreaterThan(iv.Low):
			return nil, errors.Newf(errors.TypeConfig, "tier %q has high %s not above low %s", iv.Label, iv.High, iv.Low)
		}
	}

	copied := make([]Interval, len(intervals))
	copy(copied, intervals)
	return &Table{name: name, intervals: copied}, nil
}

// Name returns the table name
func (t *Table) Name() string {
	return t.name
}

// Len returns the number of tiers
func (t *Table) Len() int {
	return len(t.intervals)
}

// Intervals returns a copy of the intervals in order
func (t *Table) Intervals() []Interval {
	out := make([]Interval, len(t.intervals))
	copy(out, t.intervals)
	return out
}

// Tiers returns every tier in order
func (t *Table) Tiers() []types.Tier {
	out := make([]types.Tier, len(t.intervals))
	for i, iv := range t.intervals {
		out[i] = types.Tier{Label: iv.Label, Ordinal: i}
	}
	return out
}

// Assign returns the tier whose interval contains price.
// Prices below the lowest edge fall into the first tier.
func (t *Table) Assign(price decimal.Decimal) types.Tier {
	// first interval whose low is above price; the one before it holds price
	idx := sort.Search(len(t.intervals), func(i int) bool {
		return t.intervals[i].Low.GreaterThan(price)
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return types.Tier{Label: t.intervals[idx].Label, Ordinal: idx}
}

// AssignFloat is Assign for float64 prices. NaN and -Inf clamp to the first
// tier, +Inf lands in the last.
func (t *Table) AssignFloat(price float64) types.Tier {
	switch {
	case math.IsInf(price, 1):
		last := len(t.intervals) - 1
		return types.Tier{Label: t.intervals[last].Label, Ordinal: last}
	case math.IsNaN(price), math.IsInf(price, -1):
		return types.Tier{Label: t.intervals[0].Label, Ordinal: 0}
	}
	return t.Assign(decimal.NewFromFloat(price))
}
