package types

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDivide(t *testing.T) {
	tests := []struct {
		name    string
		num     string
		den     string
		scale   string
		places  int32
		want    string
		defined bool
	}{
		{"plain ratio", "50", "2", "1", 2, "25", true},
		{"percentage", "40", "180", "100", 2, "22.22", true},
		{"rounds half to even down", "1", "8", "1", 2, "0.12", true},
		{"rounds half to even up", "3", "8", "1", 2, "0.38", true},
		{"negative rounds half to even", "-1", "8", "1", 2, "-0.12", true},
		{"share half to even", "49", "400", "100", 1, "12.2", true},
		{"share one place", "50", "90", "100", 1, "55.6", true},
		{"zero numerator is defined", "0", "300", "100", 2, "0", true},
		{"zero denominator is undefined", "40", "0", "100", 2, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Divide(d(tt.num), d(tt.den), d(tt.scale), tt.places)
			require.Equal(t, tt.defined, r.Defined)
			if tt.defined {
				assert.True(t, d(tt.want).Equal(r.Value), "got %s", r.Value)
			}
		})
	}
}

func TestRatioPresentation(t *testing.T) {
	assert.True(t, math.IsNaN(Undefined.Float64()))
	assert.Equal(t, "n/a", Undefined.StringFixed(2))
	assert.Equal(t, "22.20", NewRatio(d("22.2")).StringFixed(2))
	assert.InDelta(t, 22.2, NewRatio(d("22.2")).Float64(), 1e-9)

	assert.True(t, Undefined.Equal(Ratio{}))
	assert.False(t, Undefined.Equal(NewRatio(decimal.Zero)))
	assert.True(t, NewRatio(d("1.50")).Equal(NewRatio(d("1.5"))))
}

func TestRatioJSON(t *testing.T) {
	payload, err := json.Marshal(struct {
		A Ratio `json:"a"`
		B Ratio `json:"b"`
	}{A: NewRatio(d("12.5")), B: Undefined})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":12.5,"b":null}`, string(payload))

	var back struct {
		A Ratio `json:"a"`
		B Ratio `json:"b"`
	}
	require.NoError(t, json.Unmarshal(payload, &back))
	assert.True(t, back.A.Equal(NewRatio(d("12.5"))))
	assert.False(t, back.B.Defined)
}

func TestResultTableViews(t *testing.T) {
	low := TierSummary{Tier: Tier{Label: "< $100", Ordinal: 0}, TotalRevenue: d("180"), TotalProfit: d("40")}
	mid := TierSummary{Tier: Tier{Label: "$100–150", Ordinal: 1}, TotalRevenue: d("240"), TotalProfit: d("50")}
	top := TierSummary{Tier: Tier{Label: "$400+", Ordinal: 7}, TotalRevenue: d("180"), TotalProfit: d("-5")}
	table := &ResultTable{Rows: []TierSummary{mid, low, top}}

	labels := func(rows []TierSummary) []string {
		out := make([]string, len(rows))
		for i, r := range rows {
			out[i] = r.Tier.Label
		}
		return out
	}

	assert.Equal(t, []string{"$100–150", "< $100", "$400+"}, labels(table.View(SortByProfit)))
	assert.Equal(t, []string{"< $100", "$400+", "$100–150"}, labels(table.View(SortByRevenue)))
	assert.Equal(t, []string{"< $100", "$100–150", "$400+"}, labels(table.View(SortByTier)))

	// views are copies
	view := table.ByRevenueAscending()
	view[0].Orders = 99
	assert.Equal(t, 0, table.Rows[1].Orders)

	got, ok := table.Get("$400+")
	require.True(t, ok)
	assert.True(t, got.TotalProfit.Equal(d("-5")))
	_, ok = table.Get("$150–200")
	assert.False(t, ok)

	assert.False(t, table.IsEmpty())
	assert.True(t, (&ResultTable{}).IsEmpty())
	assert.True(t, SortByTier.IsValid())
	assert.False(t, SortOrder("margin").IsValid())
}
