package tier

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-tiers/core/types"
	"price-tiers/internal/errors"
)

func TestDefaultBoundaries(t *testing.T) {
	table := Default()

	tests := []struct {
		price string
		want  string
	}{
		{"0", "< $100"},
		{"-5", "< $100"},
		{"-1000000", "< $100"},
		{"99.99", "< $100"},
		{"100", "$100–150"},
		{"100.00", "$100–150"},
		{"149.999", "$100–150"},
		{"150", "$150–200"},
		{"199.99", "$150–200"},
		{"200", "$200–250"},
		{"250", "$250–300"},
		{"300", "$300–350"},
		{"350", "$350–400"},
		{"399.99", "$350–400"},
		{"400", "$400+"},
		{"400.01", "$400+"},
		{"123456789", "$400+"},
	}

	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			got := table.Assign(decimal.RequireFromString(tt.price))
			assert.Equal(t, tt.want, got.Label)
		})
	}
}

func TestDefaultTablePartitions(t *testing.T) {
	table := Default()
	intervals := table.Intervals()
	require.Len(t, intervals, 8)
	assert.Equal(t, DefaultName, table.Name())

	// Walk prices in cents; exactly one interval contains each, and Assign agrees.
	for cents := int64(0); cents <= 50000; cents += 7 {
		price := decimal.New(cents, -2)
		matches := 0
		var hit int
		for i, iv := range intervals {
			if iv.Contains(price) {
				matches++
				hit = i
			}
		}
		require.Equal(t, 1, matches, "price %s", price)
		require.Equal(t, hit, table.Assign(price).Ordinal, "price %s", price)
	}

	for i, tr := range table.Tiers() {
		assert.Equal(t, i, tr.Ordinal)
		assert.Equal(t, intervals[i].Label, tr.Label)
	}
	assert.Equal(t, "[400, inf)", intervals[7].String())
	assert.Equal(t, "[0, 100)", intervals[0].String())
}

func TestAssignFloat(t *testing.T) {
	table := Default()
	assert.Equal(t, "$100–150", table.AssignFloat(100.0).Label)
	assert.Equal(t, "< $100", table.AssignFloat(99.99).Label)
	assert.Equal(t, "$400+", table.AssignFloat(400.0).Label)
	assert.Equal(t, "< $100", table.AssignFloat(-5).Label)
	assert.Equal(t, "< $100", table.AssignFloat(math.NaN()).Label)
	assert.Equal(t, "$400+", table.AssignFloat(math.Inf(1)).Label)
	assert.Equal(t, "< $100", table.AssignFloat(math.Inf(-1)).Label)
}

func TestNewTableValidation(t *testing.T) {
	n := decimal.NewFromInt

	tests := []struct {
		name      string
		intervals []Interval
	}{
		{"empty", nil},
		{"gap", []Interval{
			{Label: "a", Low: n(0), High: n(10)},
			{Label: "b", Low: n(20), Unbounded: true},
		}},
		{"overlap", []Interval{
			{Label: "a", Low: n(0), High: n(10)},
			{Label: "b", Low: n(5), Unbounded: true},
		}},
		{"closed last", []Interval{
			{Label: "a", Low: n(0), High: n(10)},
		}},
		{"open middle", []Interval{
			{Label: "a", Low: n(0), Unbounded: true},
			{Label: "b", Low: n(0), Unbounded: true},
		}},
		{"empty interval", []Interval{
			{Label: "a", Low: n(10), High: n(10)},
			{Label: "b", Low: n(10), Unbounded: true},
		}},
		{"duplicate label", []Interval{
			{Label: "a", Low: n(0), High: n(10)},
			{Label: "a", Low: n(10), Unbounded: true},
		}},
		{"blank label", []Interval{
			{Label: "", Low: n(0), Unbounded: true},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable("bad", tt.intervals)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeConfig))
		})
	}
}

func TestCustomTableClampsBelowLowestEdge(t *testing.T) {
	table, err := NewTable("shifted", []Interval{
		{Label: "budget", Low: decimal.NewFromInt(10), High: decimal.NewFromInt(20)},
		{Label: "premium", Low: decimal.NewFromInt(20), Unbounded: true},
	})
	require.NoError(t, err)

	assert.Equal(t, "budget", table.AssignFloat(3).Label)
	assert.Equal(t, "budget", table.AssignFloat(10).Label)
	assert.Equal(t, "premium", table.AssignFloat(20).Label)
}

func TestParseHCL(t *testing.T) {
	src := []byte(`
name = "coarse"

tier "< $50" {
  high = 50
}

tier "$50–99.5" {
  low  = 50
  high = 99.5
}

tier "$99.5+" {}
`)

	table, err := ParseHCL(src, "tiers.hcl")
	require.NoError(t, err)
	assert.Equal(t, "coarse", table.Name())
	require.Equal(t, 3, table.Len())

	ivs := table.Intervals()
	assert.True(t, ivs[0].Low.IsZero())
	assert.True(t, ivs[1].High.Equal(decimal.RequireFromString("99.5")))
	assert.True(t, ivs[2].Low.Equal(decimal.RequireFromString("99.5")))
	assert.True(t, ivs[2].Unbounded)

	assert.Equal(t, "$50–99.5", table.AssignFloat(99.49).Label)
	assert.Equal(t, "$99.5+", table.AssignFloat(99.5).Label)
}

func TestLoadHCLNameFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "halves.hcl")
	require.NoError(t, os.WriteFile(path, []byte("tier \"low\" {\n  high = 0.5\n}\ntier \"high\" {}\n"), 0644))

	table, err := LoadHCL(path)
	require.NoError(t, err)
	assert.Equal(t, "halves", table.Name())
	assert.Equal(t, "high", table.AssignFloat(0.5).Label)
}

func TestParseHCLErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `tier "a" {`},
		{"unknown attribute", `tier "a" { top = 3 }`},
		{"string bound", `tier "a" { high = "ten" }` + "\n" + `tier "b" {}`},
		{"gap", "tier \"a\" { high = 10 }\ntier \"b\" { low = 11 }"},
		{"no tiers", `name = "x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHCL([]byte(tt.src), "bad.hcl")
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeConfig), "%v", err)
		})
	}

	_, err := LoadHCL(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestAssignAll(t *testing.T) {
	table := Default()
	records := make([]types.Record, 5000)
	for i := range records {
		records[i].UnitPrice = decimal.NewFromInt(int64(i % 500))
	}

	for _, workers := range []int{0, 1, 3, 8} {
		tiers, err := table.AssignAll(context.Background(), records, workers)
		require.NoError(t, err)
		require.Len(t, tiers, len(records))
		for i, r := range records {
			require.Equal(t, table.Assign(r.UnitPrice), tiers[i])
		}
	}
}

func TestAssignAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := make([]types.Record, 10)
	_, err := Default().AssignAll(ctx, records, 2)
	assert.ErrorIs(t, err, context.Canceled)

	tiers, err := Default().AssignAll(ctx, nil, 2)
	require.NoError(t, err)
	assert.Empty(t, tiers)
}
