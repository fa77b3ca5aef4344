package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTableAlignsMultiByteCells(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	table := w.NewTable("Tier", "Profit").AlignRight(1)
	table.AddRow("$100–150", "50.00")
	table.AddRow("< $100", "40.00")
	table.AddRow("$400+")
	assert.Equal(t, 3, table.Len())
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"Tier     │ Profit",
		"─────────┼───────",
		"$100–150 │  50.00",
		"< $100   │  40.00",
		"$400+    │       ",
	}, lines)
}

func TestWriterColor(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf, false).Success("done %d%%", 5)
	assert.Equal(t, Green+"✓ "+Reset+"done 5%\n", buf.String())

	buf.Reset()
	NewWriter(&buf, true).Warning("100%% of %s", "profit")
	assert.Equal(t, "⚠ 100% of profit\n", buf.String())
}

func TestWriterVerbosity(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)
	w.Debug("hidden")
	w.SetVerbosity(0)
	w.Info("hidden")
	assert.Empty(t, buf.String())

	w.SetVerbosity(2)
	w.Debug("shown")
	assert.Equal(t, "  shown\n", buf.String())
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriter(&buf, true).NewSummary()
	s.TotalProfit = "$90.00"
	s.TotalRevenue = "$420.00"
	s.Records = 3
	s.Tiers = 2
	s.Duration = 1500 * time.Millisecond
	s.Notes = []string{"margin undefined"}
	s.Render()

	out := buf.String()
	assert.Contains(t, out, "Total Profit:  $90.00")
	assert.Contains(t, out, "Records: 3  Tiers: 2  Time: 1s")
	assert.Contains(t, out, "⚠ margin undefined")
}
