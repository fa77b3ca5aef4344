package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-tiers/adapters/charts"
	"price-tiers/internal/errors"
)

const ordersCSV = `order_id,unit_price,quantity,revenue,profit
1,90,2,180,40
2,120,1,120,30
3,120,1,120,20
`

// execute runs the root command with fresh flag state
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	outputFormat, outputFile, tiersFile, sortOrder, chartDir, sheetName = "", "", "", "", "", ""
	workers = 0
	tiersListFile = ""
	showYAML, forceInit, noColor, verbose = false, false, false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	cfgPath := filepath.Join(t.TempDir(), "absent.json")
	rootCmd.SetArgs(append([]string{"--config", cfgPath, "--no-color"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeOrders(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte(ordersCSV), 0644))
	return path
}

func TestAnalyzeJSON(t *testing.T) {
	out, err := execute(t, "analyze", "--format", "json", "--sort", "tier", writeOrders(t))
	require.NoError(t, err)

	var doc struct {
		Order string `json:"order"`
		Tiers []struct {
			Tier   string `json:"tier"`
			Orders int    `json:"orders"`
		} `json:"tiers"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "tier", doc.Order)
	require.Len(t, doc.Tiers, 2)
	assert.Equal(t, "< $100", doc.Tiers[0].Tier)
	assert.Equal(t, 2, doc.Tiers[1].Orders)
}

func TestAnalyzeWritesFileAndCharts(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "segments.xlsx")
	chartsDir := filepath.Join(dir, "charts")

	out, err := execute(t, "analyze", "-f", "xlsx", "-o", report, "--charts", chartsDir, writeOrders(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Report written to "+report)

	assert.FileExists(t, report)
	for _, name := range []string{charts.ProfitFile, charts.SharesFile, charts.MarginFile} {
		assert.FileExists(t, filepath.Join(chartsDir, name))
	}
}

func TestAnalyzeErrors(t *testing.T) {
	orders := writeOrders(t)

	tests := []struct {
		name    string
		args    []string
		errType errors.Type
	}{
		{"unknown format", []string{"analyze", "-f", "html", orders}, errors.TypeNotSupported},
		{"xlsx to stdout", []string{"analyze", "-f", "xlsx", orders}, errors.TypeInput},
		{"bad sort", []string{"analyze", "--sort", "margin", orders}, errors.TypeConfig},
		{"missing tiers file", []string{"analyze", "--tiers", "nope.hcl", orders}, errors.TypeConfig},
		{"missing input", []string{"analyze", "absent.csv"}, errors.TypeInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.errType), "%v", err)
		})
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("order_id,unit_price,quantity,revenue,profit\n"), 0644))

	out, err := execute(t, "analyze", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No records found in "+path)
}

func TestTiersCommand(t *testing.T) {
	out, err := execute(t, "tiers")
	require.NoError(t, err)
	assert.Contains(t, out, "Tier table: default")
	assert.Contains(t, out, "$400+")
	assert.Contains(t, out, "[400, inf)")

	hcl := filepath.Join(t.TempDir(), "halves.hcl")
	require.NoError(t, os.WriteFile(hcl, []byte("tier \"low\" { high = 0.5 }\ntier \"high\" {}\n"), 0644))
	out, err = execute(t, "tiers", "--tiers", hcl)
	require.NoError(t, err)
	assert.Contains(t, out, "Tier table: halves")
	assert.Contains(t, out, "[0.5, inf)")
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)
	assert.FileExists(t, path)

	_, err = execute(t, "config", "init", path)
	assert.True(t, errors.IsType(err, errors.TypeConfig))

	_, err = execute(t, "config", "init", "--force", path)
	require.NoError(t, err)

	out, err = execute(t, "config", "show")
	require.NoError(t, err)
	var shown map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Contains(t, shown, "analysis")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "price-tiers version "+Version+"\n", out)
}
