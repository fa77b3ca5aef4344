// Package tier - HCL tier table files
package tier

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"

	"price-tiers/internal/errors"
)

// fileSchema is the top level of a tier file:
//
//	name = "coarse"
//	tier "< $50" { high = 50 }
//	tier "$50+"  { low = 50 }
var fileSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "name"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "tier", LabelNames: []string{"label"}},
	},
}

var tierSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "low"},
		{Name: "high"},
	},
}

// LoadHCL reads a tier table from an HCL file
func LoadHCL(path string) (*Table, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeConfig, err, "failed to read tier file %s", path)
	}
	return ParseHCL(src, path)
}

// ParseHCL parses a tier table. A tier's low defaults to the previous tier's
// high (0 for the first); a tier without high is open-ended.
func ParseHCL(src []byte, filename string) (*Table, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagError(filename, diags)
	}

	content, diags := file.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, diagError(filename, diags)
	}

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if attr, ok := content.Attributes["name"]; ok {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diagError(filename, diags)
		}
		if val.IsNull() || !val.IsKnown() || val.Type() != cty.String {
			return nil, errors.Newf(errors.TypeConfig, "%s: name must be a string", filename)
		}
		name = val.AsString()
	}

	intervals := make([]Interval, 0, len(content.Blocks))
	prevHigh := decimal.Zero
	for _, block := range content.Blocks {
		label := block.Labels[0]
		body, diags := block.Body.Content(tierSchema)
		if diags.HasErrors() {
			return nil, diagError(filename, diags)
		}

		iv := Interval{Label: label, Low: prevHigh, Unbounded: true}
		if attr, ok := body.Attributes["low"]; ok {
			low, err := numberAttr(filename, label, attr)
			if err != nil {
				return nil, err
			}
			iv.Low = low
		}
		if attr, ok := body.Attributes["high"]; ok {
			high, err := numberAttr(filename, label, attr)
			if err != nil {
				return nil, err
			}
			iv.High = high
			iv.Unbounded = false
		}

		intervals = append(intervals, iv)
		prevHigh = iv.High
	}

	return NewTable(name, intervals)
}

func numberAttr(filename, label string, attr *hcl.Attribute) (decimal.Decimal, error) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return decimal.Zero, diagError(filename, diags)
	}
	if val.IsNull() || !val.IsKnown() || val.Type() != cty.Number {
		return decimal.Zero, errors.Newf(errors.TypeConfig,
			"%s: tier %q: %s must be a number", filename, label, attr.Name).
			WithContext("line", attr.Range.Start.Line)
	}
	d, err := decimal.NewFromString(val.AsBigFloat().Text('f', -1))
	if err != nil {
		return decimal.Zero, errors.Wrapf(errors.TypeConfig, err, "%s: tier %q: bad %s", filename, label, attr.Name)
	}
	return d, nil
}

func diagError(filename string, diags hcl.Diagnostics) error {
	line := 0
	for _, diag := range diags {
		if diag.Severity == hcl.DiagError && diag.Subject != nil {
			line = diag.Subject.Start.Line
			break
		}
	}
	return errors.Wrapf(errors.TypeConfig, diags, "invalid tier file %s", filename).
		WithContext("line", line)
}
