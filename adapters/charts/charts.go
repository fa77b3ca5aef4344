// Package charts renders the tier summary as PNG charts.
// Every chart is categorical: one x tick per tier, in the order the view
// requires. Undefined ratios are skipped rather than drawn as zero.
package charts

import (
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.uber.org/zap"

	"price-tiers/core/types"
	"price-tiers/internal/errors"
	"price-tiers/internal/logging"
)

// Output file names written by WriteAll
const (
	ProfitFile = "profit_by_tier.png"
	SharesFile = "share_by_tier.png"
	MarginFile = "margin_by_tier.png"
)

var (
	colorProfit       = drawing.ColorFromHex("2ecc71")
	colorPerUnit      = drawing.ColorFromHex("e74c3c")
	colorRevenueShare = drawing.ColorFromHex("3498db")
	colorProfitShare  = drawing.ColorFromHex("9b59b6")
	colorMargin       = drawing.ColorFromHex("27ae60")
)

// Renderer draws charts at a fixed size
type Renderer struct {
	Width  int
	Height int
}

// New creates a renderer; non-positive sizes fall back to 1280x640
func New(width, height int) *Renderer {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 640
	}
	return &Renderer{Width: width, Height: height}
}

// metric extracts one plotted value from a row; NaN means undefined
type metric func(types.TierSummary) float64

// lineStyle draws a line with dots
func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2.5,
		DotColor:    col,
		DotWidth:    5,
	}
}

// series builds a continuous series over tier positions, skipping undefined values.
// ok is false when no value is defined.
func series(name string, rows []types.TierSummary, value metric, col drawing.Color) (chart.ContinuousSeries, []float64, bool) {
	var xs, ys []float64
	for i, row := range rows {
		v := value(row)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, v)
	}
	s := chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style:   lineStyle(col),
	}
	return s, ys, len(ys) > 0
}

// tierAxis labels each position with its tier. go-chart derives the x range
// from the tick extremes, so unlabeled ticks pin it to [-0.5, n-0.5] and keep
// a single tier drawable.
func tierAxis(rows []types.TierSummary) chart.XAxis {
	low, high := -0.5, float64(len(rows))-0.5
	ticks := []chart.Tick{{Value: low}}
	ticks = append(ticks, lo.Map(rows, func(row types.TierSummary, i int) chart.Tick {
		return chart.Tick{Value: float64(i), Label: row.Tier.Label}
	})...)
	ticks = append(ticks, chart.Tick{Value: high})
	return chart.XAxis{
		Name:  "Price Segment",
		Ticks: ticks,
		Range: &chart.ContinuousRange{Min: low, Max: high},
	}
}

// valueRange spans values with pad added on each side. A degenerate span is
// widened to keep the axis drawable.
func valueRange(values []float64, pad float64, includeZero bool) *chart.ContinuousRange {
	low, high := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		low = math.Min(low, v)
		high = math.Max(high, v)
	}
	if math.IsInf(low, 1) {
		low, high = 0, 0
	}
	if includeZero {
		low = math.Min(low, 0)
		high = math.Max(high, 0)
	}
	low, high = low-pad, high+pad
	if high <= low {
		low, high = low-1, high+1
	}
	return &chart.ContinuousRange{Min: low, Max: high}
}

// headroom pads a range by a tenth of its span
func headroom(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	span := lo.Max(values) - lo.Min(values)
	if span == 0 {
		span = math.Abs(values[0])
	}
	return span / 10
}

func (r *Renderer) base(title string, rows []types.TierSummary) chart.Chart {
	return chart.Chart{
		Title:      title,
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      tierAxis(rows),
	}
}

func render(ch chart.Chart, w io.Writer) error {
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	if err := ch.Render(chart.PNG, w); err != nil {
		return errors.Render("failed to render chart "+ch.Title, err)
	}
	return nil
}

func nothingToPlot(title string) error {
	return errors.Newf(errors.TypeInput, "%s: no defined values to plot", title)
}

// Profit draws total profit per tier with profit per unit on a secondary axis,
// most profitable tier first.
func (r *Renderer) Profit(w io.Writer, table *types.ResultTable) error {
	const title = "Total Profit by Price Segment"
	rows := table.ByProfitDescending()

	profit, profitValues, ok := series("Total Profit ($)", rows, func(s types.TierSummary) float64 {
		return s.TotalProfit.InexactFloat64()
	}, colorProfit)
	if !ok {
		return nothingToPlot(title)
	}

	ch := r.base(title, rows)
	ch.YAxis = chart.YAxis{
		Name:  "Total Profit ($)",
		Range: valueRange(profitValues, headroom(profitValues), true),
	}
	ch.Series = []chart.Series{profit}

	perUnit, perUnitValues, ok := series("Profit per Unit ($)", rows, func(s types.TierSummary) float64 {
		return s.ProfitPerUnit.Float64()
	}, colorPerUnit)
	if ok {
		perUnit.YAxis = chart.YAxisSecondary
		ch.YAxisSecondary = chart.YAxis{
			Name:  "Profit per Unit ($)",
			Range: valueRange(perUnitValues, headroom(perUnitValues), true),
		}
		ch.Series = append(ch.Series, perUnit)
	}

	return render(ch, w)
}

// Shares draws revenue share against profit share, lowest revenue tier first
func (r *Renderer) Shares(w io.Writer, table *types.ResultTable) error {
	const title = "Revenue vs Profit Share by Price Segment"
	rows := table.ByRevenueAscending()

	revenue, revenueValues, revOK := series("Revenue Share %", rows, func(s types.TierSummary) float64 {
		return s.RevenueSharePct.Float64()
	}, colorRevenueShare)
	profit, profitValues, profitOK := series("Profit Share %", rows, func(s types.TierSummary) float64 {
		return s.ProfitSharePct.Float64()
	}, colorProfitShare)
	if !revOK && !profitOK {
		return nothingToPlot(title)
	}

	ch := r.base(title, rows)
	all := append(append([]float64{}, revenueValues...), profitValues...)
	ch.YAxis = chart.YAxis{
		Name:  "Percentage of Total (%)",
		Range: valueRange(all, headroom(all), true),
	}
	if revOK {
		ch.Series = append(ch.Series, revenue)
	}
	if profitOK {
		ch.Series = append(ch.Series, profit)
	}

	return render(ch, w)
}

// Margin draws gross margin across tiers in price order with one point of
// headroom above and below
func (r *Renderer) Margin(w io.Writer, table *types.ResultTable) error {
	const title = "Gross Margin % Across Price Segments"
	rows := table.ByTierOrder()

	margin, values, ok := series("Gross Margin (%)", rows, func(s types.TierSummary) float64 {
		return s.MarginPct.Float64()
	}, colorMargin)
	if !ok {
		return nothingToPlot(title)
	}

	ch := r.base(title, rows)
	ch.YAxis = chart.YAxis{
		Name:  "Gross Margin (%)",
		Range: valueRange(values, 1, false),
	}
	ch.Series = []chart.Series{margin}

	return render(ch, w)
}

// WriteAll renders every chart into dir and returns the paths written.
// Charts without any defined value are skipped with a warning.
func (r *Renderer) WriteAll(dir string, table *types.ResultTable) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(errors.TypeRender, err, "failed to create chart directory %s", dir)
	}

	charts := []struct {
		file string
		draw func(io.Writer, *types.ResultTable) error
	}{
		{ProfitFile, r.Profit},
		{SharesFile, r.Shares},
		{MarginFile, r.Margin},
	}

	var written []string
	for _, c := range charts {
		var buf bytes.Buffer
		if err := c.draw(&buf, table); err != nil {
			if errors.IsType(err, errors.TypeInput) {
				logging.Warn("Skipping chart", zap.String("file", c.file), zap.Error(err))
				continue
			}
			return written, err
		}

		path := filepath.Join(dir, c.file)
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return written, errors.Wrapf(errors.TypeRender, err, "failed to write %s", path)
		}
		logging.Debug("Wrote chart", zap.String("path", path), zap.Int("bytes", buf.Len()))
		written = append(written, path)
	}
	return written, nil
}
