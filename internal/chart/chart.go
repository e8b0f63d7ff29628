// Package chart renders the diagnostic plots of the summary analyses and the trend models.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"
	"time"

	"github.com/snowline/s1snow/schema"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoData is returned when a plot would have nothing to draw.
var ErrNoData = errors.New("nothing to plot")

// heatColors is the number of palette steps of the elevation bin heat map.
const heatColors = 64

// Colors of the two onset targets in the trend plot.
var (
	runoffColor   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	ripeningColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// dateTicks labels a time axis whose values are Unix seconds.
var dateTicks = plot.TimeTicks{Format: "2006-01-02"}

// unixSeconds is the axis value of a timestamp.
func unixSeconds(t time.Time) float64 {
	return float64(t.Unix())
}

// binGrid adapts an ElevationBinSeries to plotter.GridXYZ.
// Columns are time steps and rows are bins, lowest first.
type binGrid struct {
	series *schema.ElevationBinSeries
}

func (g binGrid) Dims() (c, r int) {
	return len(g.series.Times), len(g.series.Centers)
}

func (g binGrid) row(r int) int {
	return len(g.series.Centers) - 1 - r
}

func (g binGrid) Z(c, r int) float64 {
	return g.series.Values[g.row(r)][c]
}

func (g binGrid) X(c int) float64 {
	return unixSeconds(g.series.Times[c])
}

func (g binGrid) Y(r int) float64 {
	return g.series.Centers[g.row(r)]
}

// ElevationBins draws a heat map of mean backscatter with time across and elevation up.
func ElevationBins(series *schema.ElevationBinSeries) (*plot.Plot, error) {
	if series == nil || len(series.Times) == 0 || len(series.Centers) == 0 {
		return nil, fmt.Errorf("elevation bins: %w", ErrNoData)
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, values := range series.Values {
		for _, v := range values {
			if schema.IsValid(v) {
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
			}
		}
	}
	if lo > hi {
		return nil, fmt.Errorf("elevation bins: every bin is empty: %w", ErrNoData)
	}

	heat := plotter.NewHeatMap(binGrid{series: series}, moreland.SmoothBlueRed().Palette(heatColors))
	heat.NaN = color.Transparent
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	heat.Min, heat.Max = lo, hi

	p := plot.New()
	p.Title.Text = "Mean backscatter by elevation"
	if series.Normalized {
		p.Title.Text += " (min-max scaled)"
	}
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Elevation (m)"
	p.X.Tick.Marker = dateTicks
	p.Add(heat)
	return p, nil
}

// Hypsometry draws the elevation histogram as one bar per bin.
func Hypsometry(bins []schema.HypsometryBin) (*plot.Plot, error) {
	if len(bins) == 0 {
		return nil, fmt.Errorf("hypsometry: %w", ErrNoData)
	}
	counts := make(plotter.Values, len(bins))
	labels := make([]string, len(bins))
	for i, b := range bins {
		counts[i] = float64(b.Count)
		labels[i] = fmt.Sprintf("%g", (b.Lower+b.Upper)/2)
	}

	bars, err := plotter.NewBarChart(counts, vg.Points(12))
	if err != nil {
		return nil, fmt.Errorf("hypsometry: %w", err)
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = vg.Length(0)

	p := plot.New()
	p.Title.Text = "Hypsometry"
	p.X.Label.Text = "Elevation bin center (m)"
	p.Y.Label.Text = "Cells"
	p.Add(bars)
	p.NominalX(labels...)
	return p, nil
}

// validXYs pairs times with values, dropping no-data samples.
func validXYs(times []time.Time, values []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(values))
	for i, v := range values {
		if i >= len(times) || !schema.IsValid(v) {
			continue
		}
		pts = append(pts, plotter.XY{X: unixSeconds(times[i]), Y: v})
	}
	return pts
}

// Vegetation draws the mean backscatter of each vegetation class over time.
// Classes without a valid sample are left out of the plot and its legend.
func Vegetation(summaries []schema.VegetationSummary) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Mean backscatter by vegetation class"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Backscatter"
	p.X.Tick.Marker = dateTicks

	drawn := 0
	for i, v := range summaries {
		pts := validXYs(v.Times, v.MeanBackscatter)
		if len(pts) == 0 {
			continue
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("vegetation %s: %w", v.Class, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		points.Shape = draw.CircleGlyph{}
		points.Color = plotutil.Color(i)
		p.Add(line, points)
		p.Legend.Add(fmt.Sprintf("%s (%d cells)", v.Class, v.Cells), line, points)
		drawn++
	}
	if drawn == 0 {
		return nil, fmt.Errorf("vegetation: %w", ErrNoData)
	}
	p.Legend.Top = true
	return p, nil
}

// Trend draws observed onset day-of-year against elevation for both targets,
// with each fitted model evaluated at the mean heating index of the table.
func Trend(table *schema.OnsetTable) (*plot.Plot, error) {
	if table == nil || table.Len() == 0 {
		return nil, fmt.Errorf("trend: %w", ErrNoData)
	}
	rows := table.Rows()
	sort.Slice(rows, func(a, b int) bool { return rows[a].Elevation < rows[b].Elevation })

	runoff := make(plotter.XYs, len(rows))
	ripening := make(plotter.XYs, len(rows))
	meanHI := 0.0
	for i, r := range rows {
		runoff[i] = plotter.XY{X: r.Elevation, Y: float64(r.RunoffDayOfYear)}
		ripening[i] = plotter.XY{X: r.Elevation, Y: float64(r.RipeningDayOfYear)}
		meanHI += r.HeatingIndex
	}
	meanHI /= float64(len(rows))
	lo, hi := rows[0].Elevation, rows[len(rows)-1].Elevation

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Onset vs elevation (heating index %.2f)", meanHI)
	p.X.Label.Text = "Elevation (m)"
	p.Y.Label.Text = "Day of year"

	series := []struct {
		fit schema.TrendFit
		pts plotter.XYs
		col color.Color
	}{
		{table.Runoff, runoff, runoffColor},
		{table.Ripening, ripening, ripeningColor},
	}
	for _, s := range series {
		scatter, err := plotter.NewScatter(s.pts)
		if err != nil {
			return nil, fmt.Errorf("trend %s: %w", s.fit.Target, err)
		}
		scatter.Shape = draw.CircleGlyph{}
		scatter.Color = s.col
		scatter.Radius = vg.Points(1.5)

		model := plotter.XYs{
			{X: lo, Y: s.fit.Predict(lo, meanHI)},
			{X: hi, Y: s.fit.Predict(hi, meanHI)},
		}
		line, err := plotter.NewLine(model)
		if err != nil {
			return nil, fmt.Errorf("trend %s: %w", s.fit.Target, err)
		}
		line.Color = s.col
		line.Width = vg.Points(1.5)

		p.Add(scatter, line)
		p.Legend.Add(fmt.Sprintf("%s (R² %.2f)", s.fit.Target, s.fit.RSquared), scatter, line)
	}
	p.Legend.Top = true
	return p, nil
}

// Save writes the plot to path. The image format follows the file extension.
func Save(p *plot.Plot, widthCm, heightCm float64, path string) error {
	if widthCm <= 0 || heightCm <= 0 {
		return fmt.Errorf("plot size must be positive (got %gx%g cm)", widthCm, heightCm)
	}
	if err := p.Save(vg.Length(widthCm)*vg.Centimeter, vg.Length(heightCm)*vg.Centimeter, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}
