package render

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/sarchlab/gantt/gantt"
)

const pixelsPerInch = 100

// PlotRenderer draws charts with gonum/plot, which supports raster and
// vector formats.
type PlotRenderer struct {
	Format Format
	Size   Size
}

// NewPlotRenderer creates a PlotRenderer.
func NewPlotRenderer(format Format, size Size) *PlotRenderer {
	return &PlotRenderer{Format: format, Size: size}
}

// Render draws the chart in the renderer's format.
func (r *PlotRenderer) Render(
	ctx context.Context,
	chart *gantt.Chart,
	w io.Writer,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p := r.buildPlot(chart)

	width := vg.Length(float64(r.Size.Width)/pixelsPerInch) * vg.Inch
	height := vg.Length(float64(r.Size.Height)/pixelsPerInch) * vg.Inch

	wt, err := p.WriterTo(width, height, string(r.Format))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	_, err = wt.WriteTo(w)

	return err
}

func (r *PlotRenderer) buildPlot(chart *gantt.Chart) *plot.Plot {
	p := plot.New()
	p.Title.Text = chart.Title
	p.X.Label.Text = chart.XLabel
	p.Y.Label.Text = chart.YLabel

	grid := plotter.NewGrid()
	for _, line := range []*draw.LineStyle{&grid.Vertical, &grid.Horizontal} {
		line.Color = color.Gray{Y: 0xb0}
		line.Width = vg.Points(0.5)
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	}

	bars := &barPlotter{chart: chart}
	p.Add(grid, bars)

	p.X.Min, p.X.Max, p.Y.Min, p.Y.Max = bars.DataRange()
	p.X.Tick.Marker = plot.ConstantTicks(timeTicks(chart))
	p.Y.Tick.Marker = plot.ConstantTicks(rowTicks(chart))

	return p
}

func timeTicks(chart *gantt.Chart) []plot.Tick {
	ticks := make([]plot.Tick, 0, chart.Axis.TickCount())
	for _, t := range chart.Ticks() {
		ticks = append(ticks, plot.Tick{
			Value: xOffset(chart, t),
			Label: strconv.Itoa(t),
		})
	}

	return ticks
}

func rowTicks(chart *gantt.Chart) []plot.Tick {
	ticks := make([]plot.Tick, 0, len(chart.Rows))
	for _, row := range chart.Rows {
		ticks = append(ticks, plot.Tick{
			Value: rowBase(chart, row.Index) + barHeight/2,
			Label: row.Process,
		})
	}

	return ticks
}

// xOffset places times relative to the axis start, so the plot stays exact
// for times too large for a float64 to tell apart.
func xOffset(chart *gantt.Chart, t int) float64 {
	return float64(t - chart.Axis.Min)
}

// rowBase returns the y value at the bottom of a row's bar. The plot's y axis
// grows upwards, so row 0 gets the largest value to stay on top.
func rowBase(chart *gantt.Chart, row int) float64 {
	return float64(len(chart.Rows)-1-row) + (1-barHeight)/2
}

type barPlotter struct {
	chart *gantt.Chart
}

// Plot implements plot.Plotter.
func (b *barPlotter) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)

	for _, iv := range b.chart.Intervals {
		x0 := trX(xOffset(b.chart, iv.Start))
		x1 := trX(xOffset(b.chart, iv.End()))
		y0 := trY(rowBase(b.chart, iv.Row))
		y1 := trY(rowBase(b.chart, iv.Row) + barHeight)

		pts := []vg.Point{
			{X: x0, Y: y0},
			{X: x1, Y: y0},
			{X: x1, Y: y1},
			{X: x0, Y: y1},
		}
		c.FillPolygon(iv.Color, c.ClipPolygonXY(pts))
	}
}

// DataRange implements plot.DataRanger.
func (b *barPlotter) DataRange() (xmin, xmax, ymin, ymax float64) {
	return 0,
		xOffset(b.chart, b.chart.Axis.Max) + 1,
		0,
		float64(len(b.chart.Rows))
}
