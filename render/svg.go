package render

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/gantt/gantt"
)

const (
	barHeight   = 0.8
	gridColor   = "#b0b0b0"
	gridDashes  = "4,2"
	frameColor  = "#333333"
	textColor   = "#333333"
	titleSize   = 16
	charWidthPx = 7
)

// SVGRenderer draws charts as SVG documents. Row 0 is drawn at the top, so
// the idle row ends up at the bottom.
type SVGRenderer struct {
	Width      int
	Height     int
	FontFamily string
	FontSize   int
	Background string
}

// NewSVGRenderer creates an SVGRenderer of the given size.
func NewSVGRenderer(size Size) *SVGRenderer {
	return &SVGRenderer{
		Width:      size.Width,
		Height:     size.Height,
		FontFamily: "Arial, sans-serif",
		FontSize:   12,
		Background: "#ffffff",
	}
}

type svgGeometry struct {
	left, top     float64
	plotW, plotH  float64
	xMin          int
	xSpan         float64
	numRows       int
	bandH         float64
	width, height float64
}

func newSVGGeometry(r *SVGRenderer, chart *gantt.Chart) svgGeometry {
	longest := 0
	for _, row := range chart.Rows {
		longest = max(longest, len(row.Process))
	}

	g := svgGeometry{
		width:   float64(r.Width),
		height:  float64(r.Height),
		left:    float64(50 + longest*charWidthPx),
		top:     50,
		xMin:    chart.Axis.Min,
		xSpan:   float64(chart.Axis.Max-chart.Axis.Min) + 1,
		numRows: max(len(chart.Rows), 1),
	}

	g.plotW = max(g.width-g.left-30, 1)
	g.plotH = max(g.height-g.top-60, 1)
	g.bandH = g.plotH / float64(g.numRows)

	return g
}

// x maps a time to a pixel column. Times are offset from the axis start
// before the float conversion so large times keep their precision.
func (g svgGeometry) x(t int) float64 {
	return g.left + float64(t-g.xMin)*g.plotW/g.xSpan
}

func (g svgGeometry) rowTop(row int) float64 {
	return g.top + float64(row)*g.bandH
}

func (g svgGeometry) rowCenter(row int) float64 {
	return g.rowTop(row) + g.bandH/2
}

// Render writes the SVG document of the chart.
func (r *SVGRenderer) Render(
	ctx context.Context,
	chart *gantt.Chart,
	w io.Writer,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g := newSVGGeometry(r, chart)

	var svg strings.Builder

	svg.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&svg,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="%s" font-size="%d">`+"\n",
		r.Width, r.Height, r.Width, r.Height,
		escapeXML(r.FontFamily), r.FontSize)
	fmt.Fprintf(&svg, `<rect width="100%%" height="100%%" fill="%s"/>`+"\n",
		r.Background)

	r.drawTitle(&svg, chart, g)
	r.drawGrid(&svg, chart, g)

	if err := r.drawBars(ctx, &svg, chart, g); err != nil {
		return err
	}

	r.drawAxes(&svg, chart, g)

	svg.WriteString("</svg>\n")

	_, err := io.WriteString(w, svg.String())

	return err
}

func (r *SVGRenderer) drawTitle(svg *strings.Builder, chart *gantt.Chart, g svgGeometry) {
	fmt.Fprintf(svg,
		`<text class="title" x="%.2f" y="%.2f" text-anchor="middle" font-size="%d" fill="%s">%s</text>`+"\n",
		g.left+g.plotW/2, g.top/2+titleSize/2, titleSize, textColor,
		escapeXML(chart.Title))
}

func (r *SVGRenderer) drawGrid(svg *strings.Builder, chart *gantt.Chart, g svgGeometry) {
	svg.WriteString(`<g class="grid">` + "\n")

	for _, t := range chart.Ticks() {
		x := g.x(t)
		fmt.Fprintf(svg,
			`<line class="grid-x" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="0.5" stroke-dasharray="%s" stroke-opacity="0.7"/>`+"\n",
			x, g.top, x, g.top+g.plotH, gridColor, gridDashes)
	}

	for _, row := range chart.Rows {
		y := g.rowCenter(row.Index)
		fmt.Fprintf(svg,
			`<line class="grid-y" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="0.5" stroke-dasharray="%s" stroke-opacity="0.7"/>`+"\n",
			g.left, y, g.left+g.plotW, y, gridColor, gridDashes)
	}

	svg.WriteString("</g>\n")
}

func (r *SVGRenderer) drawBars(
	ctx context.Context,
	svg *strings.Builder,
	chart *gantt.Chart,
	g svgGeometry,
) error {
	svg.WriteString(`<g class="bars">` + "\n")

	for i, iv := range chart.Intervals {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		x0 := g.x(iv.Start)
		x1 := g.x(iv.End())
		y := g.rowTop(iv.Row) + g.bandH*(1-barHeight)/2

		fmt.Fprintf(svg,
			`<rect class="bar" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"><title>%s: %d-%d</title></rect>`+"\n",
			x0, y, x1-x0, g.bandH*barHeight, gantt.HexColor(iv.Color),
			escapeXML(chart.Rows[iv.Row].Process), iv.Start, iv.End())
	}

	svg.WriteString("</g>\n")

	return nil
}

func (r *SVGRenderer) drawAxes(svg *strings.Builder, chart *gantt.Chart, g svgGeometry) {
	fmt.Fprintf(svg,
		`<rect class="frame" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s"/>`+"\n",
		g.left, g.top, g.plotW, g.plotH, frameColor)

	bottom := g.top + g.plotH
	for _, t := range chart.Ticks() {
		fmt.Fprintf(svg,
			`<text class="tick-x" x="%.2f" y="%.2f" text-anchor="middle" fill="%s">%d</text>`+"\n",
			g.x(t), bottom+16, textColor, t)
	}

	for _, row := range chart.Rows {
		fmt.Fprintf(svg,
			`<text class="row-label" x="%.2f" y="%.2f" text-anchor="end" dominant-baseline="middle" fill="%s">%s</text>`+"\n",
			g.left-8, g.rowCenter(row.Index), textColor, escapeXML(row.Process))
	}

	fmt.Fprintf(svg,
		`<text class="x-label" x="%.2f" y="%.2f" text-anchor="middle" fill="%s">%s</text>`+"\n",
		g.left+g.plotW/2, bottom+42, textColor, escapeXML(chart.XLabel))

	ly := g.top + g.plotH/2
	fmt.Fprintf(svg,
		`<text class="y-label" x="%.2f" y="%.2f" text-anchor="middle" transform="rotate(-90 %.2f %.2f)" fill="%s">%s</text>`+"\n",
		float64(18), ly, float64(18), ly, textColor, escapeXML(chart.YLabel))
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
