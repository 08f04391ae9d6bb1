package gantt

import (
	"github.com/sarchlab/gantt/tracing"
)

// Default chart labels.
const (
	DefaultTitle  = "Gantt Chart for Round Robin Scheduling"
	DefaultXLabel = "Time"
	DefaultYLabel = "Processes"
)

// Options controls how a trace becomes a chart.
type Options struct {
	IdleProcess string
	Palette     Palette
	Title       string
	XLabel      string
	YLabel      string
}

// DefaultOptions returns the options with the default idle process, palette
// and labels.
func DefaultOptions() Options {
	return Options{
		IdleProcess: tracing.DefaultIdleProcess,
		Palette:     DefaultPalette(),
		Title:       DefaultTitle,
		XLabel:      DefaultXLabel,
		YLabel:      DefaultYLabel,
	}
}

// A Chart is everything a renderer needs to draw a trace.
type Chart struct {
	Title       string     `json:"title"`
	XLabel      string     `json:"x_label"`
	YLabel      string     `json:"y_label"`
	IdleProcess string     `json:"idle_process"`
	Rows        []Row      `json:"rows"`
	IdleRow     int        `json:"idle_row"`
	Intervals   []Interval `json:"intervals"`
	Axis        AxisRange  `json:"axis"`
}

// Build assigns rows, builds the bars and computes the axis of a trace.
func Build(records []tracing.Record, opts Options) (*Chart, error) {
	if opts.Palette.Size() == 0 {
		opts.Palette = DefaultPalette()
	}

	layout, err := AssignRows(records, opts.IdleProcess)
	if err != nil {
		return nil, err
	}

	intervals, err := BuildIntervals(
		records, layout, opts.Palette.Assignment(layout))
	if err != nil {
		return nil, err
	}

	axis, err := ComputeAxis(records)
	if err != nil {
		return nil, err
	}

	return &Chart{
		Title:       opts.Title,
		XLabel:      opts.XLabel,
		YLabel:      opts.YLabel,
		IdleProcess: opts.IdleProcess,
		Rows:        layout.Rows(),
		IdleRow:     layout.IdleRow(),
		Intervals:   intervals,
		Axis:        axis,
	}, nil
}

// Ticks returns the x-axis tick positions.
func (c *Chart) Ticks() []int {
	return c.Axis.Ticks()
}

// IsIdleRow tells if a row belongs to the idle process.
func (c *Chart) IsIdleRow(row int) bool {
	return c.IdleRow >= 0 && row == c.IdleRow
}

// Labels returns the process names in row order.
func (c *Chart) Labels() []string {
	labels := make([]string, len(c.Rows))
	for i, r := range c.Rows {
		labels[i] = r.Process
	}

	return labels
}
