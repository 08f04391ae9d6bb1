package gantt

import (
	"fmt"
	"image/color"

	"github.com/sarchlab/gantt/tracing"
)

// An Interval is one bar of the chart.
type Interval struct {
	Row    int        `json:"row"`
	Start  int        `json:"start"`
	Length int        `json:"length"`
	Color  color.RGBA `json:"-"`
}

// End returns the time at which the bar stops.
func (i Interval) End() int {
	return i.Start + i.Length
}

// BuildIntervals emits one unit-length interval per record, in trace order.
func BuildIntervals(
	records []tracing.Record,
	layout *RowLayout,
	colors ColorAssignment,
) ([]Interval, error) {
	intervals := make([]Interval, 0, len(records))

	for _, r := range records {
		row, ok := layout.Lookup(r.Process)
		if !ok {
			return nil, fmt.Errorf("process %q at time %d has no row",
				r.Process, r.Time)
		}

		intervals = append(intervals, Interval{
			Row:    row,
			Start:  r.Time,
			Length: 1,
			Color:  colors(row),
		})
	}

	return intervals, nil
}
