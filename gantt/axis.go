package gantt

import "github.com/sarchlab/gantt/tracing"

// AxisRange is the span of time covered by a trace.
type AxisRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ComputeAxis finds the earliest and latest time of the trace.
func ComputeAxis(records []tracing.Record) (AxisRange, error) {
	if len(records) == 0 {
		return AxisRange{}, tracing.ErrEmptyTrace
	}

	axis := AxisRange{Min: records[0].Time, Max: records[0].Time}
	for _, r := range records[1:] {
		axis.Min = min(axis.Min, r.Time)
		axis.Max = max(axis.Max, r.Time)
	}

	return axis, nil
}

// Ticks returns every integer from Min to Max, both included.
func (a AxisRange) Ticks() []int {
	count := a.TickCount()

	ticks := make([]int, 0, count)
	for i := 0; i < count; i++ {
		ticks = append(ticks, a.Min+i)
	}

	return ticks
}

// TickCount returns Max-Min+1.
func (a AxisRange) TickCount() int {
	return a.Max - a.Min + 1
}

// Contains tells if t lies within [Min, Max].
func (a AxisRange) Contains(t int) bool {
	return t >= a.Min && t <= a.Max
}
