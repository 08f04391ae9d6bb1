package gantt

import (
	"github.com/sarchlab/gantt/tracing"
)

// A Row is one horizontal lane of the chart.
type Row struct {
	Process string `json:"process"`
	Index   int    `json:"index"`
}

// RowLayout maps processes to rows.
type RowLayout struct {
	rows    []Row
	index   map[string]int
	idleRow int
}

// AssignRows gives every distinct process of the trace a row. Processes keep
// the order of their first appearance. The idle process, if it appears at
// all, is placed on the last row.
func AssignRows(records []tracing.Record, idleProcess string) (*RowLayout, error) {
	if len(records) == 0 {
		return nil, tracing.ErrEmptyTrace
	}

	layout := &RowLayout{
		index:   make(map[string]int),
		idleRow: -1,
	}

	sawIdle := false
	for _, r := range records {
		if r.Process == idleProcess {
			sawIdle = true
			continue
		}

		layout.add(r.Process)
	}

	if sawIdle {
		layout.idleRow = layout.add(idleProcess)
	}

	return layout, nil
}

func (l *RowLayout) add(process string) int {
	if index, ok := l.index[process]; ok {
		return index
	}

	index := len(l.rows)
	l.rows = append(l.rows, Row{Process: process, Index: index})
	l.index[process] = index

	return index
}

// Rows returns the rows in index order.
func (l *RowLayout) Rows() []Row {
	rows := make([]Row, len(l.rows))
	copy(rows, l.rows)

	return rows
}

// Len returns the number of rows.
func (l *RowLayout) Len() int {
	return len(l.rows)
}

// Lookup returns the row of a process.
func (l *RowLayout) Lookup(process string) (int, bool) {
	index, ok := l.index[process]
	return index, ok
}

// IdleRow returns the row of the idle process, or -1 if the trace never
// idles.
func (l *RowLayout) IdleRow() int {
	return l.idleRow
}

// IsIdle tells if a row belongs to the idle process.
func (l *RowLayout) IsIdle(row int) bool {
	return l.idleRow >= 0 && row == l.idleRow
}

// Labels returns the process names in row order.
func (l *RowLayout) Labels() []string {
	labels := make([]string, len(l.rows))
	for i, r := range l.rows {
		labels[i] = r.Process
	}

	return labels
}
