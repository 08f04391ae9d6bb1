// Package gantt turns a CPU scheduling trace into the rows, bars and axis of
// a Gantt chart.
//
// Every record of the trace becomes one bar of unit length. Bars of the same
// process are never merged, so a process that runs for three slots in a row
// shows up as three abutting bars. Rows follow the order in which processes
// first appear in the trace, except for the idle process, which always takes
// the last row.
package gantt
