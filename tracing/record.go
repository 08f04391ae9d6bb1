package tracing

import "math"

// DefaultIdleProcess is the process name the scheduler writes for the time
// slots in which no process held the CPU.
const DefaultIdleProcess = "Idle"

// Column names of a tabular trace.
const (
	TimeColumn    = "Time"
	ProcessColumn = "Process"
)

// MaxTime is the latest slot a record may start at. A slot covers
// [Time, Time+1), so Time+1 must still fit in an int.
const MaxTime = math.MaxInt - 1

// A Record says which process was running during one unit time slot.
type Record struct {
	Time    int    `json:"time"`
	Process string `json:"process"`
}

// IsIdle returns true if the record marks a slot in which the CPU was idle.
func (r Record) IsIdle(idleProcess string) bool {
	return r.Process == idleProcess
}
