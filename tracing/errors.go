package tracing

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingFile is returned when a trace location does not exist or
	// cannot be read.
	ErrMissingFile = errors.New("trace file is missing or unreadable")

	// ErrMalformedRecord is returned when a row of the trace cannot be turned
	// into a Record. Use errors.As with *MalformedRecordError to get the line.
	ErrMalformedRecord = errors.New("malformed trace record")

	// ErrEmptyTrace is returned when a trace holds no records.
	ErrEmptyTrace = errors.New("trace has no records")
)

// MalformedRecordError tells which row of a trace could not be parsed.
type MalformedRecordError struct {
	// Line is the 1-based line of a CSV file or the 1-based row of a table.
	Line   int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s at line %d: %s", ErrMalformedRecord, e.Line, e.Reason)
}

// Unwrap makes errors.Is(err, ErrMalformedRecord) hold.
func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}

func malformed(line int, format string, args ...any) error {
	return &MalformedRecordError{
		Line:   line,
		Reason: fmt.Sprintf(format, args...),
	}
}
