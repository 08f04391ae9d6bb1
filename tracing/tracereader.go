package tracing

import "context"

// TraceReader loads a complete trace. Implementations either return every
// record of the trace or an error; they never return a partial trace.
type TraceReader interface {
	ReadAll(ctx context.Context) ([]Record, error)
}

// TraceWriter stores trace records. Records are buffered until Flush or
// Close is called.
type TraceWriter interface {
	Init() error
	Write(record Record) error
	Flush() error
	Close() error
}
