package tracing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CSVTraceReader parses a trace stored as CSV. The first line must name the
// columns. The Time and Process columns may appear in any order and other
// columns are ignored.
type CSVTraceReader struct {
	r io.Reader
}

// NewCSVTraceReader creates a CSVTraceReader that reads from r.
func NewCSVTraceReader(r io.Reader) *CSVTraceReader {
	return &CSVTraceReader{r: r}
}

// ReadAll parses every line of the trace. A single bad line fails the whole
// read.
func (t *CSVTraceReader) ReadAll(ctx context.Context) ([]Record, error) {
	reader := csv.NewReader(t.r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyTrace
	}

	if err != nil {
		return nil, convertCSVError(err)
	}

	timeCol, processCol, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	var records []Record

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, convertCSVError(err)
		}

		line, _ := reader.FieldPos(0)

		record, err := parseFields(fields, len(header), timeCol, processCol, line)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, ErrEmptyTrace
	}

	return records, nil
}

func locateColumns(header []string) (timeCol, processCol int, err error) {
	timeCol, processCol = -1, -1

	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))

		switch name {
		case TimeColumn:
			if timeCol >= 0 {
				return 0, 0, malformed(1, "duplicate %q column", name)
			}

			timeCol = i
		case ProcessColumn:
			if processCol >= 0 {
				return 0, 0, malformed(1, "duplicate %q column", name)
			}

			processCol = i
		}
	}

	if timeCol < 0 {
		return 0, 0, malformed(1, "header has no %q column", TimeColumn)
	}

	if processCol < 0 {
		return 0, 0, malformed(1, "header has no %q column", ProcessColumn)
	}

	return timeCol, processCol, nil
}

func parseFields(
	fields []string,
	numColumns int,
	timeCol, processCol int,
	line int,
) (Record, error) {
	if len(fields) != numColumns {
		return Record{}, malformed(line,
			"expected %d fields, got %d", numColumns, len(fields))
	}

	timeStr := strings.TrimSpace(fields[timeCol])

	time, err := strconv.Atoi(timeStr)
	if err != nil {
		return Record{}, malformed(line, "time %q is not an integer", timeStr)
	}

	if time < 0 {
		return Record{}, malformed(line, "time %d is negative", time)
	}

	if time > MaxTime {
		return Record{}, malformed(line, "time %d is too large", time)
	}

	process := strings.TrimSpace(fields[processCol])
	if process == "" {
		return Record{}, malformed(line, "process is empty")
	}

	return Record{Time: time, Process: process}, nil
}

func convertCSVError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return malformed(parseErr.Line, "%v", parseErr.Err)
	}

	return fmt.Errorf("reading csv trace: %w", err)
}
