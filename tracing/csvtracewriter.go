package tracing

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/tebeka/atexit"
)

// CSVTraceWriter stores records into a CSV file with a Time,Process header.
type CSVTraceWriter struct {
	path   string
	file   *os.File
	writer *csv.Writer

	records    []Record
	bufferSize int
}

// NewCSVTraceWriter creates a new CSVTraceWriter.
func NewCSVTraceWriter(path string) *CSVTraceWriter {
	return &CSVTraceWriter{
		path:       path,
		bufferSize: 1000,
	}
}

// Init creates the csv file and writes the header. If the file already
// exists, it will be overwritten. Buffered records are flushed when the
// program exits through atexit. On failure the file is closed again.
func (t *CSVTraceWriter) Init() error {
	file, err := os.Create(t.path)
	if err != nil {
		return fmt.Errorf("creating csv trace %s: %w", t.path, err)
	}

	writer := csv.NewWriter(file)

	_ = writer.Write([]string{TimeColumn, ProcessColumn})
	writer.Flush()

	if err := writer.Error(); err != nil {
		_ = file.Close()
		return fmt.Errorf("writing csv trace header %s: %w", t.path, err)
	}

	t.file = file
	t.writer = writer

	atexit.Register(func() {
		_ = t.Close()
	})

	return nil
}

// Write buffers a record.
func (t *CSVTraceWriter) Write(record Record) error {
	t.records = append(t.records, record)
	if len(t.records) >= t.bufferSize {
		return t.Flush()
	}

	return nil
}

// Flush writes the buffered records to the file.
func (t *CSVTraceWriter) Flush() error {
	if t.writer == nil {
		return nil
	}

	for _, record := range t.records {
		err := t.writer.Write([]string{
			strconv.Itoa(record.Time),
			record.Process,
		})
		if err != nil {
			return err
		}
	}

	t.records = nil
	t.writer.Flush()

	return t.writer.Error()
}

// Close flushes the remaining records and closes the file. Calling Close more
// than once is allowed.
func (t *CSVTraceWriter) Close() error {
	if t.file == nil {
		return nil
	}

	flushErr := t.Flush()
	closeErr := t.file.Close()
	t.file = nil
	t.writer = nil

	if flushErr != nil {
		return flushErr
	}

	return closeErr
}
