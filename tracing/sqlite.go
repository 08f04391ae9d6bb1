package tracing

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"regexp"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/tebeka/atexit"
)

// DefaultTable is the table that holds the trace in a SQL database.
const DefaultTable = "gantt_trace"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkTableName(table string) error {
	if !tableNamePattern.MatchString(table) {
		return fmt.Errorf("invalid trace table name %q", table)
	}

	return nil
}

// SQLTraceReader reads a trace from a table with the columns seq, time and
// process. Rows are returned in seq order.
type SQLTraceReader struct {
	db    *sql.DB
	table string
}

// NewSQLTraceReader creates a SQLTraceReader on an open database. An empty
// table name selects DefaultTable.
func NewSQLTraceReader(db *sql.DB, table string) *SQLTraceReader {
	if table == "" {
		table = DefaultTable
	}

	return &SQLTraceReader{db: db, table: table}
}

// ReadAll queries the whole trace table.
func (r *SQLTraceReader) ReadAll(ctx context.Context) ([]Record, error) {
	if err := checkTableName(r.table); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"SELECT time, process FROM %s ORDER BY seq", r.table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying trace table %s: %w", r.table, err)
	}
	defer rows.Close()

	var records []Record

	line := 0
	for rows.Next() {
		line++

		var (
			time    sql.NullInt64
			process sql.NullString
		)

		if err := rows.Scan(&time, &process); err != nil {
			return nil, malformed(line, "%v", err)
		}

		if !time.Valid {
			return nil, malformed(line, "time is null")
		}

		if time.Int64 < 0 {
			return nil, malformed(line, "time %d is negative", time.Int64)
		}

		if time.Int64 > int64(MaxTime) {
			return nil, malformed(line, "time %d is too large", time.Int64)
		}

		if !process.Valid || process.String == "" {
			return nil, malformed(line, "process is empty")
		}

		records = append(records, Record{
			Time:    int(time.Int64),
			Process: process.String,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading trace table %s: %w", r.table, err)
	}

	if len(records) == 0 {
		return nil, ErrEmptyTrace
	}

	return records, nil
}

// SQLiteTraceWriter is a writer that writes trace records to a SQLite
// database.
type SQLiteTraceWriter struct {
	*sql.DB

	statement *sql.Stmt

	path      string
	table     string
	pending   []Record
	seq       int
	batchSize int
}

// NewSQLiteTraceWriter creates a new SQLiteTraceWriter.
func NewSQLiteTraceWriter(path string) *SQLiteTraceWriter {
	return &SQLiteTraceWriter{
		path:      path,
		table:     DefaultTable,
		batchSize: 10000,
	}
}

// WithTable sets the table that receives the records.
func (t *SQLiteTraceWriter) WithTable(table string) *SQLiteTraceWriter {
	t.table = table
	return t
}

// Init opens the database and creates the trace table. An existing trace
// table is replaced.
func (t *SQLiteTraceWriter) Init() error {
	if err := checkTableName(t.table); err != nil {
		return err
	}

	db, err := sql.Open("sqlite3", t.path)
	if err != nil {
		return fmt.Errorf("opening sqlite trace %s: %w", t.path, err)
	}

	t.DB = db

	err = t.createTable()
	if err == nil {
		t.statement, err = t.Prepare(fmt.Sprintf(
			"INSERT INTO %s (seq, time, process) VALUES (?, ?, ?)", t.table))
	}

	if err != nil {
		_ = db.Close()
		t.DB = nil

		return err
	}

	atexit.Register(func() {
		_ = t.Close()
	})

	return nil
}

func (t *SQLiteTraceWriter) createTable() error {
	statements := []string{
		fmt.Sprintf("DROP TABLE IF EXISTS %s", t.table),
		fmt.Sprintf(`
			CREATE TABLE %s
			(
				seq     INTEGER PRIMARY KEY,
				time    INTEGER NOT NULL,
				process TEXT    NOT NULL
			)`, t.table),
		fmt.Sprintf(
			"CREATE INDEX %s_process_index ON %s (process)", t.table, t.table),
	}

	for _, s := range statements {
		if _, err := t.Exec(s); err != nil {
			return fmt.Errorf("creating trace table %s: %w", t.table, err)
		}
	}

	return nil
}

// Write buffers a record.
func (t *SQLiteTraceWriter) Write(record Record) error {
	t.pending = append(t.pending, record)
	if len(t.pending) >= t.batchSize {
		return t.Flush()
	}

	return nil
}

// Flush writes all the buffered records in one transaction.
func (t *SQLiteTraceWriter) Flush() error {
	if len(t.pending) == 0 || t.DB == nil {
		return nil
	}

	tx, err := t.Begin()
	if err != nil {
		return err
	}

	stmt := tx.Stmt(t.statement)
	for _, record := range t.pending {
		t.seq++

		_, err := stmt.Exec(t.seq, record.Time, record.Process)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("inserting record %+v: %w", record, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	t.pending = nil

	return nil
}

// Close flushes the remaining records and closes the database. Calling Close
// more than once is allowed.
func (t *SQLiteTraceWriter) Close() error {
	if t.DB == nil {
		return nil
	}

	flushErr := t.Flush()

	if t.statement != nil {
		_ = t.statement.Close()
	}

	closeErr := t.DB.Close()
	t.DB = nil

	if flushErr != nil {
		return flushErr
	}

	return closeErr
}

func openSQLiteReadOnly(path string) (*sql.DB, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingFile, err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrMissingFile, path)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingFile, err)
	}

	return db, nil
}
