package tracing

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	// Need to use MySQL connections.
	_ "github.com/go-sql-driver/mysql"

	"github.com/viant/afs"
)

const (
	sqliteScheme = "sqlite://"
	mysqlScheme  = "mysql://"
)

// SourceOptions tunes how Open resolves a trace location.
type SourceOptions struct {
	// Table is the trace table of SQL sources. Empty means DefaultTable.
	Table string

	// FS fetches CSV traces. Nil means afs.New().
	FS afs.Service
}

// Open resolves a trace location into a TraceReader. The location can be
//
//   - sqlite://path, or a path ending with .sqlite, .sqlite3 or .db, for a
//     SQLite database;
//   - mysql://dsn for a MySQL database, with dsn in go-sql-driver format;
//   - anything else for a CSV file, fetched through afs, so local paths,
//     file:// and the other afs schemes all work.
//
// Open does not touch the location. Every ReadAll opens it, reads the whole
// trace and releases it again.
func Open(location string, opts SourceOptions) (TraceReader, error) {
	if strings.TrimSpace(location) == "" {
		return nil, fmt.Errorf("%w: empty trace location", ErrMissingFile)
	}

	table := opts.Table
	if table == "" {
		table = DefaultTable
	}

	if err := checkTableName(table); err != nil {
		return nil, err
	}

	switch {
	case strings.HasPrefix(location, mysqlScheme):
		return &sqlSource{
			driver: "mysql",
			dsn:    strings.TrimPrefix(location, mysqlScheme),
			table:  table,
		}, nil
	case strings.HasPrefix(location, sqliteScheme):
		return &sqlSource{
			driver: "sqlite3",
			dsn:    strings.TrimPrefix(location, sqliteScheme),
			table:  table,
		}, nil
	case IsSQLitePath(location):
		return &sqlSource{driver: "sqlite3", dsn: location, table: table}, nil
	}

	fs := opts.FS
	if fs == nil {
		fs = afs.New()
	}

	return &csvSource{fs: fs, url: normalizeURL(location)}, nil
}

// IsSQLitePath tells if a path names a SQLite database by its extension.
func IsSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sqlite", ".sqlite3", ".db":
		return true
	}

	return strings.HasPrefix(path, sqliteScheme)
}

// SQLitePath strips the sqlite:// scheme from a location, if present.
func SQLitePath(location string) string {
	return strings.TrimPrefix(location, sqliteScheme)
}

func normalizeURL(location string) string {
	if strings.Contains(location, "://") {
		return location
	}

	abs, err := filepath.Abs(location)
	if err != nil {
		return location
	}

	return abs
}

type csvSource struct {
	fs  afs.Service
	url string
}

func (s *csvSource) ReadAll(ctx context.Context) ([]Record, error) {
	exists, err := s.fs.Exists(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingFile, s.url, err)
	}

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrMissingFile, s.url)
	}

	data, err := s.fs.DownloadWithURL(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingFile, s.url, err)
	}

	return NewCSVTraceReader(bytes.NewReader(data)).ReadAll(ctx)
}

func (s *csvSource) String() string {
	return s.url
}

type sqlSource struct {
	driver string
	dsn    string
	table  string
}

func (s *sqlSource) ReadAll(ctx context.Context) ([]Record, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return NewSQLTraceReader(db, s.table).ReadAll(ctx)
}

func (s *sqlSource) open(ctx context.Context) (*sql.DB, error) {
	if s.driver == "sqlite3" {
		return openSQLiteReadOnly(s.dsn)
	}

	db, err := sql.Open(s.driver, s.dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingFile, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrMissingFile, err)
	}

	return db, nil
}

func (s *sqlSource) String() string {
	return s.driver + ":" + s.table
}

// Create returns an uninitialized TraceWriter for a location. SQLite
// locations, as recognized by Open, get a SQLiteTraceWriter on the given
// table and everything else a CSVTraceWriter. Only local files are supported.
func Create(location string, table string) (TraceWriter, error) {
	if strings.TrimSpace(location) == "" {
		return nil, fmt.Errorf("empty trace location")
	}

	if strings.HasPrefix(location, mysqlScheme) {
		return nil, fmt.Errorf("writing traces to MySQL is not supported")
	}

	if IsSQLitePath(location) {
		w := NewSQLiteTraceWriter(SQLitePath(location))
		if table != "" {
			w.WithTable(table)
		}

		return w, nil
	}

	return NewCSVTraceWriter(location), nil
}
