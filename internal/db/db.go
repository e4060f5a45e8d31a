package db

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverModernc = "sqlite"  // modernc.org/sqlite, pure Go
	DriverMattn   = "sqlite3" // github.com/mattn/go-sqlite3, needs cgo
)

// Querier is the subset of *sql.DB a unit of work may use.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB wraps the process-wide sql.DB. All store operations go through Do, which
// runs them one at a time in submission order.
type DB struct {
	conn   *sql.DB
	exec   *executor
	logger *slog.Logger
}

type options struct {
	driver string
	queue  int
}

// Option configures New.
type Option func(*options)

// WithDriver selects the database/sql driver. Empty keeps the default.
func WithDriver(name string) Option {
	return func(o *options) {
		if name != "" {
			o.driver = name
		}
	}
}

// WithQueueSize sets how many units of work may wait for the executor.
func WithQueueSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queue = n
		}
	}
}

// New opens the database at dsn, applies connection pragmas and starts the
// executor.
func New(ctx context.Context, dsn string, logger *slog.Logger, opts ...Option) (*DB, error) {
	o := options{driver: DriverModernc, queue: 64}
	for _, opt := range opts {
		opt(&o)
	}
	if o.driver != DriverModernc && o.driver != DriverMattn {
		return nil, fmt.Errorf("unsupported driver %q", o.driver)
	}

	conn, err := sql.Open(o.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	// One connection: the engine sees a single serialized stream of statements.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}
	if err := applyPragmas(ctx, conn, isMemory(dsn)); err != nil {
		conn.Close()
		return nil, err
	}

	return wrap(conn, logger, o.queue), nil
}

// Wrap adopts an already opened sql.DB, e.g. one built by sqlmock. No
// pragmas are applied.
func Wrap(conn *sql.DB, logger *slog.Logger) *DB {
	return wrap(conn, logger, 64)
}

func wrap(conn *sql.DB, logger *slog.Logger, queue int) *DB {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &DB{conn: conn, exec: newExecutor(logger, queue), logger: logger}
}

func applyPragmas(ctx context.Context, conn *sql.DB, memory bool) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	if !memory {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}

	for _, p := range pragmas {
		if _, err := conn.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("failed to execute %q: %w", p, err)
		}
	}
	return nil
}

func isMemory(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory") || strings.HasPrefix(dsn, "file::memory:")
}

// Do runs fn as one unit of work on the executor and waits for it. If ctx
// ends first Do returns ctx.Err(), but a unit that was already queued still
// runs to completion with a context that is not canceled.
func (db *DB) Do(ctx context.Context, fn func(ctx context.Context, q Querier) error) error {
	return db.exec.submit(ctx, func(ctx context.Context) error {
		return fn(ctx, db.conn)
	})
}

// Close stops the executor after the queued units ran, then closes the
// connection.
func (db *DB) Close() error {
	db.exec.close()
	return db.conn.Close()
}

// Exec executes a query directly on the connection. It skips the executor
// and its FIFO ordering; use Do for store work.
func (db *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.conn.ExecContext(ctx, query, args...)
}

// QueryRow executes a single-row query directly on the connection, outside
// the executor queue.
func (db *DB) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return db.conn.QueryRowContext(ctx, query, args...)
}

// GetConn returns the underlying sql.DB. Calls made on it are not
// serialized by the executor.
func (db *DB) GetConn() *sql.DB {
	return db.conn
}

// Logger returns the logger the DB was built with.
func (db *DB) Logger() *slog.Logger {
	return db.logger
}
