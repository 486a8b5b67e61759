// Package store is a thin transactional gateway over database/sql.
//
// A Store pins a single connection for its whole lifetime and holds at most one
// open transaction. Statements run inside that transaction when one is open and
// in autocommit mode otherwise. A Store is not safe for concurrent use.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"imdb-pump/internal/dialect"

	"github.com/rs/zerolog"
)

// ErrNoTransaction is returned by Commit when no transaction is open.
var ErrNoTransaction = errors.New("no transaction in progress")

// OpenError reports a failure to open or connect to the target database.
type OpenError struct {
	Driver string
	Err    error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("failed to open %s database: %v", e.Driver, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// ExecError reports a statement that the database rejected, e.g. a constraint
// violation or an I/O failure.
type ExecError struct {
	Query string
	Err   error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("failed to execute %q: %v", e.Query, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// Store owns the connection to the target database.
type Store struct {
	db   *sql.DB
	conn *sql.Conn
	tx   *sql.Tx
	log  zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for transaction and statement tracing.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// Open connects to dsn with the given driver and runs the dialect's session setup.
func Open(ctx context.Context, driver, dsn string, d dialect.Dialect, opts ...Option) (*Store, error) {
	s := &Store{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, &OpenError{Driver: driver, Err: err}
	}

	// Limit to 1 connection so session settings and the open transaction
	// always apply to the same connection.
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, &OpenError{Driver: driver, Err: err}
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		db.Close()
		return nil, &OpenError{Driver: driver, Err: err}
	}
	if err := d.AfterOpen(ctx, conn); err != nil {
		conn.Close()
		db.Close()
		return nil, &OpenError{Driver: driver, Err: err}
	}

	s.db = db
	s.conn = conn
	s.log.Debug().Str("driver", driver).Msg("DB OPEN")
	return s, nil
}

// Begin starts a transaction. Nested transactions are not supported.
func (s *Store) Begin(ctx context.Context) error {
	if s.tx != nil {
		return errors.New("transaction already in progress")
	}
	s.log.Debug().Msg("TX BEGIN")
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return &ExecError{Query: "BEGIN", Err: err}
	}
	s.tx = tx
	return nil
}

// Commit commits the open transaction.
func (s *Store) Commit() error {
	if s.tx == nil {
		return ErrNoTransaction
	}
	s.log.Debug().Msg("TX COMMIT")
	err := s.tx.Commit()
	s.tx = nil
	if err != nil {
		return &ExecError{Query: "COMMIT", Err: err}
	}
	return nil
}

// Rollback discards the open transaction. It is a no-op without one.
func (s *Store) Rollback() error {
	if s.tx == nil {
		return nil
	}
	s.log.Debug().Msg("TX ROLLBACK")
	err := s.tx.Rollback()
	s.tx = nil
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return &ExecError{Query: "ROLLBACK", Err: err}
	}
	return nil
}

// InTx reports whether a transaction is open.
func (s *Store) InTx() bool {
	return s.tx != nil
}

// Exec runs a single statement with positional parameters.
func (s *Store) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if s.log.GetLevel() <= zerolog.TraceLevel {
		s.log.Trace().Interface("args", args).Msg(query)
	}
	var (
		res sql.Result
		err error
	)
	if s.tx != nil {
		res, err = s.tx.ExecContext(ctx, query, args...)
	} else {
		res, err = s.conn.ExecContext(ctx, query, args...)
	}
	if err != nil {
		return nil, &ExecError{Query: query, Err: err}
	}
	return res, nil
}

// Prepare compiles query for repeated execution. Inside a transaction the
// statement belongs to it and is released on Commit/Rollback.
func (s *Store) Prepare(ctx context.Context, query string) (*Stmt, error) {
	var (
		stmt *sql.Stmt
		err  error
	)
	if s.tx != nil {
		stmt, err = s.tx.PrepareContext(ctx, query)
	} else {
		stmt, err = s.conn.PrepareContext(ctx, query)
	}
	if err != nil {
		return nil, &ExecError{Query: query, Err: err}
	}
	return &Stmt{stmt: stmt, query: query}, nil
}

// Query runs a statement that returns rows.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if s.tx != nil {
		rows, err = s.tx.QueryContext(ctx, query, args...)
	} else {
		rows, err = s.conn.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, &ExecError{Query: query, Err: err}
	}
	return rows, nil
}

// QueryRow runs a statement that returns at most one row.
func (s *Store) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	if s.tx != nil {
		return s.tx.QueryRowContext(ctx, query, args...)
	}
	return s.conn.QueryRowContext(ctx, query, args...)
}

// Close rolls back any open transaction and releases the connection.
func (s *Store) Close() error {
	s.log.Debug().Msg("DB CLOSE")
	rbErr := s.Rollback()
	connErr := s.conn.Close()
	dbErr := s.db.Close()
	return errors.Join(rbErr, connErr, dbErr)
}

// Stmt is a prepared statement.
type Stmt struct {
	stmt  *sql.Stmt
	query string
}

// Exec runs the statement with positional parameters.
func (s *Stmt) Exec(ctx context.Context, args ...any) error {
	if _, err := s.stmt.ExecContext(ctx, args...); err != nil {
		return &ExecError{Query: s.query, Err: err}
	}
	return nil
}

func (s *Stmt) Close() error {
	return s.stmt.Close()
}
