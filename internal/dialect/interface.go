package dialect

import (
	"context"
	"database/sql"
)

// Type is the storage class of a column, independent of the target RDBMS.
type Type int

const (
	Text Type = iota
	Integer
	Real
)

func (t Type) String() string {
	switch t {
	case Integer:
		return "INTEGER"
	case Real:
		return "REAL"
	default:
		return "TEXT"
	}
}

// Execer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Dialect abstracts database-specific operations.
type Dialect interface {
	// Name is the database/sql driver name the dialect is registered under.
	Name() string

	// Session setup, run once on the pinned connection after it is opened.
	AfterOpen(ctx context.Context, x Execer) error

	// Catalog queries (no parameters).
	// TablesQuery yields one row per base table: (table_name).
	// IndexesQuery yields one row per secondary, non-unique index: (table_name, index_name).
	TablesQuery() string
	IndexesQuery() string

	// DDL helpers. keyed is true for columns that take part in a primary key,
	// unique constraint or index, since some engines cannot index unbounded text.
	ColumnType(t Type, keyed bool) string
	QuoteIdent(name string) string

	// Query Generation
	InsertQuery(table string, cols []string) string
	Placeholder(index int) string // Returns ?, $1, @p1, :1
}
