package dialect

import (
	"context"
	"strings"

	_ "modernc.org/sqlite" // SQLite Driver (pure Go, registers "sqlite")
)

type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string { return "sqlite" }

// AfterOpen sets UTF-8 storage, foreign key enforcement and synchronous=OFF.
// encoding only takes effect before the first table is created.
func (d *SQLiteDialect) AfterOpen(ctx context.Context, x Execer) error {
	return execAll(ctx, x,
		`PRAGMA encoding = "UTF-8"`,
		`PRAGMA foreign_keys = ON`,
		`PRAGMA synchronous = OFF`,
	)
}

func (d *SQLiteDialect) TablesQuery() string {
	return `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`
}

func (d *SQLiteDialect) IndexesQuery() string {
	// Automatic indexes backing PRIMARY KEY / UNIQUE have no sql text.
	return `SELECT tbl_name, name FROM sqlite_master WHERE type = 'index' AND sql IS NOT NULL ORDER BY tbl_name, name`
}

func (d *SQLiteDialect) ColumnType(t Type, keyed bool) string {
	return t.String()
}

func (d *SQLiteDialect) QuoteIdent(name string) string {
	return quoteWith(name, `"`, `"`)
}

func (d *SQLiteDialect) InsertQuery(table string, cols []string) string {
	return insertQuery(d, table, cols)
}

func (d *SQLiteDialect) Placeholder(index int) string {
	return "?"
}

// FilePath extracts the database file from a SQLite DSN such as
// "imdb.db", "file:imdb.db?_pragma=busy_timeout(5000)". In-memory DSNs return "".
func (d *SQLiteDialect) FilePath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == ":memory:" || strings.HasPrefix(path, ":memory:") {
		return ""
	}
	return path
}
