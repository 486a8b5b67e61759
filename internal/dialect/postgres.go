package dialect

import (
	"context"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL Driver
)

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string { return "postgres" }

// Foreign keys are always enforced by PostgreSQL; nothing to configure.
func (d *PostgresDialect) AfterOpen(ctx context.Context, x Execer) error {
	return nil
}

func (d *PostgresDialect) TablesQuery() string {
	return `SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_type = 'BASE TABLE' ORDER BY table_name`
}

func (d *PostgresDialect) IndexesQuery() string {
	return `SELECT t.relname, i.relname
FROM pg_index x
JOIN pg_class i ON i.oid = x.indexrelid
JOIN pg_class t ON t.oid = x.indrelid
JOIN pg_namespace n ON n.oid = t.relnamespace
WHERE n.nspname = current_schema() AND NOT x.indisprimary AND NOT x.indisunique
ORDER BY t.relname, i.relname`
}

func (d *PostgresDialect) ColumnType(t Type, keyed bool) string {
	switch t {
	case Integer:
		return "BIGINT"
	case Real:
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}

func (d *PostgresDialect) QuoteIdent(name string) string {
	return quoteWith(name, `"`, `"`)
}

func (d *PostgresDialect) InsertQuery(table string, cols []string) string {
	return insertQuery(d, table, cols)
}

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index+1)
}
