package dialect

import (
	"context"

	_ "github.com/go-sql-driver/mysql" // MySQL Driver
)

type MysqlDialect struct{}

func (d *MysqlDialect) Name() string { return "mysql" }

func (d *MysqlDialect) AfterOpen(ctx context.Context, x Execer) error {
	return execAll(ctx, x,
		"SET NAMES utf8mb4",
		"SET FOREIGN_KEY_CHECKS = 1",
	)
}

func (d *MysqlDialect) TablesQuery() string {
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = DATABASE() AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`
}

func (d *MysqlDialect) IndexesQuery() string {
	return `SELECT DISTINCT TABLE_NAME, INDEX_NAME FROM information_schema.STATISTICS WHERE TABLE_SCHEMA = DATABASE() AND NON_UNIQUE = 1 ORDER BY TABLE_NAME, INDEX_NAME`
}

// InnoDB cannot index TEXT without a prefix length; 768 utf8mb4 characters
// stay under the 3072 byte key limit.
func (d *MysqlDialect) ColumnType(t Type, keyed bool) string {
	switch t {
	case Integer:
		return "BIGINT"
	case Real:
		return "DOUBLE"
	default:
		if keyed {
			return "VARCHAR(768)"
		}
		return "TEXT"
	}
}

func (d *MysqlDialect) QuoteIdent(name string) string {
	return quoteWith(name, "`", "`")
}

func (d *MysqlDialect) InsertQuery(table string, cols []string) string {
	return insertQuery(d, table, cols)
}

func (d *MysqlDialect) Placeholder(index int) string {
	return "?"
}
