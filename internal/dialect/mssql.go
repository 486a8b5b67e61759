package dialect

import (
	"context"
	"fmt"

	_ "github.com/microsoft/go-mssqldb" // SQL Server Driver
)

type MSSQLDialect struct{}

// Helper: MSSQL Driver (go-mssqldb) prefers @p1, @p2 ordinal parameters over ?

func (d *MSSQLDialect) Name() string { return "sqlserver" }

func (d *MSSQLDialect) AfterOpen(ctx context.Context, x Execer) error {
	return nil
}

func (d *MSSQLDialect) TablesQuery() string {
	return `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_TYPE = 'BASE TABLE' AND TABLE_SCHEMA = SCHEMA_NAME() ORDER BY TABLE_NAME`
}

func (d *MSSQLDialect) IndexesQuery() string {
	return `
		SELECT t.name, i.name
		FROM sys.indexes i
		JOIN sys.tables t ON i.object_id = t.object_id
		WHERE i.is_primary_key = 0
			AND i.is_unique = 0
			AND i.is_unique_constraint = 0
			AND i.name IS NOT NULL
			AND t.schema_id = SCHEMA_ID()
		ORDER BY t.name, i.name
	`
}

// Index keys are limited to 1700 bytes (900 for the clustered primary key),
// so keyed text is bounded to 450 UTF-16 characters.
func (d *MSSQLDialect) ColumnType(t Type, keyed bool) string {
	switch t {
	case Integer:
		return "BIGINT"
	case Real:
		return "FLOAT"
	default:
		if keyed {
			return "NVARCHAR(450)"
		}
		return "NVARCHAR(MAX)"
	}
}

func (d *MSSQLDialect) QuoteIdent(name string) string {
	return quoteWith(name, "[", "]")
}

func (d *MSSQLDialect) InsertQuery(table string, cols []string) string {
	return insertQuery(d, table, cols)
}

func (d *MSSQLDialect) Placeholder(index int) string {
	return fmt.Sprintf("@p%d", index+1)
}
