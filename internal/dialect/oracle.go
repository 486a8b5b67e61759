package dialect

import (
	"context"
	"fmt"

	_ "github.com/sijms/go-ora/v2" // Oracle Driver
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string { return "oracle" }

func (d *OracleDialect) AfterOpen(ctx context.Context, x Execer) error {
	// Floats are bound as numbers, but keep the decimal separator stable for
	// values that fall back to text binding.
	return execAll(ctx, x, "ALTER SESSION SET NLS_NUMERIC_CHARACTERS = '.,'")
}

func (d *OracleDialect) TablesQuery() string {
	// USER_TABLES lists tables owned by the current user.
	return `SELECT TABLE_NAME FROM USER_TABLES ORDER BY TABLE_NAME`
}

func (d *OracleDialect) IndexesQuery() string {
	return `SELECT TABLE_NAME, INDEX_NAME FROM USER_INDEXES WHERE UNIQUENESS = 'NONUNIQUE' ORDER BY TABLE_NAME, INDEX_NAME`
}

// CLOB columns cannot be indexed; keyed text uses a bounded VARCHAR2.
func (d *OracleDialect) ColumnType(t Type, keyed bool) string {
	switch t {
	case Integer:
		return "NUMBER(19)"
	case Real:
		return "BINARY_DOUBLE"
	default:
		if keyed {
			return "VARCHAR2(1000 CHAR)"
		}
		return "CLOB"
	}
}

// Quoted identifiers keep their lowercase spelling, so every statement and
// catalog lookup must go through QuoteIdent.
func (d *OracleDialect) QuoteIdent(name string) string {
	return quoteWith(name, `"`, `"`)
}

func (d *OracleDialect) InsertQuery(table string, cols []string) string {
	return insertQuery(d, table, cols)
}

func (d *OracleDialect) Placeholder(index int) string {
	// Oracle uses :1, :2, etc. (1-based index)
	return fmt.Sprintf(":%d", index+1)
}
