package dialect

import (
	"fmt"
	"sort"
)

// GetDialect returns the Dialect implementation for a database/sql driver name.
func GetDialect(driver string) (Dialect, error) {
	switch driver {
	case "sqlite", "sqlite3":
		return &SQLiteDialect{}, nil
	case "postgres":
		return &PostgresDialect{}, nil
	case "mysql":
		return &MysqlDialect{}, nil
	case "sqlserver", "mssql":
		return &MSSQLDialect{}, nil
	case "oracle":
		return &OracleDialect{}, nil
	}
	return nil, fmt.Errorf("unsupported driver %q (supported: %v)", driver, Drivers())
}

// Drivers lists the canonical driver names accepted by GetDialect.
func Drivers() []string {
	names := []string{"sqlite", "postgres", "mysql", "sqlserver", "oracle"}
	sort.Strings(names)
	return names
}

// Ensure interface implementation
var _ Dialect = (*SQLiteDialect)(nil)
var _ Dialect = (*MysqlDialect)(nil)
var _ Dialect = (*PostgresDialect)(nil)
var _ Dialect = (*MSSQLDialect)(nil)
var _ Dialect = (*OracleDialect)(nil)
