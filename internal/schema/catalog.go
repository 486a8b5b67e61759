package schema

import (
	"context"
	"database/sql"
	"fmt"

	"imdb-pump/internal/dialect"
)

// Querier is satisfied by the store gateway.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Tables lists the base tables present in the target database.
func Tables(ctx context.Context, q Querier, d dialect.Dialect) ([]string, error) {
	rows, err := q.Query(ctx, d.TablesQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return tables, nil
}

// Indexes lists the secondary, non-unique indices present in the target database.
func Indexes(ctx context.Context, q Querier, d dialect.Dialect) ([]Index, error) {
	rows, err := q.Query(ctx, d.IndexesQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to query indexes: %w", err)
	}
	defer rows.Close()

	var indexes []Index
	for rows.Next() {
		var ix Index
		if err := rows.Scan(&ix.Table, &ix.Name); err != nil {
			return nil, fmt.Errorf("failed to scan index: %w", err)
		}
		indexes = append(indexes, ix)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating indexes: %w", err)
	}
	return indexes, nil
}

// ExpectedIndexes lists the indices CreateIndices creates for mappings.
func ExpectedIndexes(mappings []TableMapping) []Index {
	var out []Index
	for _, m := range mappings {
		for _, c := range m.Columns {
			if c.NeedsIndex() {
				out = append(out, Index{Table: m.Table, Name: m.IndexName(c)})
			}
		}
	}
	return out
}
