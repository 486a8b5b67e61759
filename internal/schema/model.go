package schema

import (
	"fmt"
	"regexp"

	"imdb-pump/internal/dialect"
)

// Column maps one TSV field to one table column.
type Column struct {
	Source     string       // TSV header field
	Name       string       // column name
	Type       dialect.Type // storage class
	PrimaryKey bool         // implies NOT NULL and UNIQUE
	Indexed    bool         // secondary index, created after the import
	Unique     bool         // ignored on primary keys
	Nullable   bool         // ignored on primary keys
}

// NotNull reports whether the column is declared NOT NULL.
func (c Column) NotNull() bool {
	return c.PrimaryKey || !c.Nullable
}

// IsUnique reports whether the column carries its own UNIQUE constraint.
func (c Column) IsUnique() bool {
	return c.Unique && !c.PrimaryKey
}

// NeedsIndex reports whether a secondary index must be created for the column.
// Primary key and unique columns already have one.
func (c Column) NeedsIndex() bool {
	return c.Indexed && !c.PrimaryKey && !c.Unique
}

// Keyed reports whether the column participates in any index structure.
func (c Column) Keyed() bool {
	return c.PrimaryKey || c.Unique || c.Indexed
}

// TableMapping associates one source file with one table.
type TableMapping struct {
	File    string
	Table   string
	Columns []Column
}

// SourceFields returns the TSV fields in column order.
func (m TableMapping) SourceFields() []string {
	fields := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		fields[i] = c.Source
	}
	return fields
}

// ColumnNames returns the column names in declaration order.
func (m TableMapping) ColumnNames() []string {
	names := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		names[i] = c.Name
	}
	return names
}

// IndexName is the name of the secondary index on col.
func (m TableMapping) IndexName(col Column) string {
	return fmt.Sprintf("ix_%s_%s", m.Table, col.Name)
}

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Validate checks that every identifier is safe to splice into DDL.
func (m TableMapping) Validate() error {
	if !identRe.MatchString(m.Table) {
		return fmt.Errorf("invalid table name %q", m.Table)
	}
	if m.File == "" {
		return fmt.Errorf("table %s: missing source file", m.Table)
	}
	if len(m.Columns) == 0 {
		return fmt.Errorf("table %s: no columns", m.Table)
	}

	seen := make(map[string]bool, len(m.Columns))
	pks := 0
	for _, c := range m.Columns {
		if !identRe.MatchString(c.Name) {
			return fmt.Errorf("table %s: invalid column name %q", m.Table, c.Name)
		}
		if c.Source == "" {
			return fmt.Errorf("table %s: column %s has no source field", m.Table, c.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("table %s: duplicate column %s", m.Table, c.Name)
		}
		seen[c.Name] = true
		if c.PrimaryKey {
			pks++
		}
	}
	if pks > 1 {
		return fmt.Errorf("table %s: composite primary keys are not supported", m.Table)
	}
	return nil
}

// Index is one secondary index found in the database catalog.
type Index struct {
	Table string
	Name  string
}
