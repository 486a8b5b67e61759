package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"imdb-pump/internal/dialect"

	"github.com/rs/zerolog"
)

// CreateTableSQL generates the CREATE TABLE statement for m.
func CreateTableSQL(d dialect.Dialect, m TableMapping) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(d.QuoteIdent(m.Table))
	b.WriteString(" (\n")
	for i, c := range m.Columns {
		b.WriteString("  ")
		b.WriteString(d.QuoteIdent(c.Name))
		b.WriteByte(' ')
		b.WriteString(d.ColumnType(c.Type, c.Keyed()))
		if c.PrimaryKey {
			b.WriteString(" PRIMARY KEY")
		}
		if c.IsUnique() {
			b.WriteString(" UNIQUE")
		}
		if c.NotNull() {
			b.WriteString(" NOT NULL")
		}
		if i < len(m.Columns)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteByte(')')
	return b.String(), nil
}

// CreateIndexSQL generates one CREATE INDEX statement per column that needs a
// secondary index. The result is empty when the table needs none.
func CreateIndexSQL(d dialect.Dialect, m TableMapping) ([]string, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	var stmts []string
	for _, c := range m.Columns {
		if !c.NeedsIndex() {
			continue
		}
		stmts = append(stmts, fmt.Sprintf("CREATE INDEX %s ON %s (%s)",
			d.QuoteIdent(m.IndexName(c)), d.QuoteIdent(m.Table), d.QuoteIdent(c.Name)))
	}
	return stmts, nil
}

// Executor is the part of the store gateway the builder needs.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error
}

// Builder issues the table and index creation statements for a set of mappings.
type Builder struct {
	d   dialect.Dialect
	x   Executor
	log zerolog.Logger
}

func NewBuilder(d dialect.Dialect, x Executor, log zerolog.Logger) *Builder {
	return &Builder{d: d, x: x, log: log}
}

// CreateTables creates every table, in order. It must run before any import.
func (b *Builder) CreateTables(ctx context.Context, mappings []TableMapping) error {
	b.log.Info().Int("tables", len(mappings)).Msg("Applying schema")
	for _, m := range mappings {
		stmt, err := CreateTableSQL(b.d, m)
		if err != nil {
			return err
		}
		b.log.Debug().Str("table", m.Table).Msg(stmt)
		if _, err := b.x.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table %s: %w", m.Table, err)
		}
	}
	return nil
}

// CreateIndices creates the secondary indices of every mapping and commits once.
// It must run after all imports so that inserts do not maintain indices.
func (b *Builder) CreateIndices(ctx context.Context, mappings []TableMapping) error {
	var stmts []string
	for _, m := range mappings {
		s, err := CreateIndexSQL(b.d, m)
		if err != nil {
			return err
		}
		stmts = append(stmts, s...)
	}

	b.log.Info().Int("indices", len(stmts)).Msg("Creating table indices")
	if err := b.x.Begin(ctx); err != nil {
		return err
	}
	for _, stmt := range stmts {
		b.log.Debug().Msg(stmt)
		if _, err := b.x.Exec(ctx, stmt); err != nil {
			b.x.Rollback()
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return b.x.Commit()
}
