package engine

import (
	"context"
	"fmt"

	"imdb-pump/internal/dialect"
	"imdb-pump/internal/schema"
	"imdb-pump/internal/store"
)

// TableReport is the verified state of one imported table.
type TableReport struct {
	Table          string
	Rows           int64
	Indexes        []string
	MissingIndexes []string
	Missing        bool // table does not exist
}

// OK reports whether the table exists with all of its expected indices.
func (r TableReport) OK() bool {
	return !r.Missing && len(r.MissingIndexes) == 0
}

// Verify checks an imported database against mappings: row counts per table
// and the presence of every expected secondary index.
func Verify(ctx context.Context, st *store.Store, d dialect.Dialect, mappings []schema.TableMapping) ([]TableReport, error) {
	tables, err := schema.Tables(ctx, st, d)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(tables))
	for _, t := range tables {
		present[t] = true
	}

	indexes, err := schema.Indexes(ctx, st, d)
	if err != nil {
		return nil, err
	}
	found := make(map[schema.Index]bool, len(indexes))
	for _, ix := range indexes {
		found[ix] = true
	}

	var reports []TableReport
	for _, m := range mappings {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		r := TableReport{Table: m.Table}
		if !present[m.Table] {
			r.Missing = true
			reports = append(reports, r)
			continue
		}

		q := fmt.Sprintf("SELECT COUNT(*) FROM %s", d.QuoteIdent(m.Table))
		if err := st.QueryRow(ctx, q).Scan(&r.Rows); err != nil {
			return nil, fmt.Errorf("failed to count rows of %s: %w", m.Table, err)
		}

		for _, ix := range schema.ExpectedIndexes([]schema.TableMapping{m}) {
			if found[ix] {
				r.Indexes = append(r.Indexes, ix.Name)
			} else {
				r.MissingIndexes = append(r.MissingIndexes, ix.Name)
			}
		}
		reports = append(reports, r)
	}
	return reports, nil
}
