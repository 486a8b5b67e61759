package dialect

import (
	"context"
	"fmt"
	"strings"
)

// GeneratePlaceholders is a helper function to create a slice of placeholder strings.
// It takes the number of placeholders needed and a function that returns the placeholder for a given index.
// It returns a comma-separated string of the generated placeholders.
func GeneratePlaceholders(count int, placeholderFunc func(int) string) string {
	placeholders := make([]string, count)
	for i := 0; i < count; i++ {
		placeholders[i] = placeholderFunc(i)
	}
	return strings.Join(placeholders, ", ")
}

// quoteWith wraps name in open/close, doubling any embedded close character.
func quoteWith(name, open, close string) string {
	return open + strings.ReplaceAll(name, close, close+close) + close
}

// insertQuery builds a plain INSERT with quoted identifiers.
func insertQuery(d Dialect, table string, cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = d.QuoteIdent(c)
	}
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", d.QuoteIdent(table), strings.Join(quoted, ", "), vals)
}

// execAll runs each statement in order, stopping at the first failure.
func execAll(ctx context.Context, x Execer, stmts ...string) error {
	for _, s := range stmts {
		if _, err := x.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("failed to execute %q: %w", s, err)
		}
	}
	return nil
}
