package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"imdb-pump/internal/dialect"
	"imdb-pump/internal/schema"
	"imdb-pump/internal/store"

	"github.com/rs/zerolog"
)

// RunConfig describes one full import run.
type RunConfig struct {
	Driver   string
	DSN      string
	CacheDir string                 // directory holding the source files
	Mappings []schema.TableMapping // defaults to schema.Registry()

	// Fetch, when set, is called after the existence check and before the
	// database is opened. It must leave every listed file in CacheDir.
	Fetch func(ctx context.Context, files []string) error

	Progress Progress
	Log      zerolog.Logger
}

// Summary is the outcome of a successful run.
type Summary struct {
	Results []Result
	Elapsed time.Duration
}

// Rows returns the total number of rows imported.
func (s Summary) Rows() int64 {
	var n int64
	for _, r := range s.Results {
		n += r.Rows
	}
	return n
}

// Run builds a fresh database from the source files: it refuses an existing
// target, fetches the files, creates all tables, imports each file in its own
// transaction and finally creates the secondary indices.
func Run(ctx context.Context, cfg RunConfig) (Summary, error) {
	start := time.Now()
	log := cfg.Log
	mappings := cfg.Mappings
	if mappings == nil {
		mappings = schema.Registry()
	}
	files := make([]string, len(mappings))
	for i, m := range mappings {
		files[i] = m.File
	}

	d, err := dialect.GetDialect(cfg.Driver)
	if err != nil {
		return Summary{}, err
	}

	exists, err := TargetExists(ctx, cfg.DSN, d, tableNames(mappings))
	if err != nil {
		return Summary{}, fmt.Errorf("failed to check target database: %w", err)
	}
	if exists {
		log.Error().Str("driver", d.Name()).Msg("The database already exists. Delete it and rerun the import.")
		return Summary{}, ErrTargetExists
	}

	if cfg.Fetch != nil {
		if err := cfg.Fetch(ctx, files); err != nil {
			return Summary{}, err
		}
	}
	for _, f := range files {
		if _, err := os.Stat(filepath.Join(cfg.CacheDir, f)); err != nil {
			return Summary{}, fmt.Errorf("source file unavailable: %w", err)
		}
	}

	st, err := store.Open(ctx, d.Name(), cfg.DSN, d, store.WithLogger(log))
	if err != nil {
		return Summary{}, err
	}
	defer st.Close()

	builder := schema.NewBuilder(d, st, log)
	if err := builder.CreateTables(ctx, mappings); err != nil {
		return Summary{}, err
	}

	im := NewImporter(st, d, WithLogger(log), WithProgress(cfg.Progress))
	var sum Summary
	for _, m := range mappings {
		res, err := im.ImportFile(ctx, m, filepath.Join(cfg.CacheDir, m.File))
		if err != nil {
			return sum, err
		}
		sum.Results = append(sum.Results, res)
	}

	if err := builder.CreateIndices(ctx, mappings); err != nil {
		return sum, err
	}

	sum.Elapsed = time.Since(start)
	log.Info().Int64("rows", sum.Rows()).Dur("elapsed", sum.Elapsed).Msg("Import finished")
	return sum, nil
}

// TargetExists reports whether the target database is already present. For
// SQLite this is the existence of the database file, checked without opening
// it. For server databases it is the presence of any of the given tables.
func TargetExists(ctx context.Context, dsn string, d dialect.Dialect, tables []string) (bool, error) {
	if sd, ok := d.(*dialect.SQLiteDialect); ok {
		path := sd.FilePath(dsn)
		if path == "" {
			return false, nil
		}
		_, err := os.Stat(path)
		if err == nil {
			return true, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	st, err := store.Open(ctx, d.Name(), dsn, d)
	if err != nil {
		return false, err
	}
	defer st.Close()

	existing, err := schema.Tables(ctx, st, d)
	if err != nil {
		return false, err
	}
	want := make(map[string]bool, len(tables))
	for _, t := range tables {
		want[strings.ToLower(t)] = true
	}
	for _, t := range existing {
		if want[strings.ToLower(t)] {
			return true, nil
		}
	}
	return false, nil
}

func tableNames(mappings []schema.TableMapping) []string {
	names := make([]string, len(mappings))
	for i, m := range mappings {
		names[i] = m.Table
	}
	return names
}
