package engine

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strconv"
	"time"

	"imdb-pump/internal/dialect"
	"imdb-pump/internal/schema"
	"imdb-pump/internal/store"
	"imdb-pump/internal/tsv"

	"github.com/rs/zerolog"
)

// Progress receives row-level progress for one table import at a time.
type Progress interface {
	Begin(table string, total int64) // total < 0 when the row count is unknown
	Step()
	End()
}

type nopProgress struct{}

func (nopProgress) Begin(string, int64) {}
func (nopProgress) Step()               {}
func (nopProgress) End()                {}

// Result summarizes one imported file.
type Result struct {
	Table    string
	File     string
	Rows     int64 // rows inserted
	Expected int64 // pre-counted rows, -1 if unknown
	Elapsed  time.Duration
}

// Importer streams source files into their tables, one transaction per file.
type Importer struct {
	st       *store.Store
	d        dialect.Dialect
	log      zerolog.Logger
	progress Progress
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

func WithLogger(log zerolog.Logger) ImporterOption {
	return func(im *Importer) { im.log = log }
}

func WithProgress(p Progress) ImporterOption {
	return func(im *Importer) {
		if p != nil {
			im.progress = p
		}
	}
}

func NewImporter(st *store.Store, d dialect.Dialect, opts ...ImporterOption) *Importer {
	im := &Importer{st: st, d: d, log: zerolog.Nop(), progress: nopProgress{}}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// ImportFile inserts every record of the file at path into m.Table inside a
// single transaction. Any failure rolls the whole file back.
func (im *Importer) ImportFile(ctx context.Context, m schema.TableMapping, path string) (Result, error) {
	start := time.Now()
	res := Result{Table: m.Table, File: path, Expected: -1}
	fail := func(line int64, err error) (Result, error) {
		return res, &ImportError{Table: m.Table, File: path, Line: line, Err: err}
	}

	if err := m.Validate(); err != nil {
		return fail(0, err)
	}

	im.log.Info().Str("file", path).Msg("Importing file")

	// The count only feeds the progress display; a failure here is not fatal.
	im.log.Info().Msg("Reading number of rows ...")
	total, err := tsv.CountRows(path)
	if err != nil {
		im.log.Warn().Err(err).Str("file", path).Msg("Could not count rows, progress total unknown")
		total = -1
	}
	res.Expected = total

	f, err := tsv.Open(path)
	if err != nil {
		return fail(0, err)
	}
	defer f.Close()

	r, err := tsv.NewReader(f)
	if err != nil {
		return fail(0, err)
	}
	im.warnMissingFields(m, r.Headers())

	im.log.Info().Str("table", m.Table).Int64("rows", total).Msg("Inserting rows into table")
	if err := im.st.Begin(ctx); err != nil {
		return fail(0, err)
	}

	rows, line, err := im.insertAll(ctx, m, r, total)
	res.Rows = rows
	if err != nil {
		if rbErr := im.st.Rollback(); rbErr != nil {
			err = errors.Join(err, rbErr)
		}
		res.Rows = 0
		return fail(line, err)
	}

	if err := im.st.Commit(); err != nil {
		im.st.Rollback()
		res.Rows = 0
		return fail(0, err)
	}

	res.Elapsed = time.Since(start)
	im.log.Info().Str("table", m.Table).Int64("rows", rows).Dur("elapsed", res.Elapsed).Msg("Table imported")
	return res, nil
}

// insertAll runs the insert loop inside the open transaction. It returns the
// number of rows inserted and, on failure, the source line that failed.
func (im *Importer) insertAll(ctx context.Context, m schema.TableMapping, r *tsv.Reader, total int64) (int64, int64, error) {
	stmt, err := im.st.Prepare(ctx, im.d.InsertQuery(m.Table, m.ColumnNames()))
	if err != nil {
		return 0, 0, err
	}
	defer stmt.Close()

	im.progress.Begin(m.Table, total)
	defer im.progress.End()

	args := make([]any, len(m.Columns))
	var rows int64
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return rows, 0, nil
		}
		if err != nil {
			var malformed *tsv.MalformedInputError
			if errors.As(err, &malformed) {
				return rows, malformed.Line, err
			}
			return rows, r.Line(), err
		}

		for i, c := range m.Columns {
			args[i] = bindValue(c, rec[c.Source])
		}
		if err := stmt.Exec(ctx, args...); err != nil {
			return rows, r.Line(), err
		}
		rows++
		im.progress.Step()
	}
}

func (im *Importer) warnMissingFields(m schema.TableMapping, headers []string) {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	for _, field := range m.SourceFields() {
		if !present[field] {
			im.log.Warn().Str("table", m.Table).Str("field", field).Msg("Field missing from file header, column will be NULL")
		}
	}
}

// bindValue converts a TSV value to a driver argument for column c. Numeric
// columns get native numbers when the text parses and the raw text otherwise,
// leaving the decision to the database.
func bindValue(c schema.Column, v sql.NullString) any {
	if !v.Valid {
		return nil
	}
	switch c.Type {
	case dialect.Integer:
		if n, err := strconv.ParseInt(v.String, 10, 64); err == nil {
			return n
		}
	case dialect.Real:
		if f, err := strconv.ParseFloat(v.String, 64); err == nil {
			return f
		}
	}
	return v.String
}
