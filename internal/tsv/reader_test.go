package tsv_test

import (
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"

	"imdb-pump/internal/tsv"

	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r *tsv.Reader) []tsv.Record {
	t.Helper()
	var out []tsv.Record
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, rec)
	}
}

func TestReaderHeadersAreTrimmed(t *testing.T) {
	r, err := tsv.NewReader(strings.NewReader(" tconst \taverageRating\t numVotes\r\ntt001\t8.5\t120\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"tconst", "averageRating", "numVotes"}, r.Headers())

	recs := readAll(t, r)
	require.Len(t, recs, 1)
	require.Len(t, recs[0], 3)
	for _, h := range r.Headers() {
		require.Contains(t, recs[0], h)
	}
}

func TestReaderYieldsLineCountMinusOne(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"HeaderOnly", "a\tb\n", 0},
		{"Terminated", "a\tb\n1\t2\n3\t4\n", 2},
		{"Unterminated", "a\tb\n1\t2\n3\t4", 2},
		{"BlankLineInside", "a\tb\n1\t2\n\n3\t4\n", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := tsv.NewReader(strings.NewReader(tt.input))
			require.NoError(t, err)
			recs := readAll(t, r)
			require.Len(t, recs, tt.want)

			lines, err := tsv.CountLines(strings.NewReader(tt.input))
			require.NoError(t, err)
			require.Equal(t, int64(tt.want), lines-1)
		})
	}
}

func TestReaderNullSentinel(t *testing.T) {
	input := "tconst\taverageRating\tnumVotes\n" +
		"tt001\t8.5\t120\n" +
		"tt002\t\\N\t\\N\n" +
		"tt003\t  \t 10 \n"
	r, err := tsv.NewReader(strings.NewReader(input))
	require.NoError(t, err)
	recs := readAll(t, r)
	require.Len(t, recs, 3)

	require.Equal(t, sql.NullString{String: "8.5", Valid: true}, recs[0]["averageRating"])

	_, ok := recs[1].Get("averageRating")
	require.False(t, ok)
	_, ok = recs[1].Get("numVotes")
	require.False(t, ok)

	_, ok = recs[2].Get("averageRating")
	require.False(t, ok, "blank after trimming is null")
	v, ok := recs[2].Get("numVotes")
	require.True(t, ok)
	require.Equal(t, "10", v)
}

func TestReaderShortLine(t *testing.T) {
	r, err := tsv.NewReader(strings.NewReader("a\tb\tc\n1\n"))
	require.NoError(t, err)
	recs := readAll(t, r)
	require.Len(t, recs, 1)

	v, ok := recs[0].Get("a")
	require.True(t, ok)
	require.Equal(t, "1", v)

	_, ok = recs[0].Get("c")
	require.False(t, ok)
	require.NotContains(t, recs[0], "c")
}

func TestReaderExtraFieldsDropped(t *testing.T) {
	r, err := tsv.NewReader(strings.NewReader("a\n1\t2\t3\n"))
	require.NoError(t, err)
	recs := readAll(t, r)
	require.Equal(t, tsv.Record{"a": {String: "1", Valid: true}}, recs[0])
}

func TestReaderKeepsEmbeddedQuotes(t *testing.T) {
	r, err := tsv.NewReader(strings.NewReader("characters\n[\"Self\", \"O'Brien\"]\n"))
	require.NoError(t, err)
	recs := readAll(t, r)
	v, _ := recs[0].Get("characters")
	require.Equal(t, `["Self", "O'Brien"]`, v)
}

func TestReaderEmptyInput(t *testing.T) {
	_, err := tsv.NewReader(strings.NewReader(""))
	var malformed *tsv.MalformedInputError
	require.True(t, errors.As(err, &malformed))
}

func TestReaderInvalidUTF8(t *testing.T) {
	r, err := tsv.NewReader(strings.NewReader("a\nok\n\xff\xfe\n"))
	require.NoError(t, err)

	_, err = r.Read()
	require.NoError(t, err)

	_, err = r.Read()
	var malformed *tsv.MalformedInputError
	require.True(t, errors.As(err, &malformed))
	require.Equal(t, int64(3), malformed.Line)
	require.ErrorIs(t, err, tsv.ErrInvalidUTF8)
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestReaderStreamFailure(t *testing.T) {
	boom := errors.New("boom")
	r, err := tsv.NewReader(io.MultiReader(strings.NewReader("a\n1\n"), failingReader{boom}))
	require.NoError(t, err)

	_, err = r.Read()
	require.NoError(t, err)

	_, err = r.Read()
	require.ErrorIs(t, err, boom)
	var malformed *tsv.MalformedInputError
	require.True(t, errors.As(err, &malformed))
}
