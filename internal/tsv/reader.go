// Package tsv streams the IMDb tab-separated dumps as header-keyed records.
package tsv

import (
	"bufio"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Null is the token the dataset uses for an absent value.
const Null = `\N`

// ErrInvalidUTF8 is wrapped by MalformedInputError when a line cannot be decoded.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// MalformedInputError reports that the underlying line stream failed: an I/O or
// decompression error, or a line that is not valid UTF-8. Field count
// mismatches are never reported.
type MalformedInputError struct {
	Line int64 // 1-based physical line, 0 if unknown
	Err  error
}

func (e *MalformedInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed input at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("malformed input: %v", e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// Record maps a header field to its value. Null values and fields missing from
// a short line both read as an invalid sql.NullString.
type Record map[string]sql.NullString

// Get returns the value of field and whether it is non-null.
func (r Record) Get(field string) (string, bool) {
	v := r[field]
	return v.String, v.Valid
}

// Reader reads records from a header-first TSV stream.
type Reader struct {
	br      *bufio.Reader
	headers []string
	line    int64
}

// NewReader consumes the header line of r.
func NewReader(r io.Reader) (*Reader, error) {
	tr := &Reader{br: bufio.NewReaderSize(r, 1<<20)}

	header, err := tr.readLine()
	if err == io.EOF {
		return nil, &MalformedInputError{Err: errors.New("missing header line")}
	}
	if err != nil {
		return nil, err
	}

	fields := strings.Split(header, "\t")
	tr.headers = make([]string, len(fields))
	for i, f := range fields {
		tr.headers[i] = strings.TrimSpace(f)
	}
	return tr, nil
}

// Headers returns the trimmed header fields in file order.
func (r *Reader) Headers() []string {
	return append([]string(nil), r.headers...)
}

// Line returns the physical line number of the last line read.
func (r *Reader) Line() int64 {
	return r.line
}

// Read returns the next record, or io.EOF when the stream is exhausted.
func (r *Reader) Read() (Record, error) {
	line, err := r.readLine()
	if err != nil {
		return nil, err
	}

	values := strings.Split(line, "\t")
	rec := make(Record, len(r.headers))
	for i, h := range r.headers {
		if i >= len(values) {
			break
		}
		v := strings.TrimSpace(values[i])
		if v == "" || v == Null {
			rec[h] = sql.NullString{}
			continue
		}
		rec[h] = sql.NullString{String: v, Valid: true}
	}
	return rec, nil
}

// readLine returns the next line without its terminator. A final line without
// a terminator is returned as is; io.EOF is returned only once nothing is left.
func (r *Reader) readLine() (string, error) {
	s, err := r.br.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", &MalformedInputError{Line: r.line + 1, Err: err}
	}
	if err == io.EOF && s == "" {
		return "", io.EOF
	}
	r.line++

	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	if !utf8.ValidString(s) {
		return "", &MalformedInputError{Line: r.line, Err: ErrInvalidUTF8}
	}
	return s, nil
}
