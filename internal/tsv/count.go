package tsv

import (
	"bytes"
	"io"
)

const countChunkSize = 1 << 20

// CountLines counts the lines in r. A final line without a trailing newline
// counts as a line.
func CountLines(r io.Reader) (int64, error) {
	buf := make([]byte, countChunkSize)
	var (
		lines int64
		last  byte = '\n'
	)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			lines += int64(bytes.Count(buf[:n], []byte{'\n'}))
			last = buf[n-1]
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return lines, err
		}
	}
	if last != '\n' {
		lines++
	}
	return lines, nil
}

// CountRows estimates the number of data rows in the file at path: its line
// count minus the header. The value is only used for progress display.
func CountRows(path string) (int64, error) {
	f, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	lines, err := CountLines(f)
	if err != nil {
		return 0, err
	}
	if lines == 0 {
		return 0, nil
	}
	return lines - 1, nil
}
