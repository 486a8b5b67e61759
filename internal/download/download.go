// Package download fetches the dataset files into a local cache directory.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is where IMDb publishes the datasets.
const DefaultBaseURL = "https://datasets.imdbws.com/"

const partSuffix = ".part"

// Error reports a non-2xx response.
type Error struct {
	URL        string
	StatusCode int
}

func (e *Error) Error() string {
	return fmt.Sprintf("download of %s failed: HTTP %d", e.URL, e.StatusCode)
}

// ProgressFunc is called as bytes arrive. total is -1 when the server sends no length.
type ProgressFunc func(file string, written, total int64)

// Downloader fetches files from baseURL into cacheDir.
type Downloader struct {
	baseURL    string
	cacheDir   string
	client     *http.Client
	log        zerolog.Logger
	onProgress ProgressFunc
	retries    uint64
}

type Option func(*Downloader)

func WithClient(c *http.Client) Option {
	return func(d *Downloader) { d.client = c }
}

func WithLogger(log zerolog.Logger) Option {
	return func(d *Downloader) { d.log = log }
}

func WithProgress(fn ProgressFunc) Option {
	return func(d *Downloader) { d.onProgress = fn }
}

// WithRetries sets how many times a failed transfer is retried. 4xx responses
// are never retried.
func WithRetries(n uint64) Option {
	return func(d *Downloader) { d.retries = n }
}

func New(baseURL, cacheDir string, opts ...Option) *Downloader {
	d := &Downloader{
		baseURL:  baseURL,
		cacheDir: cacheDir,
		client:   http.DefaultClient,
		log:      zerolog.Nop(),
		retries:  3,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Path returns the cache location of file.
func (d *Downloader) Path(file string) string {
	return filepath.Join(d.cacheDir, file)
}

// Ensure makes every file available in the cache directory, downloading the
// ones that are missing. Files already present are never re-downloaded.
func (d *Downloader) Ensure(ctx context.Context, files []string) error {
	if err := os.MkdirAll(d.cacheDir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", d.cacheDir, err)
	}

	for _, file := range files {
		path := d.Path(file)
		if _, err := os.Stat(path); err == nil {
			d.log.Info().Str("file", file).Msg("Found file, skipping download")
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}

		src, err := url.JoinPath(d.baseURL, file)
		if err != nil {
			return fmt.Errorf("invalid base URL %q: %w", d.baseURL, err)
		}

		d.log.Info().Str("url", src).Msg("Downloading file")
		start := time.Now()
		op := func() error {
			err := d.fetch(ctx, src, file, path)
			var httpErr *Error
			if errors.As(err, &httpErr) && httpErr.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			if err != nil {
				d.log.Warn().Err(err).Str("url", src).Msg("Download attempt failed")
			}
			return err
		}
		policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), d.retries), ctx)
		if err := backoff.Retry(op, policy); err != nil {
			return err
		}
		d.log.Info().Str("file", file).Dur("elapsed", time.Since(start)).Msg("Download complete")
	}
	return nil
}

// fetch streams src into "<path>.part" and renames it to path once complete.
func (d *Downloader) fetch(ctx context.Context, src, file, path string) (err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{URL: src, StatusCode: resp.StatusCode}
	}

	part := path + partSuffix
	out, err := os.Create(part)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", part, err)
	}
	defer func() {
		if err != nil {
			os.Remove(part)
		}
	}()

	var w io.Writer = out
	if d.onProgress != nil {
		w = &progressWriter{w: out, file: file, total: resp.ContentLength, fn: d.onProgress}
	}
	if _, err = io.Copy(w, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("failed to download %s: %w", src, err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", part, err)
	}
	if err = os.Rename(part, path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", part, err)
	}
	return nil
}

type progressWriter struct {
	w       io.Writer
	file    string
	written int64
	total   int64
	fn      ProgressFunc
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)
	p.fn(p.file, p.written, p.total)
	return n, err
}
