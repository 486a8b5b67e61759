package download_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"imdb-pump/internal/download"

	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, files map[string]string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEnsureDownloadsMissingFiles(t *testing.T) {
	var hits int32
	srv := newServer(t, map[string]string{
		"/title.ratings.tsv.gz": "ratings",
		"/title.episode.tsv.gz": "episodes",
	}, &hits)

	cache := filepath.Join(t.TempDir(), "downloads")
	var progressed int64
	d := download.New(srv.URL+"/", cache, download.WithRetries(0),
		download.WithProgress(func(file string, written, total int64) { progressed = written }))

	require.NoError(t, d.Ensure(context.Background(), []string{"title.ratings.tsv.gz", "title.episode.tsv.gz"}))
	require.Equal(t, int32(2), hits)
	require.Equal(t, int64(len("episodes")), progressed)

	b, err := os.ReadFile(filepath.Join(cache, "title.ratings.tsv.gz"))
	require.NoError(t, err)
	require.Equal(t, "ratings", string(b))

	matches, err := filepath.Glob(filepath.Join(cache, "*.part"))
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestEnsureSkipsEveryExistingFile(t *testing.T) {
	var hits int32
	srv := newServer(t, map[string]string{
		"/a.tsv.gz": "fresh a",
		"/b.tsv.gz": "fresh b",
		"/c.tsv.gz": "fresh c",
	}, &hits)

	cache := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cache, "a.tsv.gz"), []byte("cached a"), 0o644))

	d := download.New(srv.URL, cache, download.WithRetries(0))
	require.NoError(t, d.Ensure(context.Background(), []string{"a.tsv.gz", "b.tsv.gz", "c.tsv.gz"}))
	require.Equal(t, int32(2), hits)

	b, err := os.ReadFile(filepath.Join(cache, "a.tsv.gz"))
	require.NoError(t, err)
	require.Equal(t, "cached a", string(b))
	_, err = os.Stat(filepath.Join(cache, "c.tsv.gz"))
	require.NoError(t, err)

	// A second pass fetches nothing.
	require.NoError(t, d.Ensure(context.Background(), []string{"a.tsv.gz", "b.tsv.gz", "c.tsv.gz"}))
	require.Equal(t, int32(2), hits)
}

func TestEnsureNotFound(t *testing.T) {
	var hits int32
	srv := newServer(t, nil, &hits)
	cache := t.TempDir()

	d := download.New(srv.URL, cache, download.WithRetries(3))
	err := d.Ensure(context.Background(), []string{"missing.tsv.gz"})

	var dlErr *download.Error
	require.True(t, errors.As(err, &dlErr))
	require.Equal(t, http.StatusNotFound, dlErr.StatusCode)
	require.Equal(t, srv.URL+"/missing.tsv.gz", dlErr.URL)
	require.Equal(t, int32(1), hits, "4xx is not retried")

	entries, err := os.ReadDir(cache)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestEnsureRetriesServerErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	cache := t.TempDir()
	d := download.New(srv.URL, cache, download.WithRetries(1))
	require.NoError(t, d.Ensure(context.Background(), []string{"f.tsv.gz"}))
	require.Equal(t, int32(2), hits)
}

func TestEnsureCancelled(t *testing.T) {
	var hits int32
	srv := newServer(t, map[string]string{"/f.tsv.gz": "x"}, &hits)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cache := t.TempDir()
	err := download.New(srv.URL, cache, download.WithRetries(0)).Ensure(ctx, []string{"f.tsv.gz"})
	require.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(filepath.Join(cache, "f.tsv.gz"))
	require.ErrorIs(t, statErr, os.ErrNotExist)
}
