package downloader

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"comrade/cf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "comrade-cf")
	if err != nil {
		panic(err)
	}
	cf.SetStorageDir(dir)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func newTestClient(t *testing.T) *HTTPClient {
	t.Helper()
	c, err := NewHTTPClient(5 * time.Second)
	require.NoError(t, err)
	return c
}

func TestHTTPClientDecompressesGzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla")
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		zw.Write([]byte("<html><title>ok</title></html>"))
		zw.Close()
		w.Header().Set("Content-Encoding", "gzip")
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	html, err := newTestClient(t).FetchHTML(context.Background(), srv.URL+"/g/1/")
	require.NoError(t, err)
	assert.Equal(t, "<html><title>ok</title></html>", html)
}

func TestHTTPClientReturnsNotFoundBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("<html><title>404 - Not Found</title></html>"))
	}))
	defer srv.Close()

	html, err := newTestClient(t).FetchHTML(context.Background(), srv.URL+"/g/1/")
	require.NoError(t, err)
	assert.Contains(t, html, "404")
}

func TestHTTPClientDetectsChallenge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("<html><title>Just a moment...</title></html>"))
	}))
	defer srv.Close()

	_, err := newTestClient(t).FetchHTML(context.Background(), srv.URL+"/g/1/")
	ce, ok := cf.IsChallenge(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, ce.StatusCode)
}

func TestHTTPClientRejectsOtherStatuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(t).FetchHTML(context.Background(), srv.URL)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
}

func TestHTTPClientSavesDebugHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>saved</html>"))
	}))
	defer srv.Close()

	c := newTestClient(t)
	c.DebugSaveHTMLDir = t.TempDir()
	_, err := c.FetchHTML(context.Background(), srv.URL+"/g/7/")
	require.NoError(t, err)

	entries, err := os.ReadDir(c.DebugSaveHTMLDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

type fetchFunc func(ctx context.Context, url string) (string, error)

func (f fetchFunc) FetchHTML(ctx context.Context, url string) (string, error) { return f(ctx, url) }

func TestRequestExecutorFallback(t *testing.T) {
	failing := fetchFunc(func(context.Context, string) (string, error) { return "", errors.New("boom") })
	browser := fetchFunc(func(context.Context, string) (string, error) { return "<html>browser</html>", nil })

	html, err := NewRequestExecutor(failing, browser).FetchHTML(context.Background(), "https://nhentai.net/g/1/")
	require.NoError(t, err)
	assert.Equal(t, "<html>browser</html>", html)

	_, err = NewRequestExecutor(failing, nil).FetchHTML(context.Background(), "https://nhentai.net/g/1/")
	assert.EqualError(t, err, "boom")

	brokenBrowser := fetchFunc(func(context.Context, string) (string, error) { return "", errors.New("no chrome") })
	_, err = NewRequestExecutor(failing, brokenBrowser).FetchHTML(context.Background(), "https://nhentai.net/g/1/")
	assert.EqualError(t, err, "boom")
}

func TestBlobClientFetchRaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.jpg" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0x10, 'J', 'F', 'I', 'F', 0, 1})
	}))
	defer srv.Close()

	b := NewBlobClient(5 * time.Second)
	b.BaseDelay = time.Millisecond

	data, err := b.FetchRaw(context.Background(), srv.URL+"/galleries/1019423/1.jpg")
	require.NoError(t, err)
	assert.Equal(t, byte(0xFF), data[0])

	_, err = b.FetchRaw(context.Background(), srv.URL+"/missing.jpg")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}
