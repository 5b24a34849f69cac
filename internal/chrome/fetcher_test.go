package chrome

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/kampfrichter/internal/apperr"
)

var testPlatform = Platform{
	Name:       "Linux_x64",
	Archive:    "chrome-linux.zip",
	Executable: "chrome-linux/chrome",
	Revision:   "42",
}

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, body := range entries {
		hdr := &zip.FileHeader{Name: name, Method: zip.Deflate}
		hdr.SetMode(0o755)
		fw, err := w.CreateHeader(hdr)
		require.NoError(t, err)
		_, err = fw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

type zipEntry struct {
	name string
	body string
	link bool
}

// buildOrderedZip keeps entry order, which matters for link-then-write archives.
func buildOrderedZip(t *testing.T, entries ...zipEntry) string {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		hdr := &zip.FileHeader{Name: e.name, Method: zip.Store}
		if e.link {
			hdr.SetMode(os.ModeSymlink | 0o777)
		} else {
			hdr.SetMode(0o644)
		}
		fw, err := w.CreateHeader(hdr)
		require.NoError(t, err)
		_, err = fw.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	path := filepath.Join(t.TempDir(), "archive.zip")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func newTestFetcher(t *testing.T, baseURL string) *Fetcher {
	t.Helper()
	p := testPlatform
	f, err := NewFetcher(Options{
		InstallRoot: filepath.Join(t.TempDir(), "Externals"),
		BaseURL:     baseURL,
		Platform:    &p,
	})
	require.NoError(t, err)
	f.retryInterval = time.Millisecond
	return f
}

func TestFetchDownloadsAndExtracts(t *testing.T) {
	archive := buildZip(t, map[string]string{
		"chrome-linux/chrome":        "#!/bin/sh\n",
		"chrome-linux/locales/a.pak": "pak",
	})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/Linux_x64/42/chrome-linux.zip" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv.URL+"/")
	_, ok := f.Local()
	require.False(t, ok)

	exe, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, f.ExecutablePath(), exe)

	info, err := os.Stat(exe)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0o100, "executable bit preserved")

	local, ok := f.Local()
	require.True(t, ok)
	assert.Equal(t, exe, local)

	// Installed builds are reused without another request.
	_, err = f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	entries, err := os.ReadDir(f.root)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".partial")
		assert.NotContains(t, e.Name(), ".zip")
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	archive := buildZip(t, map[string]string{"chrome-linux/chrome": "bin"})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv.URL)
	_, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv.URL)
	_, err := f.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperr.ChromeDownloadError, apperr.CodeOf(err))
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetchRejectsEscapingEntries(t *testing.T) {
	archive := buildZip(t, map[string]string{"../evil": "x"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv.URL)
	_, err := f.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes install dir")
	_, statErr := os.Stat(filepath.Join(f.root, "evil"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtractZipRejectsSymlinkEscapes(t *testing.T) {
	outside := t.TempDir()

	tests := map[string][]zipEntry{
		"absolute link": {
			{name: "chrome-linux/link", body: outside, link: true},
			{name: "chrome-linux/link/pwned", body: "x"},
		},
		"climbing link": {
			{name: "chrome-linux/link", body: "../../outside", link: true},
		},
		"write through in-tree link": {
			{name: "chrome-linux/sub/", body: ""},
			{name: "chrome-linux/link", body: "sub", link: true},
			{name: "chrome-linux/link/pwned", body: "x"},
		},
	}
	for name, entries := range tests {
		t.Run(name, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "install")
			err := extractZip(buildOrderedZip(t, entries...), dest)
			require.Error(t, err)
			_, statErr := os.Stat(filepath.Join(outside, "pwned"))
			assert.True(t, os.IsNotExist(statErr))
			_, statErr = os.Stat(filepath.Join(dest, "chrome-linux", "sub", "pwned"))
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestExtractZipKeepsRelativeLinks(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "install")
	archive := buildOrderedZip(t,
		zipEntry{name: "Chromium.app/Versions/A/lib", body: "lib"},
		zipEntry{name: "Chromium.app/Versions/Current", body: "A", link: true},
	)
	require.NoError(t, extractZip(archive, dest))

	data, err := os.ReadFile(filepath.Join(dest, "Chromium.app", "Versions", "Current", "lib"))
	require.NoError(t, err)
	assert.Equal(t, "lib", string(data))
}

func TestFetchFailsWhenExecutableMissing(t *testing.T) {
	archive := buildZip(t, map[string]string{"other/file": "x"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv.URL)
	_, err := f.Fetch(context.Background())
	assert.Equal(t, apperr.ChromeDownloadError, apperr.CodeOf(err))
}

func TestRevisionOverrideAndURL(t *testing.T) {
	p := testPlatform
	f, err := NewFetcher(Options{InstallRoot: "/data/Externals", Revision: "7", Platform: &p})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL+"/Linux_x64/7/chrome-linux.zip", f.DownloadURL())
	assert.Equal(t, filepath.Join("/data/Externals", "Linux_x64-7"), f.InstallDir())

	_, err = NewFetcher(Options{})
	assert.Error(t, err)
}

func TestPlatformFor(t *testing.T) {
	tests := []struct {
		goos, goarch string
		name, rev    string
	}{
		{"linux", "amd64", "Linux_x64", "1294836"},
		{"darwin", "amd64", "Mac", "1294832"},
		{"darwin", "arm64", "Mac_Arm", "1294832"},
		{"windows", "amd64", "Win_x64", "1294832"},
	}
	for _, tt := range tests {
		p, err := PlatformFor(tt.goos, tt.goarch)
		require.NoError(t, err)
		assert.Equal(t, tt.name, p.Name)
		assert.Equal(t, tt.rev, p.Revision)
	}
	_, err := PlatformFor("plan9", "386")
	assert.Error(t, err)
}
