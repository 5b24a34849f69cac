package update

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifestBody = `{
	"version": "2.1.0",
	"notes": "Fehlerbehebungen",
	"pub_date": "2024-06-01T10:00:00Z",
	"platforms": {
		"linux-x86_64": {"url": "/download/app-linux", "signature": "sig"}
	}
}`

func newFeed(t *testing.T, artifact []byte) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/latest.json", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(manifestBody))
	})
	mux.HandleFunc("/download/app-linux", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(artifact)))
		_, _ = w.Write(artifact)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newSource(t *testing.T, endpoint, current string) *ManifestSource {
	t.Helper()
	src, err := NewManifestSource(ManifestOptions{
		Endpoint:       endpoint,
		CurrentVersion: current,
		Platform:       "linux-x86_64",
		InstallPath:    filepath.Join(t.TempDir(), "kampfrichter"),
	})
	require.NoError(t, err)
	return src
}

func TestManifestSourceCheck(t *testing.T) {
	srv := newFeed(t, nil)

	rel, err := newSource(t, srv.URL+"/latest.json", "2.0.3").Check(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rel)
	assert.Equal(t, "2.1.0", rel.Version)
	assert.Equal(t, "Fehlerbehebungen", rel.Notes)
	assert.Equal(t, "2024-06-01T10:00:00Z", rel.Date)
	assert.Equal(t, srv.URL+"/download/app-linux", rel.URL)

	rel, err = newSource(t, srv.URL+"/latest.json", "2.1.0").Check(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rel, "same version is not an update")
}

func TestManifestSourceCheckMissingPlatform(t *testing.T) {
	srv := newFeed(t, nil)
	src := newSource(t, srv.URL+"/latest.json", "1.0.0")
	src.platform = "windows-x86_64"

	_, err := src.Check(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no download for windows-x86_64")
}

func TestManifestSourceCheckHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newSource(t, srv.URL, "1.0.0").Check(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestManifestSourceDownloadAndInstall(t *testing.T) {
	artifact := bytes.Repeat([]byte("k"), 3*chunkSize+17)
	srv := newFeed(t, artifact)
	src := newSource(t, srv.URL+"/latest.json", "1.0.0")

	rel, err := src.Check(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rel)

	var sum int
	var total int64
	downloaded := false
	err = src.DownloadAndInstall(context.Background(), *rel, func(n int, size int64) {
		assert.False(t, downloaded, "chunks arrive before completion")
		sum += n
		total = size
	}, func() { downloaded = true })
	require.NoError(t, err)

	assert.True(t, downloaded)
	assert.Equal(t, len(artifact), sum)
	assert.Equal(t, int64(len(artifact)), total)

	got, err := os.ReadFile(src.installPath)
	require.NoError(t, err)
	assert.Equal(t, artifact, got)

	info, err := os.Stat(src.installPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(src.installPath))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "staging file renamed into place")
}

func TestManifestSourceDownloadFailureLeavesInstallUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	src := newSource(t, srv.URL, "1.0.0")
	require.NoError(t, os.WriteFile(src.installPath, []byte("old"), 0o755))

	err := src.DownloadAndInstall(context.Background(), Release{Version: "2.0.0", URL: srv.URL + "/missing"}, nil, nil)
	require.Error(t, err)

	got, err := os.ReadFile(src.installPath)
	require.NoError(t, err)
	assert.Equal(t, "old", string(got))
}

func TestNewManifestSourceValidation(t *testing.T) {
	_, err := NewManifestSource(ManifestOptions{InstallPath: "/tmp/x"})
	assert.Error(t, err)

	_, err = NewManifestSource(ManifestOptions{Endpoint: "example.com/latest.json"})
	assert.Error(t, err)

	src, err := NewManifestSource(ManifestOptions{Endpoint: "example.com/latest.json", InstallPath: "/tmp/x"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/latest.json", src.endpoint.String())
	assert.Equal(t, "/tmp", src.stagingDir)
}

func TestPlatformKey(t *testing.T) {
	assert.Equal(t, "linux-x86_64", PlatformKey("linux", "amd64"))
	assert.Equal(t, "darwin-aarch64", PlatformKey("darwin", "arm64"))
	assert.Equal(t, "windows-i686", PlatformKey("windows", "386"))
}

func TestIsNewerVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		newVersion string
		oldVersion string
		expected   bool
	}{
		{name: "newer minor", newVersion: "2.1.0", oldVersion: "2.0.3", expected: true},
		{name: "newer patch", newVersion: "1.0.2", oldVersion: "1.0.1", expected: true},
		{name: "older", newVersion: "1.0.0", oldVersion: "2.0.0", expected: false},
		{name: "equal", newVersion: "1.0.0", oldVersion: "1.0.0", expected: false},
		{name: "release beats prerelease", newVersion: "1.0.0", oldVersion: "1.0.0-beta", expected: true},
		{name: "v prefix", newVersion: "v2.0.0", oldVersion: "v1.9.9", expected: true},
		{name: "string fallback", newVersion: "build-b", oldVersion: "build-a", expected: true},
		{name: "empty new", newVersion: "", oldVersion: "1.0.0", expected: false},
		{name: "empty old", newVersion: "1.0.0", oldVersion: "", expected: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsNewerVersion(tt.newVersion, tt.oldVersion))
		})
	}
}
