package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	json "github.com/goccy/go-json"
)

// Manifest is the release feed document.
type Manifest struct {
	Version   string                   `json:"version"`
	Notes     string                   `json:"notes"`
	PubDate   string                   `json:"pub_date"`
	Platforms map[string]PlatformAsset `json:"platforms"`
}

// PlatformAsset is the download for one platform key such as linux-x86_64.
type PlatformAsset struct {
	URL       string `json:"url"`
	Signature string `json:"signature"`
}

// ManifestOptions configure a ManifestSource.
type ManifestOptions struct {
	Endpoint       string
	CurrentVersion string
	// Platform defaults to PlatformKey(runtime.GOOS, runtime.GOARCH).
	Platform string
	// InstallPath is replaced by the downloaded artifact.
	InstallPath string
	// StagingDir holds partial downloads; defaults to InstallPath's dir.
	StagingDir string
	HTTPClient *http.Client
	Logger     *log.Logger
}

// ManifestSource checks a JSON release feed and installs by replacing a
// single executable.
type ManifestSource struct {
	endpoint    *url.URL
	current     string
	platform    string
	installPath string
	stagingDir  string
	http        *http.Client
	userAgent   string
	logger      *log.Logger
}

var _ Source = (*ManifestSource)(nil)

const (
	defaultUserAgent = "kampfrichter/1.0"
	checkTimeout     = 10 * time.Second
	chunkSize        = 32 * 1024
)

// NewManifestSource validates opts and returns a ManifestSource.
func NewManifestSource(opts ManifestOptions) (*ManifestSource, error) {
	endpoint, err := parseEndpoint(opts.Endpoint)
	if err != nil {
		return nil, err
	}
	installPath := strings.TrimSpace(opts.InstallPath)
	if installPath == "" {
		return nil, fmt.Errorf("install path is empty")
	}
	staging := strings.TrimSpace(opts.StagingDir)
	if staging == "" {
		staging = filepath.Dir(installPath)
	}
	platform := strings.TrimSpace(opts.Platform)
	if platform == "" {
		platform = PlatformKey(runtime.GOOS, runtime.GOARCH)
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &ManifestSource{
		endpoint:    endpoint,
		current:     strings.TrimSpace(opts.CurrentVersion),
		platform:    platform,
		installPath: installPath,
		stagingDir:  staging,
		http:        client,
		userAgent:   defaultUserAgent,
		logger:      logger.With("component", "update-feed"),
	}, nil
}

// PlatformKey maps GOOS/GOARCH to the feed's platform keys.
func PlatformKey(goos, goarch string) string {
	arch := goarch
	switch goarch {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "aarch64"
	case "386":
		arch = "i686"
	}
	return goos + "-" + arch
}

// FetchManifest downloads and decodes the release feed.
func (s *ManifestSource) FetchManifest(ctx context.Context) (Manifest, error) {
	if s == nil {
		return Manifest{}, fmt.Errorf("source is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	resp, err := s.get(ctx, s.endpoint.String(), "application/json")
	if err != nil {
		return Manifest{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	var m Manifest
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	if strings.TrimSpace(m.Version) == "" {
		return Manifest{}, fmt.Errorf("manifest has no version")
	}
	return m, nil
}

// Check implements Source.
func (s *ManifestSource) Check(ctx context.Context) (*Release, error) {
	m, err := s.FetchManifest(ctx)
	if err != nil {
		return nil, err
	}
	if !IsNewerVersion(m.Version, s.current) {
		s.logger.Debug("no newer release", "current", s.current, "latest", m.Version)
		return nil, nil
	}
	asset, ok := m.Platforms[s.platform]
	if !ok || strings.TrimSpace(asset.URL) == "" {
		return nil, fmt.Errorf("release %s has no download for %s", m.Version, s.platform)
	}
	download, err := s.endpoint.Parse(asset.URL)
	if err != nil {
		return nil, fmt.Errorf("parse download url %q: %w", asset.URL, err)
	}
	return &Release{
		Version: m.Version,
		Notes:   m.Notes,
		Date:    m.PubDate,
		URL:     download.String(),
	}, nil
}

// DownloadAndInstall implements Source. The artifact is staged next to the
// install path and renamed over it once complete.
func (s *ManifestSource) DownloadAndInstall(ctx context.Context, rel Release, onChunk func(n int, total int64), onDownloaded func()) error {
	if strings.TrimSpace(rel.URL) == "" {
		return fmt.Errorf("release %s has no download url", rel.Version)
	}
	resp, err := s.get(ctx, rel.URL, "application/octet-stream")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := os.MkdirAll(s.stagingDir, 0o755); err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.stagingDir, ".update-*.part")
	if err != nil {
		return fmt.Errorf("create staging file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	total := resp.ContentLength
	var received int64
	buf := make([]byte, chunkSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := tmp.Write(buf[:n]); err != nil {
				cleanup()
				return fmt.Errorf("write staging file: %w", err)
			}
			received += int64(n)
			if onChunk != nil {
				onChunk(n, total)
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			cleanup()
			return fmt.Errorf("read download: %w", readErr)
		}
	}
	if total >= 0 && received != total {
		cleanup()
		return fmt.Errorf("download truncated: got %d of %d bytes", received, total)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close staging file: %w", err)
	}
	if onDownloaded != nil {
		onDownloaded()
	}

	if err := os.Chmod(tmpName, 0o755); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod staged update: %w", err)
	}
	if err := os.Rename(tmpName, s.installPath); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("install update: %w", err)
	}
	s.logger.Info("installed release", "version", rel.Version, "path", s.installPath, "bytes", received)
	return nil
}

func (s *ManifestSource) get(ctx context.Context, target, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	if resp.StatusCode >= 400 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("request %s returned status %d", target, resp.StatusCode)
	}
	return resp, nil
}

func parseEndpoint(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("update endpoint is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse update endpoint %q: %w", raw, err)
	}
	u.Fragment = ""
	return u, nil
}
