package chrome

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"

	"github.com/five82/kampfrichter/internal/apperr"
)

const (
	// DefaultBaseURL hosts the Chromium continuous snapshot builds.
	DefaultBaseURL = "https://storage.googleapis.com/chromium-browser-snapshots"

	defaultUserAgent     = "kampfrichter/1.0"
	defaultMaxTries      = 3
	defaultRetryInterval = 500 * time.Millisecond
	lockRetryDelay       = 250 * time.Millisecond
)

// Options configure a Fetcher.
type Options struct {
	// InstallRoot is the Externals directory browsers are installed under.
	InstallRoot string
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string
	// Revision overrides the platform's pinned revision.
	Revision string
	// Platform defaults to CurrentPlatform.
	Platform   *Platform
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Fetcher locates and installs a private Chromium build.
type Fetcher struct {
	root          string
	baseURL       string
	platform      Platform
	http          *http.Client
	logger        *log.Logger
	maxTries      uint
	retryInterval time.Duration
}

// NewFetcher validates opts and returns a Fetcher.
func NewFetcher(opts Options) (*Fetcher, error) {
	root := strings.TrimSpace(opts.InstallRoot)
	if root == "" {
		return nil, fmt.Errorf("install root is empty")
	}

	var platform Platform
	if opts.Platform != nil {
		platform = *opts.Platform
	} else {
		p, err := CurrentPlatform()
		if err != nil {
			return nil, err
		}
		platform = p
	}
	if rev := strings.TrimSpace(opts.Revision); rev != "" {
		platform.Revision = rev
	}

	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Minute}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Fetcher{
		root:          root,
		baseURL:       base,
		platform:      platform,
		http:          client,
		logger:        logger.With("component", "chrome"),
		maxTries:      defaultMaxTries,
		retryInterval: defaultRetryInterval,
	}, nil
}

// Platform returns the build this fetcher installs.
func (f *Fetcher) Platform() Platform {
	return f.platform
}

// InstallDir is where this platform/revision is extracted.
func (f *Fetcher) InstallDir() string {
	return filepath.Join(f.root, f.platform.Name+"-"+f.platform.Revision)
}

// ExecutablePath is the browser binary inside InstallDir.
func (f *Fetcher) ExecutablePath() string {
	return filepath.Join(f.InstallDir(), filepath.FromSlash(f.platform.Executable))
}

// DownloadURL is the archive location for this platform/revision.
func (f *Fetcher) DownloadURL() string {
	return f.baseURL + "/" + f.platform.Name + "/" + f.platform.Revision + "/" + f.platform.Archive
}

// Local reports the installed executable, if present.
func (f *Fetcher) Local() (string, bool) {
	exe := f.ExecutablePath()
	info, err := os.Stat(exe)
	if err != nil || info.IsDir() {
		return "", false
	}
	return exe, true
}

// Fetch installs the browser unless it is already present and returns the
// executable path. Concurrent installers are serialized with a file lock.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	if exe, ok := f.Local(); ok {
		return exe, nil
	}
	if err := os.MkdirAll(f.root, 0o755); err != nil {
		return "", apperr.New(apperr.ChromeDownloadError, "fetch chrome", fmt.Errorf("create install root: %w", err))
	}

	lock := flock.New(filepath.Join(f.root, ".install.lock"))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil || !locked {
		if err == nil {
			err = errors.New("install lock not acquired")
		}
		return "", apperr.New(apperr.ChromeDownloadError, "fetch chrome", fmt.Errorf("lock install root: %w", err))
	}
	defer func() { _ = lock.Unlock() }()

	// Another process may have finished while we waited.
	if exe, ok := f.Local(); ok {
		return exe, nil
	}

	exe, err := f.install(ctx)
	if err != nil {
		return "", apperr.New(apperr.ChromeDownloadError, "fetch chrome", err)
	}
	return exe, nil
}

func (f *Fetcher) install(ctx context.Context) (string, error) {
	url := f.DownloadURL()
	f.logger.Info("downloading chromium", "url", url)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = f.retryInterval
	archive, err := backoff.Retry(ctx, func() (string, error) {
		return f.download(ctx, url)
	}, backoff.WithBackOff(bo), backoff.WithMaxTries(f.maxTries))
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(archive) }()

	partial := filepath.Join(f.root, "."+f.platform.Name+"-"+f.platform.Revision+".partial")
	if err := os.RemoveAll(partial); err != nil {
		return "", fmt.Errorf("clear partial install: %w", err)
	}
	if err := extractZip(archive, partial); err != nil {
		_ = os.RemoveAll(partial)
		return "", err
	}
	dest := f.InstallDir()
	if err := os.RemoveAll(dest); err != nil {
		return "", fmt.Errorf("clear install dir: %w", err)
	}
	if err := os.Rename(partial, dest); err != nil {
		_ = os.RemoveAll(partial)
		return "", fmt.Errorf("move install into place: %w", err)
	}

	exe, ok := f.Local()
	if !ok {
		return "", fmt.Errorf("archive did not contain %s", f.platform.Executable)
	}
	f.logger.Info("chromium installed", "path", exe)
	return exe, nil
}

// download fetches url into a temp file. 4xx responses are permanent.
func (f *Fetcher) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := f.http.Do(req)
	if err != nil {
		f.logger.Warn("chromium download failed, retrying", "error", err)
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		err := fmt.Errorf("download %s returned status %d", url, resp.StatusCode)
		if resp.StatusCode < 500 {
			return "", backoff.Permanent(err)
		}
		f.logger.Warn("chromium download failed, retrying", "status", resp.StatusCode)
		return "", err
	}

	tmp, err := os.CreateTemp(f.root, "chromium-*.zip")
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("create archive file: %w", err))
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", backoff.Permanent(fmt.Errorf("close archive: %w", err))
	}
	return tmp.Name(), nil
}

func extractZip(archive, dest string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer func() { _ = r.Close() }()

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("create extract dir: %w", err)
	}
	dest = filepath.Clean(dest)
	for _, file := range r.File {
		target := filepath.Join(dest, filepath.FromSlash(file.Name))
		if !within(dest, target) {
			return fmt.Errorf("archive entry %q escapes install dir", file.Name)
		}
		if err := checkParents(dest, target); err != nil {
			return fmt.Errorf("archive entry %q: %w", file.Name, err)
		}
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create dir: %w", err)
			}
			continue
		}
		if err := extractFile(file, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(file *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	mode := file.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	if file.Mode()&os.ModeSymlink != 0 {
		src, err := readEntry(file)
		if err != nil {
			return err
		}
		link := filepath.FromSlash(string(src))
		if !safeLink(link) {
			return fmt.Errorf("archive entry %q links outside install dir", file.Name)
		}
		return os.Symlink(link, target)
	}

	in, err := file.Open()
	if err != nil {
		return fmt.Errorf("open entry %s: %w", file.Name, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return fmt.Errorf("create %s: %w", file.Name, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("extract %s: %w", file.Name, err)
	}
	return out.Close()
}

// within reports whether path lies in dir or is dir itself. Both must be clean.
func within(dir, path string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(os.PathSeparator))
}

// safeLink accepts only relative link targets without "..", so links and
// chains of links resolve below the link's own directory.
func safeLink(link string) bool {
	if link == "" || filepath.IsAbs(link) || filepath.VolumeName(link) != "" {
		return false
	}
	for _, part := range strings.Split(link, string(os.PathSeparator)) {
		if part == ".." {
			return false
		}
	}
	return true
}

// checkParents rejects a target whose existing parent directories below root
// include a symlink, so no entry is written through a link.
func checkParents(root, target string) error {
	rel, err := filepath.Rel(root, filepath.Dir(target))
	if err != nil {
		return err
	}
	if rel == "." {
		return nil
	}
	cur := root
	for _, part := range strings.Split(rel, string(os.PathSeparator)) {
		cur = filepath.Join(cur, part)
		info, err := os.Lstat(cur)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("inspect %s: %w", cur, err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("parent %s is a symlink", cur)
		}
	}
	return nil
}

func readEntry(file *zip.File) ([]byte, error) {
	in, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry %s: %w", file.Name, err)
	}
	defer func() { _ = in.Close() }()
	return io.ReadAll(in)
}
