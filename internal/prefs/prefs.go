// Package prefs handles planner user preferences persistence.
// Preferences are stored in ~/.config/kampfrichter/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences.
type Prefs struct {
	Theme       string   `toml:"theme"`
	RecentFiles []string `toml:"recent_files"`
}

const (
	defaultPrefsPath = "~/.config/kampfrichter/prefs.toml"
	defaultTheme     = "Nightfox"

	// MaxRecentFiles caps the recent-files list.
	MaxRecentFiles = 10
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	prefs, err := read(path)
	if err != nil {
		return Prefs{Theme: defaultTheme}, nil // Graceful degradation
	}
	return prefs, nil
}

// read is Load without the degradation: only a missing file yields defaults.
func read(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Prefs{}, fmt.Errorf("resolve path: %w", err)
	}

	prefs := Prefs{Theme: defaultTheme}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return Prefs{}, fmt.Errorf("open prefs: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Prefs{}, fmt.Errorf("read prefs: %w", err)
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Prefs{}, fmt.Errorf("parse prefs: %w", err)
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	prefs.RecentFiles = normalizeRecent(prefs.RecentFiles)

	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// AddRecent moves file to the front of the recent-files list.
func (p *Prefs) AddRecent(file string) {
	file = strings.TrimSpace(file)
	if file == "" {
		return
	}
	if abs, err := filepath.Abs(file); err == nil {
		file = abs
	}
	p.RecentFiles = normalizeRecent(append([]string{file}, p.RecentFiles...))
}

// Update applies fn to the prefs stored at path and saves the result. A file
// that exists but cannot be parsed is left untouched and its error returned.
func Update(path string, fn func(*Prefs)) error {
	p, err := read(path)
	if err != nil {
		return err
	}
	fn(&p)
	return Save(path, p)
}

// Touch records file as recently used in the prefs stored at path.
func Touch(path, file string) error {
	return Update(path, func(p *Prefs) { p.AddRecent(file) })
}

func normalizeRecent(files []string) []string {
	seen := make(map[string]struct{}, len(files))
	out := make([]string, 0, min(len(files), MaxRecentFiles))
	for _, f := range files {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
		if len(out) == MaxRecentFiles {
			break
		}
	}
	return out
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
