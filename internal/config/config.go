package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the planner's runtime settings.
type Config struct {
	DataDir            string   `validate:"required"`
	LogLevel           string   `validate:"oneof=debug info warn error"`
	RendererCommand    string   `validate:"required"`
	RendererArgs       []string `validate:"dive,required"`
	ChromeBinary       string   `validate:"omitempty"`
	ChromeRevision     string   `validate:"omitempty,numeric"`
	ChromeDownloadBase string   `validate:"required,url"`
	UpdateEndpoint     string   `validate:"required,url"`
	UpdateOnStart      bool
}

// AppIdentifier names the per-user data directory.
const AppIdentifier = "de.philippremy.dtb-kampfrichtereinsatzplaene"

const (
	defaultConfigPath         = "~/.config/kampfrichter/config.toml"
	defaultLogLevel           = "info"
	defaultRendererCommand    = "kampfrichtereinsatzplaene-docx"
	defaultChromeDownloadBase = "https://storage.googleapis.com/chromium-browser-snapshots"
	defaultUpdateEndpoint     = "https://github.com/philippremy/dtb-kampfrichtereinsatzplaene/releases/latest/download/latest.json"
)

var validate = validator.New()

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		DataDir:            defaultDataDir(),
		LogLevel:           defaultLogLevel,
		RendererCommand:    defaultRendererCommand,
		ChromeDownloadBase: defaultChromeDownloadBase,
		UpdateEndpoint:     defaultUpdateEndpoint,
		UpdateOnStart:      true,
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		DataDir            string   `toml:"data_dir"`
		LogLevel           string   `toml:"log_level"`
		RendererCommand    string   `toml:"renderer_command"`
		RendererArgs       []string `toml:"renderer_args"`
		ChromeBinary       string   `toml:"chrome_binary"`
		ChromeRevision     string   `toml:"chrome_revision"`
		ChromeDownloadBase string   `toml:"chrome_download_base"`
		UpdateEndpoint     string   `toml:"update_endpoint"`
		UpdateOnStart      *bool    `toml:"update_on_start"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.DataDir); v != "" {
		cfg.DataDir = mustExpand(v)
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(raw.RendererCommand); v != "" {
		cfg.RendererCommand = v
	}
	cfg.RendererArgs = raw.RendererArgs
	if v := strings.TrimSpace(raw.ChromeBinary); v != "" {
		cfg.ChromeBinary = mustExpand(v)
	}
	cfg.ChromeRevision = strings.TrimSpace(raw.ChromeRevision)
	if v := strings.TrimSpace(raw.ChromeDownloadBase); v != "" {
		cfg.ChromeDownloadBase = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(raw.UpdateEndpoint); v != "" {
		cfg.UpdateEndpoint = v
	}
	if raw.UpdateOnStart != nil {
		cfg.UpdateOnStart = *raw.UpdateOnStart
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LogDir is where session logs are written.
func (c Config) LogDir() string {
	return filepath.Join(c.dataDir(), "Logs")
}

// ExternalsDir holds downloaded helper binaries such as Chromium.
func (c Config) ExternalsDir() string {
	return filepath.Join(c.dataDir(), "Externals")
}

// UpdatesDir stages downloaded releases.
func (c Config) UpdatesDir() string {
	return filepath.Join(c.dataDir(), "Updates")
}

func (c Config) dataDir() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return defaultDataDir()
	}
	return c.DataDir
}

func defaultDataDir() string {
	return filepath.Join(xdg.DataHome, AppIdentifier)
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
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
