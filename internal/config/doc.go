// Package config loads the planner's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/kampfrichter/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Data directory: <XDG data home>/de.philippremy.dtb-kampfrichtereinsatzplaene
//   - Log level: info
//   - Document writer: kampfrichtereinsatzplaene-docx (looked up on PATH)
//   - Chromium mirror: https://storage.googleapis.com/chromium-browser-snapshots
//   - Update feed: the project's latest.json release asset
//   - Update check on start: enabled
//
// Derived directories live below the data directory:
//
//   - Logs: session log files
//   - Externals: the downloaded Chromium build
//   - Updates: staged release downloads
//
// # TOML Format
//
//	data_dir = "~/.local/share/kampfrichter"
//	log_level = "debug"
//	renderer_command = "/opt/writer/bin/docx"
//	renderer_args = ["--lang", "de"]
//	chrome_binary = ""
//	chrome_revision = "1294836"
//	update_on_start = false
//
// All fields are optional. Tilde expansion is performed for data_dir and
// chrome_binary.
//
// # Validation
//
// After decoding, the Config is checked with go-playground/validator: the log
// level must be one of debug, info, warn or error, the mirror and feed must be
// URLs, and a pinned Chromium revision must be numeric. Validation failures
// are returned as "invalid config" errors.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//   - Validation failures
//
// Missing config files are NOT an error.
package config
