// Package logging sets up the session logger shared by every component.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// FilePattern matches session log file names in the log directory.
const FilePattern = "LOG__*.txt"

// Session is an open session log.
type Session struct {
	Logger *log.Logger
	Path   string
	file   *os.File
}

// FileName returns the session log name for t, LOG__<y-m-d_h-m-s>.txt
// without zero padding.
func FileName(t time.Time) string {
	return fmt.Sprintf("LOG__%d-%d-%d_%d-%d-%d.txt",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
}

// ParseLevel accepts debug, info, warn and error. Empty means info.
func ParseLevel(s string) (log.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("parse log level %q: %w", s, err)
	}
	return lvl, nil
}

// New returns a logger writing to w at level.
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
}

// Open creates a new session log file in dir and returns a logger that
// writes to both stderr and that file. The logger also becomes the package
// default of charmbracelet/log.
func Open(dir, level string, now time.Time) (*Session, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(dir, FileName(now))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger := New(io.MultiWriter(os.Stderr, file), lvl)
	log.SetDefault(logger)
	return &Session{Logger: logger, Path: path, file: file}, nil
}

// Close flushes and closes the log file.
func (s *Session) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
