package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

// ExecRenderer runs the document writer as a child process. The encoded
// competition is written to its stdin and the exit code is the status.
// Exit codes only carry 0-255, so a writer status of -1 arrives as 255.
type ExecRenderer struct {
	command string
	args    []string
	logger  *log.Logger
}

var _ Renderer = (*ExecRenderer)(nil)

// NewExecRenderer returns a renderer invoking command with args followed by
// --mode and --out flags.
func NewExecRenderer(command string, args []string, logger *log.Logger) *ExecRenderer {
	if logger == nil {
		logger = log.Default()
	}
	return &ExecRenderer{
		command: strings.TrimSpace(command),
		args:    slices.Clone(args),
		logger:  logger.With("component", "renderer"),
	}
}

// Render implements Renderer.
func (r *ExecRenderer) Render(ctx context.Context, kind Kind, payload []byte, outputPath string) (int, error) {
	if r.command == "" {
		return 0, fmt.Errorf("renderer command not configured")
	}
	if strings.TrimSpace(outputPath) == "" {
		return 0, fmt.Errorf("output path is empty")
	}

	args := append(slices.Clone(r.args), "--mode", kind.String(), "--out", outputPath)
	cmd := exec.CommandContext(ctx, r.command, args...)
	cmd.Stdin = bytes.NewReader(payload)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	r.logger.Debug("invoking document writer", "command", r.command, "mode", kind, "out", outputPath)
	err := cmd.Run()
	if out := strings.TrimSpace(output.String()); out != "" {
		r.logger.Debug("document writer output", "output", out)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.Exited() {
		status := exitErr.ExitCode()
		r.logger.Warn("document writer failed", "status", status)
		return status, nil
	}
	if err != nil {
		return 0, fmt.Errorf("run renderer: %w", err)
	}
	return 0, nil
}
