package ui

import (
	"fmt"
	"io"

	"github.com/five82/kampfrichter/internal/export"
)

// StagePrinter writes one styled line per export stage transition.
type StagePrinter struct {
	w      io.Writer
	styles Styles
}

// NewStagePrinter returns a StagePrinter writing to w.
func NewStagePrinter(w io.Writer, themeName string) *StagePrinter {
	return &StagePrinter{w: w, styles: GetTheme(themeName).Styles()}
}

// Hook matches export.WithStageHook.
func (p *StagePrinter) Hook(op string, stage export.Stage) {
	label := p.styles.StatusStyle(stage.String()).Render(stage.String())
	fmt.Fprintf(p.w, "%s %s\n", p.styles.FaintText.Render(op), label)
}
