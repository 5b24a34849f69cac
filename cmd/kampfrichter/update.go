package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/five82/kampfrichter/internal/ui"
	"github.com/five82/kampfrichter/internal/update"
)

func newUpdateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Check for and install a newer release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !c.app.UpdateAvailable() {
				return errors.New("update checks are disabled on this system")
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			model := ui.NewUpdateModel(c.app.UpdateApp, c.prefs.Theme)
			p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(cmd.OutOrStdout()))
			c.app.SetUpdateNotifier(ui.ProgramNotifier{Program: p})
			defer c.app.SetUpdateNotifier(nil)

			done := make(chan error, 1)
			go func() { done <- c.app.RunUpdateCheck(ctx) }()

			final, err := p.Run()
			cancel()
			runErr := <-done
			if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("update dialog: %w", err)
			}
			if m, ok := final.(ui.UpdateModel); ok {
				switch m.Phase() {
				case "failed":
					return fmt.Errorf("update failed: %s", m.Err())
				case "installed":
					fmt.Fprintf(cmd.OutOrStdout(), "installed (%d bytes), restart kampfrichter to use it\n", c.app.UpdateProgress())
				}
			}
			if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, update.ErrAlreadyRunning) {
				return runErr
			}
			return nil
		},
	}
}
