// Package ui renders the planner in the terminal.
//
// # Components
//
//   - UpdateModel: a Bubble Tea dialog for the in-app update. It shows the
//     release notes, sends the y/n answer back to the coordinator and draws
//     a progress bar from updateHasProgress events.
//   - ProgramNotifier: adapts a *tea.Program to update.Notifier so
//     coordinator events arrive as EventMsg.
//   - NewCompetitionForm: a huh form asking for the header fields of a new
//     competition.
//   - RenderSummary: a lipgloss rendering of a competition with one table per
//     judging table and a block naming duplicate judges.
//   - StagePrinter: one styled line per export stage, suitable for
//     export.WithStageHook.
//
// # Themes
//
// Nightfox, Kanagawa and Slate are available; the choice is persisted in
// prefs. StatusStyle colors export stages and update phases by name, falling
// back to the theme's muted color.
package ui
