package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/kampfrichter/internal/competition"
)

// SummaryOptions control RenderSummary.
type SummaryOptions struct {
	Theme string
	// Title replaces the competition name in the header; it already
	// carries the save state.
	Title    string
	SavePath string
	Saved    bool
}

// RenderSummary renders a competition as text for the show command: the
// header fields, one table per judging table and a warning block listing
// judges assigned more than once.
func RenderSummary(rec competition.Record, opts SummaryOptions) string {
	theme := GetTheme(opts.Theme)
	s := theme.Styles()
	var b strings.Builder

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = strings.TrimSpace(rec.Name)
	}
	if title == "" {
		title = "(ohne Namen)"
	}
	b.WriteString(s.Logo.Render(title))
	switch {
	case opts.Saved:
		b.WriteString(s.FaintText.Render("  " + opts.SavePath))
	case opts.Title == "":
		b.WriteString(s.WarningText.Render("  nicht gespeichert"))
	}
	b.WriteString("\n")

	for _, row := range [][2]string{
		{"Datum", rec.Date},
		{"Ort", rec.Place},
		{"Verantwortlich", rec.ResponsiblePerson},
		{"Kampfrichterbesprechung", rec.JudgesMeetingTime},
	} {
		if strings.TrimSpace(row[1]) == "" {
			continue
		}
		b.WriteString(s.MutedText.Render(row[0]+": ") + s.Text.Render(row[1]) + "\n")
	}

	tables := competition.MarkDuplicates(rec.JudgingTables)
	for _, id := range competition.SortedTableIDs(tables) {
		b.WriteString("\n")
		b.WriteString(renderTable(tables[id], theme, s))
		b.WriteString("\n")
	}

	if len(rec.ReplacementJudges) > 0 {
		b.WriteString("\n")
		b.WriteString(s.MutedText.Render("Ersatzkampfrichter: "))
		b.WriteString(s.Text.Render(strings.Join(rec.ReplacementJudges, ", ")))
		b.WriteString("\n")
	}

	if dups := competition.DuplicateNames(tables); len(dups) > 0 {
		b.WriteString("\n")
		b.WriteString(s.DangerText.Render("Doppelt eingesetzt: "))
		b.WriteString(s.WarningText.Render(strings.Join(dups, ", ")))
		b.WriteString("\n")
	}
	return b.String()
}

func renderTable(t competition.JudgingTable, theme Theme, s Styles) string {
	heading := s.AccentText.Render(t.Name)
	if t.Kind != "" {
		heading += s.FaintText.Render("  " + t.Kind)
	}
	if t.IsFinal {
		heading += " " + s.StatusStyle("final").Render("Finale")
	}

	ids := competition.SortedJudgeIDs(t.Judges)
	rows := make([][]string, 0, len(ids))
	dup := make([]bool, 0, len(ids))
	for _, id := range ids {
		j := t.Judges[id]
		name := j.Name
		if j.DuplicateFound {
			name += " (!)"
		}
		rows = append(rows, []string{j.Role, name})
		dup = append(dup, j.DuplicateFound)
	}
	if len(rows) == 0 {
		return heading + "\n" + s.FaintText.Render("  keine Kampfrichter")
	}

	grid := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Border))).
		Headers("Rolle", "Name").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return base.Foreground(lipgloss.Color(theme.Muted)).Bold(true)
			case row >= 0 && row < len(dup) && dup[row] && col == 1:
				return base.Foreground(lipgloss.Color(theme.Danger))
			default:
				return base.Foreground(lipgloss.Color(theme.Text))
			}
		})
	return heading + "\n" + grid.String()
}
