package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/kampfrichter/internal/update"
)

// UpdateModel is the update dialog. It renders coordinator events and turns
// key presses into decisions.
type UpdateModel struct {
	decide    func(accepted bool)
	keys      keyMap
	themeName string
	theme     Theme
	styles    Styles
	bar       progress.Model

	phase    string
	release  update.AvailablePayload
	received uint64
	total    int64
	errMsg   string
	decided  bool
	done     bool
	quitting bool
	started  time.Time
	now      time.Time
}

// NewUpdateModel returns a dialog that reports the user's answer to decide.
func NewUpdateModel(decide func(accepted bool), themeName string) UpdateModel {
	theme := GetTheme(themeName)
	return UpdateModel{
		decide:    decide,
		keys:      DefaultKeyMap(),
		themeName: theme.Name,
		theme:     theme,
		styles:    theme.Styles(),
		bar:       newBar(theme),
		phase:     "checking",
	}
}

func newBar(theme Theme) progress.Model {
	return progress.New(
		progress.WithGradient(theme.Accent, theme.Success),
		progress.WithWidth(48),
		progress.WithoutPercentage(),
	)
}

// EventMsg carries one coordinator event into the program.
type EventMsg struct {
	Event   string
	Payload any
}

type tickMsg time.Time

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// ProgramNotifier forwards coordinator events to a running program.
type ProgramNotifier struct {
	Program *tea.Program
}

// Notify implements update.Notifier.
func (n ProgramNotifier) Notify(event string, payload any) {
	if n.Program != nil {
		n.Program.Send(EventMsg{Event: event, Payload: payload})
	}
}

var _ update.Notifier = ProgramNotifier{}

// Init starts the elapsed-time ticker.
func (m UpdateModel) Init() tea.Cmd {
	return tickCmd(time.Second)
}

// Update handles events and key presses.
func (m UpdateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		return m.handleEvent(msg)
	case tickMsg:
		m.now = time.Time(msg)
		if m.started.IsZero() {
			m.started = m.now
		}
		if m.done {
			return m, nil
		}
		return m, tickCmd(time.Second)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m UpdateModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.phase == "awaiting" && !m.decided && m.decide != nil {
			m.decide(false)
		}
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.CycleTheme):
		m.themeName = NextTheme(m.themeName)
		m.theme = GetTheme(m.themeName)
		m.styles = m.theme.Styles()
		m.bar = newBar(m.theme)
		return m, nil
	}
	if m.phase != "awaiting" || m.decided {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Accept):
		m.decided = true
		m.phase = "accepted"
		if m.decide != nil {
			m.decide(true)
		}
	case key.Matches(msg, m.keys.Decline):
		m.decided = true
		m.phase = "declined"
		m.done = true
		if m.decide != nil {
			m.decide(false)
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m UpdateModel) handleEvent(msg EventMsg) (tea.Model, tea.Cmd) {
	switch msg.Event {
	case update.EventAvailable:
		if p, ok := msg.Payload.(update.AvailablePayload); ok {
			m.release = p
		}
		m.phase = "awaiting"
	case update.EventNotAvailable:
		m.phase = "current"
		m.done = true
		return m, tea.Quit
	case update.EventPending:
		m.phase = "downloading"
	case update.EventProgress:
		if p, ok := msg.Payload.(update.ProgressPayload); ok {
			m.received = p.ChunkLen
			m.total = p.ContentLen
		}
		m.phase = "downloading"
	case update.EventDownloaded:
		m.phase = "installing"
	case update.EventFinished:
		m.phase = "installed"
		m.done = true
		return m, tea.Quit
	case update.EventError:
		m.phase = "failed"
		m.errMsg = fmt.Sprint(msg.Payload)
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// Phase returns the dialog's view of the update phase.
func (m UpdateModel) Phase() string {
	return m.phase
}

// Err returns the error reported by the coordinator, if any.
func (m UpdateModel) Err() string {
	return m.errMsg
}

// Percent is the download progress in [0, 1]. Unknown sizes report 0.
func (m UpdateModel) Percent() float64 {
	if m.total <= 0 {
		return 0
	}
	p := float64(m.received) / float64(m.total)
	if p > 1 {
		return 1
	}
	return p
}

// View renders the dialog.
func (m UpdateModel) View() string {
	if m.quitting {
		return ""
	}
	s := m.styles
	var b strings.Builder

	b.WriteString(s.Logo.Render("Kampfrichtereinsatzpläne"))
	b.WriteString("  ")
	b.WriteString(s.StatusStyle(m.phase).Render(phaseLabel(m.phase)))
	if !m.started.IsZero() && !m.done {
		b.WriteString(s.FaintText.Render(fmt.Sprintf("  %s", m.now.Sub(m.started).Round(time.Second))))
	}
	b.WriteString("\n\n")

	switch m.phase {
	case "checking":
		b.WriteString(s.MutedText.Render("Suche nach Updates …"))
	case "current":
		b.WriteString(s.SuccessText.Render("Die neueste Version ist bereits installiert."))
	case "awaiting", "accepted", "declined", "downloading", "installing", "installed":
		b.WriteString(m.renderRelease())
	case "failed":
		b.WriteString(s.DangerText.Render("Update fehlgeschlagen: "))
		b.WriteString(s.Text.Render(m.errMsg))
	}

	if m.phase == "downloading" || m.phase == "installing" || m.phase == "installed" {
		b.WriteString("\n\n")
		b.WriteString(m.bar.ViewAs(m.Percent()))
		b.WriteString(" ")
		b.WriteString(s.MutedText.Render(formatBytes(m.received, m.total)))
	}

	if m.phase == "awaiting" && !m.decided {
		b.WriteString("\n\n")
		b.WriteString(m.renderHelp())
	}
	b.WriteString("\n")
	return b.String()
}

func (m UpdateModel) renderRelease() string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.AccentText.Render("Version " + m.release.Version))
	if m.release.Date != "" {
		b.WriteString(s.FaintText.Render("  " + m.release.Date))
	}
	notes := strings.TrimSpace(m.release.Body)
	if notes != "" {
		b.WriteString("\n")
		b.WriteString(s.Panel.Render(s.Text.Render(notes)))
	}
	return b.String()
}

func (m UpdateModel) renderHelp() string {
	s := m.styles
	parts := make([]string, 0, 4)
	for _, binding := range m.keys.ShortHelp() {
		h := binding.Help()
		parts = append(parts, s.AccentText.Render(h.Key)+" "+s.MutedText.Render(h.Desc))
	}
	return strings.Join(parts, s.FaintText.Render("  ·  "))
}

func phaseLabel(phase string) string {
	switch phase {
	case "checking":
		return "Prüfe"
	case "current":
		return "Aktuell"
	case "awaiting":
		return "Update verfügbar"
	case "accepted", "downloading":
		return "Lade herunter"
	case "installing":
		return "Installiere"
	case "installed":
		return "Installiert"
	case "declined":
		return "Übersprungen"
	case "failed":
		return "Fehler"
	default:
		return phase
	}
}

func formatBytes(received uint64, total int64) string {
	const mb = 1024 * 1024
	if total <= 0 {
		return fmt.Sprintf("%.1f MB", float64(received)/mb)
	}
	return fmt.Sprintf("%.1f / %.1f MB", float64(received)/mb, float64(total)/mb)
}
