package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nexcart/nexcart-installer/internal/download"
)

// Monitor is an interactive install/upgrade view: current pipeline phase,
// a progress bar with speed and ETA, and warnings as they surface. The
// pipeline runs in a goroutine and feeds the model through Send methods.
type Monitor struct {
	program *tea.Program
}

type phaseMsg struct {
	phase  string
	detail string
}

type progressMsg download.Progress

type warnMsg string

type doneMsg struct{ err error }

// keyMap defines keyboard shortcuts
type monitorKeys struct {
	Quit key.Binding
	Help key.Binding
}

func (k monitorKeys) ShortHelp() []key.Binding  { return []key.Binding{k.Quit, k.Help} }
func (k monitorKeys) FullHelp() [][]key.Binding { return [][]key.Binding{{k.Quit, k.Help}} }

func newMonitorKeys() monitorKeys {
	return monitorKeys{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "cancel"),
		),
		Help: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "toggle help"),
		),
	}
}

var (
	monitorTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	monitorPhase = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	monitorWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	monitorErr   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	monitorOK    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	monitorBar   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

type monitorModel struct {
	spinner  spinner.Model
	keys     monitorKeys
	help     help.Model
	phase    string
	detail   string
	prog     download.Progress
	warnings []string
	done     bool
	err      error
	cancel   func()
	width    int
	showHelp bool
}

func newMonitorModel(cancel func()) monitorModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return monitorModel{
		spinner: sp,
		keys:    newMonitorKeys(),
		help:    help.New(),
		phase:   "starting",
		cancel:  cancel,
		width:   80,
	}
}

func (m monitorModel) Init() tea.Cmd { return m.spinner.Tick }

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			if !m.done && m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
		}
		return m, nil
	case phaseMsg:
		m.phase, m.detail = msg.phase, msg.detail
		return m, nil
	case progressMsg:
		m.prog = download.Progress(msg)
		return m, nil
	case warnMsg:
		m.warnings = append(m.warnings, string(msg))
		return m, nil
	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m monitorModel) View() string {
	var b strings.Builder
	b.WriteString(monitorTitle.Render("NexCart Installer") + "\n\n")

	status := m.spinner.View() + " "
	if m.done {
		if m.err != nil {
			status = monitorErr.Render("✗ ")
		} else {
			status = monitorOK.Render("✓ ")
		}
	}
	line := status + monitorPhase.Render(m.phase)
	if m.detail != "" {
		line += "  " + m.detail
	}
	b.WriteString(line + "\n")

	if m.prog.Received > 0 {
		b.WriteString("\n" + m.renderProgress() + "\n")
	}
	for _, w := range m.warnings {
		b.WriteString(monitorWarn.Render("⚠ "+w) + "\n")
	}
	if m.done && m.err != nil {
		b.WriteString("\n" + monitorErr.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m monitorModel) renderProgress() string {
	barWidth := m.width - 50
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 40 {
		barWidth = 40
	}

	pct := m.prog.Percent()
	filled := pct * barWidth / 100
	bar := monitorBar.Render(strings.Repeat("█", filled)) + strings.Repeat("░", barWidth-filled)

	if m.prog.Total <= 0 {
		return fmt.Sprintf("  %s   %s", FormatBytes(m.prog.Received), FormatSpeed(m.prog.Speed))
	}
	return fmt.Sprintf("  [%s] %3d%%  %s/%s  %s  ETA %s",
		bar, pct,
		FormatBytes(m.prog.Received), FormatBytes(m.prog.Total),
		FormatSpeed(m.prog.Speed), FormatETA(m.prog.ETA))
}

// NewMonitor builds the TUI. cancel is invoked when the user quits before
// the pipeline finishes.
func NewMonitor(cancel func()) *Monitor {
	return &Monitor{program: tea.NewProgram(newMonitorModel(cancel))}
}

// SetPhase reports a pipeline state change.
func (m *Monitor) SetPhase(phase, detail string) { m.program.Send(phaseMsg{phase, detail}) }

// Progress reports a download snapshot.
func (m *Monitor) Progress(p download.Progress) { m.program.Send(progressMsg(p)) }

// Warn surfaces a validation warning.
func (m *Monitor) Warn(msg string) { m.program.Send(warnMsg(msg)) }

// Done ends the TUI with the pipeline outcome.
func (m *Monitor) Done(err error) { m.program.Send(doneMsg{err}) }

// Run blocks until the TUI exits.
func (m *Monitor) Run() error {
	_, err := m.program.Run()
	return err
}
