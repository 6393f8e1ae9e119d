// Package tui is the interactive installer window: a title with the detected
// operating system, the current status, a progress bar and the last archive
// entry copied.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jaa/vinstall/internal/output"
)

const maxWarnings = 5

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffaa00"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff0000"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff00"))
	frameStyle   = lipgloss.NewStyle().Padding(1, 2)
)

// EventMsg carries one installer event into the program.
type EventMsg output.Event

// DoneMsg ends the program once the installer has returned.
type DoneMsg struct {
	Err error
}

type Model struct {
	osName     string
	device     string
	status     string
	percent    int
	entry      string
	warnings   []string
	bar        progress.Model
	cancel     func()
	cancelling bool
	done       bool
	err        error
}

// New builds the model. cancel is called once when the user presses ctrl+c
// while the installation is running.
func New(osName, device string, cancel func()) Model {
	return Model{
		osName: osName,
		device: device,
		status: "Ready to install.",
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		cancel: cancel,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.done {
				return m, tea.Quit
			}
			if !m.cancelling {
				m.cancelling = true
				m.status = "Cancelling..."
				if m.cancel != nil {
					m.cancel()
				}
			}
		case "q", "enter", "esc":
			if m.done {
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		width := msg.Width - 12
		if width > 60 {
			width = 60
		}
		if width > 10 {
			m.bar.Width = width
		}
	case EventMsg:
		m = m.apply(output.Event(msg))
	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) apply(event output.Event) Model {
	if event.Progress > m.percent {
		m.percent = event.Progress
	}
	switch event.Event {
	case output.EventStateChanged:
		if !m.cancelling {
			m.status = event.Message
		}
	case output.EventEntryExtracted:
		m.entry = event.Message
	case output.EventWarning:
		m.warnings = append(m.warnings, event.Message)
		if len(m.warnings) > maxWarnings {
			m.warnings = m.warnings[len(m.warnings)-maxWarnings:]
		}
	case output.EventInstallFinished:
		m.status = event.Message
	case output.EventInstallFailed:
		m.status = event.Message
	}
	return m
}

func (m Model) View() string {
	var b strings.Builder

	title := "Visopsys installer"
	if m.osName != "" {
		title = fmt.Sprintf("%s (%s)", title, m.osName)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Device: "))
	b.WriteString(m.device)
	b.WriteString("\n\n")

	switch {
	case m.done && m.err != nil:
		b.WriteString(errorStyle.Render(m.status))
	case m.done:
		b.WriteString(successStyle.Render(m.status))
	default:
		b.WriteString(m.status)
	}
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(float64(m.percent) / 100))
	b.WriteString(fmt.Sprintf(" %3d%%\n", m.percent))

	if m.entry != "" && !m.done {
		b.WriteString(labelStyle.Render("Extracting: " + m.entry))
		b.WriteString("\n")
	}
	for _, warning := range m.warnings {
		b.WriteString(warningStyle.Render("! " + warning))
		b.WriteString("\n")
	}
	if m.done && m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	if !m.done {
		b.WriteString(labelStyle.Render("\nctrl+c to cancel"))
	}
	return frameStyle.Render(b.String())
}

// Percent and Status expose the displayed values.
func (m Model) Percent() int {
	return m.percent
}

func (m Model) Status() string {
	return m.status
}
