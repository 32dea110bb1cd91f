// Package tui holds the small interactive pieces of plugport. The converter
// itself is non-interactive; the only prompt is the confirmation gate shown
// before writing a bundle whose MCP servers carry secret-like env vars.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Confirm runs a standalone yes/no prompt and reports the answer. The
// message may span multiple lines (e.g. one warning per line); long lines
// are truncated to the dialog width rather than wrapped mid-word.
//
// y/n are shortcut accelerators; left/right/tab move focus between the
// buttons and enter activates the focused one. Focus defaults to No — the
// safe choice when secrets are on the line.
func Confirm(message string) (bool, error) {
	m := confirmModel{message: message}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return false, err
	}
	result, _ := final.(confirmModel)
	return result.confirmed, nil
}

type confirmModel struct {
	message   string
	focusYes  bool
	confirmed bool
	done      bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, confirmYesKey):
		m.confirmed = true
		m.done = true
		return m, tea.Quit

	case key.Matches(keyMsg, confirmNoKey), key.Matches(keyMsg, confirmQuitKey):
		m.confirmed = false
		m.done = true
		return m, tea.Quit

	case key.Matches(keyMsg, confirmEnterKey):
		m.confirmed = m.focusYes
		m.done = true
		return m, tea.Quit

	case key.Matches(keyMsg, confirmLeft), key.Matches(keyMsg, confirmRight),
		key.Matches(keyMsg, confirmTab):
		m.focusYes = !m.focusYes
		return m, nil
	}

	return m, nil
}

const dialogWidth = 64

func (m confirmModel) View() string {
	if m.done {
		return ""
	}

	var lines []string
	for _, line := range strings.Split(m.message, "\n") {
		lines = append(lines, ansi.Truncate(line, dialogWidth, "…"))
	}
	question := lipgloss.NewStyle().
		Width(dialogWidth).
		Render(strings.Join(lines, "\n"))

	var yesBtn, noBtn string
	if m.focusYes {
		yesBtn = dialogActiveButtonStyle.Render("Yes")
		noBtn = dialogButtonStyle.Render("No")
	} else {
		yesBtn = dialogButtonStyle.Render("Yes")
		noBtn = dialogActiveButtonStyle.Render("No")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Top, yesBtn, "  ", noBtn)
	ui := lipgloss.JoinVertical(lipgloss.Center, question, "", buttons)
	return dialogBoxStyle.Render(ui) + "\n"
}

var (
	dialogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(1, 2)

	dialogButtonStyle = lipgloss.NewStyle().
				Padding(0, 3).
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("238"))

	dialogActiveButtonStyle = lipgloss.NewStyle().
				Padding(0, 3).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("160")).
				Bold(true)
)

// Key bindings for the confirm dialog.
var (
	confirmYesKey = key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "confirm"),
	)
	confirmNoKey = key.NewBinding(
		key.WithKeys("n", "N"),
		key.WithHelp("n", "cancel"),
	)
	confirmQuitKey = key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
	)
	confirmEnterKey = key.NewBinding(
		key.WithKeys("enter"),
	)
	confirmLeft = key.NewBinding(
		key.WithKeys("left", "h"),
	)
	confirmRight = key.NewBinding(
		key.WithKeys("right", "l"),
	)
	confirmTab = key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
	)
)
