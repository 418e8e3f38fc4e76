// Package help renders the keyboard reference overlay.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/emersion/go-imap/v2"

	"github.com/nhle/noxmail/internal/keys"
	"github.com/nhle/noxmail/internal/theme"
)

// legendFlags are explained below the key reference.
var legendFlags = []imap.Flag{
	imap.FlagFlagged,
	imap.FlagAnswered,
	imap.FlagForwarded,
	imap.FlagDraft,
	imap.FlagDeleted,
}

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// View renders the help overlay.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Keyboard Shortcuts")

	m.help.Width = m.width - 4
	m.help.ShowAll = true
	helpText := m.help.View(m.keys)

	content := lipgloss.JoinVertical(lipgloss.Left, title, helpText, "", m.legend())

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

func (m Model) legend() string {
	var b strings.Builder
	b.WriteString(titleLine("Flags"))
	b.WriteString(fmt.Sprintf("%s unread\n", theme.UnreadStyle.Render("●")))
	for _, f := range legendFlags {
		badge := theme.FlagStyle(f).Render(theme.FlagBadge(f))
		b.WriteString(fmt.Sprintf("%s %s\n", badge, strings.TrimPrefix(string(f), `\`)))
	}
	b.WriteString(theme.HelpStyle.Render("Replies open 24h after a message was sent."))
	return b.String()
}

func titleLine(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render(s) + "\n"
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
