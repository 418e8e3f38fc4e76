package folders

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/nhle/noxmail/internal/keys"
	"github.com/nhle/noxmail/internal/theme"
)

// FolderSelectedMsg asks the parent to open a folder.
type FolderSelectedMsg struct {
	Name string
}

// Model is the folder pane.
type Model struct {
	keys    *keys.KeyMap
	folders []string
	cursor  int
	open    string
	unread  int
	width   int
	height  int
}

// New creates a folder pane listing names.
func New(k *keys.KeyMap, names []string, width, height int) Model {
	return Model{
		keys:    k,
		folders: names,
		width:   width,
		height:  height,
	}
}

// Update handles messages for the folder pane.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.folders) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		m.cursor = (m.cursor + 1) % len(m.folders)
	case key.Matches(keyMsg, m.keys.Up):
		m.cursor--
		if m.cursor < 0 {
			m.cursor = len(m.folders) - 1
		}
	case key.Matches(keyMsg, m.keys.Select):
		name := m.folders[m.cursor]
		return m, func() tea.Msg { return FolderSelectedMsg{Name: name} }
	}
	return m, nil
}

// View renders the folder pane.
func (m Model) View() string {
	var b strings.Builder
	for i, name := range m.folders {
		label := name
		if name == m.open && m.unread > 0 {
			label = fmt.Sprintf("%s (%d)", name, m.unread)
		}
		label = ansi.Truncate(label, m.width-3, "…")

		switch {
		case i == m.cursor:
			b.WriteString(theme.SelectedItemStyle.Render(label))
		case name == m.open:
			b.WriteString(theme.ListItemStyle.Inherit(theme.UnreadStyle).Render(label))
		default:
			b.WriteString(theme.ListItemStyle.Render(label))
		}
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().MaxHeight(m.height).Render(strings.TrimSuffix(b.String(), "\n"))
}

// SetOpen marks name as the folder shown in the list, with its unread count.
func (m *Model) SetOpen(name string, unread int) {
	m.open = name
	m.unread = unread
	for i, f := range m.folders {
		if f == name {
			m.cursor = i
		}
	}
}

// Open returns the name of the open folder.
func (m Model) Open() string { return m.open }

// Names returns the listed folders.
func (m Model) Names() []string { return m.folders }

// SetSize updates the pane dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
