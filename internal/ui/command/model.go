// Package command is the ":" palette.
package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/noxmail/internal/collection"
	"github.com/nhle/noxmail/internal/theme"
)

// CommandMsg is emitted when the user executes a command.
type CommandMsg struct {
	Command Command
}

// CommandErrorMsg is emitted when the entered line is not a command.
type CommandErrorMsg struct {
	Err error
}

// Verb names a palette action.
type Verb string

const (
	VerbQuit     Verb = "quit"
	VerbRefresh  Verb = "refresh"
	VerbCompose  Verb = "compose"
	VerbContacts Verb = "contacts"
	VerbFolder   Verb = "folder"
	VerbSort     Verb = "sort"
	VerbArchive  Verb = "archive"
	VerbSearch   Verb = "search"
)

// Command is a parsed palette line.
type Command struct {
	Verb Verb
	// Arg is the folder name, recipient or search text.
	Arg string
	// Column and Descending are set for VerbSort.
	Column     collection.Column
	Descending bool
}

var aliases = map[string]Verb{
	"q":        VerbQuit,
	"quit":     VerbQuit,
	"refresh":  VerbRefresh,
	"reload":   VerbRefresh,
	"compose":  VerbCompose,
	"new":      VerbCompose,
	"contacts": VerbContacts,
	"folder":   VerbFolder,
	"cd":       VerbFolder,
	"sort":     VerbSort,
	"archive":  VerbArchive,
	"search":   VerbSearch,
}

var columnNames = map[string]collection.Column{
	"date":    collection.ColumnDate,
	"sender":  collection.ColumnSender,
	"from":    collection.ColumnSender,
	"subject": collection.ColumnSubject,
}

// Parse turns a palette line into a Command.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	verb, ok := aliases[strings.ToLower(fields[0])]
	if !ok {
		return Command{}, fmt.Errorf("unknown command %q", fields[0])
	}
	cmd := Command{Verb: verb, Arg: strings.Join(fields[1:], " ")}

	switch verb {
	case VerbFolder:
		if cmd.Arg == "" {
			return Command{}, fmt.Errorf("usage: folder <name>")
		}
	case VerbSort:
		if len(fields) < 2 || len(fields) > 3 {
			return Command{}, fmt.Errorf("usage: sort date|sender|subject [asc|desc]")
		}
		col, ok := columnNames[strings.ToLower(fields[1])]
		if !ok {
			return Command{}, fmt.Errorf("unknown column %q", fields[1])
		}
		cmd.Column = col
		cmd.Descending = col == collection.ColumnDate
		if len(fields) == 3 {
			switch strings.ToLower(fields[2]) {
			case "asc":
				cmd.Descending = false
			case "desc":
				cmd.Descending = true
			default:
				return Command{}, fmt.Errorf("unknown direction %q", fields[2])
			}
		}
		cmd.Arg = ""
	}
	return cmd, nil
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.SetSuggestions([]string{
		"quit", "refresh", "compose", "contacts", "folder ",
		"sort date", "sort sender", "sort subject", "archive", "search ",
	})
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
		line := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		if line == "" {
			return m, nil
		}
		cmd, err := Parse(line)
		if err != nil {
			return m, func() tea.Msg { return CommandErrorMsg{Err: err} }
		}
		return m, func() tea.Msg { return CommandMsg{Command: cmd} }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Command Palette")
	input := m.input.View()

	content := lipgloss.JoinVertical(lipgloss.Left, title, input)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// Reset clears the input.
func (m *Model) Reset() {
	m.input.Reset()
}
