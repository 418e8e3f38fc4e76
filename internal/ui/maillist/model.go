// Package maillist renders the messages of the open folder.
package maillist

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/noxmail/internal/collection"
	"github.com/nhle/noxmail/internal/keys"
	"github.com/nhle/noxmail/internal/model"
	"github.com/nhle/noxmail/internal/theme"
)

// SelectedMsg is sent when the user opens the message at a display index.
type SelectedMsg struct {
	Index int
}

// SearchChangedMsg carries the search text after every edit.
type SearchChangedMsg struct {
	Query string
}

// SortMsg asks the parent to sort by a column.
type SortMsg struct {
	Column collection.Column
}

// Model is the message list component.
type Model struct {
	list        list.Model
	keys        *keys.KeyMap
	searchMode  bool
	searchInput textinput.Model
	sortColumn  collection.Column
	descending  bool
	loading     bool
	width       int
	height      int
}

// New creates a new message list model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, listHeight(height))
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()

	si := textinput.New()
	si.Placeholder = "search subject, sender, date..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		keys:        k,
		searchInput: si,
		sortColumn:  collection.ColumnDate,
		descending:  true,
		width:       width,
		height:      height,
	}
}

// listHeight leaves room for the column header and search bar.
func listHeight(height int) int {
	return max(height-2, 1)
}

// Update handles messages for the message list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	if m.searchMode {
		return m.handleSearchKeys(keyMsg)
	}
	return m.handleNormalKeys(keyMsg)
}

// handleSearchKeys processes key input while the search bar has focus.
// Every edit is reported so the list narrows as the user types.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil

	case tea.KeyEsc:
		m.searchMode = false
		m.searchInput.Blur()
		m.searchInput.Reset()
		return m, searchChanged("")
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if after := m.searchInput.Value(); after != before {
		return m, tea.Batch(cmd, searchChanged(after))
	}
	return m, cmd
}

func searchChanged(q string) tea.Cmd {
	return func() tea.Msg { return SearchChangedMsg{Query: q} }
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		if len(m.list.Items()) == 0 {
			return m, nil
		}
		idx := m.list.Index()
		return m, func() tea.Msg { return SelectedMsg{Index: idx} }

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.SortDate):
		return m, sortBy(collection.ColumnDate)
	case key.Matches(msg, m.keys.SortSender):
		return m, sortBy(collection.ColumnSender)
	case key.Matches(msg, m.keys.SortSubject):
		return m, sortBy(collection.ColumnSubject)
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func sortBy(c collection.Column) tea.Cmd {
	return func() tea.Msg { return SortMsg{Column: c} }
}

// SetRecords replaces the rows, keeping the cursor where it was when
// possible.
func (m *Model) SetRecords(records []model.MessageRecord) tea.Cmd {
	idx := m.list.Index()
	items := make([]list.Item, len(records))
	for i, rec := range records {
		items[i] = MessageItem{Record: rec}
	}
	cmd := m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(min(idx, len(items)-1))
	}
	m.loading = false
	return cmd
}

// SetSort updates the sort indicator of the column header.
func (m *Model) SetSort(column collection.Column, descending bool) {
	m.sortColumn = column
	m.descending = descending
}

// SetLoading shows a placeholder until the next SetRecords.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetCursor moves the cursor to a display index.
func (m *Model) SetCursor(index int) {
	if index >= 0 && index < len(m.list.Items()) {
		m.list.Select(index)
	}
}

// Cursor returns the display index under the cursor.
func (m Model) Cursor() int { return m.list.Index() }

// SetQuery shows q in the search bar without reporting a change.
func (m *Model) SetQuery(q string) {
	m.searchInput.SetValue(q)
}

// Searching reports whether the search bar has focus.
func (m Model) Searching() bool { return m.searchMode }

// View renders the message list.
func (m Model) View() string {
	parts := []string{m.renderColumnHeader()}

	if m.searchMode || m.searchInput.Value() != "" {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Render(m.searchInput.View()))
	}

	switch {
	case m.loading:
		parts = append(parts, m.renderEmptyState("Loading..."))
	case len(m.list.Items()) == 0 && m.searchInput.Value() != "":
		parts = append(parts, m.renderEmptyState("No matching messages."))
	case len(m.list.Items()) == 0:
		parts = append(parts, m.renderEmptyState("No messages in this folder."))
	default:
		parts = append(parts, m.list.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderColumnHeader() string {
	label := func(c collection.Column, width int) string {
		name := c.String()
		if c == m.sortColumn {
			if m.descending {
				name += " ▼"
			} else {
				name += " ▲"
			}
		}
		if width == 0 {
			return name
		}
		return cell(name, width)
	}

	header := "  " + label(collection.ColumnDate, dateWidth) + " " +
		strings.Repeat(" ", flagWidth) + " " +
		label(collection.ColumnSender, senderWidth) + " " +
		label(collection.ColumnSubject, 0)
	return theme.ColumnHeaderStyle.Render(header)
}

// renderEmptyState shows guidance text when no messages are listed.
func (m Model) renderEmptyState(text string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(listHeight(m.height)).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render(text)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, listHeight(height))
	m.searchInput.Width = width - 4
}
