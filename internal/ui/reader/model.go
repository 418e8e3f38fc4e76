// Package reader shows the selected message.
package reader

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/noxmail/internal/collection"
	"github.com/nhle/noxmail/internal/mailstore"
	"github.com/nhle/noxmail/internal/theme"
)

// Model is the message reader component.
type Model struct {
	sel      *collection.Selection
	now      time.Time
	viewport viewport.Model
	width    int
	height   int
}

// New creates a new reader model.
func New(width, height int) Model {
	vp := viewport.New(width, height)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		width:    width,
		height:   height,
	}
}

// Update delegates scrolling keys to the viewport.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the reader.
func (m Model) View() string {
	if m.sel == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No message selected")
	}
	return m.viewport.View()
}

// SetMessage shows sel. now decides the reply hint.
func (m *Model) SetMessage(sel collection.Selection, now time.Time) {
	m.sel = &sel
	m.now = now
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Clear empties the reader.
func (m *Model) Clear() {
	m.sel = nil
	m.viewport.SetContent("")
}

// HasMessage reports whether a message is shown.
func (m Model) HasMessage() bool { return m.sel != nil }

// renderContent builds the header block and body for the viewport.
func (m Model) renderContent() string {
	rec := m.sel.Record
	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	field := func(name, value string) string {
		return fmt.Sprintf("%s %s", metaStyle.Render(fmt.Sprintf("%-9s", name+":")), valStyle.Render(value))
	}

	sections := []string{
		lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render(rec.Subject),
		"",
		field("From", rec.Sender),
		field("Date", rec.DateFull),
	}
	if rec.ReturnPath != "" {
		sections = append(sections, field("Reply-To", rec.ReturnPath))
	}

	var badges []string
	for _, f := range mailstore.IMAPFlags(rec.StoragePath) {
		badges = append(badges, theme.FlagStyle(f).Render(string(f)))
	}
	if len(badges) > 0 {
		sections = append(sections, field("Flags", strings.Join(badges, " ")))
	}

	if allowed, hours := collection.ReplyEligibility(rec, m.now); allowed {
		sections = append(sections, theme.HelpStyle.Render("r reply"))
	} else {
		sections = append(sections, theme.DimmedStyle.Render(
			fmt.Sprintf("Reply available in %dh", hours)))
	}

	if m.sel.Warning != nil {
		sections = append(sections, theme.WarningStyle.Render(m.sel.Warning.Error()))
	}

	sep := lipgloss.NewStyle().Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", max(min(m.width, 80), 1)))
	sections = append(sections, sep, "")

	body := lipgloss.NewStyle().Width(max(m.width, 1)).Render(m.sel.Body)
	sections = append(sections, body)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the reader dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	if m.sel != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
