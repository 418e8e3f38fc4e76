package maillist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/nhle/noxmail/internal/mailstore"
	"github.com/nhle/noxmail/internal/model"
	"github.com/nhle/noxmail/internal/theme"
)

// Column widths of the message list. The subject takes the rest.
const (
	dateWidth   = 16
	flagWidth   = 3
	senderWidth = 24
)

// MessageItem wraps a model.MessageRecord so it can be used in a bubbles/list.
type MessageItem struct {
	Record model.MessageRecord
}

// FilterValue returns the string used for fuzzy filtering.
func (i MessageItem) FilterValue() string { return i.Record.Subject }

// Title returns the subject.
func (i MessageItem) Title() string { return i.Record.Subject }

// Description returns the sender and date.
func (i MessageItem) Description() string {
	return i.Record.Sender + " | " + i.Record.DateShort
}

// badges renders the flag letters of the message file.
func (i MessageItem) badges() string {
	var b strings.Builder
	for _, f := range mailstore.IMAPFlags(i.Record.StoragePath) {
		if badge := theme.FlagBadge(f); badge != "" {
			b.WriteString(theme.FlagStyle(f).Render(badge))
		}
	}
	return b.String()
}

// ItemDelegate implements list.ItemDelegate for one-line message rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single message row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	mi, ok := item.(MessageItem)
	if !ok {
		return
	}
	rec := mi.Record

	marker := " "
	if !rec.IsRead {
		marker = "●"
	}
	subjectWidth := max(m.Width()-dateWidth-flagWidth-senderWidth-8, 8)

	line := fmt.Sprintf("%s %s %s %s %s",
		marker,
		cell(rec.DateShort, dateWidth),
		cellStyled(mi.badges(), flagWidth),
		cell(rec.Sender, senderWidth),
		ansi.Truncate(rec.Subject, subjectWidth, "…"),
	)

	switch {
	case index == m.Index():
		line = theme.SelectedItemStyle.Render(line)
	case !rec.IsRead:
		line = theme.ListItemStyle.Inherit(theme.UnreadStyle).Render(line)
	default:
		line = theme.ListItemStyle.Render(line)
	}
	fmt.Fprint(w, line)
}

// cell truncates s and pads it to width columns.
func cell(s string, width int) string {
	s = ansi.Truncate(s, width, "…")
	return s + strings.Repeat(" ", max(width-lipgloss.Width(s), 0))
}

// cellStyled pads already styled text to width columns.
func cellStyled(s string, width int) string {
	return s + strings.Repeat(" ", max(width-lipgloss.Width(s), 0))
}
