package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/noxmail/internal/theme"
)

// Pane identifies one of the three panes of the main screen.
type Pane int

const (
	PaneFolders Pane = iota
	PaneList
	PaneReader
)

// Next returns the pane that follows p in tab order.
func (p Pane) Next() Pane {
	return (p + 1) % 3
}

// panelFrame is the border width and height a framed pane loses.
const panelFrame = 2

// Layout manages the multi-panel terminal layout dimensions: a folder
// column on the left, the message list above the reader on the right.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
	FolderWidth     int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
		FolderWidth:     clamp(width/5, 14, 28),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	return max(l.Height-l.HeaderHeight-l.StatusBarHeight, 0)
}

// listOuterHeight is the framed height of the message list pane.
func (l Layout) listOuterHeight() int {
	return clamp(l.ContentHeight()*2/5, min(5, l.ContentHeight()), l.ContentHeight())
}

// FolderPane returns the inner size of the folder pane.
func (l Layout) FolderPane() (width, height int) {
	return max(l.FolderWidth-panelFrame, 0), max(l.ContentHeight()-panelFrame, 0)
}

// ListPane returns the inner size of the message list pane.
func (l Layout) ListPane() (width, height int) {
	return max(l.Width-l.FolderWidth-panelFrame, 0), max(l.listOuterHeight()-panelFrame, 0)
}

// ReaderPane returns the inner size of the reader pane.
func (l Layout) ReaderPane() (width, height int) {
	return max(l.Width-l.FolderWidth-panelFrame, 0),
		max(l.ContentHeight()-l.listOuterHeight()-panelFrame, 0)
}

// RenderPanes frames the three panes and arranges them, highlighting the
// focused one.
func (l Layout) RenderPanes(folders, list, reader string, focus Pane) string {
	frame := func(p Pane, w, h int, content string) string {
		style := theme.PanelStyle
		if p == focus {
			style = theme.FocusedPanelStyle
		}
		return style.Width(w).Height(h).MaxHeight(h + panelFrame).Render(content)
	}

	fw, fh := l.FolderPane()
	lw, lh := l.ListPane()
	rw, rh := l.ReaderPane()

	right := lipgloss.JoinVertical(lipgloss.Left,
		frame(PaneList, lw, lh, list),
		frame(PaneReader, rw, rh, reader),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, frame(PaneFolders, fw, fh, folders), right)
}

// RenderHeader renders the top header bar with a title and load status.
func (l Layout) RenderHeader(title string, loadStatus string) string {
	titleRendered := theme.HeaderStyle.Render(title)

	statusRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(loadStatus)

	gap := max(l.Width-lipgloss.Width(titleRendered)-lipgloss.Width(statusRendered), 0)

	filler := theme.HeaderStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.HeaderStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		statusRendered,
	)
}

// RenderStatusBar renders the bottom status bar. A non-empty notice
// replaces the keyboard hints.
func (l Layout) RenderStatusBar(hints, notice string) string {
	text := hints
	style := theme.StatusBarStyle
	if notice != "" {
		text = notice
		style = style.Foreground(theme.ColorYellow)
	}
	rendered := style.MaxWidth(l.Width).Render(text)

	gap := max(l.Width-lipgloss.Width(rendered), 0)
	filler := theme.StatusBarStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.StatusBarStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}
