package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/emersion/go-imap/v2"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// Apply selects the color variant. "dark" and "light" force one side of
// the adaptive pairs; "default" and "auto" follow the terminal.
func Apply(name string) error {
	switch name {
	case "", "default", "auto":
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	default:
		return fmt.Errorf("unknown theme %q", name)
	}
	return nil
}

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle frames an unfocused pane.
var PanelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// FocusedPanelStyle frames the pane that receives keys.
var FocusedPanelStyle = PanelStyle.
	BorderForeground(ColorBlue)

// DetailPanelStyle wraps full-screen overlays such as help.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// UnreadStyle marks messages without the seen flag.
var UnreadStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite)

// DimmedStyle renders secondary text.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// WarningStyle renders status messages about failed operations.
var WarningStyle = lipgloss.NewStyle().
	Foreground(ColorYellow).
	Italic(true)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ColumnHeaderStyle renders the message list column titles.
var ColumnHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorGray).
	Underline(true)

// FlagStyle returns a color-coded style for an IMAP flag badge.
func FlagStyle(flag imap.Flag) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch flag {
	case imap.FlagFlagged:
		return base.Foreground(ColorRed)
	case imap.FlagAnswered:
		return base.Foreground(ColorGreen)
	case imap.FlagForwarded:
		return base.Foreground(ColorMagenta)
	case imap.FlagDraft:
		return base.Foreground(ColorOrange)
	case imap.FlagDeleted:
		return base.Foreground(ColorGray).Strikethrough(true)
	default:
		return base.Foreground(ColorBlue)
	}
}

// FlagBadge returns the one-letter badge shown for flag, or "" when the
// flag is not worth a badge.
func FlagBadge(flag imap.Flag) string {
	switch flag {
	case imap.FlagFlagged:
		return "!"
	case imap.FlagAnswered:
		return "↩"
	case imap.FlagForwarded:
		return "→"
	case imap.FlagDraft:
		return "D"
	case imap.FlagDeleted:
		return "T"
	default:
		return ""
	}
}

// VerifiedStyle marks verified contacts.
var VerifiedStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorGreen)
