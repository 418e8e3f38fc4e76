package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down     key.Binding
	Up       key.Binding
	NextPane key.Binding
	Select   key.Binding
	Back     key.Binding
	Quit     key.Binding
	Search   key.Binding
	Command  key.Binding
	Help     key.Binding
	Refresh  key.Binding
	Folders  key.Binding
	Contacts key.Binding

	// Message actions
	Compose key.Binding
	Reply   key.Binding
	Archive key.Binding

	// Sort columns. Pressing the active column again flips its direction.
	SortDate    key.Binding
	SortSender  key.Binding
	SortSubject key.Binding

	// Address book
	Hide   key.Binding
	Verify key.Binding
	Rename key.Binding
	SetKey key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pane"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "reload folder"),
		),
		Folders: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "folders"),
		),
		Contacts: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "address book"),
		),
		Compose: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "compose"),
		),
		Reply: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reply"),
		),
		Archive: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "archive"),
		),
		SortDate: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "sort by date"),
		),
		SortSender: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "sort by sender"),
		),
		SortSubject: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "sort by subject"),
		),
		Hide: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "hide contact"),
		),
		Verify: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "verify contact"),
		),
		Rename: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "rename contact"),
		),
		SetKey: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "set public key"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.NextPane,
		k.Quit, k.Help, k.Search,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.NextPane, k.Back, k.Quit},
		{k.Search, k.Command, k.Help, k.Refresh, k.Folders},
		{k.Compose, k.Reply, k.Archive, k.Contacts},
		{k.SortDate, k.SortSender, k.SortSubject},
		{k.Hide, k.Verify, k.Rename, k.SetKey},
	}
}
