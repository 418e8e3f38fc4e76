package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
)

// Keys that act on the main screen must not shadow each other.
func TestMainScreenBindingsAreDistinct(t *testing.T) {
	k := DefaultKeyMap()
	bindings := []key.Binding{
		k.Quit, k.Search, k.Command, k.Help, k.Refresh, k.Folders, k.Contacts,
		k.Compose, k.Reply, k.Archive, k.SortDate, k.SortSender, k.SortSubject,
		k.NextPane, k.Down, k.Up, k.Select, k.Back,
	}

	seen := make(map[string]string)
	for _, b := range bindings {
		for _, name := range b.Keys() {
			prev, dup := seen[name]
			assert.False(t, dup, "%q bound to both %q and %q", name, prev, b.Help().Desc)
			seen[name] = b.Help().Desc
		}
	}
}

func TestFullHelpCoversEveryGroup(t *testing.T) {
	groups := DefaultKeyMap().FullHelp()

	assert.Len(t, groups, 5)
	for _, g := range groups {
		assert.NotEmpty(t, g)
	}
}
