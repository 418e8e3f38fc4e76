package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/noxmail/internal/collection"
	"github.com/nhle/noxmail/internal/mailstore"
	"github.com/nhle/noxmail/internal/model"
	appsync "github.com/nhle/noxmail/internal/sync"
	"github.com/nhle/noxmail/internal/ui/command"
	"github.com/nhle/noxmail/internal/ui/composer"
	"github.com/nhle/noxmail/internal/ui/folders"
	"github.com/nhle/noxmail/internal/ui/maillist"
	"github.com/nhle/noxmail/tests/testutil"
)

// sentAt is the Date of every fixture message.
var sentAt = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	root  string
	inbox string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	for _, sub := range []string{"cur", "new", "tmp"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, sub), 0o700))
	}
	require.NoError(t, mailstore.EnsureFolders(root, "Archive", "Outbox"))

	date := sentAt.Format(time.RFC1123Z)
	testutil.WriteMessage(t, root, "new", "100.a",
		testutil.RawMessage("Amy <amy@example.com>", "alpha", date, "first body"))
	testutil.WriteMessage(t, root, "cur", "200.b:2,S",
		testutil.RawMessage("bob@example.com", "bravo", date, "second body"))
	testutil.WriteMessage(t, root, "cur", "300.c:2,",
		testutil.RawMessage("Cy <cy@example.com>", "charlie", date, "third body"))

	return fixture{root: root, inbox: root}
}

func newModel(t *testing.T, f fixture, now time.Time) Model {
	t.Helper()
	m := New(Config{
		Root:          f.root,
		ArchiveFolder: "Archive",
		OutboxFolder:  "Outbox",
		Now:           func() time.Time { return now },
	}, testutil.NewTestStore(t))
	t.Cleanup(m.loader.Stop)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return waitLoaded(t, next.(Model))
}

// waitLoaded feeds poll ticks until the pending load is delivered.
func waitLoaded(t *testing.T, m Model) Model {
	t.Helper()
	require.Eventually(t, func() bool {
		next, _ := m.Update(appsync.PollTickMsg{Time: time.Now()})
		m = next.(Model)
		return m.pending == nil
	}, 2*time.Second, 5*time.Millisecond)
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func subjects(m Model) []string {
	var out []string
	for _, rec := range m.view.Display() {
		out = append(out, rec.Subject)
	}
	return out
}

func TestInitialLoadShowsInbox(t *testing.T) {
	f := newFixture(t)
	m := newModel(t, f, sentAt.Add(48*time.Hour))

	assert.Equal(t, mailstore.InboxName, m.folder)
	assert.Equal(t, 3, m.view.Len())
	assert.Equal(t, 2, m.view.UnreadCount())
	assert.Equal(t, []string{mailstore.InboxName, "Archive", "Outbox"}, m.folderPane.Names())
	assert.Contains(t, m.View(), "alpha")
}

func TestLoadHarvestsContacts(t *testing.T) {
	f := newFixture(t)
	m := newModel(t, f, sentAt.Add(48*time.Hour))

	contacts, err := m.contacts.ListVisibleContacts(context.Background())
	require.NoError(t, err)
	assert.Len(t, contacts, 3)
}

func TestSelectMarksReadAndShowsBody(t *testing.T) {
	f := newFixture(t)
	m := newModel(t, f, sentAt.Add(48*time.Hour))

	m, _ = update(t, m, maillist.SortMsg{Column: collection.ColumnSubject})
	require.Equal(t, []string{"alpha", "bravo", "charlie"}, subjects(m))

	m, _ = update(t, m, maillist.SelectedMsg{Index: 0})

	assert.FileExists(t, filepath.Join(f.inbox, "cur", "100.a:2,S"))
	assert.NoFileExists(t, filepath.Join(f.inbox, "new", "100.a"))
	assert.Equal(t, 1, m.view.UnreadCount())
	assert.True(t, m.reader.HasMessage())
	assert.Empty(t, m.notice)
}

func TestArchiveMovesSelectionToNext(t *testing.T) {
	f := newFixture(t)
	m := newModel(t, f, sentAt.Add(48*time.Hour))
	m, _ = update(t, m, maillist.SortMsg{Column: collection.ColumnSubject})
	m, _ = update(t, m, maillist.SelectedMsg{Index: 1})

	m, _ = update(t, m, runes("a"))

	assert.FileExists(t, filepath.Join(f.root, "Archive", "cur", "200.b:2,S"))
	assert.Equal(t, []string{"alpha", "charlie"}, subjects(m))
	assert.Equal(t, 1, m.view.Selected())
	assert.FileExists(t, filepath.Join(f.inbox, "cur", "300.c:2,S"), "the next message is shown and marked read")
}

func TestReplyCooldown(t *testing.T) {
	f := newFixture(t)
	m := newModel(t, f, sentAt.Add(90*time.Minute))
	m, _ = update(t, m, maillist.SelectedMsg{Index: 0})

	m, _ = update(t, m, runes("r"))

	assert.Equal(t, ViewMain, m.currentView)
	assert.Equal(t, "Reply available in 23h", m.notice)
}

func TestReplyOpensComposer(t *testing.T) {
	f := newFixture(t)
	m := newModel(t, f, sentAt.Add(48*time.Hour))
	m, _ = update(t, m, maillist.SelectedMsg{Index: 0})

	m, _ = update(t, m, runes("r"))

	assert.Equal(t, ViewCompose, m.currentView)
	_, subject := m.composer.Fields()
	assert.Contains(t, subject, "Re: ")
}

func TestDraftLandsInOutbox(t *testing.T) {
	f := newFixture(t)
	now := sentAt.Add(48 * time.Hour)
	m := newModel(t, f, now)

	m, _ = update(t, m, composer.DraftSubmittedMsg{Draft: model.Draft{To: "amy@example.com", Subject: "hi", Body: "hello"}})

	assert.Equal(t, ViewMain, m.currentView)
	assert.Equal(t, "Draft saved to Outbox", m.notice)
	assert.FileExists(t, filepath.Join(f.root, "Outbox", "new", "1709456400000"))
}

func TestSwitchFolder(t *testing.T) {
	f := newFixture(t)
	m := newModel(t, f, sentAt.Add(48*time.Hour))

	m, _ = update(t, m, maillist.SelectedMsg{Index: 0})
	require.True(t, m.reader.HasMessage())

	m, cmd := update(t, m, folders.FolderSelectedMsg{Name: "Archive"})
	assert.NotNil(t, cmd, "polling resumes for the new load")
	require.NotNil(t, m.pending)
	assert.Equal(t, "Archive", m.folder)
	assert.Zero(t, m.view.Len(), "inbox records are dropped before the archive load arrives")
	assert.Empty(t, m.view.Authoritative())
	assert.False(t, m.view.HasSelection())
	assert.False(t, m.reader.HasMessage())
	assert.Zero(t, m.view.UnreadCount())

	m = waitLoaded(t, m)

	assert.Equal(t, "Archive", m.folder)
	assert.Zero(t, m.view.Len())
}

func TestRefreshKeepsOpenFolder(t *testing.T) {
	f := newFixture(t)
	m := newModel(t, f, sentAt.Add(48*time.Hour))

	m, _ = update(t, m, command.CommandMsg{Command: command.Command{Verb: command.VerbRefresh}})
	require.NotNil(t, m.pending)
	assert.Equal(t, 3, m.view.Len())

	m = waitLoaded(t, m)
	assert.Equal(t, 3, m.view.Len())
}

func TestSearchNarrowsList(t *testing.T) {
	f := newFixture(t)
	m := newModel(t, f, sentAt.Add(48*time.Hour))

	m, _ = update(t, m, maillist.SearchChangedMsg{Query: "BOB"})

	assert.Equal(t, []string{"bravo"}, subjects(m))
}

func TestCommands(t *testing.T) {
	f := newFixture(t)
	m := newModel(t, f, sentAt.Add(48*time.Hour))

	m, _ = update(t, m, runes(":"))
	require.Equal(t, ViewCommand, m.currentView)

	m, _ = update(t, m, command.CommandMsg{Command: command.Command{Verb: command.VerbFolder, Arg: "Nope"}})
	assert.Equal(t, ViewMain, m.currentView)
	assert.Equal(t, `Unknown folder "Nope"`, m.notice)

	m, _ = update(t, m, command.CommandMsg{Command: command.Command{Verb: command.VerbSearch, Arg: "char"}})
	assert.Equal(t, []string{"charlie"}, subjects(m))
}
