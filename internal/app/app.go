package app

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/noxmail/internal/collection"
	"github.com/nhle/noxmail/internal/keys"
	"github.com/nhle/noxmail/internal/mailstore"
	"github.com/nhle/noxmail/internal/store"
	appsync "github.com/nhle/noxmail/internal/sync"
	"github.com/nhle/noxmail/internal/ui"
	"github.com/nhle/noxmail/internal/ui/addressbook"
	"github.com/nhle/noxmail/internal/ui/command"
	"github.com/nhle/noxmail/internal/ui/composer"
	"github.com/nhle/noxmail/internal/ui/folders"
	helpview "github.com/nhle/noxmail/internal/ui/help"
	"github.com/nhle/noxmail/internal/ui/maillist"
	"github.com/nhle/noxmail/internal/ui/reader"
)

// defaultPollInterval is used when Config.PollInterval is zero.
const defaultPollInterval = 50 * time.Millisecond

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewMain ViewState = iota
	ViewCompose
	ViewContacts
	ViewHelp
	ViewCommand
)

// Config carries what the root model needs from the outside.
type Config struct {
	// Root is the directory holding the maildir folders.
	Root string
	// ArchiveFolder and OutboxFolder name folders below Root.
	ArchiveFolder string
	OutboxFolder  string
	PollInterval  time.Duration
	Logger        *slog.Logger
	// Now returns the current time; time.Now when nil.
	Now func() time.Time
}

// Model is the root Bubble Tea model that manages view routing, layout,
// the open folder and access to the contact store.
type Model struct {
	currentView  ViewState
	previousView ViewState
	focus        ui.Pane
	layout       ui.Layout
	cfg          Config
	logger       *slog.Logger
	keys         *keys.KeyMap

	contacts store.ContactStore
	loader   *appsync.Loader
	view     *collection.View
	folder   string
	pending  *appsync.Handle
	ticking  bool

	folderPane  folders.Model
	mailList    maillist.Model
	reader      reader.Model
	composer    composer.Model
	book        addressbook.Model
	helpView    helpview.Model
	commandView command.Model

	notice string
	ready  bool
}

// New creates the root model and starts loading the first folder.
// contacts may be nil when the contact store is unavailable.
func New(cfg Config, contacts store.ContactStore) Model {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var sink appsync.ContactSink
	if contacts != nil {
		sink = contacts
	}

	k := keys.DefaultKeyMap()
	names := mailstore.DiscoverFolders(cfg.Root)

	m := Model{
		currentView: ViewMain,
		focus:       ui.PaneList,
		cfg:         cfg,
		logger:      logger,
		keys:        k,
		contacts:    contacts,
		loader:      appsync.New(mailstore.NewScanner(logger), sink, logger),
		view:        collection.New(),
		folderPane:  folders.New(k, names, 20, 20),
		mailList:    maillist.New(k, 80, 10),
		reader:      reader.New(80, 10),
		composer:    composer.New(80, 24),
		book:        addressbook.New(contacts, k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
	}

	first := names[0]
	if slices.Contains(names, mailstore.InboxName) {
		first = mailstore.InboxName
	}
	// The tick this returns is issued by Init.
	m.openFolder(first)
	return m
}

// Init starts the poll ticks and loads the address book for completions.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		appsync.Tick(m.cfg.PollInterval),
		addressbook.Load(m.contacts),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case appsync.PollTickMsg:
		m.ticking = false
		return m, m.pollLoad()

	case folders.FolderSelectedMsg:
		m.focus = ui.PaneList
		return m, m.openFolder(msg.Name)

	case maillist.SelectedMsg:
		m.selectMessage(msg.Index)
		return m, nil

	case maillist.SearchChangedMsg:
		m.view.SetSearchQuery(msg.Query)
		m.refreshList()
		return m, nil

	case maillist.SortMsg:
		m.view.ClickColumn(msg.Column)
		m.refreshList()
		return m, nil

	case composer.DraftSubmittedMsg:
		m.currentView = ViewMain
		return m, m.saveDraft(msg)

	case composer.ComposeCancelMsg:
		m.currentView = ViewMain
		m.notice = "Draft discarded"
		return m, nil

	case addressbook.ContactsLoadedMsg:
		if msg.Err != nil {
			m.logger.Warn("loading contacts", "error", msg.Err)
		} else {
			m.composer.SetContacts(msg.Contacts)
		}
		var cmd tea.Cmd
		m.book, cmd = m.book.Update(msg)
		return m, cmd

	case addressbook.CloseMsg:
		m.currentView = ViewMain
		return m, nil

	case addressbook.ComposeToMsg:
		return m, m.startCompose(msg.To)

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(msg.Command)

	case command.CommandErrorMsg:
		m.currentView = m.previousView
		m.notice = msg.Err.Error()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		switch m.currentView {
		case ViewMain:
			return m.handleMainKey(msg)
		case ViewHelp:
			if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) {
				m.currentView = m.previousView
				return m, nil
			}
		case ViewCommand:
			if key.Matches(msg, m.keys.Back) {
				m.commandView.Reset()
				m.currentView = m.previousView
				return m, nil
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleMainKey processes keys on the three-pane screen. Global actions
// are matched first; the rest go to the focused pane.
func (m Model) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mailList.Searching() {
		var cmd tea.Cmd
		m.mailList, cmd = m.mailList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus()

	case key.Matches(msg, m.keys.NextPane):
		m.focus = m.focus.Next()
		return m, nil

	case key.Matches(msg, m.keys.Folders):
		m.focus = ui.PaneFolders
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.focus = ui.PaneList
		var cmd tea.Cmd
		m.mailList, cmd = m.mailList.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.Refresh):
		return m, m.openFolder(m.folder)

	case key.Matches(msg, m.keys.Contacts):
		m.currentView = ViewContacts
		return m, m.book.Init()

	case key.Matches(msg, m.keys.Compose):
		return m, m.startCompose("")

	case key.Matches(msg, m.keys.Reply):
		return m, m.startReply()

	case key.Matches(msg, m.keys.Archive):
		m.archive()
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.notice = ""
		if m.focus == ui.PaneReader {
			m.focus = ui.PaneList
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case ui.PaneFolders:
		m.folderPane, cmd = m.folderPane.Update(msg)
	case ui.PaneList:
		m.mailList, cmd = m.mailList.Update(msg)
	case ui.PaneReader:
		m.reader, cmd = m.reader.Update(msg)
	}
	return m, cmd
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewMain:
		switch m.focus {
		case ui.PaneList:
			m.mailList, cmd = m.mailList.Update(msg)
		case ui.PaneReader:
			m.reader, cmd = m.reader.Update(msg)
		}
	case ViewCompose:
		m.composer, cmd = m.composer.Update(msg)
	case ViewContacts:
		m.book, cmd = m.book.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

func (m *Model) resize(width, height int) {
	m.layout = ui.NewLayout(width, height)
	m.ready = true

	m.folderPane.SetSize(m.layout.FolderPane())
	m.mailList.SetSize(m.layout.ListPane())
	m.reader.SetSize(m.layout.ReaderPane())

	contentWidth := m.layout.ContentWidth()
	contentHeight := m.layout.ContentHeight()
	m.composer.SetSize(contentWidth, contentHeight)
	m.book.SetSize(contentWidth, contentHeight)
	m.helpView.SetSize(contentWidth, contentHeight)
	m.commandView.SetSize(contentWidth, contentHeight)
}

func (m *Model) quit() tea.Cmd {
	m.loader.Stop()
	return tea.Quit
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.headerTitle(), m.loadStatus())
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.notice)

	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewCompose:
		return m.composer.View()
	case ViewContacts:
		return m.book.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return m.layout.RenderPanes(
			m.folderPane.View(),
			m.mailList.View(),
			m.reader.View(),
			m.focus,
		)
	}
}

func (m Model) headerTitle() string {
	unread := m.view.UnreadCount()
	if unread > 0 {
		return fmt.Sprintf("noxmail · %s [%d unread]", m.folder, unread)
	}
	return "noxmail · " + m.folder
}

// loadStatus returns a short string describing the folder load.
func (m Model) loadStatus() string {
	st := m.loader.Status()
	switch st.State {
	case appsync.SyncRunning:
		return "loading " + st.Folder + "..."
	case appsync.SyncError:
		return "⚠ load failed"
	}
	if st.LastLoad.IsZero() {
		return "idle"
	}
	return fmt.Sprintf("%d messages · %s", m.view.Len(), st.LastLoad.Format("15:04"))
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewCompose:
		return "enter next | esc cancel"
	case ViewContacts:
		return "enter compose | e rename | v verify | p key | d hide | esc back"
	}
	if m.mailList.Searching() {
		return "enter keep search | esc clear"
	}
	return "q quit | ? help | tab pane | / search | c compose | r reply | a archive | b contacts | : command"
}
