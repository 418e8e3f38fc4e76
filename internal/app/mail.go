package app

import (
	"errors"
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/noxmail/internal/collection"
	"github.com/nhle/noxmail/internal/mailstore"
	appsync "github.com/nhle/noxmail/internal/sync"
	"github.com/nhle/noxmail/internal/ui"
	"github.com/nhle/noxmail/internal/ui/addressbook"
	"github.com/nhle/noxmail/internal/ui/command"
	"github.com/nhle/noxmail/internal/ui/composer"
)

func (m Model) folderPath(name string) string {
	return mailstore.FolderPath(m.cfg.Root, name)
}

// openFolder starts loading name. Switching to another folder empties the
// view until the load delivers; reloading the open folder keeps it.
func (m *Model) openFolder(name string) tea.Cmd {
	if name != m.folder {
		m.folder = name
		m.view.SetAuthoritative(nil)
		m.reader.Clear()
		m.refreshList()
	}
	h := m.loader.Start(m.folderPath(name))
	m.pending = &h
	m.mailList.SetLoading(m.view.Len() == 0)
	return m.ensureTicking()
}

func (m *Model) ensureTicking() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return appsync.Tick(m.cfg.PollInterval)
}

// pollLoad checks the pending load and keeps ticking while it runs.
func (m *Model) pollLoad() tea.Cmd {
	if m.pending == nil {
		return nil
	}

	res := m.loader.Poll(*m.pending)
	switch res.State {
	case appsync.LoadPending:
		return m.ensureTicking()

	case appsync.LoadReady:
		m.pending = nil
		m.view.SetAuthoritative(res.Records)
		m.reader.Clear()
		m.refreshList()
		if len(res.Contacts) > 0 {
			return addressbook.Load(m.contacts)
		}

	case appsync.LoadFailed:
		m.pending = nil
		m.mailList.SetLoading(false)
		m.notice = res.Err.Error()
		m.logger.Warn("folder load failed", "folder", m.folder, "error", res.Err)

	case appsync.LoadStale:
		m.pending = nil
	}
	return nil
}

// refreshList pushes the projection into the list and folder panes.
func (m *Model) refreshList() {
	m.mailList.SetRecords(m.view.Display())
	col, desc := m.view.Sort()
	m.mailList.SetSort(col, desc)
	if m.view.HasSelection() {
		m.mailList.SetCursor(m.view.Selected())
	}
	m.folderPane.SetOpen(m.folder, m.view.UnreadCount())
}

// selectMessage opens the message at display index in the reader.
func (m *Model) selectMessage(index int) {
	sel, err := m.view.Select(index)
	if err != nil {
		m.notice = err.Error()
		return
	}
	if sel.Warning != nil {
		m.notice = sel.Warning.Error()
		m.logger.Warn("selecting message", "path", sel.Record.StoragePath, "error", sel.Warning)
	} else {
		m.notice = ""
	}
	m.reader.SetMessage(sel, m.cfg.Now())
	m.refreshList()
}

// archive moves the selected message, or the one under the cursor, into
// the archive folder and shows whatever the selection moved to.
func (m *Model) archive() {
	if m.view.Len() == 0 {
		return
	}
	index := m.mailList.Cursor()
	if m.focus == ui.PaneReader && m.view.HasSelection() {
		index = m.view.Selected()
	}

	archivePath := m.folderPath(m.cfg.ArchiveFolder)
	if err := m.view.Archive(index, archivePath); err != nil {
		m.notice = fmt.Sprintf("Archive failed: %v", err)
		if errors.Is(err, mailstore.ErrDestinationExists) {
			m.notice = "Archive failed: a message with the same name is already archived"
		}
		m.logger.Warn("archiving message", "error", err)
		return
	}
	m.logger.Info("message archived", "folder", m.folder)

	m.refreshList()
	if m.view.HasSelection() {
		m.selectMessage(m.view.Selected())
		return
	}
	m.reader.Clear()
	m.mailList.SetCursor(min(index, m.view.Len()-1))
}

func (m *Model) startCompose(to string) tea.Cmd {
	m.currentView = ViewCompose
	return m.composer.StartNew(to)
}

// startReply opens the composer for the selected message when its reply
// cooldown has passed.
func (m *Model) startReply() tea.Cmd {
	if !m.view.HasSelection() {
		m.notice = "Select a message to reply to"
		return nil
	}
	rec, ok := m.view.At(m.view.Selected())
	if !ok {
		return nil
	}
	if allowed, hours := collection.ReplyEligibility(rec, m.cfg.Now()); !allowed {
		m.notice = fmt.Sprintf("Reply available in %dh", hours)
		return nil
	}
	m.currentView = ViewCompose
	return m.composer.StartReply(rec)
}

// saveDraft delivers the draft into the outbox folder.
func (m *Model) saveDraft(msg composer.DraftSubmittedMsg) tea.Cmd {
	path, err := mailstore.WriteDraft(m.folderPath(m.cfg.OutboxFolder), msg.Draft, m.cfg.Now())
	if err != nil {
		m.notice = fmt.Sprintf("Saving draft failed: %v", err)
		m.logger.Warn("saving draft", "error", err)
		return nil
	}
	m.notice = "Draft saved to " + m.cfg.OutboxFolder
	m.logger.Info("draft saved", "path", path)
	if m.folder == m.cfg.OutboxFolder {
		return m.openFolder(m.folder)
	}
	return nil
}

// executeCommand runs a parsed command from the command palette.
func (m *Model) executeCommand(c command.Command) tea.Cmd {
	switch c.Verb {
	case command.VerbQuit:
		return m.quit()
	case command.VerbRefresh:
		return m.openFolder(m.folder)
	case command.VerbCompose:
		return m.startCompose(c.Arg)
	case command.VerbContacts:
		m.currentView = ViewContacts
		return m.book.Init()
	case command.VerbFolder:
		if !slices.Contains(m.folderPane.Names(), c.Arg) {
			m.notice = fmt.Sprintf("Unknown folder %q", c.Arg)
			return nil
		}
		return m.openFolder(c.Arg)
	case command.VerbSort:
		m.view.SetSort(c.Column, c.Descending)
		m.refreshList()
	case command.VerbSearch:
		m.mailList.SetQuery(c.Arg)
		m.view.SetSearchQuery(c.Arg)
		m.refreshList()
	case command.VerbArchive:
		m.archive()
	}
	return nil
}
