// Package addressbook lists harvested contacts and edits them.
package addressbook

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/nhle/noxmail/internal/keys"
	"github.com/nhle/noxmail/internal/model"
	"github.com/nhle/noxmail/internal/store"
	"github.com/nhle/noxmail/internal/theme"
)

// CloseMsg signals the parent to close the address book.
type CloseMsg struct{}

// ComposeToMsg asks the parent to start a message to a contact.
type ComposeToMsg struct {
	To string
}

// ContactsLoadedMsg carries the visible contacts.
type ContactsLoadedMsg struct {
	Contacts []model.Contact
	Err      error
}

type bookMode int

const (
	modeList bookMode = iota
	modeRename
	modeKey
	modeConfirmHide
)

type formBindings struct {
	name    string
	key     string
	confirm bool
}

type contactSavedMsg struct {
	status string
	err    error
}

// Model is the Bubble Tea model for the address book.
type Model struct {
	mode        bookMode
	store       store.ContactStore
	keys        *keys.KeyMap
	contacts    []model.Contact
	selectedIdx int
	form        *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates an address book. s may be nil when the store is unavailable.
func New(s store.ContactStore, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:   modeList,
		store:  s,
		keys:   k,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Init loads contacts from the store.
func (m Model) Init() tea.Cmd {
	return Load(m.store)
}

// Load returns a command that reads the visible contacts of s.
func Load(s store.ContactStore) tea.Cmd {
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		contacts, err := s.ListVisibleContacts(context.Background())
		return ContactsLoadedMsg{Contacts: contacts, Err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ContactsLoadedMsg:
		if msg.Err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
			return m, nil
		}
		m.contacts = msg.Contacts
		if m.selectedIdx >= len(m.contacts) {
			m.selectedIdx = max(len(m.contacts)-1, 0)
		}
		return m, nil

	case contactSavedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = msg.status
		}
		m.mode = modeList
		return m, Load(m.store)

	case tea.KeyMsg:
		if m.mode == modeList {
			return m.handleListKey(msg)
		}
	}

	return m.updateForm(msg)
}

func (m Model) selected() (model.Contact, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.contacts) {
		return model.Contact{}, false
	}
	return m.contacts[m.selectedIdx], true
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.contacts) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.contacts)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.contacts) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.contacts) - 1
			}
		}
		return m, nil
	}

	c, ok := m.selected()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Select), key.Matches(msg, m.keys.Compose):
		to := c.Recipient()
		return m, func() tea.Msg { return ComposeToMsg{To: to} }

	case key.Matches(msg, m.keys.Verify):
		return m, m.save("Contact verified", func(ctx context.Context, s store.ContactStore) error {
			return s.VerifyContact(ctx, c.Email)
		})

	case key.Matches(msg, m.keys.Rename):
		m.fb.name = c.Name
		m.form = m.buildRenameForm(c)
		m.mode = modeRename
		return m, m.form.Init()

	case key.Matches(msg, m.keys.SetKey):
		m.fb.key = c.PublicKey
		m.form = m.buildKeyForm(c)
		m.mode = modeKey
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Hide):
		m.fb.confirm = false
		m.form = m.buildConfirmForm(c)
		m.mode = modeConfirmHide
		return m, m.form.Init()
	}
	return m, nil
}

func (m Model) buildRenameForm(c model.Contact) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Description(c.Email).
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildKeyForm(c model.Contact) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Public key").
				Description(c.Email).
				Placeholder("-----BEGIN PGP PUBLIC KEY BLOCK-----").
				Value(&m.fb.key),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildConfirmForm(c model.Contact) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Hide %s?", c.DisplayName())).
				Description("Hidden contacts stay hidden when mail from them is scanned again.").
				Affirmative("Yes, hide").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.mode == modeList {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.mode = modeList
		return m, nil
	case huh.StateCompleted:
		return m.submit()
	}
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	c, ok := m.selected()
	if !ok {
		m.mode = modeList
		return m, nil
	}

	switch m.mode {
	case modeRename:
		name := strings.TrimSpace(m.fb.name)
		return m, m.save("Contact renamed", func(ctx context.Context, s store.ContactStore) error {
			return s.RenameContact(ctx, c.Email, name)
		})
	case modeKey:
		pub := strings.TrimSpace(m.fb.key)
		return m, m.save("Public key saved", func(ctx context.Context, s store.ContactStore) error {
			return s.SetPublicKey(ctx, c.Email, pub)
		})
	case modeConfirmHide:
		if !m.fb.confirm {
			m.mode = modeList
			return m, nil
		}
		return m, m.save("Contact hidden", func(ctx context.Context, s store.ContactStore) error {
			return s.HideContact(ctx, c.Email)
		})
	}
	m.mode = modeList
	return m, nil
}

func (m Model) save(status string, fn func(context.Context, store.ContactStore) error) tea.Cmd {
	s := m.store
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		return contactSavedMsg{status: status, err: fn(context.Background(), s)}
	}
}

// View renders the address book.
func (m Model) View() string {
	if m.mode != modeList && m.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	}
	return m.viewList()
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Contacts"))
	b.WriteString("\n\n")

	emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
	switch {
	case m.store == nil:
		b.WriteString(emptyStyle.Render("Contact store unavailable."))
	case len(m.contacts) == 0:
		b.WriteString(emptyStyle.Render("No contacts yet. Senders are added as folders load."))
	default:
		nameWidth := max(min(m.width/3, 32), 10)
		for i, c := range m.contacts {
			mark := " "
			if c.Verified {
				mark = theme.VerifiedStyle.Render("✓")
			}
			keyMark := " "
			if c.HasKey() {
				keyMark = "🔑"
			}
			name := ansi.Truncate(c.Name, nameWidth, "…")
			label := fmt.Sprintf("%s %s %-*s %s", mark, keyMark, nameWidth, name, c.Email)

			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.WarningStyle.Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.DimmedStyle.Render(
		"enter/c compose | e rename | v verify | p key | d hide | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

// Contacts returns the loaded contacts.
func (m Model) Contacts() []model.Contact { return m.contacts }

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}
