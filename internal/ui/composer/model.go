// Package composer is the form for writing a new message or a reply.
package composer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/noxmail/internal/message"
	"github.com/nhle/noxmail/internal/model"
	"github.com/nhle/noxmail/internal/theme"
)

// DraftSubmittedMsg carries a completed draft.
type DraftSubmittedMsg struct {
	Draft model.Draft
}

// ComposeCancelMsg is dispatched when the user abandons the form.
type ComposeCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	to      string
	subject string
	body    string
}

// Model is the Bubble Tea model for the composer.
type Model struct {
	form        *huh.Form
	fb          *formBindings
	reply       bool
	suggestions []string
	width       int
	height      int
}

// New creates a new composer model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// SetContacts sets the recipients offered as completions for To.
func (m *Model) SetContacts(contacts []model.Contact) {
	m.suggestions = make([]string, 0, len(contacts))
	for _, c := range contacts {
		m.suggestions = append(m.suggestions, c.Recipient())
	}
}

// StartNew initializes the form for a new message to the given recipient,
// which may be empty.
func (m *Model) StartNew(to string) tea.Cmd {
	m.reply = false
	m.fb.to = to
	m.fb.subject = ""
	m.fb.body = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// StartReply initializes the form for a reply to rec.
func (m *Model) StartReply(rec model.MessageRecord) tea.Cmd {
	m.reply = true
	m.fb.to = ""
	if rec.Sender != model.UnknownSender {
		m.fb.to = strings.TrimSpace(rec.Sender)
	}
	m.fb.subject = message.ReplySubject(rec.Subject)
	m.fb.body = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the composer.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return ComposeCancelMsg{} }
	}

	return m, cmd
}

// View renders the composer.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Message"
	if m.reply {
		titleText = "Reply"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("To").
				Placeholder("name <address>").
				Suggestions(m.suggestions).
				Value(&m.fb.to).
				Validate(validateRecipient),
			huh.NewInput().
				Title("Subject").
				Value(&m.fb.subject),
			huh.NewText().
				Title("Body").
				Lines(10).
				Value(&m.fb.body),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	d := Draft(m.fb.to, m.fb.subject, m.fb.body)
	return func() tea.Msg { return DraftSubmittedMsg{Draft: d} }
}

// Draft builds the draft the form would submit.
func Draft(to, subject, body string) model.Draft {
	return model.Draft{
		To:      strings.TrimSpace(to),
		Subject: strings.TrimSpace(subject),
		Body:    body,
	}
}

// Fields returns the current To and Subject values.
func (m Model) Fields() (to, subject string) {
	return m.fb.to, m.fb.subject
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

func validateRecipient(s string) error {
	_, addr := message.ParseFrom(s)
	if addr == "" {
		return fmt.Errorf("recipient is required")
	}
	if !strings.Contains(addr, "@") {
		return fmt.Errorf("%q is not an address", addr)
	}
	return nil
}
