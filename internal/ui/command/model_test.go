package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/noxmail/internal/collection"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"q", Command{Verb: VerbQuit}},
		{"  refresh ", Command{Verb: VerbRefresh}},
		{"compose amy@example.com", Command{Verb: VerbCompose, Arg: "amy@example.com"}},
		{"folder Archive", Command{Verb: VerbFolder, Arg: "Archive"}},
		{"cd Lists/Go Nuts", Command{Verb: VerbFolder, Arg: "Lists/Go Nuts"}},
		{"sort date", Command{Verb: VerbSort, Column: collection.ColumnDate, Descending: true}},
		{"sort from", Command{Verb: VerbSort, Column: collection.ColumnSender}},
		{"SORT subject desc", Command{Verb: VerbSort, Column: collection.ColumnSubject, Descending: true}},
		{"sort date asc", Command{Verb: VerbSort, Column: collection.ColumnDate}},
		{"search invoice 2024", Command{Verb: VerbSearch, Arg: "invoice 2024"}},
		{"archive", Command{Verb: VerbArchive}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, line := range []string{"", "frobnicate", "folder", "sort", "sort size", "sort date sideways"} {
		_, err := Parse(line)
		assert.Error(t, err, line)
	}
}

func TestEnterEmitsParsedCommand(t *testing.T) {
	m := New(60, 10)
	for _, r := range "folder Archive" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, CommandMsg{Command: Command{Verb: VerbFolder, Arg: "Archive"}}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestEnterReportsUnknownCommand(t *testing.T) {
	m := New(60, 10)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("nope")})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	msg, ok := cmd().(CommandErrorMsg)
	require.True(t, ok)
	assert.ErrorContains(t, msg.Err, "unknown command")
}
