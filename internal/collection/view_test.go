package collection_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/noxmail/internal/collection"
	"github.com/nhle/noxmail/internal/mailstore"
	"github.com/nhle/noxmail/internal/model"
	"github.com/nhle/noxmail/tests/testutil"
)

func timestamps(records []model.MessageRecord) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.Timestamp
	}
	return out
}

func paths(records []model.MessageRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.StoragePath
	}
	return out
}

func TestSortByDate(t *testing.T) {
	v := collection.New()
	v.SetAuthoritative([]model.MessageRecord{
		{StoragePath: "a", Timestamp: 100},
		{StoragePath: "b", Timestamp: 300},
		{StoragePath: "c", Timestamp: 200},
	})

	assert.Equal(t, []int64{300, 200, 100}, timestamps(v.Display()))

	v.SetSort(collection.ColumnDate, false)
	assert.Equal(t, []int64{100, 200, 300}, timestamps(v.Display()))

	// The authoritative set keeps scan order.
	assert.Equal(t, []int64{100, 300, 200}, timestamps(v.Authoritative()))
}

func TestSortTiesKeepScanOrder(t *testing.T) {
	v := collection.New()
	v.SetAuthoritative([]model.MessageRecord{
		{StoragePath: "a", Timestamp: 5, Sender: "bob"},
		{StoragePath: "b", Timestamp: 5, Sender: "Bob"},
		{StoragePath: "c", Timestamp: 1, Sender: "BOB"},
	})

	assert.Equal(t, []string{"a", "b", "c"}, paths(v.Display()))

	v.SetSort(collection.ColumnSender, false)
	assert.Equal(t, []string{"a", "b", "c"}, paths(v.Display()))

	v.SetSort(collection.ColumnSender, true)
	assert.Equal(t, []string{"a", "b", "c"}, paths(v.Display()))
}

func TestSortBySubjectIgnoresCase(t *testing.T) {
	v := collection.New()
	v.SetAuthoritative([]model.MessageRecord{
		{StoragePath: "a", Subject: "banana"},
		{StoragePath: "b", Subject: "Apple"},
		{StoragePath: "c", Subject: "cherry"},
	})

	v.SetSort(collection.ColumnSubject, false)
	assert.Equal(t, []string{"b", "a", "c"}, paths(v.Display()))
}

func TestClickColumn(t *testing.T) {
	v := collection.New()

	col, desc := v.Sort()
	assert.Equal(t, collection.ColumnDate, col)
	assert.True(t, desc)

	v.ClickColumn(collection.ColumnDate)
	col, desc = v.Sort()
	assert.Equal(t, collection.ColumnDate, col)
	assert.False(t, desc)

	v.ClickColumn(collection.ColumnSender)
	col, desc = v.Sort()
	assert.Equal(t, collection.ColumnSender, col)
	assert.False(t, desc)

	v.ClickColumn(collection.ColumnSender)
	_, desc = v.Sort()
	assert.True(t, desc)

	// Date comes back with the direction it had.
	v.ClickColumn(collection.ColumnDate)
	col, desc = v.Sort()
	assert.Equal(t, collection.ColumnDate, col)
	assert.False(t, desc)
}

func TestSearchNarrowsWithoutReordering(t *testing.T) {
	v := collection.New()
	v.SetAuthoritative([]model.MessageRecord{
		{StoragePath: "a", Timestamp: 1, Sender: "Alice <alice@example.com>", Subject: "lunch"},
		{StoragePath: "b", Timestamp: 2, Sender: "Bob <bob@example.com>", Subject: "Report for ALICE"},
		{StoragePath: "c", Timestamp: 3, Sender: "Carol <carol@example.com>", Subject: "misc", DateFull: "Tue, 03 Jan 2006"},
	})

	v.SetSearchQuery("alice")
	assert.Equal(t, []string{"b", "a"}, paths(v.Display()))
	assert.Equal(t, "alice", v.Query())

	v.SetSearchQuery("jan 2006")
	assert.Equal(t, []string{"c"}, paths(v.Display()))

	v.SetSearchQuery("nothing matches")
	assert.Zero(t, v.Len())

	v.SetSearchQuery("")
	assert.Equal(t, []string{"c", "b", "a"}, paths(v.Display()))
}

func TestSearchFoldsUnicodeCase(t *testing.T) {
	v := collection.New()
	v.SetAuthoritative([]model.MessageRecord{{StoragePath: "a", Subject: "ÄPFEL und Birnen"}})

	v.SetSearchQuery("äpfel")
	assert.Equal(t, 1, v.Len())
}

func TestReplyEligibility(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	at := func(age int64) model.MessageRecord { return model.MessageRecord{Timestamp: now.Unix() - age} }

	tests := []struct {
		name    string
		age     int64
		allowed bool
		hours   int
	}{
		{"just arrived", 0, false, 24},
		{"under an hour", 3599, false, 24},
		{"23 hours", 23 * 3600, false, 1},
		{"almost a day", 86399, false, 1},
		{"exactly a day", 86400, true, 0},
		{"old", 10 * 86400, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, hours := collection.ReplyEligibility(at(tt.age), now)
			assert.Equal(t, tt.allowed, allowed)
			assert.Equal(t, tt.hours, hours)
		})
	}
}

func TestSelectMarksRead(t *testing.T) {
	folder := testutil.NewMaildir(t, t.TempDir(), "INBOX")
	path := testutil.WriteMessage(t, folder, "new", "171234.eml", testutil.RawMessage("a@b.c", "hi", "Mon, 02 Jan 2006 15:04:05 +0000", "hello body"))

	res, err := mailstore.NewScanner(nil).Scan(t.Context(), folder)
	require.NoError(t, err)

	v := collection.New()
	v.SetAuthoritative(res.Records)
	require.Equal(t, 1, v.UnreadCount())

	sel, err := v.Select(0)
	require.NoError(t, err)

	want := filepath.Join(folder, "cur", "171234.eml:2,S")
	assert.NoError(t, sel.Warning)
	assert.Equal(t, want, sel.Record.StoragePath)
	assert.True(t, sel.Record.IsRead)
	assert.Equal(t, "hello body", sel.Body)
	assert.Equal(t, want, v.Authoritative()[0].StoragePath)
	assert.Zero(t, v.UnreadCount())
	assert.Equal(t, 0, v.Selected())
	assert.NoFileExists(t, path)

	// Selecting again changes nothing on disk.
	sel, err = v.Select(0)
	require.NoError(t, err)
	assert.Equal(t, want, sel.Record.StoragePath)
	assert.FileExists(t, want)
}

func TestSelectInvalidIndex(t *testing.T) {
	v := collection.New()
	v.SetAuthoritative([]model.MessageRecord{{StoragePath: "a"}})

	_, err := v.Select(1)
	assert.ErrorIs(t, err, collection.ErrInvalidIndex)
	_, err = v.Select(-1)
	assert.ErrorIs(t, err, collection.ErrInvalidIndex)
	assert.False(t, v.HasSelection())
}

func TestSelectKeepsUnreadWhenRenameFails(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "new", "gone")
	v := collection.New()
	v.SetAuthoritative([]model.MessageRecord{{StoragePath: missing}})

	sel, err := v.Select(0)

	require.NoError(t, err)
	assert.Error(t, sel.Warning)
	assert.False(t, sel.Record.IsRead)
	assert.Equal(t, missing, v.Authoritative()[0].StoragePath)
	assert.Equal(t, 1, v.UnreadCount())
}

func TestSearchKeepsVisibleSelection(t *testing.T) {
	folder := testutil.NewMaildir(t, t.TempDir(), "INBOX")
	testutil.WriteMessage(t, folder, "cur", "1:2,S", testutil.RawMessage("a@b.c", "keep", "Mon, 02 Jan 2006 15:04:05 +0000", ""))
	testutil.WriteMessage(t, folder, "cur", "2:2,S", testutil.RawMessage("a@b.c", "other", "Tue, 03 Jan 2006 15:04:05 +0000", ""))
	res, err := mailstore.NewScanner(nil).Scan(t.Context(), folder)
	require.NoError(t, err)

	v := collection.New()
	v.SetAuthoritative(res.Records)
	_, err = v.Select(1)
	require.NoError(t, err)

	v.SetSearchQuery("keep")
	assert.Equal(t, 0, v.Selected())

	v.SetSearchQuery("other")
	assert.False(t, v.HasSelection())
}

func archiveFixture(t *testing.T, n int) (*collection.View, string) {
	t.Helper()
	root := t.TempDir()
	inbox := testutil.NewMaildir(t, root, "INBOX")
	archive := testutil.NewMaildir(t, root, "Archive")

	records := make([]model.MessageRecord, n)
	for i := range records {
		name := string(rune('a'+i)) + ":2,S"
		records[i] = model.MessageRecord{
			StoragePath: testutil.WriteMessage(t, inbox, "cur", name, "Subject: x\r\n\r\n"),
			Timestamp:   int64(i),
			IsRead:      true,
		}
	}

	v := collection.New()
	v.SetAuthoritative(records)
	v.SetSort(collection.ColumnDate, false)
	return v, archive
}

func TestArchiveSelectsNextRecord(t *testing.T) {
	v, archive := archiveFixture(t, 3)
	_, err := v.Select(1)
	require.NoError(t, err)
	next, _ := v.At(2)

	require.NoError(t, v.Archive(1, archive))

	assert.Equal(t, 2, v.Len())
	assert.Len(t, v.Authoritative(), 2)
	assert.Equal(t, 1, v.Selected())
	got, _ := v.At(1)
	assert.Equal(t, next.StoragePath, got.StoragePath)
	assert.FileExists(t, filepath.Join(archive, "cur", "b:2,S"))
}

func TestArchiveLastSelectsPrevious(t *testing.T) {
	v, archive := archiveFixture(t, 3)
	_, err := v.Select(2)
	require.NoError(t, err)

	require.NoError(t, v.Archive(2, archive))

	assert.Equal(t, 2, v.Len())
	assert.Equal(t, 1, v.Selected())
}

func TestArchiveOnlyRecordClearsSelection(t *testing.T) {
	v, archive := archiveFixture(t, 1)
	_, err := v.Select(0)
	require.NoError(t, err)

	require.NoError(t, v.Archive(0, archive))

	assert.Zero(t, v.Len())
	assert.False(t, v.HasSelection())
}

func TestArchiveKeepsOtherSelection(t *testing.T) {
	v, archive := archiveFixture(t, 3)
	_, err := v.Select(2)
	require.NoError(t, err)
	selected, _ := v.At(2)

	require.NoError(t, v.Archive(0, archive))

	assert.Equal(t, 1, v.Selected())
	got, _ := v.At(1)
	assert.Equal(t, selected.StoragePath, got.StoragePath)
}

func TestArchiveFailureLeavesViewUnchanged(t *testing.T) {
	v, archive := archiveFixture(t, 2)
	first, _ := v.At(0)
	testutil.WriteMessage(t, archive, "cur", filepath.Base(first.StoragePath), "Subject: clash\r\n\r\n")

	err := v.Archive(0, archive)

	assert.ErrorIs(t, err, mailstore.ErrDestinationExists)
	assert.Equal(t, 2, v.Len())
	assert.FileExists(t, first.StoragePath)
}

func TestArchiveInsideArchiveIsNoop(t *testing.T) {
	root := t.TempDir()
	archive := testutil.NewMaildir(t, root, "Archive")
	path := testutil.WriteMessage(t, archive, "cur", "1:2,S", "Subject: x\r\n\r\n")
	v := collection.New()
	v.SetAuthoritative([]model.MessageRecord{{StoragePath: path, IsRead: true}})

	require.NoError(t, v.Archive(0, archive))

	assert.Equal(t, 1, v.Len())
	assert.FileExists(t, path)
}
