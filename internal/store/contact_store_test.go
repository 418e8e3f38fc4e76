package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/noxmail/internal/model"
	"github.com/nhle/noxmail/internal/store"
	"github.com/nhle/noxmail/tests/testutil"
)

func emails(contacts []model.Contact) []string {
	out := make([]string, len(contacts))
	for i, c := range contacts {
		out[i] = c.Email
	}
	return out
}

func TestUpsertContactsInsertsAndLists(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertContacts(ctx, map[string]string{
		"zed@example.com":    "Zed",
		"amy@example.com":    "amy",
		"noname@example.com": "",
		"bob@example.com":    "Bob",
	}))

	contacts, err := s.ListVisibleContacts(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"noname@example.com", "amy@example.com", "bob@example.com", "zed@example.com"}, emails(contacts))
	for _, c := range contacts {
		assert.NotEmpty(t, c.ID)
		assert.False(t, c.Hidden)
		assert.False(t, c.Verified)
	}
}

func TestUpsertContactsLastNonEmptyNameWins(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertContacts(ctx, map[string]string{"jane@example.com": ""}))
	require.NoError(t, s.UpsertContacts(ctx, map[string]string{"jane@example.com": "Jane"}))
	require.NoError(t, s.UpsertContacts(ctx, map[string]string{"jane@example.com": ""}))

	c, err := s.GetContact(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Jane", c.Name)

	require.NoError(t, s.UpsertContacts(ctx, map[string]string{"JANE@example.com": "Jane Doe"}))

	c, err = s.GetContact(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", c.Name)

	contacts, err := s.ListVisibleContacts(ctx)
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
}

func TestUpsertContactsIsIdempotent(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	batch := map[string]string{"a@example.com": "A", "b@example.com": "B"}

	require.NoError(t, s.UpsertContacts(ctx, batch))
	first, err := s.ListVisibleContacts(ctx)
	require.NoError(t, err)

	require.NoError(t, s.UpsertContacts(ctx, batch))
	second, err := s.ListVisibleContacts(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenameContactLocksName(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.UpsertContacts(ctx, map[string]string{"jane@example.com": "Jane"}))

	require.NoError(t, s.RenameContact(ctx, "jane@example.com", "  Aunt Jane "))
	require.NoError(t, s.UpsertContacts(ctx, map[string]string{"jane@example.com": "Jane From Header"}))

	c, err := s.GetContact(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Aunt Jane", c.Name)
	assert.True(t, c.NameLocked)
}

func TestHideContactSurvivesUpsert(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.UpsertContacts(ctx, map[string]string{"spam@example.com": "Spam", "ok@example.com": "Ok"}))

	require.NoError(t, s.HideContact(ctx, "spam@example.com"))
	require.NoError(t, s.UpsertContacts(ctx, map[string]string{"spam@example.com": "Spam Again"}))

	contacts, err := s.ListVisibleContacts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok@example.com"}, emails(contacts))

	c, err := s.GetContact(ctx, "spam@example.com")
	require.NoError(t, err)
	assert.True(t, c.Hidden)
}

func TestVerifyAndSetPublicKey(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.UpsertContacts(ctx, map[string]string{"jane@example.com": "Jane"}))

	require.NoError(t, s.VerifyContact(ctx, "jane@example.com"))
	require.NoError(t, s.SetPublicKey(ctx, "jane@example.com", "-----BEGIN PGP PUBLIC KEY BLOCK-----"))

	c, err := s.GetContact(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.True(t, c.Verified)
	assert.True(t, c.HasKey())

	require.NoError(t, s.SetPublicKey(ctx, "jane@example.com", ""))
	c, err = s.GetContact(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.False(t, c.HasKey())
}

func TestUnknownContact(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.HideContact(ctx, "nobody@example.com"), store.ErrContactNotFound)
	assert.ErrorIs(t, s.VerifyContact(ctx, "nobody@example.com"), store.ErrContactNotFound)
	assert.ErrorIs(t, s.RenameContact(ctx, "nobody@example.com", "x"), store.ErrContactNotFound)
	assert.ErrorIs(t, s.SetPublicKey(ctx, "nobody@example.com", "k"), store.ErrContactNotFound)

	_, err := s.GetContact(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrContactNotFound)
}

func TestMigrationsAreReentrant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.db")

	s, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.UpsertContacts(context.Background(), map[string]string{"a@example.com": "A"}))
	require.NoError(t, s.Close())

	s, err = store.NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	v, err := s.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	contacts, err := s.ListVisibleContacts(context.Background())
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
}
