package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/noxmail/internal/model"
)

const contactColumns = `id, name, email, verified, public_key, hidden, name_locked, created_at, updated_at`

// UpsertContacts inserts or refreshes a batch of senders in one
// transaction. Hidden contacts stay hidden.
func (s *SQLiteStore) UpsertContacts(ctx context.Context, contacts map[string]string) error {
	if len(contacts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO contacts (id, name, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			name = excluded.name,
			updated_at = excluded.updated_at
		WHERE excluded.name <> ''
			AND contacts.name_locked = 0
			AND contacts.name <> excluded.name`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for email, name := range contacts {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		_, err := stmt.ExecContext(ctx,
			uuid.New().String(), strings.TrimSpace(name), email, now, now,
		)
		if err != nil {
			return fmt.Errorf("upserting contact %s: %w", email, err)
		}
	}

	return tx.Commit()
}

// ListVisibleContacts retrieves contacts that are not hidden.
func (s *SQLiteStore) ListVisibleContacts(ctx context.Context) ([]model.Contact, error) {
	var contacts []model.Contact
	err := s.db.SelectContext(ctx, &contacts,
		"SELECT "+contactColumns+" FROM contacts WHERE hidden = 0 ORDER BY name COLLATE NOCASE, email COLLATE NOCASE")
	if err != nil {
		return nil, fmt.Errorf("querying contacts: %w", err)
	}
	return contacts, nil
}

// GetContact retrieves a single contact by address, hidden or not.
func (s *SQLiteStore) GetContact(ctx context.Context, email string) (*model.Contact, error) {
	var c model.Contact
	err := s.db.GetContext(ctx, &c,
		"SELECT "+contactColumns+" FROM contacts WHERE email = ?", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting contact %s: %w", email, ErrContactNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting contact %s: %w", email, err)
	}
	return &c, nil
}

// HideContact removes a contact from the visible list.
func (s *SQLiteStore) HideContact(ctx context.Context, email string) error {
	return s.updateContact(ctx, email, "hiding", "hidden = 1")
}

// VerifyContact marks a contact as verified.
func (s *SQLiteStore) VerifyContact(ctx context.Context, email string) error {
	return s.updateContact(ctx, email, "verifying", "verified = 1")
}

// RenameContact sets the display name by hand. Later scans no longer
// overwrite it.
func (s *SQLiteStore) RenameContact(ctx context.Context, email, name string) error {
	return s.updateContact(ctx, email, "renaming", "name = ?, name_locked = 1", strings.TrimSpace(name))
}

// SetPublicKey stores the contact's public key. An empty key clears it.
func (s *SQLiteStore) SetPublicKey(ctx context.Context, email, key string) error {
	return s.updateContact(ctx, email, "setting key of", "public_key = ?", strings.TrimSpace(key))
}

// updateContact applies set to the contact with address email.
func (s *SQLiteStore) updateContact(ctx context.Context, email, verb, set string, args ...any) error {
	args = append(args, time.Now().UTC(), email)
	result, err := s.db.ExecContext(ctx,
		"UPDATE contacts SET "+set+", updated_at = ? WHERE email = ?", args...)
	if err != nil {
		return fmt.Errorf("%s contact %s: %w", verb, email, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%s contact %s: %w", verb, email, ErrContactNotFound)
	}
	return nil
}
