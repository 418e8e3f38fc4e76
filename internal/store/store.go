package store

import (
	"context"
	"errors"

	"github.com/nhle/noxmail/internal/model"
)

// ErrContactNotFound is returned when no contact has the given address.
var ErrContactNotFound = errors.New("contact not found")

// ContactStore defines the persistence interface for the address book.
type ContactStore interface {
	// UpsertContacts records senders keyed by address. New addresses are
	// inserted; a known address takes the incoming name when that name is
	// non-empty and the contact was not renamed by hand.
	UpsertContacts(ctx context.Context, contacts map[string]string) error

	// ListVisibleContacts returns every contact that is not hidden,
	// ordered by name then address.
	ListVisibleContacts(ctx context.Context) ([]model.Contact, error)
	GetContact(ctx context.Context, email string) (*model.Contact, error)

	HideContact(ctx context.Context, email string) error
	VerifyContact(ctx context.Context, email string) error
	RenameContact(ctx context.Context, email, name string) error
	SetPublicKey(ctx context.Context, email, key string) error
}
