package model

import "time"

// Contact is an address book entry, usually harvested from scanned mail.
type Contact struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	Verified   bool      `json:"verified" db:"verified"`
	PublicKey  string    `json:"public_key" db:"public_key"`
	Hidden     bool      `json:"hidden" db:"hidden"`
	NameLocked bool      `json:"name_locked" db:"name_locked"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// HasKey reports whether a public key is on file for the contact.
func (c Contact) HasKey() bool {
	return c.PublicKey != ""
}

// DisplayName returns the name, or the address when no name is known.
func (c Contact) DisplayName() string {
	if c.Name == "" {
		return c.Email
	}
	return c.Name
}

// Recipient formats the contact for a To header.
func (c Contact) Recipient() string {
	if c.Name == "" {
		return c.Email
	}
	return c.Name + " <" + c.Email + ">"
}
