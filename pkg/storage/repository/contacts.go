package repository

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no contact matches the lookup.
	ErrNotFound = errors.New("contact not found")

	// ErrConstraint is returned when an insert would break the unique email or phone constraint.
	ErrConstraint = errors.New("contact violates unique constraint")
)

// Contact is a single stored contact record.
type Contact struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ContactsRepository defines the interface for contact persistence.
// Implementations enforce uniqueness of email and phone at the store level.
type ContactsRepository interface {
	// Insert stores a new contact and returns it with its assigned ID.
	// Returns ErrConstraint if the email or phone is already taken.
	Insert(ctx context.Context, name, email, phone string) (*Contact, error)

	// GetByID returns the contact with the given ID or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*Contact, error)

	// FindByEmailOrPhone returns any contact sharing the email or the phone, or ErrNotFound.
	FindByEmailOrPhone(ctx context.Context, email, phone string) (*Contact, error)

	// List returns up to limit contacts ordered by ascending ID, skipping offset rows.
	List(ctx context.Context, offset, limit int) ([]Contact, error)

	// Count returns the total number of stored contacts.
	Count(ctx context.Context) (int, error)

	// DeleteByID removes one contact. It reports whether a row was removed.
	DeleteByID(ctx context.Context, id int64) (bool, error)

	// DeleteAll removes every contact. The ID sequence is not reset.
	DeleteAll(ctx context.Context) error
}
