// Package data provides the persistence gateway: DB models and stores.
package data

import (
	"context"
	"errors"
)

var (
	// ErrDuplicateEmail is returned by Create when the email is already taken.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrNotFound is returned by Save when the account no longer exists.
	ErrNotFound = errors.New("account not found")

	// ErrUnavailable marks failures caused by the database link being down.
	ErrUnavailable = errors.New("database unavailable")
)

// AccountStore is the set of account operations the services depend on.
type AccountStore interface {
	// FindByEmail returns (nil, nil) when no account has the email.
	FindByEmail(ctx context.Context, email string) (*Account, error)
	// Create inserts the account and sets its ID. Uniqueness is checked atomically.
	Create(ctx context.Context, a *Account) error
	// Save persists mutations of an existing account. lastLogin never moves
	// backwards; a.LastLogin is set to the stored value.
	Save(ctx context.Context, a *Account) error
	Count(ctx context.Context) (int64, error)
	// ListAll returns every account with the password field left empty.
	ListAll(ctx context.Context) ([]*Account, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// ContentStore reads externally-managed content records.
type ContentStore interface {
	// Latest returns the record with the greatest ID, or (nil, nil) when empty.
	Latest(ctx context.Context) (*ContentItem, error)
}
