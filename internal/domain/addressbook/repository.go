package addressbook

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists AddressBook aggregates together with their customers
type Repository interface {
	// FindByID loads a book with its customers, or returns shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*AddressBook, error)
	// FindAll loads every book with its customers
	FindAll(ctx context.Context) ([]AddressBook, error)
	// Save inserts or updates the book. New entities get IDs assigned, and
	// customers no longer in the book are deleted in the same transaction.
	Save(ctx context.Context, book *AddressBook) error
	// DeleteAll removes every book and customer
	DeleteAll(ctx context.Context) error
}
