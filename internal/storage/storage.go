package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/coffee-shop/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrCapacity indicates the store cannot hold another user.
var ErrCapacity = errors.New("user count exceeds maximum limit")

// ErrInvalidUser indicates a user cannot be represented in the backing store.
var ErrInvalidUser = errors.New("invalid user record")

// WriteError reports that the backing store could not be rewritten. The
// operation that triggered the write is reported as failed.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write user store %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// UserStore captures persistence operations needed by the auth service and
// its callers.
type UserStore interface {
	// FindByID returns a copy of the user, or ErrNotFound.
	FindByID(ctx context.Context, id int64) (models.User, error)
	// Save replaces the user with the same id or appends it, then persists
	// the whole collection.
	Save(ctx context.Context, user models.User) error
	// LoadAll reloads the collection from the backing store, keeping at most
	// capacity records, and returns how many were read.
	LoadAll(ctx context.Context, capacity int) (int, error)
	// Users returns a snapshot of the collection in insertion order.
	Users(ctx context.Context) ([]models.User, error)
}
