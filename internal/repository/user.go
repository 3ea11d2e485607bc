package repository

import (
	"context"
	"errors"

	"foodshare/internal/model"
)

// ErrDuplicateEmail is returned by UserRepository.Create when the email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines data access for user accounts.
type UserRepository interface {
	// Create inserts a user and returns the stored record.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByID returns a user by ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail returns a user by lower-cased email, or sql.ErrNoRows.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
