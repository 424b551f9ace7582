// Package users persists contest user accounts.
package users

import (
	"context"

	"github.com/culbec/motocontest/internal/model"
)

type Repository interface {
	// Create inserts a new user and returns it with the store-assigned id.
	Create(ctx context.Context, user *model.User) (*model.User, error)

	// GetByUsername returns the user with the given username, including
	// the password hash, or common.ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}
